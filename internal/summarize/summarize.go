// Package summarize renders cluster objects into condensed human-readable
// status lines for known custom resource kinds. Extraction is defensive:
// objects with missing or malformed status blocks produce "Unknown" output
// instead of errors.
package summarize

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/clusterscope/mcp-cluster-info/internal/registry"
)

// Expiry classification buckets for cert-manager certificates.
const (
	ExpiryOK           = "OK"
	ExpiryExpiringSoon = "EXPIRING SOON"
	ExpiryExpired      = "EXPIRED"
)

// expiringSoonWindow is the remaining validity below which a certificate is
// flagged as expiring soon.
const expiringSoonWindow = 14 * 24 * time.Hour

// ArgoCD status values that count as fully reconciled.
const (
	argoSyncedStatus  = "Synced"
	argoHealthyStatus = "Healthy"
)

// Line is a single condensed status line for one cluster object.
type Line struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Text      string `json:"text"`
	Warning   bool   `json:"warning"`
}

// Object summarizes a single object according to the given summarizer kind.
// now is injected so expiry classification is deterministic in tests.
func Object(obj *unstructured.Unstructured, kind registry.SummarizerKind, now time.Time) Line {
	switch kind {
	case registry.SummarizerArgoApplication:
		return argoApplication(obj)
	case registry.SummarizerCertManagerCertificate:
		return certManagerCertificate(obj, now)
	default:
		return generic(obj)
	}
}

// List summarizes every item of an unstructured list, preserving list order.
func List(items []unstructured.Unstructured, kind registry.SummarizerKind, now time.Time) []Line {
	lines := make([]Line, 0, len(items))
	for i := range items {
		lines = append(lines, Object(&items[i], kind, now))
	}
	return lines
}

// Overview produces the aggregate header line for a summarized list, in the
// style of the per-kind rollups (totals, synced/healthy counts, expiring
// certificates).
func Overview(lines []Line, kind registry.SummarizerKind, plural string) string {
	switch kind {
	case registry.SummarizerArgoApplication:
		healthy := 0
		for _, l := range lines {
			if !l.Warning {
				healthy++
			}
		}
		return fmt.Sprintf("ArgoCD applications: %d total, %d synced and healthy, %d needing attention",
			len(lines), healthy, len(lines)-healthy)
	case registry.SummarizerCertManagerCertificate:
		attention := 0
		for _, l := range lines {
			if l.Warning {
				attention++
			}
		}
		return fmt.Sprintf("Cert-manager certificates: %d total, %d expired/expiring/unknown",
			len(lines), attention)
	default:
		return fmt.Sprintf("Retrieved %d %s objects", len(lines), plural)
	}
}

// argoApplication extracts sync and health status from an ArgoCD Application.
// Anything other than Synced/Healthy, including unknown fields, is a warning.
func argoApplication(obj *unstructured.Unstructured) Line {
	sync := stringField(obj, "status", "sync", "status")
	health := stringField(obj, "status", "health", "status")

	line := Line{
		Name:      objectName(obj),
		Namespace: objectNamespace(obj),
		Warning:   !(sync.Is(argoSyncedStatus) && health.Is(argoHealthyStatus)),
	}
	line.Text = fmt.Sprintf("Sync: %s, Health: %s", sync, health)
	return line
}

// certManagerCertificate classifies the remaining validity of a certificate
// using its status.notAfter timestamp.
func certManagerCertificate(obj *unstructured.Unstructured, now time.Time) Line {
	line := Line{
		Name:      objectName(obj),
		Namespace: objectNamespace(obj),
	}

	notAfter := stringField(obj, "status", "notAfter")
	if !notAfter.Known {
		line.Text = fmt.Sprintf("Expiry: %s", UnknownValue)
		line.Warning = true
		return line
	}

	expiry, err := time.Parse(time.RFC3339, notAfter.Value)
	if err != nil {
		// Malformed timestamps degrade to Unknown, same as missing ones.
		line.Text = fmt.Sprintf("Expiry: %s", UnknownValue)
		line.Warning = true
		return line
	}

	remaining := expiry.Sub(now)
	days := int(remaining.Hours() / 24)

	switch {
	case remaining < 0:
		line.Text = fmt.Sprintf("%s: expired %d days ago (notAfter %s)", ExpiryExpired, -days, notAfter.Value)
		line.Warning = true
	case remaining < expiringSoonWindow:
		line.Text = fmt.Sprintf("%s: expires in %d days (notAfter %s)", ExpiryExpiringSoon, days, notAfter.Value)
		line.Warning = true
	default:
		line.Text = fmt.Sprintf("%s: expires in %d days (notAfter %s)", ExpiryOK, days, notAfter.Value)
	}
	return line
}

// generic emits the object's identity and its raw status block verbatim.
func generic(obj *unstructured.Unstructured) Line {
	line := Line{
		Name:      objectName(obj),
		Namespace: objectNamespace(obj),
	}

	status, found, err := unstructured.NestedFieldNoCopy(obj.Object, "status")
	if err != nil || !found {
		line.Text = fmt.Sprintf("Status: %s", UnknownValue)
		return line
	}

	raw, err := json.Marshal(status)
	if err != nil {
		line.Text = fmt.Sprintf("Status: %s", UnknownValue)
		return line
	}
	line.Text = "Status: " + strings.TrimSpace(string(raw))
	return line
}

func objectName(obj *unstructured.Unstructured) string {
	if obj == nil || obj.GetName() == "" {
		return UnknownValue
	}
	return obj.GetName()
}

func objectNamespace(obj *unstructured.Unstructured) string {
	if obj == nil {
		return ""
	}
	return obj.GetNamespace()
}
