package summarize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	"github.com/clusterscope/mcp-cluster-info/internal/registry"
)

func newObject(name, namespace string, status map[string]interface{}) *unstructured.Unstructured {
	obj := map[string]interface{}{
		"metadata": map[string]interface{}{
			"name":      name,
			"namespace": namespace,
		},
	}
	if status != nil {
		obj["status"] = status
	}
	return &unstructured.Unstructured{Object: obj}
}

func TestArgoApplicationSyncedAndHealthy(t *testing.T) {
	obj := newObject("shop-frontend", "argocd", map[string]interface{}{
		"sync":   map[string]interface{}{"status": "Synced"},
		"health": map[string]interface{}{"status": "Healthy"},
	})

	line := Object(obj, registry.SummarizerArgoApplication, time.Now())
	assert.Equal(t, "shop-frontend", line.Name)
	assert.Equal(t, "argocd", line.Namespace)
	assert.Equal(t, "Sync: Synced, Health: Healthy", line.Text)
	assert.False(t, line.Warning)
}

func TestArgoApplicationDegradedStates(t *testing.T) {
	tests := []struct {
		name     string
		status   map[string]interface{}
		wantText string
	}{
		{
			name: "out of sync",
			status: map[string]interface{}{
				"sync":   map[string]interface{}{"status": "OutOfSync"},
				"health": map[string]interface{}{"status": "Healthy"},
			},
			wantText: "Sync: OutOfSync, Health: Healthy",
		},
		{
			name: "degraded health",
			status: map[string]interface{}{
				"sync":   map[string]interface{}{"status": "Synced"},
				"health": map[string]interface{}{"status": "Degraded"},
			},
			wantText: "Sync: Synced, Health: Degraded",
		},
		{
			name:     "missing status block entirely",
			status:   nil,
			wantText: "Sync: Unknown, Health: Unknown",
		},
		{
			name: "health status has wrong type",
			status: map[string]interface{}{
				"sync":   map[string]interface{}{"status": "Synced"},
				"health": map[string]interface{}{"status": int64(5)},
			},
			wantText: "Sync: Synced, Health: Unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := newObject("app", "argocd", tt.status)
			line := Object(obj, registry.SummarizerArgoApplication, time.Now())
			assert.Equal(t, tt.wantText, line.Text)
			assert.True(t, line.Warning)
		})
	}
}

func TestCertificateExpiryClassification(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		notAfter    time.Time
		wantBucket  string
		wantWarning bool
	}{
		{
			name:        "expired yesterday",
			notAfter:    now.Add(-24 * time.Hour),
			wantBucket:  ExpiryExpired,
			wantWarning: true,
		},
		{
			name:        "expires in five days",
			notAfter:    now.Add(5 * 24 * time.Hour),
			wantBucket:  ExpiryExpiringSoon,
			wantWarning: true,
		},
		{
			name:        "expires in ninety days",
			notAfter:    now.Add(90 * 24 * time.Hour),
			wantBucket:  ExpiryOK,
			wantWarning: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := newObject("tls-cert", "prod", map[string]interface{}{
				"notAfter": tt.notAfter.Format(time.RFC3339),
			})
			line := Object(obj, registry.SummarizerCertManagerCertificate, now)
			assert.Contains(t, line.Text, tt.wantBucket)
			assert.Equal(t, tt.wantWarning, line.Warning)
		})
	}
}

func TestCertificateExpiryBoundary(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Exactly at the 14 day window boundary counts as OK.
	obj := newObject("edge", "prod", map[string]interface{}{
		"notAfter": now.Add(14 * 24 * time.Hour).Format(time.RFC3339),
	})
	line := Object(obj, registry.SummarizerCertManagerCertificate, now)
	assert.Contains(t, line.Text, ExpiryOK)
	assert.False(t, line.Warning)

	// One second inside the window flips to expiring soon.
	obj = newObject("edge", "prod", map[string]interface{}{
		"notAfter": now.Add(14*24*time.Hour - time.Second).Format(time.RFC3339),
	})
	line = Object(obj, registry.SummarizerCertManagerCertificate, now)
	assert.Contains(t, line.Text, ExpiryExpiringSoon)
	assert.True(t, line.Warning)
}

func TestCertificateMalformedExpiryDegradesToUnknown(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		status map[string]interface{}
	}{
		{name: "no status block", status: nil},
		{name: "missing notAfter", status: map[string]interface{}{"revision": int64(3)}},
		{name: "notAfter not a timestamp", status: map[string]interface{}{"notAfter": "next-tuesday"}},
		{name: "notAfter wrong type", status: map[string]interface{}{"notAfter": int64(1234)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := newObject("broken", "prod", tt.status)
			line := Object(obj, registry.SummarizerCertManagerCertificate, now)
			assert.Equal(t, "Expiry: Unknown", line.Text)
			assert.True(t, line.Warning)
		})
	}
}

func TestGenericSummarizerEmitsRawStatus(t *testing.T) {
	obj := newObject("apps", "flux-system", map[string]interface{}{
		"lastAppliedRevision": "main@sha1:abc123",
	})

	line := Object(obj, registry.SummarizerGeneric, time.Now())
	assert.Equal(t, "apps", line.Name)
	assert.Contains(t, line.Text, "lastAppliedRevision")
	assert.Contains(t, line.Text, "main@sha1:abc123")
	assert.False(t, line.Warning)
}

func TestGenericSummarizerWithoutStatus(t *testing.T) {
	line := Object(newObject("bare", "default", nil), registry.SummarizerGeneric, time.Now())
	assert.Equal(t, "Status: Unknown", line.Text)
}

func TestObjectNeverPanicsOnEmptyObject(t *testing.T) {
	empty := &unstructured.Unstructured{Object: map[string]interface{}{}}

	for _, kind := range []registry.SummarizerKind{
		registry.SummarizerArgoApplication,
		registry.SummarizerCertManagerCertificate,
		registry.SummarizerGeneric,
	} {
		line := Object(empty, kind, time.Now())
		assert.Equal(t, UnknownValue, line.Name)
	}
}

func TestListPreservesOrder(t *testing.T) {
	items := []unstructured.Unstructured{
		*newObject("b-app", "argocd", nil),
		*newObject("a-app", "argocd", nil),
	}

	lines := List(items, registry.SummarizerArgoApplication, time.Now())
	require.Len(t, lines, 2)
	assert.Equal(t, "b-app", lines[0].Name)
	assert.Equal(t, "a-app", lines[1].Name)
}

func TestOverviewRollups(t *testing.T) {
	lines := []Line{
		{Name: "a", Warning: false},
		{Name: "b", Warning: true},
		{Name: "c", Warning: true},
	}

	assert.Equal(t,
		"ArgoCD applications: 3 total, 1 synced and healthy, 2 needing attention",
		Overview(lines, registry.SummarizerArgoApplication, "applications"))
	assert.Equal(t,
		"Cert-manager certificates: 3 total, 2 expired/expiring/unknown",
		Overview(lines, registry.SummarizerCertManagerCertificate, "certificates"))
	assert.Equal(t,
		"Retrieved 3 widgets objects",
		Overview(lines, registry.SummarizerGeneric, "widgets"))
}

func TestFieldString(t *testing.T) {
	assert.Equal(t, "Unknown", Field{}.String())
	assert.Equal(t, "Synced", Field{Value: "Synced", Known: true}.String())
	assert.True(t, Field{Value: "Synced", Known: true}.Is("Synced"))
	assert.False(t, Field{Value: "Synced"}.Is("Synced"))
}
