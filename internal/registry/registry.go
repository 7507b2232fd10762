package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"k8s.io/apimachinery/pkg/runtime/schema"
)

// SummarizerKind selects the summarizer used for objects fetched through an
// alias. It is a closed enum: adding a new custom resource that only needs
// generic output is a pure data registration with SummarizerGeneric, no new
// code path.
type SummarizerKind string

const (
	// SummarizerArgoApplication condenses ArgoCD Application sync/health status.
	SummarizerArgoApplication SummarizerKind = "ArgoApplication"

	// SummarizerCertManagerCertificate classifies cert-manager certificate expiry.
	SummarizerCertManagerCertificate SummarizerKind = "CertManagerCertificate"

	// SummarizerGeneric emits name, namespace and the raw status block.
	SummarizerGeneric SummarizerKind = "Generic"
)

// ResourceAlias maps a friendly alias to the API coordinates of a custom
// resource and the summarizer kind used to render it.
type ResourceAlias struct {
	Alias      string         `json:"alias"`
	Group      string         `json:"group"`
	Version    string         `json:"version"`
	Plural     string         `json:"plural"`
	Summarizer SummarizerKind `json:"summarizer"`
}

// GroupVersionResource returns the schema coordinates for the alias.
func (a ResourceAlias) GroupVersionResource() schema.GroupVersionResource {
	return schema.GroupVersionResource{Group: a.Group, Version: a.Version, Resource: a.Plural}
}

// ErrAliasNotFound is returned by Resolve when the alias is not registered.
// Callers that hit this error must supply explicit group/version/plural
// coordinates instead.
var ErrAliasNotFound = errors.New("resource alias not found")

// ErrMissingResourceCoordinates is returned when a query names an API group
// that matches no registered alias and the caller did not supply the version
// and plural needed to address the resource directly.
var ErrMissingResourceCoordinates = errors.New("version and plural are required when no alias matches")

// Registry is a read-only-after-construction lookup table from alias to
// custom resource coordinates. It carries no cluster state and performs no
// network calls.
type Registry struct {
	aliases map[string]ResourceAlias
}

// New creates a Registry pre-populated with the built-in aliases.
func New() *Registry {
	r := &Registry{aliases: make(map[string]ResourceAlias)}
	for _, alias := range builtinAliases() {
		// Built-in aliases are statically unique; Register only fails on
		// collisions or empty coordinates.
		if err := r.Register(alias); err != nil {
			panic(fmt.Sprintf("invalid built-in alias %q: %v", alias.Alias, err))
		}
	}
	return r
}

// builtinAliases returns the aliases known out of the box. Extending the
// registry is a data addition here, never a code change elsewhere.
func builtinAliases() []ResourceAlias {
	return []ResourceAlias{
		{
			Alias:      "argocd_applications",
			Group:      "argoproj.io",
			Version:    "v1alpha1",
			Plural:     "applications",
			Summarizer: SummarizerArgoApplication,
		},
		{
			Alias:      "certmanager_certificates",
			Group:      "cert-manager.io",
			Version:    "v1",
			Plural:     "certificates",
			Summarizer: SummarizerCertManagerCertificate,
		},
		{
			Alias:      "flux_kustomizations",
			Group:      "kustomize.toolkit.fluxcd.io",
			Version:    "v1",
			Plural:     "kustomizations",
			Summarizer: SummarizerGeneric,
		},
		{
			Alias:      "prometheus_rules",
			Group:      "monitoring.coreos.com",
			Version:    "v1",
			Plural:     "prometheusrules",
			Summarizer: SummarizerGeneric,
		},
	}
}

// Register adds an alias to the registry. Alias collisions and incomplete
// coordinates are rejected so every registered alias resolves to exactly one
// (group, version, plural) triple.
func (r *Registry) Register(alias ResourceAlias) error {
	if alias.Alias == "" {
		return fmt.Errorf("alias name must not be empty")
	}
	if alias.Group == "" || alias.Version == "" || alias.Plural == "" {
		return fmt.Errorf("alias %q is missing API coordinates (group/version/plural)", alias.Alias)
	}
	if alias.Summarizer == "" {
		alias.Summarizer = SummarizerGeneric
	}
	if _, exists := r.aliases[alias.Alias]; exists {
		return fmt.Errorf("alias %q is already registered", alias.Alias)
	}
	r.aliases[alias.Alias] = alias
	return nil
}

// Resolve looks up an alias by its exact, case-sensitive name.
func (r *Registry) Resolve(alias string) (ResourceAlias, error) {
	a, ok := r.aliases[alias]
	if !ok {
		return ResourceAlias{}, fmt.Errorf("%w: %q", ErrAliasNotFound, alias)
	}
	return a, nil
}

// ResolveCoordinates finds a registered alias by API group and plural,
// ignoring case. This lets callers that pass explicit coordinates for a
// known custom resource still benefit from its specialized summarizer.
func (r *Registry) ResolveCoordinates(group, plural string) (ResourceAlias, bool) {
	for _, name := range r.AliasNames() {
		a := r.aliases[name]
		if strings.EqualFold(a.Group, group) && strings.EqualFold(a.Plural, plural) {
			return a, true
		}
	}
	return ResourceAlias{}, false
}

// AliasNames returns all registered alias names in sorted order.
func (r *Registry) AliasNames() []string {
	names := make([]string, 0, len(r.aliases))
	for name := range r.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
