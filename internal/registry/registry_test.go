package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuiltinAliases(t *testing.T) {
	r := New()

	tests := []struct {
		alias      string
		group      string
		version    string
		plural     string
		summarizer SummarizerKind
	}{
		{"argocd_applications", "argoproj.io", "v1alpha1", "applications", SummarizerArgoApplication},
		{"certmanager_certificates", "cert-manager.io", "v1", "certificates", SummarizerCertManagerCertificate},
		{"flux_kustomizations", "kustomize.toolkit.fluxcd.io", "v1", "kustomizations", SummarizerGeneric},
		{"prometheus_rules", "monitoring.coreos.com", "v1", "prometheusrules", SummarizerGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.alias, func(t *testing.T) {
			resolved, err := r.Resolve(tt.alias)
			require.NoError(t, err)
			assert.Equal(t, tt.group, resolved.Group)
			assert.Equal(t, tt.version, resolved.Version)
			assert.Equal(t, tt.plural, resolved.Plural)
			assert.Equal(t, tt.summarizer, resolved.Summarizer)

			gvr := resolved.GroupVersionResource()
			assert.Equal(t, tt.group, gvr.Group)
			assert.Equal(t, tt.plural, gvr.Resource)
		})
	}
}

func TestResolveUnknownAlias(t *testing.T) {
	r := New()

	_, err := r.Resolve("no_such_alias")
	require.ErrorIs(t, err, ErrAliasNotFound)
	assert.Contains(t, err.Error(), "no_such_alias")
}

func TestResolveIsCaseSensitive(t *testing.T) {
	r := New()

	_, err := r.Resolve("ArgoCD_Applications")
	assert.ErrorIs(t, err, ErrAliasNotFound)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name    string
		alias   ResourceAlias
		wantErr string
	}{
		{
			name:    "empty alias name",
			alias:   ResourceAlias{Group: "g.io", Version: "v1", Plural: "things"},
			wantErr: "must not be empty",
		},
		{
			name:    "missing group",
			alias:   ResourceAlias{Alias: "things", Version: "v1", Plural: "things"},
			wantErr: "missing API coordinates",
		},
		{
			name:    "missing version",
			alias:   ResourceAlias{Alias: "things", Group: "g.io", Plural: "things"},
			wantErr: "missing API coordinates",
		},
		{
			name:    "missing plural",
			alias:   ResourceAlias{Alias: "things", Group: "g.io", Version: "v1"},
			wantErr: "missing API coordinates",
		},
		{
			name:    "collision with builtin",
			alias:   ResourceAlias{Alias: "argocd_applications", Group: "g.io", Version: "v1", Plural: "things"},
			wantErr: "already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			err := r.Register(tt.alias)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRegisterDefaultsToGenericSummarizer(t *testing.T) {
	r := New()

	err := r.Register(ResourceAlias{
		Alias:   "traefik_ingressroutes",
		Group:   "traefik.io",
		Version: "v1alpha1",
		Plural:  "ingressroutes",
	})
	require.NoError(t, err)

	resolved, err := r.Resolve("traefik_ingressroutes")
	require.NoError(t, err)
	assert.Equal(t, SummarizerGeneric, resolved.Summarizer)
}

func TestResolveCoordinatesIgnoresCase(t *testing.T) {
	r := New()

	resolved, ok := r.ResolveCoordinates("Cert-Manager.IO", "Certificates")
	require.True(t, ok)
	assert.Equal(t, SummarizerCertManagerCertificate, resolved.Summarizer)

	_, ok = r.ResolveCoordinates("unknown.example.com", "widgets")
	assert.False(t, ok)
}

func TestAliasNamesSorted(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(ResourceAlias{
		Alias: "aaa_first", Group: "g.io", Version: "v1", Plural: "firsts",
	}))

	names := r.AliasNames()
	require.NotEmpty(t, names)
	assert.Equal(t, "aaa_first", names[0])
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}
