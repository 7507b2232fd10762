package server

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"

	"github.com/clusterscope/mcp-cluster-info/internal/k8s"
	"github.com/clusterscope/mcp-cluster-info/internal/registry"
)

// stubClient satisfies k8s.Client for context wiring tests.
type stubClient struct{}

func (stubClient) ListNamespaces(ctx context.Context) ([]string, error) { return nil, nil }
func (stubClient) ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error) {
	return nil, nil
}
func (stubClient) ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error) {
	return nil, nil
}
func (stubClient) ListServices(ctx context.Context, namespace string) ([]corev1.Service, error) {
	return nil, nil
}
func (stubClient) ListCustomObjects(ctx context.Context, gvr schema.GroupVersionResource, namespace string) ([]unstructured.Unstructured, error) {
	return nil, nil
}

var _ k8s.Client = stubClient{}

func TestNewServerContextRequiresK8sClient(t *testing.T) {
	_, err := NewServerContext(context.Background())
	require.ErrorIs(t, err, ErrMissingK8sClient)
}

func TestNewServerContextDefaults(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithK8sClient(stubClient{}))
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.NotNil(t, sc.Registry())
	assert.NotNil(t, sc.Logger())
	assert.Equal(t, "mcp-cluster-info", sc.Config().ServerName)
	assert.Nil(t, sc.InstrumentationProvider())
	assert.False(t, sc.IsShutdown())
}

func TestNewServerContextOptions(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	reg := registry.New()
	config := NewDefaultConfig()
	config.DefaultNamespace = "prod"

	sc, err := NewServerContext(context.Background(),
		WithK8sClient(stubClient{}),
		WithLogger(logger),
		WithRegistry(reg),
		WithConfig(config),
	)
	require.NoError(t, err)
	defer func() { _ = sc.Shutdown() }()

	assert.Same(t, logger, sc.Logger())
	assert.Same(t, reg, sc.Registry())
	assert.Equal(t, "prod", sc.Config().DefaultNamespace)

	// Config is cloned so later caller mutations do not leak in.
	config.DefaultNamespace = "changed"
	assert.Equal(t, "prod", sc.Config().DefaultNamespace)
}

func TestOptionValidation(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr error
	}{
		{name: "nil logger", opt: WithLogger(nil), wantErr: ErrMissingLogger},
		{name: "nil registry", opt: WithRegistry(nil), wantErr: ErrMissingRegistry},
		{name: "nil config", opt: WithConfig(nil), wantErr: ErrMissingConfig},
		{name: "nil k8s client", opt: WithK8sClient(nil), wantErr: ErrMissingK8sClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServerContext(context.Background(),
				WithK8sClient(stubClient{}), tt.opt)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestShutdownIsIdempotentAndCancelsContext(t *testing.T) {
	sc, err := NewServerContext(context.Background(), WithK8sClient(stubClient{}))
	require.NoError(t, err)

	require.NoError(t, sc.Shutdown())
	assert.True(t, sc.IsShutdown())
	require.NoError(t, sc.Shutdown())

	select {
	case <-sc.Context().Done():
	default:
		t.Fatal("expected server context to be cancelled after shutdown")
	}
}

func TestConfigClone(t *testing.T) {
	var nilConfig *Config
	assert.Nil(t, nilConfig.Clone())

	original := NewDefaultConfig()
	clone := original.Clone()
	clone.ServerName = "other"
	assert.Equal(t, "mcp-cluster-info", original.ServerName)
}
