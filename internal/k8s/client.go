// Package k8s provides the read-only Kubernetes client used by all tools.
// It wraps a typed clientset for well-known kinds and a dynamic client for
// custom resources behind a narrow interface so handlers can be tested
// against fakes.
package k8s

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
)

// Client defines the read-only cluster operations needed by the MCP tools.
// Every method performs a single blocking API call; cancellation and
// timeouts come from the caller's context and the underlying rest.Config.
type Client interface {
	// ListNamespaces returns the names of all namespaces in the cluster.
	ListNamespaces(ctx context.Context) ([]string, error)

	// ListDeployments returns all deployments in the namespace.
	ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error)

	// ListPods returns all pods in the namespace.
	ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error)

	// ListServices returns all services in the namespace.
	ListServices(ctx context.Context, namespace string) ([]corev1.Service, error)

	// ListCustomObjects lists custom resources by explicit API coordinates.
	// An empty namespace lists cluster-wide.
	ListCustomObjects(ctx context.Context, gvr schema.GroupVersionResource, namespace string) ([]unstructured.Unstructured, error)
}
