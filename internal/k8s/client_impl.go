package k8s

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/clusterscope/mcp-cluster-info/internal/instrumentation"
	"github.com/clusterscope/mcp-cluster-info/internal/logging"
)

// ClientConfig holds configuration for the Kubernetes client.
type ClientConfig struct {
	// Kubeconfig settings
	KubeconfigPath string
	Context        string

	// InCluster forces service-account authentication. When false, the
	// client first tries kubeconfig and falls back to in-cluster config.
	InCluster bool

	// Performance settings
	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration

	// Logger for connection and operation events. Nil disables logging.
	Logger *slog.Logger

	// Metrics records per-operation counters. Nil disables recording.
	Metrics *instrumentation.Metrics
}

// clusterClient implements Client using client-go.
type clusterClient struct {
	clientset kubernetes.Interface
	dynamic   dynamic.Interface
	logger    *slog.Logger
	metrics   *instrumentation.Metrics
}

// record counts one API operation against the metrics recorder.
func (c *clusterClient) record(ctx context.Context, operation string, err error) {
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	c.metrics.RecordK8sOperation(ctx, operation, status)
}

// NewClient builds an authenticated Client. Credential resolution follows a
// two-step fallback: a kubeconfig-based session is attempted first, then the
// in-cluster service-account session. With InCluster set, only the latter is
// tried.
func NewClient(config *ClientConfig) (Client, error) {
	if config == nil {
		return nil, fmt.Errorf("client configuration is required")
	}
	if config.QPSLimit == 0 {
		config.QPSLimit = DefaultQPSLimit
	}
	if config.BurstLimit == 0 {
		config.BurstLimit = DefaultBurstLimit
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout
	}

	restConfig, err := resolveRestConfig(config)
	if err != nil {
		return nil, err
	}

	restConfig.QPS = config.QPSLimit
	restConfig.Burst = config.BurstLimit
	restConfig.Timeout = config.Timeout

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}
	dynamicClient, err := dynamic.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create dynamic client: %w", err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	logger.Info("kubernetes client ready", logging.Host(restConfig.Host))

	return &clusterClient{
		clientset: clientset,
		dynamic:   dynamicClient,
		logger:    logger,
		metrics:   config.Metrics,
	}, nil
}

// NewClientFromInterfaces wraps pre-built client-go interfaces. Used by
// tests to inject fake clientsets.
func NewClientFromInterfaces(clientset kubernetes.Interface, dynamicClient dynamic.Interface, logger *slog.Logger) Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &clusterClient{clientset: clientset, dynamic: dynamicClient, logger: logger}
}

// resolveRestConfig applies the kubeconfig-then-in-cluster fallback.
func resolveRestConfig(config *ClientConfig) (*rest.Config, error) {
	if config.InCluster {
		restConfig, err := rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("in-cluster authentication not available: %w", err)
		}
		return restConfig, nil
	}

	restConfig, kubeconfigErr := kubeconfigRestConfig(config)
	if kubeconfigErr == nil {
		return restConfig, nil
	}

	restConfig, inClusterErr := rest.InClusterConfig()
	if inClusterErr == nil {
		if config.Logger != nil {
			config.Logger.Info("kubeconfig unavailable, using in-cluster authentication",
				logging.Err(kubeconfigErr))
		}
		return restConfig, nil
	}

	return nil, fmt.Errorf("no usable credentials: kubeconfig failed (%v), in-cluster failed (%v)",
		kubeconfigErr, inClusterErr)
}

// kubeconfigRestConfig loads a rest.Config from the configured kubeconfig
// path, the KUBECONFIG environment variable, or the default loading rules.
func kubeconfigRestConfig(config *ClientConfig) (*rest.Config, error) {
	path := config.KubeconfigPath
	if path == "" {
		if kconf := os.Getenv("KUBECONFIG"); kconf != "" {
			if strings.HasPrefix(kconf, "~/") {
				if home, err := os.UserHomeDir(); err == nil {
					kconf = filepath.Join(home, kconf[2:])
				}
			}
			path = kconf
		}
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		loadingRules.ExplicitPath = path
	}

	clientConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{CurrentContext: config.Context},
	)
	restConfig, err := clientConfig.ClientConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	return restConfig, nil
}

// ListNamespaces returns the names of all namespaces in the cluster.
func (c *clusterClient) ListNamespaces(ctx context.Context) ([]string, error) {
	c.logger.Debug("kubernetes operation", logging.Operation("list-namespaces"))

	list, err := c.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	c.record(ctx, "list-namespaces", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	names := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		names = append(names, ns.Name)
	}
	return names, nil
}

// ListDeployments returns all deployments in the namespace.
func (c *clusterClient) ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error) {
	c.logger.Debug("kubernetes operation",
		logging.Operation("list-deployments"), logging.Namespace(namespace))

	list, err := c.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	c.record(ctx, "list-deployments", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments in %q: %w", namespace, err)
	}
	return list.Items, nil
}

// ListPods returns all pods in the namespace.
func (c *clusterClient) ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error) {
	c.logger.Debug("kubernetes operation",
		logging.Operation("list-pods"), logging.Namespace(namespace))

	list, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	c.record(ctx, "list-pods", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in %q: %w", namespace, err)
	}
	return list.Items, nil
}

// ListServices returns all services in the namespace.
func (c *clusterClient) ListServices(ctx context.Context, namespace string) ([]corev1.Service, error) {
	c.logger.Debug("kubernetes operation",
		logging.Operation("list-services"), logging.Namespace(namespace))

	list, err := c.clientset.CoreV1().Services(namespace).List(ctx, metav1.ListOptions{})
	c.record(ctx, "list-services", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list services in %q: %w", namespace, err)
	}
	return list.Items, nil
}

// ListCustomObjects lists custom resources by explicit API coordinates.
func (c *clusterClient) ListCustomObjects(ctx context.Context, gvr schema.GroupVersionResource, namespace string) ([]unstructured.Unstructured, error) {
	c.logger.Debug("kubernetes operation",
		logging.Operation("list-custom-objects"),
		logging.ResourceType(gvr.String()), logging.Namespace(namespace))

	var resourceInterface dynamic.ResourceInterface = c.dynamic.Resource(gvr)
	if namespace != "" {
		resourceInterface = c.dynamic.Resource(gvr).Namespace(namespace)
	}

	list, err := resourceInterface.List(ctx, metav1.ListOptions{})
	c.record(ctx, "list-custom-objects", err)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", gvr.Resource, err)
	}
	return list.Items, nil
}
