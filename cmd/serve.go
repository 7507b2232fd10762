package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/clusterscope/mcp-cluster-info/internal/instrumentation"
	"github.com/clusterscope/mcp-cluster-info/internal/k8s"
	"github.com/clusterscope/mcp-cluster-info/internal/logging"
	"github.com/clusterscope/mcp-cluster-info/internal/registry"
	"github.com/clusterscope/mcp-cluster-info/internal/server"
	"github.com/clusterscope/mcp-cluster-info/internal/tools/cluster"
	"github.com/clusterscope/mcp-cluster-info/internal/tools/custom"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var config ServeConfig

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP cluster info server",
		Long: `Start the MCP cluster info server to provide read-only Kubernetes
introspection tools via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Authentication modes:
  - Kubeconfig (default): Uses standard kubeconfig file authentication,
    falling back to in-cluster service account credentials when no
    kubeconfig is usable
  - In-cluster (--in-cluster): Uses only the service account token`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(config)
		},
	}

	cmd.Flags().StringVar(&config.KubeconfigPath, "kubeconfig", "", "Path to the kubeconfig file (default: KUBECONFIG env var or standard loading rules)")
	cmd.Flags().StringVar(&config.KubeContext, "context", "", "Kubeconfig context to use (default: current context)")
	cmd.Flags().BoolVar(&config.InCluster, "in-cluster", false, "Use in-cluster authentication (service account token) instead of kubeconfig (default: false)")
	cmd.Flags().StringVar(&config.Namespace, "namespace", "", "Default namespace for queries (default: all namespaces)")
	cmd.Flags().Float32Var(&config.QPSLimit, "qps-limit", k8s.DefaultQPSLimit, "QPS limit for Kubernetes API calls")
	cmd.Flags().IntVar(&config.BurstLimit, "burst-limit", k8s.DefaultBurstLimit, "Burst limit for Kubernetes API calls")
	cmd.Flags().DurationVar(&config.Timeout, "timeout", k8s.DefaultTimeout, "Timeout for Kubernetes API calls")
	cmd.Flags().BoolVar(&config.DebugMode, "debug", false, "Enable debug logging (default: false)")
	cmd.Flags().StringVar(&config.LogFormat, "log-format", "json", "Log format: json or text")

	// Transport flags
	cmd.Flags().StringVar(&config.Transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&config.SSEEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.MessageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")

	return cmd
}

// runServe contains the main server logic with support for multiple transports.
func runServe(config ServeConfig) error {
	if err := config.Validate(); err != nil {
		return err
	}

	logLevel := "info"
	if config.DebugMode {
		logLevel = "debug"
	}
	logger := logging.NewLogger(config.LogFormat, logLevel)

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry instrumentation provider
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			logger.Error("error during instrumentation shutdown", logging.Err(shutdownErr))
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("instrumentation enabled",
			slog.String("metrics_endpoint", instrumentationConfig.PrometheusEndpoint))
	}

	k8sClient, err := k8s.NewClient(&k8s.ClientConfig{
		KubeconfigPath: config.KubeconfigPath,
		Context:        config.KubeContext,
		InCluster:      config.InCluster,
		QPSLimit:       config.QPSLimit,
		BurstLimit:     config.BurstLimit,
		Timeout:        config.Timeout,
		Logger:         logger,
		Metrics:        instrumentationProvider.Metrics(),
	})
	if err != nil {
		return fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	serverConfig := server.NewDefaultConfig()
	serverConfig.Version = rootCmd.Version
	serverConfig.DefaultNamespace = config.Namespace
	serverConfig.LogLevel = logLevel
	serverConfig.LogFormat = config.LogFormat

	serverContext, err := server.NewServerContext(shutdownCtx,
		server.WithK8sClient(k8sClient),
		server.WithRegistry(registry.New()),
		server.WithLogger(logger),
		server.WithConfig(serverConfig),
		server.WithInstrumentationProvider(instrumentationProvider),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Error("error during server context shutdown", logging.Err(err))
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer(serverConfig.ServerName, rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register all tool categories
	if err := cluster.RegisterClusterTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register cluster tools: %w", err)
	}
	if err := custom.RegisterCustomObjectTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register custom object tools: %w", err)
	}

	switch config.Transport {
	case transportStdio:
		// Don't log startup for stdio mode; stdout carries MCP traffic.
		return runStdioServer(mcpSrv)
	case transportSSE:
		logger.Info("starting MCP server", slog.String("transport", config.Transport))
		return runSSEServer(shutdownCtx, mcpSrv, config, logger)
	case transportStreamableHTTP:
		logger.Info("starting MCP server", slog.String("transport", config.Transport))
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, config, serverContext, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s", config.Transport)
	}
}

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 30 * time.Second
