// Package server provides the ServerContext dependency container shared by
// all MCP tool handlers, plus health endpoints for HTTP transports.
package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/clusterscope/mcp-cluster-info/internal/instrumentation"
	"github.com/clusterscope/mcp-cluster-info/internal/k8s"
	"github.com/clusterscope/mcp-cluster-info/internal/registry"
)

// ServerContext encapsulates all dependencies needed by the MCP server and
// provides a clean abstraction for dependency injection and lifecycle
// management. The contained state is read-only after construction.
type ServerContext struct {
	// Core dependencies
	k8sClient k8s.Client
	registry  *registry.Registry
	logger    *slog.Logger
	config    *Config

	// Observability
	instrumentationProvider *instrumentation.Provider

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	serverCtx, cancel := context.WithCancel(ctx)

	sc := &ServerContext{
		ctx:      serverCtx,
		cancel:   cancel,
		config:   NewDefaultConfig(),
		logger:   slog.New(slog.DiscardHandler),
		registry: registry.New(),
	}

	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}
	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// K8sClient returns the Kubernetes client interface.
func (sc *ServerContext) K8sClient() k8s.Client {
	return sc.k8sClient
}

// Registry returns the custom resource alias registry.
func (sc *ServerContext) Registry() *registry.Registry {
	return sc.registry
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	return sc.config
}

// InstrumentationProvider returns the instrumentation provider, which may be
// nil when observability is disabled.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	return sc.instrumentationProvider
}

// Shutdown gracefully shuts down the server context, cancelling the
// contained context. Safe to call more than once.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}
	sc.logger.Info("shutting down server context")
	if sc.cancel != nil {
		sc.cancel()
	}
	sc.shutdown = true
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.k8sClient == nil {
		return ErrMissingK8sClient
	}
	if sc.registry == nil {
		return ErrMissingRegistry
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Kubernetes settings
	DefaultNamespace string `json:"defaultNamespace"`

	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// NewDefaultConfig creates a configuration with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:       "mcp-cluster-info",
		Version:          "0.1.0",
		DefaultNamespace: "",
		LogLevel:         "info",
		LogFormat:        "json",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
