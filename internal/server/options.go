package server

import (
	"errors"
	"log/slog"

	"github.com/clusterscope/mcp-cluster-info/internal/instrumentation"
	"github.com/clusterscope/mcp-cluster-info/internal/k8s"
	"github.com/clusterscope/mcp-cluster-info/internal/registry"
)

// Validation errors returned by NewServerContext.
var (
	ErrMissingK8sClient = errors.New("kubernetes client is required")
	ErrMissingRegistry  = errors.New("resource registry is required")
	ErrMissingLogger    = errors.New("logger is required")
	ErrMissingConfig    = errors.New("config is required")
)

// Option is a functional option for configuring the ServerContext.
type Option func(*ServerContext) error

// WithK8sClient sets the Kubernetes client.
func WithK8sClient(client k8s.Client) Option {
	return func(sc *ServerContext) error {
		if client == nil {
			return ErrMissingK8sClient
		}
		sc.k8sClient = client
		return nil
	}
}

// WithRegistry sets the custom resource alias registry.
func WithRegistry(reg *registry.Registry) Option {
	return func(sc *ServerContext) error {
		if reg == nil {
			return ErrMissingRegistry
		}
		sc.registry = reg
		return nil
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) error {
		if logger == nil {
			return ErrMissingLogger
		}
		sc.logger = logger
		return nil
	}
}

// WithConfig sets the server configuration.
func WithConfig(config *Config) Option {
	return func(sc *ServerContext) error {
		if config == nil {
			return ErrMissingConfig
		}
		sc.config = config.Clone()
		return nil
	}
}

// WithInstrumentationProvider sets the instrumentation provider. A nil
// provider is allowed and leaves instrumentation disabled.
func WithInstrumentationProvider(provider *instrumentation.Provider) Option {
	return func(sc *ServerContext) error {
		sc.instrumentationProvider = provider
		return nil
	}
}
