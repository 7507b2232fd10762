package cmd

import (
	"fmt"
	"time"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport       string
	HTTPAddr        string
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Kubernetes settings
	KubeconfigPath string
	KubeContext    string
	InCluster      bool
	Namespace      string
	QPSLimit       float32
	BurstLimit     int
	Timeout        time.Duration

	// Logging settings
	DebugMode bool
	LogFormat string
}

// Validate checks the configuration for invalid combinations before any
// cluster connection is attempted.
func (c ServeConfig) Validate() error {
	switch c.Transport {
	case transportStdio, transportSSE, transportStreamableHTTP:
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s, %s)",
			c.Transport, transportStdio, transportSSE, transportStreamableHTTP)
	}

	if c.Transport != transportStdio && c.HTTPAddr == "" {
		return fmt.Errorf("http-addr is required for %s transport", c.Transport)
	}

	switch c.LogFormat {
	case "json", "text":
	default:
		return fmt.Errorf("unsupported log format: %s (supported: json, text)", c.LogFormat)
	}

	if c.QPSLimit < 0 {
		return fmt.Errorf("qps-limit must not be negative")
	}
	if c.BurstLimit < 0 {
		return fmt.Errorf("burst-limit must not be negative")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	return nil
}
