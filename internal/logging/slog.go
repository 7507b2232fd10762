// Package logging provides slog attribute helpers so log fields are named
// consistently across the codebase, plus sanitization for values that may
// leak cluster topology.
package logging

import (
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"
)

// Common log attribute keys.
const (
	KeyOperation    = "operation"
	KeyNamespace    = "namespace"
	KeyResourceType = "resource_type"
	KeyAlias        = "alias"
	KeyCount        = "count"
	KeyError        = "error"
	KeyHost         = "host"
	KeyTool         = "tool"
)

// ipv4Regex matches IPv4 addresses for sanitization.
var ipv4Regex = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// Namespace returns a slog attribute for the namespace.
func Namespace(ns string) slog.Attr {
	return slog.String(KeyNamespace, ns)
}

// ResourceType returns a slog attribute for the resource type.
func ResourceType(rt string) slog.Attr {
	return slog.String(KeyResourceType, rt)
}

// Alias returns a slog attribute for a registry alias.
func Alias(alias string) slog.Attr {
	return slog.String(KeyAlias, alias)
}

// Count returns a slog attribute for an item count.
func Count(n int) slog.Attr {
	return slog.Int(KeyCount, n)
}

// Tool returns a slog attribute for an MCP tool name.
func Tool(name string) slog.Attr {
	return slog.String(KeyTool, name)
}

// Err returns a slog attribute for an error.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// Host returns a slog attribute for a host with IP addresses sanitized.
func Host(host string) slog.Attr {
	return slog.String(KeyHost, SanitizeHost(host))
}

// SanitizeHost redacts IP addresses from a host or URL so API server
// addresses do not leak network topology into logs.
func SanitizeHost(host string) string {
	if host == "" {
		return "<empty>"
	}
	if !strings.Contains(host, "://") {
		return ipv4Regex.ReplaceAllString(host, "<redacted-ip>")
	}
	parsed, err := url.Parse(host)
	if err != nil {
		return ipv4Regex.ReplaceAllString(host, "<redacted-ip>")
	}
	if ipv4Regex.MatchString(parsed.Host) {
		parsed.Host = ipv4Regex.ReplaceAllString(parsed.Host, "<redacted-ip>")
		return parsed.String()
	}
	return host
}

// NewLogger builds the process logger. Output always goes to stderr so
// stdio-transport MCP traffic on stdout stays clean. format is "json" or
// "text"; level is one of debug, info, warn, error.
func NewLogger(format, level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "text" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, opts))
}
