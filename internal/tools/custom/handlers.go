// Package custom implements the MCP tools for querying custom resources
// through the alias registry, with summarized per-kind output.
package custom

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clusterscope/mcp-cluster-info/internal/logging"
	"github.com/clusterscope/mcp-cluster-info/internal/registry"
	"github.com/clusterscope/mcp-cluster-info/internal/server"
	"github.com/clusterscope/mcp-cluster-info/internal/summarize"
)

// CustomObjectsResult is the tool output for a custom object query.
type CustomObjectsResult struct {
	Group    string           `json:"group"`
	Version  string           `json:"version"`
	Plural   string           `json:"plural"`
	Overview string           `json:"overview"`
	Items    []summarize.Line `json:"items"`
}

// handleCustomObjects resolves the alias (or explicit coordinates), lists the
// matching custom objects and summarizes them.
func handleCustomObjects(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	alias, ok := args["alias"].(string)
	if !ok || alias == "" {
		return mcp.NewToolResultError("alias is required"), nil
	}
	version, _ := args["version"].(string)
	plural, _ := args["plural"].(string)
	namespace, _ := args["namespace"].(string)
	if namespace == "" {
		namespace = sc.Config().DefaultNamespace
	}

	resolved, err := resolveTarget(sc.Registry(), alias, version, plural)
	if err != nil {
		if errors.Is(err, registry.ErrMissingResourceCoordinates) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"%q is not a registered alias; pass version and plural to query it as an API group", alias)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	gvr := resolved.GroupVersionResource()
	sc.Logger().Debug("handling tool call",
		logging.Tool("kubernetes_custom_objects"),
		logging.Alias(alias),
		logging.ResourceType(gvr.String()),
		logging.Namespace(namespace))

	items, err := sc.K8sClient().ListCustomObjects(ctx, gvr, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list %s: %v", gvr.Resource, err)), nil
	}
	sc.Logger().Debug("custom objects listed",
		logging.ResourceType(gvr.Resource), logging.Count(len(items)))

	lines := summarize.List(items, resolved.Summarizer, time.Now())
	result := CustomObjectsResult{
		Group:    gvr.Group,
		Version:  gvr.Version,
		Plural:   gvr.Resource,
		Overview: summarize.Overview(lines, resolved.Summarizer, gvr.Resource),
		Items:    lines,
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// resolveTarget turns the tool arguments into concrete API coordinates plus a
// summarizer. Registered aliases win; otherwise the alias argument is treated
// as an API group, which requires explicit version and plural. Explicit
// coordinates that point at a registered resource still get its specialized
// summarizer.
func resolveTarget(reg *registry.Registry, alias, version, plural string) (registry.ResourceAlias, error) {
	resolved, err := reg.Resolve(alias)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, registry.ErrAliasNotFound) {
		return registry.ResourceAlias{}, err
	}

	if version == "" || plural == "" {
		return registry.ResourceAlias{}, fmt.Errorf("group %q: %w", alias, registry.ErrMissingResourceCoordinates)
	}

	if known, ok := reg.ResolveCoordinates(alias, plural); ok {
		known.Version = version
		return known, nil
	}

	return registry.ResourceAlias{
		Alias:      alias,
		Group:      alias,
		Version:    version,
		Plural:     plural,
		Summarizer: registry.SummarizerGeneric,
	}, nil
}

// handleResourceAliases lists the registered aliases.
func handleResourceAliases(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	reg := sc.Registry()

	aliases := make([]registry.ResourceAlias, 0)
	for _, name := range reg.AliasNames() {
		resolved, err := reg.Resolve(name)
		if err != nil {
			continue
		}
		aliases = append(aliases, resolved)
	}

	data, err := json.MarshalIndent(aliases, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
