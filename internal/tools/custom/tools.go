package custom

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/clusterscope/mcp-cluster-info/internal/server"
	"github.com/clusterscope/mcp-cluster-info/internal/tools"
)

// RegisterCustomObjectTools registers the custom resource tools with the MCP
// server.
func RegisterCustomObjectTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	aliases := strings.Join(sc.Registry().AliasNames(), ", ")

	// kubernetes_custom_objects tool
	customObjectsTool := mcp.NewTool("kubernetes_custom_objects",
		mcp.WithDescription(fmt.Sprintf("Get summarized custom objects by registered alias (%s) or by explicit API group, version and plural", aliases)),
		mcp.WithString("alias",
			mcp.Required(),
			mcp.Description("Registered resource alias, or an API group when version and plural are also given"),
		),
		mcp.WithString("version",
			mcp.Description("API version of the custom resource (required when alias is an API group)"),
		),
		mcp.WithString("plural",
			mcp.Description("Plural resource name of the custom resource (required when alias is an API group)"),
		),
		mcp.WithString("namespace",
			mcp.Description("Namespace to query (optional, queries all namespaces if not specified)"),
		),
	)

	s.AddTool(customObjectsTool, tools.Instrument(sc, "kubernetes_custom_objects",
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCustomObjects(ctx, request, sc)
		}))

	// kubernetes_resource_aliases tool
	aliasesTool := mcp.NewTool("kubernetes_resource_aliases",
		mcp.WithDescription("List the registered custom resource aliases and their API coordinates"),
	)

	s.AddTool(aliasesTool, tools.Instrument(sc, "kubernetes_resource_aliases",
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleResourceAliases(ctx, request, sc)
		}))

	return nil
}
