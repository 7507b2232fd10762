// Package cluster implements the MCP tools for workload inspection: the
// cluster overview with version mismatch detection and the per-kind listings.
package cluster

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/clusterscope/mcp-cluster-info/internal/server"
	"github.com/clusterscope/mcp-cluster-info/internal/tools"
)

// RegisterClusterTools registers the workload inspection tools with the MCP
// server.
func RegisterClusterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// kubernetes_cluster_info tool
	clusterInfoTool := mcp.NewTool("kubernetes_cluster_info",
		mcp.WithDescription("Get an overview of deployments, pods and services in the cluster, including detection of image version mismatches across the pods of a deployment"),
		mcp.WithString("namespace",
			mcp.Description("Namespace to inspect (optional, inspects all namespaces if not specified)"),
		),
	)

	s.AddTool(clusterInfoTool, tools.Instrument(sc, "kubernetes_cluster_info",
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleClusterInfo(ctx, request, sc)
		}))

	// kubernetes_deployments tool
	deploymentsTool := mcp.NewTool("kubernetes_deployments",
		mcp.WithDescription("List deployments with replica counts and container images"),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list deployments from (optional, lists all namespaces if not specified)"),
		),
	)

	s.AddTool(deploymentsTool, tools.Instrument(sc, "kubernetes_deployments",
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDeployments(ctx, request, sc)
		}))

	// kubernetes_pods tool
	podsTool := mcp.NewTool("kubernetes_pods",
		mcp.WithDescription("List pods with phase, IPs, restart counts and container images"),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list pods from (optional, lists all namespaces if not specified)"),
		),
	)

	s.AddTool(podsTool, tools.Instrument(sc, "kubernetes_pods",
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handlePods(ctx, request, sc)
		}))

	// kubernetes_services tool
	servicesTool := mcp.NewTool("kubernetes_services",
		mcp.WithDescription("List services with type, cluster IP and exposed ports"),
		mcp.WithString("namespace",
			mcp.Description("Namespace to list services from (optional, lists all namespaces if not specified)"),
		),
	)

	s.AddTool(servicesTool, tools.Instrument(sc, "kubernetes_services",
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleServices(ctx, request, sc)
		}))

	return nil
}
