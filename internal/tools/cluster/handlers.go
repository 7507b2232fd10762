package cluster

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/clusterscope/mcp-cluster-info/internal/inspect"
	"github.com/clusterscope/mcp-cluster-info/internal/logging"
	"github.com/clusterscope/mcp-cluster-info/internal/server"
)

// requestNamespace extracts the optional namespace argument, falling back to
// the configured default namespace.
func requestNamespace(request mcp.CallToolRequest, sc *server.ServerContext) string {
	args := request.GetArguments()
	if namespace, ok := args["namespace"].(string); ok && namespace != "" {
		return namespace
	}
	return sc.Config().DefaultNamespace
}

// handleClusterInfo builds the full cluster overview with mismatch summary.
func handleClusterInfo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := requestNamespace(request, sc)
	sc.Logger().Debug("handling tool call",
		logging.Tool("kubernetes_cluster_info"), logging.Namespace(namespace))

	collector := inspect.NewCollector(sc.K8sClient())
	info, err := collector.ClusterInfo(ctx, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to collect cluster info: %v", err)), nil
	}
	return jsonResult(info)
}

// handleDeployments lists condensed deployment info per namespace.
func handleDeployments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := requestNamespace(request, sc)
	sc.Logger().Debug("handling tool call",
		logging.Tool("kubernetes_deployments"), logging.Namespace(namespace))

	collector := inspect.NewCollector(sc.K8sClient())
	deployments, err := collector.Deployments(ctx, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list deployments: %v", err)), nil
	}
	return jsonResult(deployments)
}

// handlePods lists condensed pod info per namespace.
func handlePods(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := requestNamespace(request, sc)
	sc.Logger().Debug("handling tool call",
		logging.Tool("kubernetes_pods"), logging.Namespace(namespace))

	collector := inspect.NewCollector(sc.K8sClient())
	pods, err := collector.Pods(ctx, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list pods: %v", err)), nil
	}
	return jsonResult(pods)
}

// handleServices lists condensed service info per namespace.
func handleServices(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	namespace := requestNamespace(request, sc)
	sc.Logger().Debug("handling tool call",
		logging.Tool("kubernetes_services"), logging.Namespace(namespace))

	collector := inspect.NewCollector(sc.K8sClient())
	services, err := collector.Services(ctx, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list services: %v", err)), nil
	}
	return jsonResult(services)
}

// jsonResult marshals a handler result as indented JSON tool output.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
