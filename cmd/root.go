package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the mcp-cluster-info application.
// It is the entry point when the application is called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mcp-cluster-info",
	Short: "MCP server for read-only Kubernetes cluster introspection",
	Long: `mcp-cluster-info is a Model Context Protocol (MCP) server that gives
chat assistants read-only visibility into a Kubernetes cluster: workload
overviews, image version mismatch detection across the pods of a deployment,
and summarized custom resources such as ArgoCD applications and cert-manager
certificates.

When run without subcommands, it starts the MCP server (equivalent to
'mcp-cluster-info serve').`,
	// SilenceUsage prevents Cobra from printing the usage message on errors
	// that are handled by the application.
	SilenceUsage: true,
}

// SetVersion sets the version for the root command.
// This function is typically called from the main package to inject the
// application version at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcp-cluster-info version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newServeCmd())
}
