package cmd

import (
	"github.com/spf13/cobra"
	"github.com/sprintlab/sprintlens/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the Sprintlens MCP server",
	Long:  `Launch an MCP server that allows AI agents to compute KPIs and run forecasts via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdout carries the protocol in MCP mode, so setup must stay quiet.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
