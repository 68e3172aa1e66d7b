package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/annolab/quorum/internal/config"
	"github.com/annolab/quorum/internal/mcp"
)

func newMCPServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp-server",
		Short: "Run quorum as an MCP (Model Context Protocol) server",
		Long: `Start an MCP server that exposes the conflict engine over stdio.

Tools:

  • quorum_detect   - conflict report for a single ticket
  • quorum_resolve  - full analysis: detection, cause, resolved label

The server communicates via JSON-RPC 2.0 over stdin/stdout, following the
Model Context Protocol specification. Example client configuration:

  {
    "mcpServers": {
      "quorum": {
        "command": "quorum",
        "args": ["mcp-server"]
      }
    }
  }
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rulesPath, _ := cmd.Flags().GetString("rules")

			cfg := &mcp.Config{Name: "quorum", Version: version}
			if rulesPath != "" {
				rules, err := config.Load(rulesPath)
				if err != nil {
					return err
				}
				cfg.Rules = &rules
			}

			server, err := mcp.NewServer(cfg)
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			if err := server.Run(context.Background()); err != nil {
				return fmt.Errorf("MCP server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().String("rules", "", "Rulebook yaml overlaying the built-in lexicons and thresholds")
	return cmd
}
