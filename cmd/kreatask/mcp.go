package main

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kreatask/kreatask-api/internal/mcptools"
)

func mcpCmd() *cobra.Command {
	var withCache bool
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve scoring and leaderboard tools over MCP stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// stdout carries the protocol; logs go to stderr.
			cfg, log, err := loadConfig(ctx, os.Stderr)
			if err != nil {
				return err
			}
			st, err := openStorage(ctx, cfg, log, withCache)
			if err != nil {
				return err
			}
			defer st.Close(context.Background())

			return server.ServeStdio(mcptools.NewServer(Version, st.leaderboard))
		},
	}
	cmd.Flags().BoolVar(&withCache, "cache", false, "Use the Redis leaderboard cache")
	return cmd
}
