package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/notesmcp"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewMCPCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the note operations as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.ServeStdio(notesmcp.NewServer(*svc, Version))
		},
	}
}
