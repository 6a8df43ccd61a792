package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/markdown"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewShowCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <path>",
		Short: "Print a note",
		Long: `Print a note as markdown, or as its stored JSON document with --json.

Examples:
  notes show /ideas/launch
  notes show /ideas/launch.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, ok, err := unwrap((*svc).GetNote(args[0]))
			if !ok {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), note.Content)
			}
			fmt.Fprint(cmd.OutOrStdout(), markdown.ToMarkdown(note.Content))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the stored document")

	return cmd
}
