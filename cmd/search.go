package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/search"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewSearchCmd(svc **service.Service) *cobra.Command {
	var (
		searchLimit   int
		searchContent bool
		jsonOutput    bool
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search notes",
		Long: `Search for notes whose name or path contains the query, ignoring case.

Examples:
  notes search "meeting"
  notes search todo --content   # Also match note text`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")

			opts := []search.Option{search.WithLimit(searchLimit)}
			if searchContent {
				opts = append(opts, search.InContent())
			}

			results, ok, err := unwrap((*svc).SearchNotes(query, opts...))
			if !ok {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No results found")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Found %d results:\n\n", len(results))
			for i, note := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n   %s\n", i+1, note.Name, note.Path)
				if excerpt := note.Content.Excerpt(80); excerpt != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "   %s\n", excerpt)
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&searchLimit, "limit", 50, "Maximum results")
	cmd.Flags().BoolVar(&searchContent, "content", false, "Also search note text")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")

	return cmd
}
