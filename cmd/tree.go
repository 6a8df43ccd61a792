package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewTreeCmd(svc **service.Service) *cobra.Command {
	var (
		jsonOutput bool
		collapsed  bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show the note tree of the current project",
		Long: `Show every folder and note of the current project.

Examples:
  notes tree               # Full tree
  notes tree --collapsed   # Only expand folders marked open
  notes tree --json        # Machine readable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			root, ok, err := unwrap(s.GetTree())
			if !ok {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), root)
			}

			current := ""
			if n, ok, _ := unwrap(s.CurrentNote()); ok && n != nil {
				current = n.Path
			}
			var open map[string]bool
			if collapsed {
				open = map[string]bool{}
				if paths, ok, _ := unwrap(s.OpenFolders()); ok {
					for _, p := range paths {
						open[p] = true
					}
				}
			}
			printTree(cmd.OutOrStdout(), root, 0, current, open)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the tree as JSON")
	cmd.Flags().BoolVar(&collapsed, "collapsed", false, "Only expand folders marked open")

	return cmd
}

func printTree(w io.Writer, n *models.Node, depth int, current string, open map[string]bool) {
	for _, child := range n.Children {
		indent := strings.Repeat("  ", depth)
		if child.IsFolder() {
			expanded := open == nil || open[child.Path]
			marker := "▸"
			if expanded {
				marker = "▾"
			}
			fmt.Fprintf(w, "%s%s %s/\n", indent, marker, child.Name)
			if expanded {
				printTree(w, child, depth+1, current, open)
			}
			continue
		}
		mark := " "
		if child.Path == current {
			mark = "*"
		}
		fmt.Fprintf(w, "%s%s %s\n", indent, mark, child.Name)
	}
}
