package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewNewCmd(svc **service.Service) *cobra.Command {
	var (
		parent string
		file   string
	)

	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Create a new note",
		Long: `Create a new note in the current project and select it.

Without a name the note is called "Untitled", "Untitled 2", and so on.
Markdown piped on stdin becomes the note content.

Examples:
  notes new                          # Untitled note at the root
  notes new "meeting notes" -i work  # Note inside /work
  echo "Quick thought" | notes new   # From stdin
  notes new plan -f plan.md          # From a markdown file`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			content, err := readContent(cmd, file)
			if err != nil {
				return err
			}
			note, ok, err := unwrap((*svc).CreateNote(parent, name, content))
			if !ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created note: %s\n", note.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "in", "i", "", "Parent folder")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Read markdown content from a file (- for stdin)")

	return cmd
}

func NewEditCmd(svc **service.Service) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "edit <path>",
		Short: "Replace a note's content with markdown",
		Long: `Replace a note's content with markdown read from a file or stdin.

Examples:
  notes edit /todo -f todo.md
  cat todo.md | notes edit /todo`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if file == "" {
				file = "-"
			}
			content, err := readContent(cmd, file)
			if err != nil {
				return err
			}
			note, ok, err := unwrap((*svc).UpdateNoteContent(args[0], content))
			if !ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated note: %s\n", note.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Markdown file to read (default stdin)")

	return cmd
}

func NewMkdirCmd(svc **service.Service) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "mkdir [name]",
		Short: "Create a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			folder, ok, err := unwrap((*svc).CreateFolder(parent, name))
			if !ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created folder: %s\n", folder.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "in", "i", "", "Parent folder")

	return cmd
}
