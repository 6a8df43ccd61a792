package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewMoveCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mv <from> <to>",
		Short: "Move a note or folder",
		Long: `Move a note or folder to a new path. Folders move with everything in them.

Examples:
  notes mv /draft /archive/draft
  notes mv /work /projects/work`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, ok, err := unwrap((*svc).MoveItem(args[0], args[1]))
			if !ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s -> %s\n", args[0], to)
			return nil
		},
	}

	return cmd
}

func NewRenameCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <path> <new-name>",
		Short: "Rename a note or folder in place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			to, ok, err := unwrap((*svc).RenameItem(args[0], args[1]))
			if !ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s -> %s\n", args[0], to)
			return nil
		},
	}

	return cmd
}

func NewRemoveCmd(svc **service.Service) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "rm <path>",
		Short: "Delete a note, or a folder with -r",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			var err error
			var ok bool
			if recursive {
				_, ok, err = unwrap(s.DeleteFolder(args[0]))
			} else {
				_, ok, err = unwrap(s.DeleteNote(args[0]))
			}
			if !ok {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Delete a folder and everything in it")

	return cmd
}
