package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewSelectCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "select <path>",
		Short: "Select a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, ok, err := unwrap((*svc).SelectNote(args[0]))
			if !ok {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), note.Path)
			return nil
		},
	}
}

func NewCurrentCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "current",
		Short: "Print the selected note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			note, ok, err := unwrap((*svc).CurrentNote())
			if !ok || note == nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), note.Path)
			return nil
		},
	}
}

func NewBackCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "back",
		Short: "Select the previous note in history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok, err := unwrap((*svc).GoBack())
			if !ok || p == "" {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func NewForwardCmd(svc **service.Service) *cobra.Command {
	return &cobra.Command{
		Use:   "forward",
		Short: "Select the next note in history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok, err := unwrap((*svc).GoForward())
			if !ok || p == "" {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p)
			return nil
		},
	}
}

func NewHistoryCmd(svc **service.Service) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show navigation history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, ok, err := unwrap((*svc).History())
			if !ok {
				return err
			}
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), h)
			}
			for i, p := range h.Entries {
				marker := " "
				if i == h.Index {
					marker = ">"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", marker, p)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")

	return cmd
}

func NewFolderCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Expand or collapse folders",
	}

	state := func(open bool) string {
		if open {
			return "open"
		}
		return "closed"
	}
	sub := func(use, short string, op func(*service.Service, string) (bool, bool, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <path>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				open, ok, err := op(*svc, args[0])
				if !ok {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], state(open))
				return nil
			},
		}
	}

	cmd.AddCommand(
		sub("open", "Expand a folder", func(s *service.Service, p string) (bool, bool, error) { return unwrap(s.OpenFolder(p)) }),
		sub("close", "Collapse a folder", func(s *service.Service, p string) (bool, bool, error) { return unwrap(s.CloseFolder(p)) }),
		sub("toggle", "Flip a folder", func(s *service.Service, p string) (bool, bool, error) { return unwrap(s.ToggleFolder(p)) }),
		&cobra.Command{
			Use:   "list",
			Short: "List expanded folders",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				open, ok, err := unwrap((*svc).OpenFolders())
				if !ok {
					return err
				}
				for _, p := range open {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return nil
			},
		},
	)

	return cmd
}
