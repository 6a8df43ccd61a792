package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/cmd/config"
	"github.com/mattsolo1/notesplusplus/pkg/host"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewProjectCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Show or change the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			p, ok, err := unwrap(s.Project())
			if !ok {
				return err
			}
			root, _, _ := unwrap(s.Root())
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", p.ID, p.Name, root)
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <id> [name]",
		Short: "Make a project current",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := &host.Project{ID: args[0], Name: args[0]}
			if len(args) > 1 {
				p.Name = args[1]
			}
			source := config.ProjectFile()
			if err := source.SetProject(p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current project: %s\n", p.ID)
			return nil
		},
	}, &cobra.Command{
		Use:   "clear",
		Short: "Unset the current project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.ProjectFile().SetProject(nil)
		},
	})

	return cmd
}

func NewWatchCmd(svc **service.Service) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow project changes and print the new tree",
		Long: `Watch the project file and refresh the tree whenever the current
project changes. Stops on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if config.ProjectOverride != "" {
				return fmt.Errorf("watch follows the project file and cannot be combined with --project")
			}
			s := *svc
			out := cmd.OutOrStdout()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			source := config.ProjectFile()
			if err := os.MkdirAll(filepath.Dir(source.Path()), 0755); err != nil {
				return fmt.Errorf("create project file directory: %w", err)
			}
			changes, err := source.Watch(ctx, debounce, config.NewLogger())
			if err != nil {
				return err
			}

			unsubscribe := s.Subscribe(func(c host.ProjectChange) {
				if c.Current == nil {
					fmt.Fprintln(out, "No project selected")
					return
				}
				fmt.Fprintf(out, "Project: %s\n", c.Current.ID)
			})
			defer unsubscribe()

			if root, ok, _ := unwrap(s.GetTree()); ok {
				printTree(out, root, 0, "", nil)
			}
			for change := range changes {
				s.HandleProjectChange(change)
				if root, ok, _ := unwrap(s.GetTree()); ok {
					printTree(out, root, 0, "", nil)
				}
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", host.DefaultDebounce, "Delay before reacting to a change")

	return cmd
}
