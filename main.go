package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/cmd"
	"github.com/mattsolo1/notesplusplus/cmd/config"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

var (
	svc    *service.Service
	logger *logrus.Entry
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "notes",
		Short:         "A project-scoped note tree",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	config.AddGlobalFlags(rootCmd)
	cobra.OnInitialize(config.InitConfig)

	rootCmd.PersistentPreRunE = func(c *cobra.Command, args []string) error {
		// This runs once before any subcommand
		logger = config.NewLogger()
		var err error
		svc, err = config.InitService(logger)
		return err
	}
	rootCmd.PersistentPostRun = func(c *cobra.Command, args []string) {
		if svc == nil {
			return
		}
		if err := svc.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close service")
		}
	}

	// Add subcommands
	rootCmd.AddCommand(cmd.NewTreeCmd(&svc))
	rootCmd.AddCommand(cmd.NewShowCmd(&svc))
	rootCmd.AddCommand(cmd.NewNewCmd(&svc))
	rootCmd.AddCommand(cmd.NewEditCmd(&svc))
	rootCmd.AddCommand(cmd.NewMkdirCmd(&svc))
	rootCmd.AddCommand(cmd.NewRemoveCmd(&svc))
	rootCmd.AddCommand(cmd.NewMoveCmd(&svc))
	rootCmd.AddCommand(cmd.NewRenameCmd(&svc))
	rootCmd.AddCommand(cmd.NewSearchCmd(&svc))
	rootCmd.AddCommand(cmd.NewExportCmd(&svc))
	rootCmd.AddCommand(cmd.NewAttachmentCmd(&svc))
	rootCmd.AddCommand(cmd.NewMigrateCmd(&svc))
	rootCmd.AddCommand(cmd.NewSelectCmd(&svc))
	rootCmd.AddCommand(cmd.NewCurrentCmd(&svc))
	rootCmd.AddCommand(cmd.NewBackCmd(&svc))
	rootCmd.AddCommand(cmd.NewForwardCmd(&svc))
	rootCmd.AddCommand(cmd.NewHistoryCmd(&svc))
	rootCmd.AddCommand(cmd.NewFolderCmd(&svc))
	rootCmd.AddCommand(cmd.NewProjectCmd(&svc))
	rootCmd.AddCommand(cmd.NewWatchCmd(&svc))
	rootCmd.AddCommand(cmd.NewMCPCmd(&svc))
	rootCmd.AddCommand(cmd.NewVersionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
