package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/migration"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewMigrateCmd(svc **service.Service) *cobra.Command {
	var (
		migrateDryRun     bool
		migrateVerbose    bool
		migrateShowReport bool
		migrateList       bool
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate legacy plain-text notes",
		Long: `Convert the plain-text notes of the current project into structured notes.

Each legacy file is parsed as markdown, written as a note at the same path
with a .json extension and removed once the note is stored.

Examples:
  notes migrate --list      # Show legacy notes
  notes migrate --dry-run   # Preview
  notes migrate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := *svc
			out := cmd.OutOrStdout()

			if migrateList {
				notes, ok, err := unwrap(s.GetLegacyNotes())
				if !ok {
					return err
				}
				for _, n := range notes {
					fmt.Fprintln(out, n.Path)
				}
				return nil
			}

			options := migration.MigrationOptions{
				DryRun:  migrateDryRun,
				Verbose: migrateVerbose,
			}
			report, ok, err := unwrap(s.MigrateLegacyNotes(nil, options, out))
			if !ok {
				return err
			}
			if migrateShowReport {
				printMigrationReport(out, report, migrateDryRun)
			}
			if report.FailedFiles > 0 {
				return fmt.Errorf("%d notes failed to migrate", report.FailedFiles)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "Show what would be changed without modifying")
	cmd.Flags().BoolVar(&migrateVerbose, "verbose", false, "Show detailed output")
	cmd.Flags().BoolVar(&migrateShowReport, "report", true, "Show migration report")
	cmd.Flags().BoolVar(&migrateList, "list", false, "List legacy notes without migrating")

	return cmd
}

func printMigrationReport(w io.Writer, report *migration.MigrationReport, dryRun bool) {
	fmt.Fprintf(w, "\nMigration Report\n")
	fmt.Fprintf(w, "================\n")
	fmt.Fprintf(w, "Total files:     %d\n", report.TotalFiles)
	fmt.Fprintf(w, "Processed:       %d\n", report.ProcessedFiles)
	fmt.Fprintf(w, "Migrated:        %d\n", report.MigratedFiles)
	fmt.Fprintf(w, "Skipped:         %d\n", report.SkippedFiles)
	fmt.Fprintf(w, "Failed:          %d\n", report.FailedFiles)
	fmt.Fprintf(w, "Duration:        %s\n", report.Duration())

	if len(report.ProcessingErrors) > 0 {
		files := make([]string, 0, len(report.ProcessingErrors))
		for file := range report.ProcessingErrors {
			files = append(files, file)
		}
		sort.Strings(files)
		fmt.Fprintf(w, "\nErrors:\n")
		for _, file := range files {
			fmt.Fprintf(w, "  %s: %v\n", file, report.ProcessingErrors[file])
		}
	}

	if dryRun {
		fmt.Fprintln(w, "\nDry run complete. No files were modified.")
	}
}
