package service

import (
	"io"

	"github.com/mattsolo1/notesplusplus/pkg/markdown"
	"github.com/mattsolo1/notesplusplus/pkg/migration"
	"github.com/mattsolo1/notesplusplus/pkg/models"
)

// GetLegacyNotes lists the plain-text notes left in the current project's
// legacy directory.
func (s *Service) GetLegacyNotes() models.Result[[]models.LegacyNote] {
	return run(s, "get legacy notes", func(pc *projectContext) ([]models.LegacyNote, error) {
		return migration.Discover(s.fs, s.resolver.Root(pc.project.ID, true))
	})
}

func (s *Service) migrator(pc *projectContext, options migration.MigrationOptions, output io.Writer) *migration.Migrator {
	return migration.NewMigrator(s.fs, s.resolver.Root(pc.project.ID, true), pc.backend, options, output, s.logger)
}

// MigrateNote stores content as the structured version of the legacy note
// at path and removes the legacy file.
func (s *Service) MigrateNote(path string, content *models.NoteContent) models.Result[migration.State] {
	return run(s, "migrate note", func(pc *projectContext) (migration.State, error) {
		state, err := s.migrator(pc, migration.MigrationOptions{}, nil).MigrateNote(path, content)
		s.refresh(pc)
		return state, err
	})
}

// MigrateLegacyNotes converts every legacy note of the current project.
// A nil convert uses the markdown converter. Individual failures are
// reported, not returned.
func (s *Service) MigrateLegacyNotes(convert markdown.Converter, options migration.MigrationOptions, output io.Writer) models.Result[*migration.MigrationReport] {
	return run(s, "migrate legacy notes", func(pc *projectContext) (*migration.MigrationReport, error) {
		notes, err := migration.Discover(s.fs, s.resolver.Root(pc.project.ID, true))
		if err != nil {
			return nil, err
		}
		report := s.migrator(pc, options, output).MigrateAll(notes, convert)
		if !options.DryRun {
			s.refresh(pc)
		}
		s.logger.WithField("migrated", report.MigratedFiles).
			WithField("failed", report.FailedFiles).
			Info("Legacy migration finished")
		return report, nil
	})
}
