package migration

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/mattsolo1/notesplusplus/pkg/markdown"
	"github.com/mattsolo1/notesplusplus/pkg/models"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
	"github.com/mattsolo1/notesplusplus/pkg/storage"
)

// Migrator moves legacy notes into the current backend. A legacy file is
// only removed after its replacement has been written.
type Migrator struct {
	legacy  afero.Fs
	target  storage.Backend
	options MigrationOptions
	report  *MigrationReport
	output  io.Writer
	logger  *logrus.Entry
}

func NewMigrator(fs afero.Fs, legacyRoot string, target storage.Backend, options MigrationOptions, output io.Writer, logger *logrus.Entry) *Migrator {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = logrus.NewEntry(l)
	}
	if output == nil {
		output = io.Discard
	}
	return &Migrator{
		legacy:  afero.NewBasePathFs(fs, legacyRoot),
		target:  target,
		options: options,
		report:  NewMigrationReport(),
		output:  output,
		logger:  logger.WithField("sub-component", "migrator"),
	}
}

// MigrateNote writes content as the structured replacement of the legacy
// note at p and then deletes the legacy file.
func (m *Migrator) MigrateNote(p string, content *models.NoteContent) (State, error) {
	if err := paths.Validate(p); err != nil {
		return StateFailed, err
	}
	if err := content.Validate(); err != nil {
		return StateFailed, err
	}
	state := StateParsed

	p = paths.Clean(p)
	if _, err := m.legacy.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return StateFailed, models.NotFoundf("legacy note %s not found", p)
		}
		return StateFailed, models.IOFailure(err, "stat legacy note %s", p)
	}

	target := paths.EnsureExtension(p)
	log := m.logger.WithFields(logrus.Fields{"path": p, "target": target})

	if m.options.DryRun {
		fmt.Fprintf(m.output, "would migrate %s -> %s\n", p, target)
		return state, nil
	}

	if err := m.target.WriteNote(target, content); err != nil {
		log.WithError(err).Warn("Failed to write migrated note, keeping legacy file")
		return StateFailed, fmt.Errorf("write migrated note: %w", err)
	}
	if err := m.legacy.Remove(p); err != nil {
		log.WithError(err).Warn("Migrated note written but legacy file could not be removed")
		return StateMigrated, models.IOFailure(err, "remove legacy note %s", p)
	}

	if m.options.Verbose {
		fmt.Fprintf(m.output, "migrated %s -> %s\n", p, target)
	}
	log.Debug("Migrated legacy note")
	return StateMigrated, nil
}

// MigrateAll converts and migrates each note in turn. A failure only
// affects the note it happened on.
func (m *Migrator) MigrateAll(notes []models.LegacyNote, convert markdown.Converter) *MigrationReport {
	if convert == nil {
		convert = markdown.ToDoc
	}
	m.report.TotalFiles += len(notes)

	for _, note := range notes {
		m.report.ProcessedFiles++
		result := NoteResult{Path: note.Path, Target: paths.EnsureExtension(paths.Clean(note.Path)), State: StateDiscovered}

		content, err := convert(note.Content)
		if err != nil {
			result.State, result.Err = StateFailed, fmt.Errorf("convert legacy note: %w", err)
			m.report.AddError(note.Path, result.Err)
			m.report.Results = append(m.report.Results, result)
			continue
		}

		result.State, result.Err = m.MigrateNote(note.Path, content)
		switch {
		case result.Err != nil:
			m.report.AddError(note.Path, result.Err)
		case m.options.DryRun:
			m.report.SkippedFiles++
		default:
			m.report.MigratedFiles++
		}
		m.report.Results = append(m.report.Results, result)
	}

	m.report.Complete()
	return m.report
}

func (m *Migrator) GetReport() *MigrationReport {
	return m.report
}
