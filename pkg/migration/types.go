package migration

import (
	"time"
)

// State is the lifecycle position of a single legacy note.
type State string

const (
	StateDiscovered State = "discovered"
	StateParsed     State = "parsed"
	StateMigrated   State = "migrated"
	StateFailed     State = "failed"
)

type MigrationOptions struct {
	DryRun  bool
	Verbose bool
}

// NoteResult is the outcome of migrating one note.
type NoteResult struct {
	Path   string
	Target string
	State  State
	Err    error
}

type MigrationReport struct {
	TotalFiles       int
	ProcessedFiles   int
	MigratedFiles    int
	SkippedFiles     int
	FailedFiles      int
	Results          []NoteResult
	ProcessingErrors map[string]error
	StartTime        time.Time
	EndTime          time.Time
}

func NewMigrationReport() *MigrationReport {
	return &MigrationReport{
		ProcessingErrors: make(map[string]error),
		StartTime:        time.Now(),
	}
}

func (r *MigrationReport) AddError(file string, err error) {
	r.ProcessingErrors[file] = err
	r.FailedFiles++
}

func (r *MigrationReport) Complete() {
	r.EndTime = time.Now()
}

func (r *MigrationReport) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
