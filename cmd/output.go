package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/markdown"
	"github.com/mattsolo1/notesplusplus/pkg/models"
)

// unwrap returns the value of a service result. A missing project is not
// reported: the command prints nothing and succeeds.
func unwrap[T any](r models.Result[T]) (T, bool, error) {
	if r.OK() {
		return r.Value, true, nil
	}
	var zero T
	if r.ErrorKind == models.KindNoProject {
		return zero, false, nil
	}
	return zero, false, r.Err()
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// readContent reads markdown from file, or from stdin when file is "-"
// or stdin is piped. It returns nil when there is nothing to read.
func readContent(cmd *cobra.Command, file string) (*models.NoteContent, error) {
	var data []byte
	var err error
	switch {
	case file != "" && file != "-":
		data, err = os.ReadFile(file)
	case file == "-" || stdinPiped():
		data, err = io.ReadAll(cmd.InOrStdin())
	default:
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return markdown.ToDoc(string(data))
}

func stdinPiped() bool {
	stat, err := os.Stdin.Stat()
	return err == nil && (stat.Mode()&os.ModeCharDevice) == 0
}
