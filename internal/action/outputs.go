package action

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/coprime/wait-for-vercel-preview/internal/errors"
)

// TargetOutput is one resolved preview in the urls step output.
type TargetOutput struct {
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Outputs holds everything a successful run publishes to later steps.
type Outputs struct {
	// URLs lists the resolved previews in resolution order.
	URLs []TargetOutput

	// VercelJWT is the last bypass token obtained across targets, empty
	// when no preview password is configured.
	VercelJWT string
}

// OutputWriter appends step outputs to the file the runner names in
// GITHUB_OUTPUT. With no file configured, outputs are logged instead so
// local runs still show what would have been published.
type OutputWriter struct {
	path   string
	logger zerolog.Logger
}

// NewOutputWriter creates a writer for the given output file path.
func NewOutputWriter(path string, logger zerolog.Logger) *OutputWriter {
	return &OutputWriter{path: path, logger: logger}
}

// WriteAll publishes the step outputs.
func (w *OutputWriter) WriteAll(outputs Outputs) error {
	urlsJSON, err := json.Marshal(outputs.URLs)
	if err != nil {
		return fmt.Errorf("%w: encode urls: %s", errors.ErrOutputWrite, err.Error())
	}

	entries := []struct {
		name  string
		value string
	}{
		{name: "urls", value: string(urlsJSON)},
		{name: "vercel_jwt", value: outputs.VercelJWT},
	}

	if w.path == "" {
		for _, entry := range entries {
			w.logger.Info().
				Str("name", entry.name).
				Str("value", entry.value).
				Msg("step output (no output file configured)")
		}
		return nil
	}

	// The runner pre-creates the file; appending is the toolkit convention
	// so earlier steps' outputs survive.
	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // Path comes from the runner, not a user
	if err != nil {
		return fmt.Errorf("%w: open %s: %s", errors.ErrOutputWrite, w.path, err.Error())
	}
	defer func() { _ = file.Close() }()

	for _, entry := range entries {
		if _, err := file.WriteString(formatOutputLine(entry.name, entry.value)); err != nil {
			return fmt.Errorf("%w: write %s to %s: %s", errors.ErrOutputWrite, entry.name, w.path, err.Error())
		}
		w.logger.Debug().Str("name", entry.name).Msg("step output written")
	}

	return nil
}

// formatOutputLine renders one output in the runner's file format. Values
// containing line breaks use the toolkit's heredoc form with a random
// delimiter so the value cannot terminate itself.
func formatOutputLine(name, value string) string {
	if !strings.ContainsAny(value, "\r\n") {
		return fmt.Sprintf("%s=%s\n", name, value)
	}

	delimiter := "ghadelimiter_" + uuid.New().String()
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter)
}
