// Package output writes finalized interview records to the local state
// directory so a session survives even when the remote persist call is the
// last thing that fails.
package output

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/rahmadf/bella/internal/interview"
)

// Exporter writes interview records as JSON files under a base directory.
type Exporter struct {
	dir    string
	logger *slog.Logger
}

// NewExporter constructs an exporter rooted at dir. An empty dir resolves to
// $XDG_STATE_HOME/bella/interviews.
func NewExporter(dir string, logger *slog.Logger) (*Exporter, error) {
	if strings.TrimSpace(dir) == "" {
		resolved, err := defaultDir()
		if err != nil {
			return nil, err
		}
		dir = resolved
	}
	return &Exporter{dir: dir, logger: logger}, nil
}

// Dir returns the export directory.
func (e *Exporter) Dir() string { return e.dir }

// Export writes one record and returns the file path. The filename is derived
// from the interview identifier when present.
func (e *Exporter) Export(record interview.Record) (string, error) {
	if len(record.Answers) == 0 {
		return "", fmt.Errorf("refusing to export a record with no answers")
	}

	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory %q: %w", e.dir, err)
	}

	name := record.ID
	if strings.TrimSpace(name) == "" {
		name = fmt.Sprintf("interview-%d", record.FinishedAt.Unix())
	}
	path := filepath.Join(e.dir, sanitizeFilename(name)+".json")

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode interview record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write interview record: %w", err)
	}

	if e.logger != nil {
		e.logger.Info("interview exported", slog.String("path", path), slog.Int("answers", len(record.Answers)))
	}
	return path, nil
}

func defaultDir() (string, error) {
	base := strings.TrimSpace(os.Getenv("XDG_STATE_HOME"))
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve state directory: %w", err)
		}
		base = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(base, "bella", "interviews"), nil
}

// sanitizeFilename keeps identifiers filesystem-safe.
func sanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "interview"
	}
	return b.String()
}
