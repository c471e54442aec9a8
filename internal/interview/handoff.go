package interview

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrSessionMissing indicates no usable handoff payload was provided. Fatal
// for the session; the caller must send the user back to setup.
var ErrSessionMissing = errors.New("no interview session payload; run setup first")

// Handoff is the payload produced by the setup flow and consumed once at
// orchestrator construction.
type Handoff struct {
	Config    Config     `json:"config"`
	Questions []Question `json:"questions"`
}

// LoadHandoff reads and validates a handoff payload from a JSON file.
func LoadHandoff(path string) (Handoff, error) {
	if strings.TrimSpace(path) == "" {
		return Handoff{}, ErrSessionMissing
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Handoff{}, ErrSessionMissing
		}
		return Handoff{}, fmt.Errorf("open session payload %q: %w", path, err)
	}
	defer f.Close()

	return ReadHandoff(f)
}

// ReadHandoff decodes and validates a handoff payload from a reader.
func ReadHandoff(r io.Reader) (Handoff, error) {
	var handoff Handoff
	dec := json.NewDecoder(r)
	if err := dec.Decode(&handoff); err != nil {
		if errors.Is(err, io.EOF) {
			return Handoff{}, ErrSessionMissing
		}
		return Handoff{}, fmt.Errorf("decode session payload: %w", err)
	}

	if err := handoff.Validate(); err != nil {
		return Handoff{}, err
	}
	return handoff, nil
}

// Validate enforces the minimum shape a session can start from.
func (h Handoff) Validate() error {
	if len(h.Questions) == 0 {
		return ErrSessionMissing
	}
	for i, q := range h.Questions {
		if strings.TrimSpace(q.ID) == "" {
			return fmt.Errorf("question %d has no id", i)
		}
		if strings.TrimSpace(q.Content) == "" {
			return fmt.Errorf("question %q has no content", q.ID)
		}
	}
	return nil
}
