package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rahmadf/bella/internal/interview"
)

func sampleRecord() interview.Record {
	return interview.Record{
		ID:         "iv-42",
		CategoryID: "backend",
		Category:   "Backend Engineering",
		Level:      "junior",
		Tier:       "free",
		Questions: []interview.Question{
			{ID: "q1", Content: "Perkenalkan diri Anda.", Type: interview.QuestionIntro},
		},
		Answers: []interview.Answer{
			{QuestionID: "q1", Question: "Perkenalkan diri Anda.", Transcription: "Nama saya Rahmad.", Duration: 3.2},
		},
		FinishedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestExportWritesRecord(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(dir, nil)
	require.NoError(t, err)

	path, err := exporter.Export(sampleRecord())
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "iv-42.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded interview.Record
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "iv-42", decoded.ID)
	require.Len(t, decoded.Answers, 1)
	require.Equal(t, "Nama saya Rahmad.", decoded.Answers[0].Transcription)
}

func TestExportWithoutIDUsesTimestamp(t *testing.T) {
	dir := t.TempDir()
	exporter, err := NewExporter(dir, nil)
	require.NoError(t, err)

	record := sampleRecord()
	record.ID = ""

	path, err := exporter.Export(record)
	require.NoError(t, err)
	require.Contains(t, filepath.Base(path), "interview-")
}

func TestExportRejectsEmptyRecord(t *testing.T) {
	exporter, err := NewExporter(t.TempDir(), nil)
	require.NoError(t, err)

	_, err = exporter.Export(interview.Record{})
	require.Error(t, err)
	require.Contains(t, err.Error(), "no answers")
}

func TestNewExporterDefaultsToStateHome(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	exporter, err := NewExporter("", nil)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(state, "bella", "interviews"), exporter.Dir())
}

func TestSanitizeFilename(t *testing.T) {
	require.Equal(t, "iv_42_x", sanitizeFilename("iv/42:x"))
	require.Equal(t, "interview", sanitizeFilename(""))
}
