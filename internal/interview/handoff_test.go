package interview

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const samplePayload = `{
  "config": {
    "categoryId": "cat-mobile",
    "categoryTitle": "Mobile Engineering",
    "level": "senior",
    "tier": "premium"
  },
  "questions": [
    {
      "_id": "q1",
      "categoryId": "cat-mobile",
      "level": "senior",
      "type": "core",
      "content": "Jelaskan pengalaman Anda dengan state management.",
      "followUp": true,
      "audioUrl": "https://cdn.example.com/q1.mp3",
      "category": {"title": "Mobile Engineering"}
    },
    {
      "_id": "q2",
      "categoryId": "cat-mobile",
      "level": "senior",
      "type": "closing",
      "content": "Apa yang Anda harapkan dari posisi ini?",
      "followUp": false
    }
  ]
}`

func TestReadHandoffDecodesPayload(t *testing.T) {
	handoff, err := ReadHandoff(strings.NewReader(samplePayload))
	require.NoError(t, err)

	require.Equal(t, "cat-mobile", handoff.Config.CategoryID)
	require.Equal(t, "premium", handoff.Config.Tier)
	require.Len(t, handoff.Questions, 2)
	require.Equal(t, "q1", handoff.Questions[0].ID)
	require.True(t, handoff.Questions[0].FollowUp)
	require.Equal(t, QuestionCore, handoff.Questions[0].Type)
	require.NotNil(t, handoff.Questions[0].Category)
	require.Equal(t, "Mobile Engineering", handoff.Questions[0].Category.Title)
	require.False(t, handoff.Questions[1].FollowUp)
}

func TestReadHandoffEmptyPayloadIsSessionMissing(t *testing.T) {
	_, err := ReadHandoff(strings.NewReader(""))
	require.ErrorIs(t, err, ErrSessionMissing)

	_, err = ReadHandoff(strings.NewReader(`{"config":{},"questions":[]}`))
	require.ErrorIs(t, err, ErrSessionMissing)
}

func TestReadHandoffRejectsMalformedQuestions(t *testing.T) {
	_, err := ReadHandoff(strings.NewReader(`{"questions":[{"_id":"","content":"x"}]}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no id")

	_, err = ReadHandoff(strings.NewReader(`{"questions":[{"_id":"q1","content":"  "}]}`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "no content")
}

func TestLoadHandoffMissingFileIsSessionMissing(t *testing.T) {
	_, err := LoadHandoff("")
	require.ErrorIs(t, err, ErrSessionMissing)

	_, err = LoadHandoff(filepath.Join(t.TempDir(), "nope.json"))
	require.ErrorIs(t, err, ErrSessionMissing)
}

func TestLoadHandoffReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte(samplePayload), 0o600))

	handoff, err := LoadHandoff(path)
	require.NoError(t, err)
	require.Len(t, handoff.Questions, 2)
}

func TestGreetingSynthesisFallbacks(t *testing.T) {
	questions := []Question{{
		ID:         "q1",
		CategoryID: "cat-be",
		Level:      "junior",
		Content:    "x",
		Category:   &Category{Title: "Backend"},
	}}

	greeting := Greeting(Config{}, questions, "", "")
	require.Equal(t, "greeting", greeting.ID)
	require.Equal(t, QuestionGreeting, greeting.Type)
	require.Equal(t, "cat-be", greeting.CategoryID)
	require.Equal(t, "junior", greeting.Level)
	require.Equal(t, "Backend", greeting.Category.Title)
	require.Contains(t, greeting.Content, "Bella")
	require.NotEmpty(t, greeting.AudioURL)
	require.False(t, greeting.FollowUp)
}

func TestGreetingSynthesisOverrides(t *testing.T) {
	greeting := Greeting(Config{CategoryTitle: "Data"}, nil, "Selamat datang.", "https://cdn.example.com/hi.mp3")
	require.Equal(t, "Selamat datang.", greeting.Content)
	require.Equal(t, "https://cdn.example.com/hi.mp3", greeting.AudioURL)
	require.Equal(t, "Data", greeting.Category.Title)
}
