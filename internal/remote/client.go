// Package remote implements the answer-pipeline client: transcription,
// follow-up/acknowledgment generation, interview persistence, and the
// question-list fallback. All four turn operations are request/response
// over an authenticated HTTP channel; none are streaming.
package remote

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rahmadf/bella/internal/interview"
)

// Config selects the pipeline endpoint and its credentials.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client is a thin wrapper over one authenticated resty client.
type Client struct {
	http *resty.Client
}

// AnswerUpload is one encoded recording ready for transcription.
type AnswerUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Utterance is a generated spoken response: text plus decoded MP3 bytes.
type Utterance struct {
	Text  string
	Audio []byte
}

// New builds a client for the configured endpoint.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("remote base URL is empty")
	}

	http := resty.New().
		SetBaseURL(base).
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		http.SetAuthToken(cfg.Token)
	}
	if cfg.Timeout > 0 {
		http.SetTimeout(cfg.Timeout)
	}

	return &Client{http: http}, nil
}

// SubmitAnswer uploads one recording and returns its transcription.
func (c *Client) SubmitAnswer(ctx context.Context, upload AnswerUpload) (string, error) {
	if len(upload.Data) == 0 {
		return "", fmt.Errorf("answer upload is empty")
	}
	filename := upload.Filename
	if filename == "" {
		filename = fmt.Sprintf("recording-%d.bin", time.Now().UnixMilli())
	}

	var result struct {
		Transcription string `json:"transcription"`
	}

	req := c.http.R().
		SetContext(ctx).
		SetResult(&result)
	if upload.ContentType != "" {
		// The mu-law and A-law WAV variants share the .wav suffix, so the
		// part must carry the encoder's content type, not a filename guess.
		req.SetMultipartField("file", filename, upload.ContentType, bytes.NewReader(upload.Data))
	} else {
		req.SetFileReader("file", filename, bytes.NewReader(upload.Data))
	}

	resp, err := req.Post("/answer")
	if err := callError("submit answer", resp, err); err != nil {
		return "", err
	}
	return result.Transcription, nil
}

// RequestFollowUp generates a spoken follow-up question for an answer.
func (c *Client) RequestFollowUp(ctx context.Context, question, answer string) (Utterance, error) {
	return c.requestResponse(ctx, "request follow-up", question, answer, true)
}

// RequestAcknowledgment generates a spoken acknowledgment for an answer.
func (c *Client) RequestAcknowledgment(ctx context.Context, question, answer string) (Utterance, error) {
	return c.requestResponse(ctx, "request acknowledgment", question, answer, false)
}

func (c *Client) requestResponse(ctx context.Context, op, question, answer string, needFollowUp bool) (Utterance, error) {
	payload := struct {
		Question     string `json:"question"`
		Answer       string `json:"answer"`
		NeedFollowUp bool   `json:"needFollowUp"`
	}{
		Question:     question,
		Answer:       answer,
		NeedFollowUp: needFollowUp,
	}

	var result struct {
		Text        string `json:"text"`
		AudioBase64 string `json:"audioBase64"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/response")
	if err := callError(op, resp, err); err != nil {
		return Utterance{}, err
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioBase64)
	if err != nil {
		return Utterance{}, fmt.Errorf("%s: decode audio payload: %w", op, err)
	}
	return Utterance{Text: result.Text, Audio: audio}, nil
}

// PersistInterview stores a finalized interview and returns its identifier
// for the evaluation step.
func (c *Client) PersistInterview(ctx context.Context, record interview.Record) (string, error) {
	var result struct {
		InterviewID string `json:"interviewId"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(record).
		SetResult(&result).
		Post("/save")
	if err := callError("persist interview", resp, err); err != nil {
		return "", err
	}
	if result.InterviewID == "" {
		return "", fmt.Errorf("persist interview: response carried no interview id")
	}
	return result.InterviewID, nil
}

// FetchQuestions retrieves the question list for a category and level.
// Used as a fallback when the setup flow did not leave a handoff payload.
func (c *Client) FetchQuestions(ctx context.Context, categoryID, level string) ([]interview.Question, error) {
	var result []interview.Question

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("categoryId", categoryID).
		SetQueryParam("level", level).
		SetResult(&result).
		Get("/start")
	if err := callError("fetch questions", resp, err); err != nil {
		return nil, err
	}
	return result, nil
}
