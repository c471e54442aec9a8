package remote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// CallError reports a failed pipeline operation. Status is zero when the
// request never reached the server.
type CallError struct {
	Op      string
	Status  int
	Message string
}

func (e *CallError) Error() string {
	if e.Status == 0 {
		if e.Message == "" {
			return fmt.Sprintf("%s failed", e.Op)
		}
		return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
	}
	if e.Message == "" {
		return fmt.Sprintf("%s failed: status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s failed: status %d: %s", e.Op, e.Status, e.Message)
}

func callError(op string, resp *resty.Response, err error) error {
	if err != nil {
		return &CallError{Op: op, Message: err.Error()}
	}
	if resp == nil {
		return &CallError{Op: op, Message: "no response"}
	}
	if resp.IsSuccess() {
		return nil
	}
	return &CallError{
		Op:      op,
		Status:  resp.StatusCode(),
		Message: messageFromBody(resp.Body()),
	}
}

// messageFromBody extracts a human-readable error message when the server
// sends one, falling back to a truncated raw body.
func messageFromBody(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	text := strings.TrimSpace(string(body))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
