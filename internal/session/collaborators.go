package session

import (
	"context"
	"errors"

	"github.com/rahmadf/bella/internal/fsm"
	"github.com/rahmadf/bella/internal/interview"
)

var (
	// ErrRecorderUnavailable indicates runtime capture wiring is missing.
	ErrRecorderUnavailable = errors.New("audio capture not implemented")
	// ErrPipelineUnavailable indicates the remote answer pipeline is not wired.
	ErrPipelineUnavailable = errors.New("answer pipeline not implemented")
	// ErrEmptyRecording indicates stop completed but no audio was captured.
	ErrEmptyRecording = errors.New("no audio captured; check microphone input or mute state")
	// ErrPlaybackBlocked indicates playback was refused pending a user gesture.
	// Recoverable: any forwarded command counts as the gesture.
	ErrPlaybackBlocked = errors.New("playback blocked until a user action arrives")
)

// Recording is one encoded answer recording produced by the capture service.
type Recording struct {
	Codec       string
	Filename    string
	ContentType string
	Data        []byte
	Duration    float64 // seconds
}

// Spoken is one generated spoken response returned by the answer pipeline.
type Spoken struct {
	Text  string
	Audio []byte
}

// Utterance is one playable prompt: a remote URL or decoded audio bytes.
// Exactly one of URL and Audio is set.
type Utterance struct {
	Text  string
	URL   string
	Audio []byte
}

// Recorder abstracts microphone capture for one answer at a time.
type Recorder interface {
	Start(context.Context) error
	Stop(context.Context) (Recording, error)
	Reset()
	Buffer() *Recording
}

// Speaker plays spoken prompts, one utterance at a time. Play reports
// ErrPlaybackBlocked-style conditions via its return value; onDone fires
// exactly once per started utterance, with nil on natural end of audio and
// with the failure when resolving or playing broke down. A superseded or
// stopped utterance never reports.
type Speaker interface {
	Play(ctx context.Context, utterance Utterance, onDone func(error)) error
	Stop()
	Unlock()
}

// Pipeline is the remote answer pipeline consumed by the orchestrator.
type Pipeline interface {
	SubmitAnswer(ctx context.Context, recording Recording) (string, error)
	RequestFollowUp(ctx context.Context, question, answer string) (Spoken, error)
	RequestAcknowledgment(ctx context.Context, question, answer string) (Spoken, error)
	PersistInterview(ctx context.Context, record interview.Record) (string, error)
}

// Notifier surfaces session progress to the user-visible layer.
type Notifier interface {
	Phase(state fsm.State)
	Prompt(text string)
	Transcription(text string)
	Failure(message string)
}

// PlaceholderRecorder is a no-op placeholder used in tests/fallback wiring.
type PlaceholderRecorder struct{}

func (PlaceholderRecorder) Start(context.Context) error { return nil }

func (PlaceholderRecorder) Stop(context.Context) (Recording, error) {
	return Recording{}, ErrRecorderUnavailable
}

func (PlaceholderRecorder) Reset() {}

func (PlaceholderRecorder) Buffer() *Recording { return nil }

// PlaceholderPipeline is a no-op placeholder used in tests/fallback wiring.
type PlaceholderPipeline struct{}

func (PlaceholderPipeline) SubmitAnswer(context.Context, Recording) (string, error) {
	return "", ErrPipelineUnavailable
}

func (PlaceholderPipeline) RequestFollowUp(context.Context, string, string) (Spoken, error) {
	return Spoken{}, ErrPipelineUnavailable
}

func (PlaceholderPipeline) RequestAcknowledgment(context.Context, string, string) (Spoken, error) {
	return Spoken{}, ErrPipelineUnavailable
}

func (PlaceholderPipeline) PersistInterview(context.Context, interview.Record) (string, error) {
	return "", ErrPipelineUnavailable
}

// noopSpeaker preserves session flow when playback is disabled: every
// utterance completes immediately.
type noopSpeaker struct{}

func (noopSpeaker) Play(_ context.Context, _ Utterance, onDone func(error)) error {
	if onDone != nil {
		onDone(nil)
	}
	return nil
}

func (noopSpeaker) Stop()   {}
func (noopSpeaker) Unlock() {}

// noopNotifier preserves session flow when no notifier is wired.
type noopNotifier struct{}

func (noopNotifier) Phase(fsm.State)      {}
func (noopNotifier) Prompt(string)        {}
func (noopNotifier) Transcription(string) {}
func (noopNotifier) Failure(string)       {}
