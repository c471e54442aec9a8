// Package session orchestrates interview turns: it holds the canonical
// phase machine, decides what to play and record next, and drives the
// remote answer pipeline.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rahmadf/bella/internal/fsm"
	"github.com/rahmadf/bella/internal/interview"
	"github.com/rahmadf/bella/internal/ipc"
	"github.com/rahmadf/bella/internal/transcript"
)

// pendingPrompt models the exclusive ephemeral entities of a turn: a live
// follow-up question or a live acknowledgment, never both.
type pendingPrompt interface {
	isPendingPrompt()
}

type followUpPrompt struct {
	question interview.FollowUpQuestion
}

type ackPrompt struct {
	ack interview.Acknowledgment
}

func (followUpPrompt) isPendingPrompt() {}
func (ackPrompt) isPendingPrompt()      {}

// retryCall records the generation step to repeat after a rollback. The
// answer it belongs to is already appended; only the spoken response is owed.
type retryCall struct {
	needFollowUp bool
	wasFollowUp  bool
	question     string
	answer       string
}

// Deps bundles the orchestrator's collaborators. Nil members fall back to
// safe placeholders.
type Deps struct {
	Recorder Recorder
	Speaker  Speaker
	Pipeline Pipeline
	Notifier Notifier
	Logger   *slog.Logger
}

// FinalizeResult is the completion handoff: the persisted identifier and the
// record that was stored.
type FinalizeResult struct {
	InterviewID string
	Record      interview.Record
}

// Snapshot is a point-in-time view of session progress.
type Snapshot struct {
	State         fsm.State
	QuestionIndex int
	QuestionCount int
	AnswerCount   int
	Prompt        string
	LastError     string
	InterviewID   string
}

// Controller is the interview turn orchestrator. All state changes flow
// through one mutex; asynchronous completions re-enter it carrying the
// session generation they were started under, and stale results are dropped.
type Controller struct {
	logger   *slog.Logger
	recorder Recorder
	speaker  Speaker
	pipeline Pipeline
	notifier Notifier

	cfg       interview.Config
	questions []interview.Question
	greeting  interview.Question
	norm      transcript.Options

	mu          sync.Mutex
	state       fsm.State
	generation  uint64
	index       int
	answers     []interview.Answer
	pending     pendingPrompt
	retry       *retryCall
	buffer      *Recording
	capturing   bool
	lastErr     string
	interviewID string
}

// NewController validates the handoff payload and builds an orchestrator in
// the greeting phase. A missing or empty payload fails with ErrSessionMissing
// before any transition happens.
func NewController(handoff interview.Handoff, greeting interview.Question, norm transcript.Options, deps Deps) (*Controller, error) {
	if err := handoff.Validate(); err != nil {
		return nil, err
	}

	if deps.Recorder == nil {
		deps.Recorder = PlaceholderRecorder{}
	}
	if deps.Speaker == nil {
		deps.Speaker = noopSpeaker{}
	}
	if deps.Pipeline == nil {
		deps.Pipeline = PlaceholderPipeline{}
	}
	if deps.Notifier == nil {
		deps.Notifier = noopNotifier{}
	}

	return &Controller{
		logger:    deps.Logger,
		recorder:  deps.Recorder,
		speaker:   deps.Speaker,
		pipeline:  deps.Pipeline,
		notifier:  deps.Notifier,
		cfg:       handoff.Config,
		questions: handoff.Questions,
		greeting:  greeting,
		norm:      norm,
		state:     fsm.StateGreeting,
	}, nil
}

// State returns the current phase.
func (c *Controller) State() fsm.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns current progress for status output.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		State:         c.state,
		QuestionIndex: c.index,
		QuestionCount: len(c.questions),
		AnswerCount:   len(c.answers),
		Prompt:        c.currentPromptLocked(),
		LastError:     c.lastErr,
		InterviewID:   c.interviewID,
	}
}

func (c *Controller) currentPromptLocked() string {
	if fp, ok := c.pending.(followUpPrompt); ok {
		return fp.question.Text
	}
	if c.state == fsm.StateGreeting {
		return c.greeting.Content
	}
	if c.index < len(c.questions) {
		return c.questions[c.index].Content
	}
	return ""
}

// transitionLocked applies one event. Callers hold the mutex.
func (c *Controller) transitionLocked(event fsm.Event) error {
	next, err := fsm.Transition(c.state, event)
	if err != nil {
		return err
	}
	c.logDebug("phase transition", slog.String("from", string(c.state)), slog.String("event", string(event)), slog.String("to", string(next)))
	c.state = next
	c.notifier.Phase(next)
	return nil
}

// Begin speaks the greeting. Blocked playback is tolerated here: the first
// forwarded command unlocks the speaker and replays it.
func (c *Controller) Begin(ctx context.Context) error {
	c.mu.Lock()
	if c.state != fsm.StateGreeting {
		c.mu.Unlock()
		return fmt.Errorf("session already underway in phase %s", c.state)
	}
	generation := c.generation
	c.mu.Unlock()

	c.playGreeting(ctx, generation)
	return nil
}

func (c *Controller) playGreeting(ctx context.Context, generation uint64) {
	c.notifier.Prompt(c.greeting.Content)

	utterance := Utterance{Text: c.greeting.Content, URL: c.greeting.AudioURL}
	if utterance.URL == "" {
		// Nothing to speak; move straight to the first question.
		c.greetingPlayed(ctx, generation)
		return
	}

	err := c.speaker.Play(ctx, utterance, func(playErr error) {
		if playErr != nil {
			// The greeting text was already shown; a broken utterance
			// must not stall the session.
			c.notifier.Failure(fmt.Sprintf("greeting playback: %v", playErr))
		}
		c.greetingPlayed(ctx, generation)
	})
	if errors.Is(err, ErrPlaybackBlocked) {
		c.logDebug("greeting blocked; waiting for a user action")
		return
	}
	if err != nil {
		c.logWarn(fmt.Sprintf("greeting playback: %v", err))
	}
}

func (c *Controller) greetingPlayed(ctx context.Context, generation uint64) {
	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	if err := c.transitionLocked(fsm.EventGreetingPlayed); err != nil {
		c.mu.Unlock()
		return
	}
	c.index = 0
	c.mu.Unlock()

	c.playCurrentQuestion(ctx, generation)
}

// playCurrentQuestion speaks the question at the current index. Completion
// triggers nothing: the user decides when to start recording.
func (c *Controller) playCurrentQuestion(ctx context.Context, generation uint64) {
	c.mu.Lock()
	if generation != c.generation || c.index >= len(c.questions) {
		c.mu.Unlock()
		return
	}
	question := c.questions[c.index]
	c.mu.Unlock()

	c.notifier.Prompt(question.Content)
	if question.AudioURL == "" {
		return
	}
	err := c.speaker.Play(ctx, Utterance{Text: question.Content, URL: question.AudioURL}, c.playbackReporter("question playback"))
	if err != nil && !errors.Is(err, ErrPlaybackBlocked) {
		c.logWarn(fmt.Sprintf("question playback: %v", err))
	}
}

// playbackReporter surfaces asynchronous playback failures for utterances
// whose completion does not drive the phase machine.
func (c *Controller) playbackReporter(what string) func(error) {
	return func(err error) {
		if err != nil {
			c.notifier.Failure(fmt.Sprintf("%s: %v", what, err))
		}
	}
}

// StartRecording acquires the microphone for the current question or
// follow-up. Rejected while a capture is already running.
func (c *Controller) StartRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == fsm.StateGreeting {
		// The greeting never finished (blocked playback). The command that
		// got us here was a user gesture, so replay it now.
		generation := c.generation
		go c.playGreeting(ctx, generation)
		return fmt.Errorf("greeting still playing; recording opens with the first question")
	}

	next, err := fsm.Transition(c.state, fsm.EventStartRecording)
	if err != nil {
		return err
	}

	c.speaker.Stop()
	c.recorder.Reset()
	if err := c.recorder.Start(ctx); err != nil {
		// Device trouble is recoverable: phase stays put and the user retries.
		c.lastErr = err.Error()
		c.notifier.Failure(err.Error())
		return err
	}

	c.state = next
	c.notifier.Phase(next)
	c.capturing = true
	c.buffer = nil
	c.lastErr = ""
	return nil
}

// StopRecording releases the microphone and keeps the encoded buffer for
// submission. Stopping while idle is a no-op.
func (c *Controller) StopRecording(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.capturing {
		return nil
	}
	recording, err := c.recorder.Stop(ctx)
	c.capturing = false
	if err != nil {
		c.lastErr = err.Error()
		c.notifier.Failure(err.Error())
		return err
	}
	c.buffer = &recording
	return nil
}

// ReRecord discards the captured buffer and starts a fresh capture for the
// same prompt.
func (c *Controller) ReRecord(ctx context.Context) error {
	c.mu.Lock()

	if c.state != fsm.StateRecording {
		c.mu.Unlock()
		return fmt.Errorf("nothing to re-record in phase %s", c.state)
	}

	if c.capturing {
		_, _ = c.recorder.Stop(ctx)
		c.capturing = false
	}
	c.buffer = nil
	c.recorder.Reset()

	if err := c.recorder.Start(ctx); err != nil {
		c.lastErr = err.Error()
		c.mu.Unlock()
		c.notifier.Failure(err.Error())
		return err
	}
	c.capturing = true
	c.mu.Unlock()
	return nil
}

// Submit sends the captured answer for transcription and lets the result
// drive the next turn. Double submissions are rejected by phase.
func (c *Controller) Submit(ctx context.Context) error {
	c.mu.Lock()

	if c.state != fsm.StateRecording {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("cannot submit from phase %s", state)
	}

	if c.capturing {
		recording, err := c.recorder.Stop(ctx)
		c.capturing = false
		if err != nil {
			c.lastErr = err.Error()
			c.mu.Unlock()
			c.notifier.Failure(err.Error())
			return err
		}
		c.buffer = &recording
	}
	if c.buffer == nil {
		c.mu.Unlock()
		return ErrEmptyRecording
	}

	if err := c.transitionLocked(fsm.EventSubmit); err != nil {
		c.mu.Unlock()
		return err
	}

	recording := *c.buffer
	generation := c.generation

	// Identify which prompt this answer belongs to.
	wasFollowUp := false
	questionText := ""
	questionID := ""
	needsFollowUp := false
	if fp, ok := c.pending.(followUpPrompt); ok {
		wasFollowUp = true
		questionText = fp.question.Text
		questionID = fp.question.ParentQuestionID
	} else if c.index < len(c.questions) {
		question := c.questions[c.index]
		questionText = question.Content
		questionID = question.ID
		needsFollowUp = question.FollowUp
	}
	c.mu.Unlock()

	go c.submitAnswer(ctx, generation, recording, questionText, questionID, wasFollowUp, needsFollowUp)
	return nil
}

// submitAnswer runs the transcription call and the follow-on generation.
// It executes off the dispatch mutex; every re-entry checks the generation.
func (c *Controller) submitAnswer(ctx context.Context, generation uint64, recording Recording, questionText, questionID string, wasFollowUp, needsFollowUp bool) {
	text, err := c.pipeline.SubmitAnswer(ctx, recording)
	if err != nil {
		c.rollback(generation, wasFollowUp, fmt.Sprintf("transcription failed: %v", err), nil)
		return
	}

	normalized := transcript.Normalize(text, c.norm)
	c.notifier.Transcription(normalized)

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}

	answer := interview.Answer{
		QuestionID:    questionID,
		Question:      questionText,
		Transcription: normalized,
		Duration:      recording.Duration,
		IsFollowUp:    wasFollowUp,
	}
	// Re-recording after a rolled-back generation call resubmits the same
	// prompt; replace the stored answer instead of duplicating it.
	if n := len(c.answers); n > 0 && c.answers[n-1].QuestionID == questionID && c.answers[n-1].IsFollowUp == wasFollowUp {
		c.answers[n-1] = answer
	} else {
		c.answers = append(c.answers, answer)
	}
	c.retry = nil
	c.buffer = nil
	c.recorder.Reset()

	if needsFollowUp {
		if err := c.transitionLocked(fsm.EventNeedFollowUp); err != nil {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		c.generateFollowUp(ctx, generation, questionText, normalized)
		return
	}

	if err := c.transitionLocked(fsm.EventNeedAck); err != nil {
		c.mu.Unlock()
		return
	}
	// A live follow-up entity survives until its acknowledgment is
	// generated, so a rollback still knows which prompt was answered.
	c.mu.Unlock()
	c.generateAck(ctx, generation, questionText, normalized, wasFollowUp)
}

func (c *Controller) generateFollowUp(ctx context.Context, generation uint64, question, answer string) {
	spoken, err := c.pipeline.RequestFollowUp(ctx, question, answer)
	if err != nil {
		c.rollback(generation, false, fmt.Sprintf("follow-up generation failed: %v", err), &retryCall{
			needFollowUp: true,
			question:     question,
			answer:       answer,
		})
		return
	}

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	if err := c.transitionLocked(fsm.EventFollowUpReady); err != nil {
		c.mu.Unlock()
		return
	}

	parentID := ""
	if c.index < len(c.questions) {
		parentID = c.questions[c.index].ID
	}
	followUp := interview.FollowUpQuestion{
		ID:               uuid.NewString(),
		Text:             spoken.Text,
		Audio:            spoken.Audio,
		ParentQuestionID: parentID,
	}
	c.pending = followUpPrompt{question: followUp}
	c.retry = nil
	c.lastErr = ""
	c.mu.Unlock()

	c.notifier.Prompt(spoken.Text)
	if len(spoken.Audio) == 0 {
		return
	}
	err = c.speaker.Play(ctx, Utterance{Text: spoken.Text, Audio: spoken.Audio}, c.playbackReporter("follow-up playback"))
	if err != nil && !errors.Is(err, ErrPlaybackBlocked) {
		c.logWarn(fmt.Sprintf("follow-up playback: %v", err))
	}
}

func (c *Controller) generateAck(ctx context.Context, generation uint64, question, answer string, wasFollowUp bool) {
	spoken, err := c.pipeline.RequestAcknowledgment(ctx, question, answer)
	if err != nil {
		c.rollback(generation, wasFollowUp, fmt.Sprintf("acknowledgment generation failed: %v", err), &retryCall{
			wasFollowUp: wasFollowUp,
			question:    question,
			answer:      answer,
		})
		return
	}

	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}
	if err := c.transitionLocked(fsm.EventAckReady); err != nil {
		c.mu.Unlock()
		return
	}

	questionID := ""
	if c.index < len(c.questions) {
		questionID = c.questions[c.index].ID
	}
	c.pending = ackPrompt{ack: interview.Acknowledgment{
		Text:       spoken.Text,
		Audio:      spoken.Audio,
		QuestionID: questionID,
	}}
	if n := len(c.answers); n > 0 {
		c.answers[n-1].Acknowledgment = spoken.Text
	}
	c.retry = nil
	c.lastErr = ""
	c.mu.Unlock()

	c.notifier.Prompt(spoken.Text)
	if len(spoken.Audio) == 0 {
		c.ackPlayed(ctx, generation)
		return
	}
	err = c.speaker.Play(ctx, Utterance{Text: spoken.Text, Audio: spoken.Audio}, func(playErr error) {
		if playErr != nil {
			// The acknowledgment text was already shown; broken audio must
			// not strand the session, so advance anyway.
			c.notifier.Failure(fmt.Sprintf("acknowledgment playback: %v", playErr))
		}
		c.ackPlayed(ctx, generation)
	})
	if err != nil && !errors.Is(err, ErrPlaybackBlocked) {
		c.logWarn(fmt.Sprintf("acknowledgment playback: %v", err))
	}
}

// ackPlayed advances to the next question or completes the interview.
func (c *Controller) ackPlayed(ctx context.Context, generation uint64) {
	c.mu.Lock()
	if generation != c.generation || c.state != fsm.StatePresentingAck {
		c.mu.Unlock()
		return
	}

	c.pending = nil
	if c.index+1 >= len(c.questions) {
		if err := c.transitionLocked(fsm.EventComplete); err != nil {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
		return
	}

	if err := c.transitionLocked(fsm.EventAdvance); err != nil {
		c.mu.Unlock()
		return
	}
	c.index++
	c.mu.Unlock()

	c.playCurrentQuestion(ctx, generation)
}

// rollback returns the phase to the last presenting state after a remote
// failure, keeping already-appended answers intact.
func (c *Controller) rollback(generation uint64, wasFollowUp bool, message string, retry *retryCall) {
	c.mu.Lock()
	if generation != c.generation {
		c.mu.Unlock()
		return
	}

	event := fsm.EventRetryQuestion
	if wasFollowUp {
		event = fsm.EventRetryFollowUp
	}
	if err := c.transitionLocked(event); err != nil {
		c.mu.Unlock()
		return
	}
	c.retry = retry
	c.lastErr = message
	c.mu.Unlock()

	c.notifier.Failure(message)
}

// Retry repeats the generation call that failed after the answer was already
// stored. Transcription failures are retried by recording again instead.
func (c *Controller) Retry(ctx context.Context) error {
	c.mu.Lock()

	if c.retry == nil {
		c.mu.Unlock()
		return fmt.Errorf("nothing to retry")
	}
	call := *c.retry

	event := fsm.EventNeedAck
	if call.needFollowUp {
		event = fsm.EventNeedFollowUp
	}
	if err := c.transitionLocked(event); err != nil {
		c.mu.Unlock()
		return err
	}
	c.retry = nil
	generation := c.generation
	c.mu.Unlock()

	if call.needFollowUp {
		go c.generateFollowUp(ctx, generation, call.question, call.answer)
	} else {
		go c.generateAck(ctx, generation, call.question, call.answer, call.wasFollowUp)
	}
	return nil
}

// Reset abandons all progress and restarts from the greeting. In-flight
// results are invalidated by the generation bump.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.generation++
	generation := c.generation
	if c.capturing {
		_, _ = c.recorder.Stop(ctx)
		c.capturing = false
	}
	c.state = fsm.StateGreeting
	c.index = 0
	c.answers = nil
	c.pending = nil
	c.retry = nil
	c.buffer = nil
	c.lastErr = ""
	c.interviewID = ""
	c.mu.Unlock()

	c.speaker.Stop()
	c.recorder.Reset()
	c.notifier.Phase(fsm.StateGreeting)

	c.playGreeting(ctx, generation)
	return nil
}

// Finalize persists the completed interview and returns its identifier for
// the evaluation step. Only legal from the completed phase.
func (c *Controller) Finalize(ctx context.Context) (FinalizeResult, error) {
	c.mu.Lock()
	if c.state != fsm.StateCompleted {
		state := c.state
		c.mu.Unlock()
		return FinalizeResult{}, fmt.Errorf("cannot finalize from phase %s", state)
	}
	record := interview.Record{
		CategoryID: c.cfg.CategoryID,
		Category:   c.cfg.CategoryTitle,
		Level:      c.cfg.Level,
		Tier:       c.cfg.Tier,
		Questions:  c.questions,
		Answers:    append([]interview.Answer(nil), c.answers...),
		FinishedAt: time.Now(),
	}
	generation := c.generation
	c.mu.Unlock()

	id, err := c.pipeline.PersistInterview(ctx, record)
	if err != nil {
		c.mu.Lock()
		if generation == c.generation {
			c.lastErr = err.Error()
		}
		c.mu.Unlock()
		c.notifier.Failure(err.Error())
		return FinalizeResult{}, err
	}

	c.mu.Lock()
	if generation == c.generation {
		c.interviewID = id
		c.lastErr = ""
	}
	c.mu.Unlock()

	record.ID = id
	return FinalizeResult{InterviewID: id, Record: record}, nil
}

// Answers returns a copy of the answers appended so far.
func (c *Controller) Answers() []interview.Answer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interview.Answer(nil), c.answers...)
}

func (c *Controller) logDebug(message string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(message, args...)
}

func (c *Controller) logWarn(message string) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(message)
}

// Handle serves forwarded commands for the active owner session. Every
// command except status counts as the user gesture that unlocks playback.
func (c *Controller) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	if req.Command != "status" {
		c.speaker.Unlock()
	}

	switch req.Command {
	case "status":
		snapshot := c.Snapshot()
		return ipc.Response{OK: true, State: string(snapshot.State), Status: &ipc.Status{
			State:         string(snapshot.State),
			QuestionIndex: snapshot.QuestionIndex,
			QuestionCount: snapshot.QuestionCount,
			AnswerCount:   snapshot.AnswerCount,
			Prompt:        snapshot.Prompt,
			LastError:     snapshot.LastError,
			InterviewID:   snapshot.InterviewID,
		}}
	case "record":
		return c.respond(c.StartRecording(ctx), "recording")
	case "stop":
		return c.respond(c.StopRecording(ctx), "recording stopped")
	case "rerecord":
		return c.respond(c.ReRecord(ctx), "re-recording")
	case "submit":
		return c.respond(c.Submit(ctx), "answer submitted")
	case "retry":
		return c.respond(c.Retry(ctx), "retrying")
	case "reset":
		return c.respond(c.Reset(ctx), "session reset")
	case "finalize":
		result, err := c.Finalize(ctx)
		if err != nil {
			return ipc.Response{OK: false, State: string(c.State()), Error: err.Error()}
		}
		return ipc.Response{OK: true, State: string(c.State()), Message: fmt.Sprintf("interview saved as %s", result.InterviewID)}
	default:
		return ipc.Response{OK: false, State: string(c.State()), Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}

func (c *Controller) respond(err error, message string) ipc.Response {
	if err != nil {
		return ipc.Response{OK: false, State: string(c.State()), Error: err.Error()}
	}
	return ipc.Response{OK: true, State: string(c.State()), Message: message}
}
