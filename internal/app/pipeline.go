package app

import (
	"context"

	"github.com/rahmadf/bella/internal/interview"
	"github.com/rahmadf/bella/internal/remote"
	"github.com/rahmadf/bella/internal/session"
)

// remotePipeline adapts the remote API client to the orchestrator's
// Pipeline seam.
type remotePipeline struct {
	client *remote.Client
}

func (p remotePipeline) SubmitAnswer(ctx context.Context, recording session.Recording) (string, error) {
	return p.client.SubmitAnswer(ctx, remote.AnswerUpload{
		Filename:    recording.Filename,
		ContentType: recording.ContentType,
		Data:        recording.Data,
	})
}

func (p remotePipeline) RequestFollowUp(ctx context.Context, question, answer string) (session.Spoken, error) {
	utterance, err := p.client.RequestFollowUp(ctx, question, answer)
	if err != nil {
		return session.Spoken{}, err
	}
	return session.Spoken{Text: utterance.Text, Audio: utterance.Audio}, nil
}

func (p remotePipeline) RequestAcknowledgment(ctx context.Context, question, answer string) (session.Spoken, error) {
	utterance, err := p.client.RequestAcknowledgment(ctx, question, answer)
	if err != nil {
		return session.Spoken{}, err
	}
	return session.Spoken{Text: utterance.Text, Audio: utterance.Audio}, nil
}

func (p remotePipeline) PersistInterview(ctx context.Context, record interview.Record) (string, error) {
	return p.client.PersistInterview(ctx, record)
}
