// Package playback speaks interview prompts: the greeting, pre-synthesized
// question audio fetched by URL, and generated follow-up/acknowledgment MP3
// bytes. At most one utterance plays at a time.
package playback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/go-resty/resty/v2"

	"github.com/rahmadf/bella/internal/session"
)

// Clip is one decoded utterance ready for a player backend.
type Clip struct {
	PCM        []int16
	SampleRate int

	// Raw container bytes for backends that take encoded input.
	Raw      []byte
	MIMEType string
}

// Player renders one clip and blocks until it ends or ctx is cancelled.
type Player interface {
	Play(ctx context.Context, clip Clip) error
}

// Coordinator enforces the single-flight and gesture-gate rules around a
// player backend. It implements the session Speaker contract.
type Coordinator struct {
	player  Player
	http    *resty.Client
	logger  *slog.Logger
	resolve func(ctx context.Context, utterance session.Utterance) (Clip, error)

	mu         sync.Mutex
	unlocked   bool
	generation uint64
	cancel     context.CancelFunc
}

// New builds a coordinator over the given player backend.
func New(player Player, logger *slog.Logger) *Coordinator {
	c := &Coordinator{
		player: player,
		http:   resty.New(),
		logger: logger,
	}
	c.resolve = c.resolveUtterance
	return c
}

// Unlock opens the gesture gate. Idempotent.
func (c *Coordinator) Unlock() {
	c.mu.Lock()
	c.unlocked = true
	c.mu.Unlock()
}

// Unlocked reports whether a user gesture has been observed.
func (c *Coordinator) Unlocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unlocked
}

// Play starts one utterance, stopping whatever was playing first.
// onDone fires exactly once per started utterance: nil on natural end,
// the failure when resolving or rendering broke down. A superseded or
// stopped utterance never reports.
func (c *Coordinator) Play(ctx context.Context, utterance session.Utterance, onDone func(error)) error {
	c.mu.Lock()
	if !c.unlocked {
		c.mu.Unlock()
		return session.ErrPlaybackBlocked
	}
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	generation := c.generation
	playCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.mu.Unlock()

	go func() {
		defer cancel()

		finish := func(result error) {
			c.mu.Lock()
			current := c.generation == generation
			if current {
				c.cancel = nil
			}
			c.mu.Unlock()
			if current && onDone != nil {
				onDone(result)
			}
		}

		clip, err := c.resolve(playCtx, utterance)
		if err != nil {
			if playCtx.Err() == nil {
				c.logWarn(fmt.Sprintf("resolve utterance: %v", err))
				finish(err)
			}
			return
		}

		if err := c.player.Play(playCtx, clip); err != nil {
			if playCtx.Err() == nil {
				c.logWarn(fmt.Sprintf("play utterance: %v", err))
				finish(err)
			}
			return
		}
		if playCtx.Err() != nil {
			return
		}
		finish(nil)
	}()

	return nil
}

// Stop terminates the current utterance, if any, without completing it.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.generation++
	c.mu.Unlock()
}

// resolveUtterance turns an utterance into a decoded clip: URL sources are
// fetched, byte sources are used as-is, and both are decoded from MP3.
func (c *Coordinator) resolveUtterance(ctx context.Context, utterance session.Utterance) (Clip, error) {
	data := utterance.Audio
	if len(data) == 0 {
		url := strings.TrimSpace(utterance.URL)
		if url == "" {
			return Clip{}, fmt.Errorf("utterance carries neither audio nor URL")
		}

		resp, err := c.http.R().SetContext(ctx).Get(url)
		if err != nil {
			return Clip{}, fmt.Errorf("fetch %q: %w", url, err)
		}
		if !resp.IsSuccess() {
			return Clip{}, fmt.Errorf("fetch %q: status %d", url, resp.StatusCode())
		}
		data = resp.Body()
	}

	pcm, sampleRate, err := decodeMP3(data)
	if err != nil {
		return Clip{}, err
	}
	return Clip{
		PCM:        pcm,
		SampleRate: sampleRate,
		Raw:        data,
		MIMEType:   "audio/mp3",
	}, nil
}

func (c *Coordinator) logWarn(message string) {
	if c.logger == nil {
		return
	}
	c.logger.Warn(message)
}
