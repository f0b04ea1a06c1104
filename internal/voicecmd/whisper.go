package voicecmd

import (
	"bytes"
	"context"
	"errors"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// SegmentSource yields recorded audio segments, one utterance at a
// time. Record blocks until a segment is available or ctx is done.
type SegmentSource interface {
	Record(ctx context.Context) ([]byte, error)
}

// WhisperEngine is an Engine backed by OpenAI's transcription API. It
// pulls utterance segments from a SegmentSource, transcribes each one
// and delivers the text through the Result handler.
type WhisperEngine struct {
	client *openai.Client
	source SegmentSource

	mu       sync.Mutex
	handlers Handlers
	cancel   context.CancelFunc
}

func NewWhisperEngine(apiKey string, source SegmentSource) *WhisperEngine {
	return &WhisperEngine{
		client: openai.NewClient(apiKey),
		source: source,
	}
}

func (e *WhisperEngine) SetHandlers(h Handlers) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = h
}

func (e *WhisperEngine) Start() error {
	e.mu.Lock()
	if e.cancel != nil {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	h := e.handlers
	e.mu.Unlock()

	go e.run(ctx, h)
	return nil
}

func (e *WhisperEngine) Stop() {
	e.mu.Lock()
	cancel := e.cancel
	e.cancel = nil
	e.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (e *WhisperEngine) run(ctx context.Context, h Handlers) {
	defer func() {
		e.mu.Lock()
		if e.cancel != nil {
			e.cancel()
			e.cancel = nil
		}
		e.mu.Unlock()
		if h.End != nil {
			h.End()
		}
	}()

	for {
		segment, err := e.source.Record(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if h.Error != nil {
				h.Error(err)
			}
			return
		}
		if len(segment) == 0 {
			continue
		}

		resp, err := e.client.CreateTranscription(ctx, openai.AudioRequest{
			Model:    openai.Whisper1,
			FilePath: "segment.wav",
			Reader:   bytes.NewReader(segment),
		})
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			if h.Error != nil {
				h.Error(err)
			}
			return
		}

		if resp.Text != "" && h.Result != nil {
			h.Result(resp.Text)
		}
	}
}
