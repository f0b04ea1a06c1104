// Package speaker plays synthesized audio through the system speaker.
package speaker

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	bspeaker "github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/murph-app/murph/internal/playback"
)

const progressInterval = 200 * time.Millisecond

// Transport implements playback.Transport on top of beep. Rate changes
// go through a ResampleRatio streamer, so speed is adjustable while
// audio is playing.
type Transport struct {
	mu         sync.Mutex
	stream     beep.StreamSeekCloser
	ctrl       *beep.Ctrl
	resampler  *beep.Resampler
	generation int
	playing    bool
}

func New() *Transport {
	return &Transport{}
}

func decode(audio *playback.Audio) (beep.StreamSeekCloser, beep.Format, error) {
	switch audio.ContentType {
	case "audio/mpeg", "audio/mp3":
		return mp3.Decode(io.NopCloser(bytes.NewReader(audio.Data)))
	case "audio/wav", "audio/x-wav":
		return wav.Decode(bytes.NewReader(audio.Data))
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio content type: %s", audio.ContentType)
	}
}

func (t *Transport) Play(audio *playback.Audio, rate float64, ev playback.Events) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	stream, format, err := decode(audio)
	if err != nil {
		return fmt.Errorf("decode audio: %w", err)
	}

	if err := bspeaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		stream.Close()
		return fmt.Errorf("init speaker: %w", err)
	}

	t.stream = stream
	t.resampler = beep.ResampleRatio(4, rate, stream)
	t.ctrl = &beep.Ctrl{Streamer: t.resampler}
	t.playing = true
	t.generation++
	gen := t.generation

	// The end callback runs inside the speaker's mixing goroutine with
	// its lock held; hop to a fresh goroutine before touching our own
	// state or the controller's.
	bspeaker.Play(beep.Seq(t.ctrl, beep.Callback(func() {
		go t.finished(gen, ev)
	})))

	go t.trackProgress(gen, ev)
	return nil
}

func (t *Transport) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ctrl == nil {
		return nil
	}
	bspeaker.Lock()
	t.ctrl.Paused = true
	bspeaker.Unlock()
	return nil
}

func (t *Transport) Resume() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ctrl == nil {
		return nil
	}
	bspeaker.Lock()
	t.ctrl.Paused = false
	bspeaker.Unlock()
	return nil
}

func (t *Transport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
	return nil
}

func (t *Transport) SetRate(rate float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.resampler == nil {
		return nil
	}
	bspeaker.Lock()
	t.resampler.SetRatio(rate)
	bspeaker.Unlock()
	return nil
}

func (t *Transport) stopLocked() {
	if !t.playing && t.stream == nil {
		return
	}
	bspeaker.Clear()
	if t.stream != nil {
		t.stream.Close()
	}
	t.stream = nil
	t.ctrl = nil
	t.resampler = nil
	t.playing = false
	t.generation++
}

func (t *Transport) finished(gen int, ev playback.Events) {
	t.mu.Lock()
	if gen != t.generation || !t.playing {
		t.mu.Unlock()
		return
	}
	if t.stream != nil {
		t.stream.Close()
	}
	t.stream = nil
	t.ctrl = nil
	t.resampler = nil
	t.playing = false
	t.mu.Unlock()

	if ev.End != nil {
		ev.End()
	}
}

func (t *Transport) trackProgress(gen int, ev playback.Events) {
	if ev.Progress == nil {
		return
	}
	ticker := time.NewTicker(progressInterval)
	defer ticker.Stop()

	for range ticker.C {
		t.mu.Lock()
		if gen != t.generation || t.stream == nil {
			t.mu.Unlock()
			return
		}
		bspeaker.Lock()
		pos := t.stream.Position()
		total := t.stream.Len()
		bspeaker.Unlock()
		t.mu.Unlock()

		if total > 0 {
			ev.Progress(float64(pos) / float64(total))
		}
	}
}
