package playback

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// State enumerates the playback session lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateUploading  State = "uploading"
	StateProcessing State = "processing"
	StateReady      State = "ready"
	StatePlaying    State = "playing"
	StatePaused     State = "paused"
	StateError      State = "error"
)

// Speed multiplier bounds and step shared by the direct control and
// voice commands.
const (
	MinSpeed  = 0.5
	MaxSpeed  = 2.0
	SpeedStep = 0.25
)

// ErrNoDocument is returned when play is requested before a document
// has been loaded.
var ErrNoDocument = errors.New("no document loaded")

// Document is the loaded text a session reads from. Replaced wholesale
// on upload, cleared on an explicit clear.
type Document struct {
	Name     string
	Content  string
	MimeType string
}

// Synthesizer produces audio for a (text, voice) pair. The API client
// implements it against the convert route; tests use a stub.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) (*Audio, error)
}

// Controller owns the document, the synthesized audio and the playback
// transport. All mutable state lives behind one mutex and is only
// touched by the controller's own methods, mirroring the single event
// loop the session runs on.
type Controller struct {
	mu        sync.Mutex
	synth     Synthesizer
	transport Transport

	state    State
	doc      *Document
	voiceID  string
	audio    *Audio
	progress float64
	status   string
	speed    float64

	// token identifies the synthesis request the controller is waiting
	// on. A clear, new upload or voice change mints a new token so a
	// stale response can never overwrite newer state.
	token uuid.UUID
}

// Snapshot is a read-only view of the session for display.
type Snapshot struct {
	State        State
	DocumentName string
	VoiceID      string
	Progress     float64
	Status       string
	Speed        float64
	HasAudio     bool
}

func NewController(synth Synthesizer, transport Transport) *Controller {
	return &Controller{
		synth:     synth,
		transport: transport,
		state:     StateIdle,
		speed:     1.0,
		status:    "Upload a document to begin",
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		State:    c.state,
		VoiceID:  c.voiceID,
		Progress: c.progress,
		Status:   c.status,
		Speed:    c.speed,
		HasAudio: c.audio != nil,
	}
	if c.doc != nil {
		s.DocumentName = c.doc.Name
	}
	return s
}

// StartUpload begins replacing the document. A session that is playing
// or paused is stopped first; any in-flight synthesis result will be
// discarded on arrival.
func (c *Controller) StartUpload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTransportLocked()
	c.token = uuid.New()
	c.state = StateUploading
	c.status = "Reading document..."
}

// FinishUpload installs the decoded document and readies the session.
func (c *Controller) FinishUpload(doc Document) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateUploading {
		return
	}
	c.doc = &doc
	c.audio = nil
	c.progress = 0
	c.state = StateReady
	c.status = "Ready to play: " + doc.Name
}

// FailUpload records a decode failure.
func (c *Controller) FailUpload(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateUploading {
		return
	}
	c.state = StateError
	c.status = msg
}

// Play starts or resumes playback. When no valid audio exists it
// synthesizes first; the call blocks until playback has started or
// failed. A play request while already playing or processing is a
// no-op.
func (c *Controller) Play(ctx context.Context) error {
	c.mu.Lock()

	switch c.state {
	case StatePlaying, StateProcessing, StateUploading:
		c.mu.Unlock()
		return nil
	case StatePaused:
		if c.audio != nil {
			err := c.transport.Resume()
			if err == nil {
				c.state = StatePlaying
				c.status = "Playing"
			}
			c.mu.Unlock()
			return err
		}
		// Audio was invalidated while paused (voice change): drop the
		// stale transport session and synthesize fresh.
		c.stopTransportLocked()
	case StateReady, StateError, StateIdle:
		if c.doc == nil {
			c.mu.Unlock()
			return ErrNoDocument
		}
	}

	if c.audio != nil {
		err := c.startPlaybackLocked()
		c.mu.Unlock()
		return err
	}

	c.state = StateProcessing
	c.status = "Synthesizing audio..."
	token := uuid.New()
	c.token = token
	text := c.doc.Content
	voiceID := c.voiceID
	c.mu.Unlock()

	audio, err := c.synth.Synthesize(ctx, text, voiceID)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != token {
		// Superseded by a clear, upload or voice change while the
		// request was in flight. Drop the result.
		return nil
	}

	if err != nil {
		c.state = StateError
		c.status = "Synthesis failed: " + err.Error()
		return err
	}

	c.audio = audio
	return c.startPlaybackLocked()
}

// Pause suspends playback. Ignored unless playing.
func (c *Controller) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying {
		return nil
	}
	if err := c.transport.Pause(); err != nil {
		return err
	}
	c.state = StatePaused
	c.status = "Paused"
	return nil
}

// Stop halts playback and returns to ready. Only playing and paused
// sessions have anything to stop; elsewhere it is a no-op.
func (c *Controller) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying && c.state != StatePaused {
		return nil
	}
	if err := c.transport.Stop(); err != nil {
		return err
	}
	c.progress = 0
	c.state = StateReady
	c.status = "Stopped"
	return nil
}

// Clear discards the document, cached audio and progress, returning the
// session to idle from any state. An in-flight synthesis is not
// cancelled; its result is dropped on arrival.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTransportLocked()
	c.token = uuid.New()
	c.doc = nil
	c.audio = nil
	c.progress = 0
	c.state = StateIdle
	c.status = "Upload a document to begin"
}

// SetVoice selects a voice. Cached audio belongs to the previous voice
// and is discarded, but a playing or paused session keeps running until
// the next play request.
func (c *Controller) SetVoice(voiceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if voiceID == c.voiceID {
		return
	}
	c.voiceID = voiceID
	c.audio = nil
	if c.state == StateProcessing {
		// The in-flight request targets the old voice; discard its
		// result and let the user retry.
		c.token = uuid.New()
		c.state = StateReady
		c.status = "Voice changed"
	}
}

// SetSpeed sets the playback-speed multiplier, clamped to the allowed
// range, and applies it immediately when audio is loaded.
func (c *Controller) SetSpeed(speed float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setSpeedLocked(speed)
}

// SpeedUp raises the multiplier one step. Returns the applied value.
func (c *Controller) SpeedUp() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setSpeedLocked(c.speed + SpeedStep)
}

// SlowDown lowers the multiplier one step. Returns the applied value.
func (c *Controller) SlowDown() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setSpeedLocked(c.speed - SpeedStep)
}

func (c *Controller) setSpeedLocked(speed float64) float64 {
	if speed < MinSpeed {
		speed = MinSpeed
	}
	if speed > MaxSpeed {
		speed = MaxSpeed
	}
	c.speed = speed
	if c.state == StatePlaying || c.state == StatePaused {
		if err := c.transport.SetRate(speed); err != nil {
			c.status = "Speed change failed: " + err.Error()
		}
	}
	return speed
}

func (c *Controller) startPlaybackLocked() error {
	ev := Events{
		Progress: c.onProgress,
		End:      c.onEnd,
	}
	if err := c.transport.Play(c.audio, c.speed, ev); err != nil {
		c.state = StateError
		c.status = "Playback failed: " + err.Error()
		return err
	}
	c.progress = 0
	c.state = StatePlaying
	c.status = "Playing"
	return nil
}

func (c *Controller) stopTransportLocked() {
	if c.state == StatePlaying || c.state == StatePaused {
		_ = c.transport.Stop()
	}
}

func (c *Controller) onProgress(fraction float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	c.progress = fraction
}

func (c *Controller) onEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StatePlaying {
		return
	}
	c.progress = 1
	c.state = StateReady
	c.status = "Finished"
}
