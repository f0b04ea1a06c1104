package playback

// Audio is an opaque playable payload plus its content type. A handle is
// only valid for the document/voice pair it was synthesized from; the
// controller discards it when either changes.
type Audio struct {
	Data        []byte
	ContentType string
}

// Events carries the callbacks a Transport fires while audio plays.
// Implementations must invoke them from their own playback goroutine,
// never synchronously from inside Play.
type Events struct {
	// Progress reports the played fraction in [0,1].
	Progress func(fraction float64)
	// End fires once when playback reaches the natural end of the audio.
	End func()
}

// Transport is the audio backend driving actual sound output. The
// browser audio element and the speaker-backed player both fit this
// shape, and tests substitute a fake.
type Transport interface {
	// Play starts the audio from the beginning at the given rate.
	Play(audio *Audio, rate float64, ev Events) error
	Pause() error
	Resume() error
	// Stop halts playback and releases the current audio.
	Stop() error
	// SetRate applies a new playback-speed multiplier immediately.
	SetRate(rate float64) error
}
