package voicecmd

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Command is a playback action derived from a recognized utterance.
type Command int

const (
	CommandPlay Command = iota
	CommandPause
	CommandFaster
	CommandSlower
)

func (c Command) String() string {
	switch c {
	case CommandPlay:
		return "play"
	case CommandPause:
		return "pause"
	case CommandFaster:
		return "faster"
	case CommandSlower:
		return "slower"
	}
	return "unknown"
}

// ErrAlreadyStarted is returned by an Engine whose session is already
// running. The listener swallows it.
var ErrAlreadyStarted = errors.New("recognition session already started")

// Handlers carries the callbacks an Engine fires during a session.
type Handlers struct {
	// Result delivers one finalized utterance.
	Result func(text string)
	// Error reports a recognition failure. The session is considered
	// stopped afterwards.
	Error func(err error)
	// End fires when the session terminates for any reason.
	End func()
}

// Engine abstracts a continuous speech-recognition session: the
// browser's native recognizer, the Whisper-backed engine, or a test
// fake.
type Engine interface {
	Start() error
	Stop()
	SetHandlers(h Handlers)
}

// Match maps a finalized utterance to a command. The utterance is
// lower-cased and the rules are checked in order; the first match wins
// and anything else is ignored.
func Match(utterance string) (Command, bool) {
	t := strings.ToLower(utterance)
	switch {
	case strings.Contains(t, "play") || strings.Contains(t, "start"):
		return CommandPlay, true
	case strings.Contains(t, "pause") || strings.Contains(t, "stop"):
		return CommandPause, true
	case strings.Contains(t, "faster") || strings.Contains(t, "speed up"):
		return CommandFaster, true
	case strings.Contains(t, "slower") || strings.Contains(t, "slow down"):
		return CommandSlower, true
	}
	return 0, false
}

// Listener runs a long-lived recognition session and forwards matched
// commands to dispatch. While enabled it restarts the session whenever
// the engine ends unexpectedly; an explicit Disable stops it for good.
type Listener struct {
	mu       sync.Mutex
	engine   Engine
	dispatch func(Command)
	notice   func(msg string)
	active   bool
}

func NewListener(engine Engine, dispatch func(Command)) *Listener {
	l := &Listener{engine: engine, dispatch: dispatch}
	engine.SetHandlers(Handlers{
		Result: l.onResult,
		Error:  l.onError,
		End:    l.onEnd,
	})
	return l
}

// SetNotice installs an optional user-facing notification callback.
func (l *Listener) SetNotice(fn func(msg string)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notice = fn
}

func (l *Listener) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active
}

// Enable starts the recognition session.
func (l *Listener) Enable() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active {
		return nil
	}
	if err := l.engine.Start(); err != nil && !errors.Is(err, ErrAlreadyStarted) {
		return err
	}
	l.active = true
	return nil
}

// Disable stops the session. No auto-restart follows an explicit stop.
func (l *Listener) Disable() {
	l.mu.Lock()
	l.active = false
	l.mu.Unlock()
	l.engine.Stop()
}

func (l *Listener) onResult(text string) {
	cmd, ok := Match(text)
	if !ok {
		return
	}
	slog.Debug("voice command", "utterance", text, "command", cmd.String())
	l.dispatch(cmd)
}

func (l *Listener) onError(err error) {
	l.mu.Lock()
	l.active = false
	notice := l.notice
	l.mu.Unlock()
	slog.Warn("voice recognition error", "error", err)
	if notice != nil {
		notice("Voice commands stopped: " + err.Error())
	}
}

func (l *Listener) onEnd() {
	l.mu.Lock()
	restart := l.active
	l.mu.Unlock()
	if !restart {
		return
	}
	// The session died while the user still wants it running.
	if err := l.engine.Start(); err != nil && !errors.Is(err, ErrAlreadyStarted) {
		l.mu.Lock()
		l.active = false
		notice := l.notice
		l.mu.Unlock()
		slog.Warn("voice recognition restart failed", "error", err)
		if notice != nil {
			notice("Voice commands stopped: " + err.Error())
		}
	}
}
