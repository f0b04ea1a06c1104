package voicecmd

import (
	"errors"
	"sync"
	"testing"
)

type fakeEngine struct {
	mu         sync.Mutex
	handlers   Handlers
	running    bool
	startCalls int
	stopCalls  int
	startErr   error
}

func (f *fakeEngine) SetHandlers(h Handlers) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = h
}

func (f *fakeEngine) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls++
	if f.startErr != nil {
		return f.startErr
	}
	if f.running {
		return ErrAlreadyStarted
	}
	f.running = true
	return nil
}

func (f *fakeEngine) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	f.running = false
}

// emit delivers a finalized utterance as the engine would.
func (f *fakeEngine) emit(text string) {
	f.mu.Lock()
	h := f.handlers
	f.mu.Unlock()
	if h.Result != nil {
		h.Result(text)
	}
}

func (f *fakeEngine) fail(err error) {
	f.mu.Lock()
	h := f.handlers
	f.mu.Unlock()
	if h.Error != nil {
		h.Error(err)
	}
}

// end simulates session termination (the engine stops running first).
func (f *fakeEngine) end() {
	f.mu.Lock()
	h := f.handlers
	f.running = false
	f.mu.Unlock()
	if h.End != nil {
		h.End()
	}
}

func (f *fakeEngine) starts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.startCalls
}

type recorder struct {
	mu   sync.Mutex
	cmds []Command
}

func (r *recorder) dispatch(c Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cmds = append(r.cmds, c)
}

func (r *recorder) commands() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Command(nil), r.cmds...)
}

func TestMatch(t *testing.T) {
	cases := []struct {
		utterance string
		want      Command
		ok        bool
	}{
		{"please play now", CommandPlay, true},
		{"PLAY", CommandPlay, true},
		{"start reading", CommandPlay, true},
		{"pause it", CommandPause, true},
		{"stop", CommandPause, true},
		{"go faster", CommandFaster, true},
		{"speed up a bit", CommandFaster, true},
		{"can you go slower", CommandSlower, true},
		{"slow down please", CommandSlower, true},
		{"what a lovely day", 0, false},
		{"", 0, false},
		// "start" outranks "slower": rules are ordered, first match wins.
		{"start slower", CommandPlay, true},
	}
	for _, tc := range cases {
		got, ok := Match(tc.utterance)
		if ok != tc.ok || (ok && got != tc.want) {
			t.Errorf("Match(%q) = (%v, %v), want (%v, %v)", tc.utterance, got, ok, tc.want, tc.ok)
		}
	}
}

func TestListenerDispatchesOnce(t *testing.T) {
	engine := &fakeEngine{}
	rec := &recorder{}
	l := NewListener(engine, rec.dispatch)
	if err := l.Enable(); err != nil {
		t.Fatalf("Enable: %v", err)
	}

	engine.emit("please play now")

	cmds := rec.commands()
	if len(cmds) != 1 || cmds[0] != CommandPlay {
		t.Fatalf("commands = %v, want exactly one play", cmds)
	}
}

func TestListenerIgnoresUnmatched(t *testing.T) {
	engine := &fakeEngine{}
	rec := &recorder{}
	l := NewListener(engine, rec.dispatch)
	l.Enable()

	engine.emit("the weather is nice")

	if cmds := rec.commands(); len(cmds) != 0 {
		t.Fatalf("commands = %v, want none", cmds)
	}
}

func TestListenerRestartsOnUnexpectedEnd(t *testing.T) {
	engine := &fakeEngine{}
	l := NewListener(engine, func(Command) {})
	l.Enable()

	engine.end()

	if got := engine.starts(); got != 2 {
		t.Fatalf("engine starts = %d, want 2 (auto-restart)", got)
	}
	if !l.Active() {
		t.Fatal("listener must stay active across a restart")
	}
}

func TestListenerNoRestartAfterDisable(t *testing.T) {
	engine := &fakeEngine{}
	l := NewListener(engine, func(Command) {})
	l.Enable()

	l.Disable()
	engine.end()

	if got := engine.starts(); got != 1 {
		t.Fatalf("engine starts = %d, want 1 (no restart after explicit stop)", got)
	}
	if l.Active() {
		t.Fatal("listener must be inactive after Disable")
	}
}

func TestListenerErrorClearsActive(t *testing.T) {
	engine := &fakeEngine{}
	l := NewListener(engine, func(Command) {})

	var notices []string
	l.SetNotice(func(msg string) { notices = append(notices, msg) })
	l.Enable()

	engine.fail(errors.New("microphone unavailable"))

	if l.Active() {
		t.Fatal("listener must clear active on recognition error")
	}
	if len(notices) != 1 {
		t.Fatalf("notices = %v, want one", notices)
	}

	// The end that follows an error must not restart the session.
	engine.end()
	if got := engine.starts(); got != 1 {
		t.Fatalf("engine starts = %d, want 1", got)
	}
}

func TestEnableSwallowsAlreadyStarted(t *testing.T) {
	engine := &fakeEngine{startErr: ErrAlreadyStarted}
	l := NewListener(engine, func(Command) {})

	if err := l.Enable(); err != nil {
		t.Fatalf("Enable returned %v, want already-started swallowed", err)
	}
	if !l.Active() {
		t.Fatal("listener must be active")
	}
}

func TestEnableWhileActiveIsNoOp(t *testing.T) {
	engine := &fakeEngine{}
	l := NewListener(engine, func(Command) {})
	l.Enable()
	l.Enable()

	if got := engine.starts(); got != 1 {
		t.Fatalf("engine starts = %d, want 1", got)
	}
}

func TestEnablePropagatesHardFailure(t *testing.T) {
	engine := &fakeEngine{startErr: errors.New("recognition unsupported")}
	l := NewListener(engine, func(Command) {})

	if err := l.Enable(); err == nil {
		t.Fatal("expected error")
	}
	if l.Active() {
		t.Fatal("listener must stay inactive on start failure")
	}
}
