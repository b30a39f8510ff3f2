package input

import (
	"context"
	"log/slog"
	"sync"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"

	"github.com/luca-patrignani/set-game/player"
)

// Keyboard reads the terminal once for every human player. Each human gets
// an InputSource from Source; presses are routed through the KeyMap to the
// players currently running.
type Keyboard struct {
	keys   KeyMap
	onStop func()
	logger *slog.Logger

	mu      sync.Mutex
	players map[int]*forwarder
}

// forwarder hands presses to one running player. done is closed when the
// player's source exits.
type forwarder struct {
	presses chan int
	done    chan struct{}
}

type KeyboardOption func(*Keyboard)

// OnStop registers the function called when Esc or Ctrl-C is pressed.
func OnStop(fn func()) KeyboardOption {
	return func(k *Keyboard) {
		k.onStop = fn
	}
}

func WithKeyboardLogger(l *slog.Logger) KeyboardOption {
	return func(k *Keyboard) {
		k.logger = l
	}
}

func NewKeyboard(m KeyMap, opts ...KeyboardOption) *Keyboard {
	k := &Keyboard{
		keys:    m,
		onStop:  func() {},
		logger:  slog.New(slog.DiscardHandler),
		players: map[int]*forwarder{},
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Source returns the input source of human player id.
func (k *Keyboard) Source(id int) player.InputSource {
	return source{k: k, id: id}
}

type source struct {
	k  *Keyboard
	id int
}

// Run forwards the player's presses, in typing order, until ctx is done.
// The hand-off is unbuffered: the player's action queue is the only buffer.
func (s source) Run(ctx context.Context, p player.Presser) {
	f := &forwarder{presses: make(chan int), done: make(chan struct{})}
	s.k.mu.Lock()
	s.k.players[s.id] = f
	s.k.mu.Unlock()
	defer func() {
		s.k.mu.Lock()
		delete(s.k.players, s.id)
		s.k.mu.Unlock()
		close(f.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case slot := <-f.presses:
			p.KeyPressed(slot)
		}
	}
}

// Dispatch handles one key. It reports whether the key requested a stop.
// It blocks while the addressed player's queue is full, until the player
// takes the press or stops.
func (k *Keyboard) Dispatch(key keys.Key) (stop bool) {
	switch key.Code {
	case keys.Escape, keys.CtrlC:
		k.logger.Info("stop requested from keyboard")
		k.onStop()
		return true
	case keys.RuneKey:
	default:
		return false
	}
	for _, r := range key.Runes {
		b, ok := k.keys[r]
		if !ok {
			continue
		}
		k.mu.Lock()
		f := k.players[b.Player]
		k.mu.Unlock()
		if f == nil {
			continue
		}
		select {
		case f.presses <- b.Slot:
			k.logger.Debug("key pressed", "player", b.Player, "slot", b.Slot)
		case <-f.done:
		}
	}
	return false
}

// Listen reads the terminal until ctx is done or a stop key is pressed.
func (k *Keyboard) Listen(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			// Listen only returns after a key; feed it one.
			_ = keyboard.SimulateKeyPress(keys.Escape)
		case <-done:
		}
	}()

	return keyboard.Listen(func(key keys.Key) (bool, error) {
		if ctx.Err() != nil {
			return true, nil
		}
		return k.Dispatch(key), nil
	})
}
