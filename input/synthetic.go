package input

import (
	"context"
	"log/slog"
	"time"

	"github.com/luca-patrignani/set-game/domain/deck"
	"github.com/luca-patrignani/set-game/player"
)

// Synthetic presses a random slot every interval until its context is done.
type Synthetic struct {
	slots    int
	interval time.Duration
	picker   deck.Picker
	logger   *slog.Logger
}

type SyntheticOption func(*Synthetic)

// WithInterval sets the pause between presses.
func WithInterval(d time.Duration) SyntheticOption {
	return func(s *Synthetic) {
		s.interval = d
	}
}

// WithPicker replaces the kyber-backed picker used to choose slots.
func WithPicker(p deck.Picker) SyntheticOption {
	return func(s *Synthetic) {
		s.picker = p
	}
}

func WithSyntheticLogger(l *slog.Logger) SyntheticOption {
	return func(s *Synthetic) {
		s.logger = l
	}
}

func NewSynthetic(slots int, opts ...SyntheticOption) *Synthetic {
	s := &Synthetic{
		slots:    slots,
		interval: 50 * time.Millisecond,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.picker == nil {
		s.picker = deck.NewStreamPicker()
	}
	return s
}

func (s *Synthetic) Run(ctx context.Context, p player.Presser) {
	s.logger.Debug("synthetic input starting", "interval", s.interval)
	defer s.logger.Debug("synthetic input stopped")

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.KeyPressed(s.picker.Intn(s.slots))
		}
	}
}
