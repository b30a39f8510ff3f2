package player

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luca-patrignani/set-game/board"
	"github.com/luca-patrignani/set-game/ui"
)

// Player is one participant of the game.
type Player struct {
	id    int
	human bool

	board     *board.Board
	claims    ClaimSink
	input     InputSource
	presenter ui.Presenter
	logger    *slog.Logger

	pointFreeze   time.Duration
	penaltyFreeze time.Duration
	freezeTick    time.Duration

	actions chan int
	score   atomic.Int64
	state   atomic.Int32
	verdict atomic.Int32

	stopping atomic.Bool
	done     chan struct{}
	stopOnce sync.Once
}

type Option func(*Player)

// WithInput sets the source generating presses for this player. The player
// runs it and stops it on exit. Human players are usually fed from outside
// through KeyPressed instead.
func WithInput(src InputSource) Option {
	return func(p *Player) {
		p.input = src
	}
}

func WithPresenter(pr ui.Presenter) Option {
	return func(p *Player) {
		p.presenter = pr
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Player) {
		p.logger = l
	}
}

// WithFreeze sets how long the player is frozen after a point and after a
// penalty, and how often the remaining time is pushed to the presenter.
func WithFreeze(point, penalty, tick time.Duration) Option {
	return func(p *Player) {
		p.pointFreeze = point
		p.penaltyFreeze = penalty
		p.freezeTick = tick
	}
}

// New creates a player that plays on b and submits its claims to claims.
func New(id int, human bool, b *board.Board, claims ClaimSink, opts ...Option) *Player {
	p := &Player{
		id:            id,
		human:         human,
		board:         b,
		claims:        claims,
		presenter:     ui.Nop{},
		logger:        slog.New(slog.DiscardHandler),
		pointFreeze:   time.Second,
		penaltyFreeze: 3 * time.Second,
		freezeTick:    100 * time.Millisecond,
		actions:       make(chan int, QueueCapacity),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.freezeTick <= 0 {
		p.freezeTick = 100 * time.Millisecond
	}
	p.logger = p.logger.With("player", id)
	return p
}

func (p *Player) ID() int       { return p.id }
func (p *Player) Human() bool   { return p.human }
func (p *Player) Score() int    { return int(p.score.Load()) }
func (p *Player) State() State  { return State(p.state.Load()) }
func (p *Player) QueueLen() int { return len(p.actions) }
func (p *Player) Verdict() Verdict {
	return Verdict(p.verdict.Load())
}

// KeyPressed enqueues a press on slot. The press is dropped if the board is
// not accepting input, the slot is empty, or the player is awaiting a
// verdict, frozen or stopped. It blocks while the queue is full.
func (p *Player) KeyPressed(slot int) {
	if p.stopping.Load() || !p.board.Accepting() {
		return
	}
	switch p.State() {
	case AwaitingVerdict, Resolving, Stopped:
		return
	}
	if p.board.Card(slot) == board.NoCard {
		return
	}
	select {
	case p.actions <- slot:
	case <-p.done:
	}
}

// Run is the player's main loop. It starts the input source, handles presses
// until ctx is done, then stops the input source and waits for it to exit.
func (p *Player) Run(ctx context.Context) {
	p.logger.Info("player starting", "human", p.human)

	inputCtx, cancelInput := context.WithCancel(ctx)
	var wg sync.WaitGroup
	if p.input != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.input.Run(inputCtx, p)
		}()
	}
	defer func() {
		p.stop()
		cancelInput()
		wg.Wait()
		p.drain()
		p.state.Store(int32(Stopped))
		p.logger.Info("player terminated", "score", p.Score())
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case slot := <-p.actions:
			if ctx.Err() != nil {
				return
			}
			p.act(ctx, slot)
		}
	}
}

func (p *Player) stop() {
	p.stopOnce.Do(func() {
		p.stopping.Store(true)
		close(p.done)
	})
}

func (p *Player) act(ctx context.Context, slot int) {
	held, placed, ok := p.board.ToggleToken(p.id, slot)
	if !ok {
		return
	}
	p.logger.Debug("token toggled", "slot", slot, "placed", placed, "held", held)
	if placed && held == board.MaxHeld {
		p.claim(ctx)
		held = len(p.board.HeldSlots(p.id))
	}
	if held == 0 {
		p.state.Store(int32(WaitingForInput))
	} else {
		p.state.Store(int32(HoldingTokens))
	}
}

func (p *Player) claim(ctx context.Context) {
	p.state.Store(int32(AwaitingVerdict))
	c := NewClaim(p.id)
	v := Revoked
	if err := p.claims.Submit(ctx, c); err != nil {
		p.logger.Debug("claim not submitted", "err", err)
	} else {
		v = p.await(ctx, c)
	}

	p.verdict.Store(int32(v))
	p.state.Store(int32(Resolving))
	p.logger.Debug("claim resolved", "seq", c.Seq, "verdict", v)
	p.apply(ctx, v)
	p.verdict.Store(int32(Pending))
}

// await blocks until the dealer answers c or ctx is done. A verdict posted
// before cancellation is still honored.
func (p *Player) await(ctx context.Context, c *Claim) Verdict {
	select {
	case v := <-c.Reply():
		return v
	case <-ctx.Done():
		select {
		case v := <-c.Reply():
			return v
		default:
			return Revoked
		}
	}
}

func (p *Player) apply(ctx context.Context, v Verdict) {
	switch v {
	case Valid:
		p.point(ctx)
	case Invalid:
		p.penalty(ctx)
	}
}

// point awards one point and freezes the player.
func (p *Player) point(ctx context.Context) {
	score := p.score.Add(1)
	p.presenter.SetScore(p.id, int(score))
	p.freeze(ctx, p.pointFreeze)
}

// penalty freezes the player and discards its pending presses.
func (p *Player) penalty(ctx context.Context) {
	p.freeze(ctx, p.penaltyFreeze)
	p.drain()
}

// freeze blocks for d, pushing the remaining time to the presenter every
// freezeTick. It returns early if ctx is done.
func (p *Player) freeze(ctx context.Context, d time.Duration) {
	deadline := time.Now().Add(d)
	for remaining := d; remaining > 0; remaining = time.Until(deadline) {
		p.presenter.SetFreeze(p.id, remaining)
		select {
		case <-ctx.Done():
			p.presenter.SetFreeze(p.id, 0)
			return
		case <-time.After(min(remaining, p.freezeTick)):
		}
	}
	p.presenter.SetFreeze(p.id, 0)
}

// drain discards the presses queued when it is called, without blocking.
// A producer released by the first receive keeps its press.
func (p *Player) drain() {
	for range len(p.actions) {
		select {
		case <-p.actions:
		default:
			return
		}
	}
}
