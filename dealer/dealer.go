package dealer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/luca-patrignani/set-game/board"
	"github.com/luca-patrignani/set-game/domain/deck"
	"github.com/luca-patrignani/set-game/ledger"
	"github.com/luca-patrignani/set-game/player"
	"github.com/luca-patrignani/set-game/ui"
)

// ErrNoPlayers is returned by Run when no player has been seated.
var ErrNoPlayers = errors.New("no players seated")

// Oracle decides whether three cards match and finds matches among cards.
type Oracle interface {
	IsValidTriple(cards [3]int) bool
	FindTriples(cards []int, limit int) [][3]int
}

// Config holds the dealer's timing settings.
type Config struct {
	// TurnTimeout is the time between reshuffles when nobody scores.
	TurnTimeout time.Duration
	// TurnTimeoutWarning is the remaining time under which the countdown
	// is displayed as a warning.
	TurnTimeoutWarning time.Duration
	// DisplayTick bounds how long the dealer waits between countdown updates.
	DisplayTick time.Duration
	// Hints logs every triple on the board after each layout.
	Hints bool
}

// Result summarizes a finished game.
type Result struct {
	GameID  string
	Scores  []int // indexed by player id
	Winners []int
	Rounds  int
	Claims  int // claims resolved, whatever the verdict
}

type Dealer struct {
	cfg       Config
	board     *board.Board
	deck      *deck.Deck
	oracle    Oracle
	players   []*player.Player
	presenter ui.Presenter
	logger    *slog.Logger
	ledger    *ledger.Ledger
	gameID    string

	claims   chan *player.Claim
	submitMu sync.Mutex
	seq      atomic.Uint64

	terminate atomic.Bool
	stopCh    chan struct{}
	stopOnce  sync.Once

	// owned by the dealer goroutine
	deadline time.Time
	round    int
	resolved int
}

type Option func(*Dealer)

func WithPresenter(p ui.Presenter) Option {
	return func(d *Dealer) {
		d.presenter = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *Dealer) {
		d.logger = l
	}
}

// WithLedger records resolutions into l instead of a fresh ledger.
func WithLedger(l *ledger.Ledger) Option {
	return func(d *Dealer) {
		d.ledger = l
	}
}

// WithGameID overrides the generated game id.
func WithGameID(id string) Option {
	return func(d *Dealer) {
		d.gameID = id
	}
}

// New creates a dealer for the given board and deck. The deck must hold
// every card that is not on the board. Players are added with Seat.
func New(cfg Config, b *board.Board, dk *deck.Deck, oracle Oracle, opts ...Option) *Dealer {
	d := &Dealer{
		cfg:       cfg,
		board:     b,
		deck:      dk,
		oracle:    oracle,
		presenter: ui.Nop{},
		logger:    slog.New(slog.DiscardHandler),
		claims:    make(chan *player.Claim, b.Players()),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.gameID == "" {
		d.gameID = uuid.NewString()
	}
	if d.ledger == nil {
		d.ledger = ledger.New(d.gameID)
	}
	if d.cfg.DisplayTick <= 0 {
		d.cfg.DisplayTick = 100 * time.Millisecond
	}
	d.logger = d.logger.With("game_id", d.gameID)
	return d
}

// Seat adds players to the game. It must be called before Run; player ids
// must match their position, starting from 0.
func (d *Dealer) Seat(players ...*player.Player) {
	for _, p := range players {
		if p.ID() != len(d.players) || p.ID() >= d.board.Players() {
			panic("dealer: players must be seated in id order and fit the board")
		}
		d.players = append(d.players, p)
	}
}

func (d *Dealer) GameID() string         { return d.gameID }
func (d *Dealer) Ledger() *ledger.Ledger { return d.ledger }
func (d *Dealer) Players() []*player.Player {
	return d.players
}

// Submit queues a claim for validation. It implements player.ClaimSink.
// It fails with player.ErrStopped once the dealer is shutting down.
func (d *Dealer) Submit(ctx context.Context, c *player.Claim) error {
	d.submitMu.Lock()
	defer d.submitMu.Unlock()

	if d.terminate.Load() {
		return player.ErrStopped
	}
	c.Seq = d.seq.Add(1)
	c.Submitted = time.Now()
	select {
	case d.claims <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop asks the dealer to end the game. It returns immediately; Run returns
// once every player has exited.
func (d *Dealer) Stop() {
	d.stopOnce.Do(func() { close(d.stopCh) })
}

// Run plays the game until no triple is left or a stop is requested. It
// starts every seated player and returns after all of them exited.
func (d *Dealer) Run(ctx context.Context) (Result, error) {
	if len(d.players) == 0 {
		return Result{}, ErrNoPlayers
	}
	d.logger.Info("dealer starting", "players", len(d.players), "deck", d.deck.Len())

	d.board.Atomically(d.placeCards)
	d.logHints()
	d.board.SetAccepting(true)

	stops := d.startPlayers(ctx)

	for !d.shouldFinish(ctx) {
		d.timerLoop(ctx)
		d.updateTimerDisplay(true)
		d.reshuffle(ctx)
	}

	d.shutdown(stops)
	d.board.Atomically(func(tx *board.Txn) { d.removeAllCards(tx, true) })
	res := d.announceWinners()
	d.logger.Info("dealer terminated", "rounds", res.Rounds, "claims", res.Claims, "winners", res.Winners)

	if err := d.ledger.Verify(); err != nil {
		return res, errors.Join(errors.New("ledger verification failed"), err)
	}
	return res, nil
}

type playerStop struct {
	cancel context.CancelFunc
	done   <-chan struct{}
}

// startPlayers launches every player, last seat first, each with its own
// cancelable context detached from ctx: the dealer decides when they stop.
func (d *Dealer) startPlayers(ctx context.Context) []playerStop {
	stops := make([]playerStop, len(d.players))
	for i := len(d.players) - 1; i >= 0; i-- {
		pctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		done := make(chan struct{})
		stops[i] = playerStop{cancel: cancel, done: done}
		go func(p *player.Player) {
			defer close(done)
			p.Run(pctx)
		}(d.players[i])
	}
	return stops
}

// terminating reports whether the game must end, latching any external
// stop request into the terminate flag.
func (d *Dealer) terminating(ctx context.Context) bool {
	if d.terminate.Load() {
		return true
	}
	select {
	case <-ctx.Done():
	case <-d.stopCh:
	default:
		return false
	}
	d.terminate.Store(true)
	return true
}

func (d *Dealer) shouldFinish(ctx context.Context) bool {
	if d.terminating(ctx) {
		return true
	}
	if !d.board.HasPlayableSet(d.deck.Cards()) {
		d.logger.Info("no triple left in deck and board")
		d.terminate.Store(true)
		return true
	}
	return false
}

// timerLoop runs one round: it waits for claims until the deadline expires,
// refreshing the countdown at least every display tick.
func (d *Dealer) timerLoop(ctx context.Context) {
	d.resetDeadline()
	timer := time.NewTimer(d.cfg.DisplayTick)
	defer timer.Stop()

	for !d.terminating(ctx) && time.Now().Before(d.deadline) {
		d.updateTimerDisplay(false)
		timer.Reset(min(time.Until(d.deadline), d.cfg.DisplayTick))
		select {
		case c := <-d.claims:
			if d.validate(c) == player.Valid && !d.board.HasPlayableSet(d.deck.Cards()) {
				d.logger.Info("last triple taken")
				d.terminate.Store(true)
			}
		case <-timer.C:
		case <-ctx.Done():
		case <-d.stopCh:
		}
	}
}

func (d *Dealer) resetDeadline() {
	d.deadline = time.Now().Add(d.cfg.TurnTimeout)
}

// updateTimerDisplay pushes the countdown. With reset it shows a full turn.
func (d *Dealer) updateTimerDisplay(reset bool) {
	if reset {
		d.presenter.SetCountdown(d.cfg.TurnTimeout, false)
		return
	}
	remaining := max(time.Until(d.deadline), 0)
	d.presenter.SetCountdown(remaining, remaining < d.cfg.TurnTimeoutWarning)
}
