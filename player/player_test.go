package player

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/set-game/board"
	"github.com/luca-patrignani/set-game/domain/setrules"
	"github.com/luca-patrignani/set-game/ui"
)

const (
	wait = 2 * time.Second
	tick = 5 * time.Millisecond
)

// sink queues claims for the test to resolve by hand.
type sink struct {
	claims chan *Claim
	seq    atomic.Uint64
}

func newSink() *sink {
	return &sink{claims: make(chan *Claim, 8)}
}

func (s *sink) Submit(ctx context.Context, c *Claim) error {
	c.Seq = s.seq.Add(1)
	c.Submitted = time.Now()
	select {
	case s.claims <- c:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *sink) next(t *testing.T) *Claim {
	t.Helper()
	select {
	case c := <-s.claims:
		return c
	case <-time.After(wait):
		t.Fatal("no claim submitted")
		return nil
	}
}

// stubInput records its lifetime.
type stubInput struct {
	started atomic.Bool
	stopped atomic.Bool
}

func (s *stubInput) Run(ctx context.Context, _ Presser) {
	s.started.Store(true)
	<-ctx.Done()
	s.stopped.Store(true)
}

func newTestBoard(players int, rec *ui.Recorder) *board.Board {
	b := board.New(12, setrules.DeckSize, players, setrules.Oracle{}, board.WithPresenter(rec))
	for s := range 12 {
		b.PlaceCard(s, s)
	}
	b.SetAccepting(true)
	return b
}

type harness struct {
	board  *board.Board
	rec    *ui.Recorder
	sink   *sink
	player *Player
	cancel context.CancelFunc
	done   chan struct{}
}

func start(t *testing.T, opts ...Option) *harness {
	t.Helper()
	h := &harness{rec: &ui.Recorder{}, sink: newSink(), done: make(chan struct{})}
	h.board = newTestBoard(1, h.rec)
	opts = append([]Option{WithPresenter(h.rec), WithFreeze(30*time.Millisecond, 60*time.Millisecond, 10*time.Millisecond)}, opts...)
	h.player = New(0, false, h.board, h.sink, opts...)
	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	go func() {
		defer close(h.done)
		h.player.Run(ctx)
	}()
	t.Cleanup(h.stop)
	return h
}

func (h *harness) stop() {
	h.cancel()
	<-h.done
}

func (h *harness) press(slots ...int) {
	for _, s := range slots {
		h.player.KeyPressed(s)
	}
}

func TestVerdictString(t *testing.T) {
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "revoked", Revoked.String())
	assert.Equal(t, "awaiting_verdict", AwaitingVerdict.String())
}

func TestClaimResolvesOnce(t *testing.T) {
	c := NewClaim(3)
	assert.False(t, c.Resolved())
	assert.True(t, c.Resolve(Valid))
	assert.False(t, c.Resolve(Revoked))
	assert.True(t, c.Resolved())
	assert.Equal(t, Valid, <-c.Reply())
}

func TestKeyPressedIgnoredWhenBoardClosed(t *testing.T) {
	rec := &ui.Recorder{}
	b := newTestBoard(1, rec)
	b.SetAccepting(false)
	p := New(0, true, b, newSink())
	p.KeyPressed(0)
	assert.Equal(t, 0, p.QueueLen())
}

func TestKeyPressedIgnoredOnEmptySlot(t *testing.T) {
	rec := &ui.Recorder{}
	b := newTestBoard(1, rec)
	b.RemoveCard(4)
	p := New(0, true, b, newSink())
	p.KeyPressed(4)
	p.KeyPressed(-1)
	p.KeyPressed(12)
	assert.Equal(t, 0, p.QueueLen())
}

func TestQueueBlocksWhenFull(t *testing.T) {
	rec := &ui.Recorder{}
	p := New(0, true, newTestBoard(1, rec), newSink())
	p.KeyPressed(0)
	p.KeyPressed(1)
	p.KeyPressed(2)
	require.Equal(t, QueueCapacity, p.QueueLen())

	pressed := make(chan struct{})
	go func() {
		p.KeyPressed(3)
		close(pressed)
	}()
	select {
	case <-pressed:
		t.Fatal("press on a full queue must block")
	case <-time.After(50 * time.Millisecond):
	}
	assert.Equal(t, QueueCapacity, p.QueueLen(), "queue never exceeds its capacity")

	p.drain()
	select {
	case <-pressed:
	case <-time.After(wait):
		t.Fatal("clearing the queue must release the producer")
	}
	require.Equal(t, 1, p.QueueLen(), "the released press survives the clear")
	assert.Equal(t, 3, <-p.actions)
}

func TestStopReleasesBlockedProducer(t *testing.T) {
	rec := &ui.Recorder{}
	p := New(0, true, newTestBoard(1, rec), newSink())
	for s := range QueueCapacity {
		p.KeyPressed(s)
	}
	pressed := make(chan struct{})
	go func() {
		p.KeyPressed(5)
		close(pressed)
	}()
	p.stop()
	select {
	case <-pressed:
	case <-time.After(wait):
		t.Fatal("stop must release the producer")
	}
}

func TestToggleOff(t *testing.T) {
	h := start(t)
	h.press(4, 4)
	require.Eventually(t, func() bool { return len(h.rec.Events(ui.EventRemoveToken)) == 1 }, wait, tick)
	assert.Empty(t, h.board.HeldSlots(0))
	assert.Equal(t, WaitingForInput, h.player.State())
}

func TestValidClaim(t *testing.T) {
	h := start(t)
	h.press(0, 1, 2)
	c := h.sink.next(t)
	assert.Equal(t, 0, c.Player)
	assert.Equal(t, AwaitingVerdict, h.player.State())

	// presses are dropped while the claim is pending
	h.press(5)
	assert.Equal(t, 0, h.player.QueueLen())

	// the dealer removes the cards before answering
	h.board.Atomically(func(tx *board.Txn) {
		for _, s := range tx.HeldSlots(0) {
			tx.RemoveCard(s)
		}
	})
	c.Resolve(Valid)

	require.Eventually(t, func() bool { return h.player.State() == WaitingForInput }, wait, tick)
	assert.Equal(t, 1, h.player.Score())
	assert.Equal(t, Pending, h.player.Verdict())

	scores := h.rec.Events(ui.EventScore)
	require.Len(t, scores, 1)
	assert.Equal(t, 1, scores[0].Score)

	freezes := h.rec.Events(ui.EventFreeze)
	require.NotEmpty(t, freezes)
	assert.Equal(t, 30*time.Millisecond, freezes[0].Remaining)
	assert.Equal(t, time.Duration(0), freezes[len(freezes)-1].Remaining)
}

func TestInvalidClaimPenalizes(t *testing.T) {
	h := start(t, WithFreeze(30*time.Millisecond, 300*time.Millisecond, 10*time.Millisecond))
	h.press(0, 1, 3)
	c := h.sink.next(t)
	h.board.ClearTokens(0)
	c.Resolve(Invalid)

	require.Eventually(t, func() bool { return h.player.State() == Resolving }, wait, tick)
	// presses during the freeze are dropped
	h.press(6)
	require.Eventually(t, func() bool { return h.player.State() == WaitingForInput }, wait, tick)
	assert.Equal(t, 0, h.player.Score())
	assert.Equal(t, 0, h.player.QueueLen())
	assert.Empty(t, h.rec.Events(ui.EventScore))

	freezes := h.rec.Events(ui.EventFreeze)
	require.NotEmpty(t, freezes)
	assert.Equal(t, 300*time.Millisecond, freezes[0].Remaining)
}

func TestRevokedClaimResumesImmediately(t *testing.T) {
	h := start(t)
	h.press(0, 1, 2)
	c := h.sink.next(t)
	h.board.RemoveCard(1)
	c.Resolve(Revoked)

	require.Eventually(t, func() bool { return h.player.State() == HoldingTokens }, wait, tick)
	assert.Equal(t, []int{0, 2}, h.board.HeldSlots(0))
	assert.Empty(t, h.rec.Events(ui.EventFreeze))

	// the player can complete a new claim with its remaining tokens
	h.press(3)
	c = h.sink.next(t)
	assert.Equal(t, uint64(2), c.Seq)
	c.Resolve(Revoked)
}

func TestStopWhileAwaitingVerdict(t *testing.T) {
	in := &stubInput{}
	h := start(t, WithInput(in))
	require.Eventually(t, in.started.Load, wait, tick)

	h.press(0, 1, 2)
	c := h.sink.next(t)
	h.stop()

	assert.True(t, in.stopped.Load(), "input source stops before Run returns")
	assert.Equal(t, Stopped, h.player.State())
	assert.Equal(t, 0, h.player.Score())
	assert.False(t, c.Resolved(), "the dealer still owns the claim")
	h.player.KeyPressed(0)
	assert.Equal(t, 0, h.player.QueueLen(), "presses after stop are dropped")
}

func TestPostedVerdictWinsOverCancellation(t *testing.T) {
	p := New(0, false, newTestBoard(1, &ui.Recorder{}), newSink())
	c := NewClaim(0)
	c.Resolve(Valid)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for range 100 {
		assert.Equal(t, Valid, p.await(ctx, c))
		c.reply <- Valid
	}
}

func TestConcurrentPressesNeverOverflow(t *testing.T) {
	h := start(t, WithFreeze(0, 0, time.Millisecond))
	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				h.player.KeyPressed((i + j) % 12)
				assert.LessOrEqual(t, h.player.QueueLen(), QueueCapacity)
			}
		}()
	}
	// answer every claim so the player keeps consuming
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case c := <-h.sink.claims:
				h.board.ClearTokens(0)
				c.Resolve(Invalid)
			case <-stop:
				return
			}
		}
	}()
	wg.Wait()
	close(stop)
	require.NoError(t, h.board.Check())
}
