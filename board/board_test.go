package board

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luca-patrignani/set-game/domain/setrules"
	"github.com/luca-patrignani/set-game/ui"
)

func newBoard(t *testing.T, players int, opts ...Option) *Board {
	t.Helper()
	return New(12, setrules.DeckSize, players, setrules.Oracle{}, opts...)
}

func TestPlaceAndRemoveCard(t *testing.T) {
	rec := &ui.Recorder{}
	b := newBoard(t, 2, WithPresenter(rec))

	b.PlaceCard(40, 3)
	assert.Equal(t, 40, b.Card(3))
	assert.Equal(t, 1, b.CountCards())
	require.NoError(t, b.Check())

	card, ok := b.RemoveCard(3)
	assert.True(t, ok)
	assert.Equal(t, 40, card)
	assert.Equal(t, NoCard, b.Card(3))

	_, ok = b.RemoveCard(3)
	assert.False(t, ok, "removing from an empty slot is a no-op")
	require.NoError(t, b.Check())

	assert.Len(t, rec.Events(ui.EventPlaceCard), 1)
	assert.Len(t, rec.Events(ui.EventRemoveCard), 1)
}

func TestPlaceCardPreconditions(t *testing.T) {
	b := newBoard(t, 1)
	b.PlaceCard(1, 0)
	assert.Panics(t, func() { b.PlaceCard(2, 0) }, "occupied slot")
	assert.Panics(t, func() { b.PlaceCard(1, 5) }, "card already on board")
	assert.Panics(t, func() { b.PlaceCard(3, 12) }, "slot out of range")
	assert.Panics(t, func() { b.PlaceCard(setrules.DeckSize, 4) }, "card out of range")
}

func TestTokens(t *testing.T) {
	rec := &ui.Recorder{}
	b := newBoard(t, 2, WithPresenter(rec))
	for s := range 5 {
		b.PlaceCard(s, s)
	}

	assert.False(t, b.PlaceToken(0, 7), "empty slot")
	assert.True(t, b.PlaceToken(0, 1))
	assert.False(t, b.PlaceToken(0, 1), "token already there")
	assert.True(t, b.PlaceToken(0, 2))
	assert.True(t, b.PlaceToken(0, 0))
	assert.False(t, b.PlaceToken(0, 3), "at most three tokens")
	assert.Equal(t, []int{1, 2, 0}, b.HeldSlots(0))

	assert.True(t, b.RemoveToken(0, 2))
	assert.False(t, b.RemoveToken(0, 2), "removal is idempotent")
	assert.False(t, b.RemoveToken(1, 1), "other player's token")
	assert.Equal(t, []int{1, 0}, b.HeldSlots(0))
	require.NoError(t, b.Check())

	assert.Len(t, rec.Events(ui.EventPlaceToken), 3)
	assert.Len(t, rec.Events(ui.EventRemoveToken), 1)
}

func TestToggleToken(t *testing.T) {
	b := newBoard(t, 1)
	b.PlaceCard(10, 4)

	held, placed, ok := b.ToggleToken(0, 4)
	assert.Equal(t, 1, held)
	assert.True(t, placed)
	assert.True(t, ok)

	held, placed, ok = b.ToggleToken(0, 4)
	assert.Equal(t, 0, held)
	assert.False(t, placed)
	assert.True(t, ok)

	held, _, ok = b.ToggleToken(0, 5)
	assert.Equal(t, 0, held)
	assert.False(t, ok)
}

func TestRemoveCardCascadesTokens(t *testing.T) {
	b := newBoard(t, 3)
	for s := range 4 {
		b.PlaceCard(s+20, s)
	}
	require.True(t, b.PlaceToken(0, 1))
	require.True(t, b.PlaceToken(0, 2))
	require.True(t, b.PlaceToken(1, 2))
	require.True(t, b.PlaceToken(2, 3))

	b.RemoveCard(2)

	assert.Equal(t, []int{1}, b.HeldSlots(0))
	assert.Empty(t, b.HeldSlots(1))
	assert.Equal(t, []int{3}, b.HeldSlots(2))
	require.NoError(t, b.Check())
}

func TestHeldCards(t *testing.T) {
	b := newBoard(t, 1)
	b.PlaceCard(5, 0)
	b.PlaceCard(6, 1)
	b.PlaceCard(7, 2)
	b.PlaceToken(0, 2)
	b.PlaceToken(0, 0)

	_, ok := b.HeldCards(0)
	assert.False(t, ok)

	b.PlaceToken(0, 1)
	cards, ok := b.HeldCards(0)
	require.True(t, ok)
	assert.Equal(t, [3]int{7, 5, 6}, cards)
}

func TestClearTokens(t *testing.T) {
	b := newBoard(t, 2)
	for s := range 3 {
		b.PlaceCard(s, s)
		b.PlaceToken(0, s)
		b.PlaceToken(1, s)
	}
	b.ClearTokens(0)
	assert.Empty(t, b.HeldSlots(0))
	assert.Len(t, b.HeldSlots(1), 3)

	b.ClearAllTokens()
	assert.Empty(t, b.HeldSlots(1))
	require.NoError(t, b.Check())
}

func TestHintsAndPlayableSet(t *testing.T) {
	b := newBoard(t, 1)
	// cards 0, 1, 2 differ only in number and form a triple
	b.PlaceCard(0, 5)
	b.PlaceCard(1, 2)
	b.PlaceCard(3, 0)
	assert.Empty(t, b.Hints())
	assert.False(t, b.HasPlayableSet(nil))
	assert.True(t, b.HasPlayableSet([]int{2}))

	b.PlaceCard(2, 9)
	assert.Equal(t, [][]int{{2, 5, 9}}, b.Hints())
	assert.True(t, b.HasPlayableSet(nil))
}

func TestAccepting(t *testing.T) {
	b := newBoard(t, 1)
	assert.False(t, b.Accepting())
	b.SetAccepting(true)
	assert.True(t, b.Accepting())
}

func TestAtomically(t *testing.T) {
	b := newBoard(t, 1)
	b.Atomically(func(tx *Txn) {
		for _, s := range tx.EmptySlots() {
			tx.PlaceCard(s*2, s)
		}
	})
	assert.Equal(t, 12, b.CountCards())
	b.Atomically(func(tx *Txn) {
		assert.Empty(t, tx.EmptySlots())
	})
}

func TestCheckDetectsCorruption(t *testing.T) {
	b := newBoard(t, 2)
	b.PlaceCard(4, 0)
	b.PlaceToken(1, 0)

	b.cardToSlot[4] = 7
	b.tokens[3][0] = true
	err := b.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "slot 0 holds card 4")
	assert.Contains(t, err.Error(), "player 0 has a token on slot 3")
}

// Players and a dealer hammer the board concurrently; the invariants must
// hold at every step.
func TestConcurrentMutationKeepsInvariants(t *testing.T) {
	const players = 4
	b := newBoard(t, players)
	for s := range 12 {
		b.PlaceCard(s, s)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for p := range players {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := rand.New(rand.NewPCG(uint64(p), 1))
			for {
				select {
				case <-stop:
					return
				default:
				}
				b.ToggleToken(p, r.IntN(12))
			}
		}()
	}

	next := 12
	for range 500 {
		slot := next % 12
		b.Atomically(func(tx *Txn) {
			card, _ := tx.RemoveCard(slot)
			tx.PlaceCard((card+12)%setrules.DeckSize, slot)
		})
		require.NoError(t, b.Check())
		next++
	}
	close(stop)
	wg.Wait()
	require.NoError(t, b.Check())
}
