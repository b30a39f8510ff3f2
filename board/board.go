package board

import (
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/luca-patrignani/set-game/ui"
)

const (
	// NoCard marks an empty slot.
	NoCard = -1
	// NoSlot marks a card that is not on the board.
	NoSlot = -1
	// MaxHeld is the number of tokens that make a claim.
	MaxHeld = 3
)

// Oracle enumerates the triples among a set of cards.
type Oracle interface {
	FindTriples(cards []int, limit int) [][3]int
}

// Board is the shared table. It is safe for concurrent use.
type Board struct {
	mu         sync.Mutex
	slotToCard []int
	cardToSlot []int
	tokens     [][]bool // [slot][player]
	held       [][]int  // [player] slots in placement order

	accepting atomic.Bool

	oracle    Oracle
	presenter ui.Presenter
	delay     time.Duration
	logger    *slog.Logger
}

type Option func(*Board)

// WithPresenter sets the sink notified of every card and token change.
func WithPresenter(p ui.Presenter) Option {
	return func(b *Board) {
		b.presenter = p
	}
}

// WithDelay slows down every card placement and removal, emulating a dealer
// that takes time to handle cards.
func WithDelay(d time.Duration) Option {
	return func(b *Board) {
		b.delay = d
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Board) {
		b.logger = l
	}
}

// New returns an empty board with tableSize slots for cards drawn from a deck
// of deckSize cards, shared by the given number of players.
func New(tableSize, deckSize, players int, oracle Oracle, opts ...Option) *Board {
	b := &Board{
		slotToCard: make([]int, tableSize),
		cardToSlot: make([]int, deckSize),
		tokens:     make([][]bool, tableSize),
		held:       make([][]int, players),
		oracle:     oracle,
		presenter:  ui.Nop{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for s := range b.slotToCard {
		b.slotToCard[s] = NoCard
		b.tokens[s] = make([]bool, players)
	}
	for c := range b.cardToSlot {
		b.cardToSlot[c] = NoSlot
	}
	for p := range b.held {
		b.held[p] = make([]int, 0, MaxHeld)
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// TableSize returns the number of slots.
func (b *Board) TableSize() int {
	return len(b.slotToCard)
}

// Players returns the number of players sharing the board.
func (b *Board) Players() int {
	return len(b.held)
}

// Accepting reports whether players may currently press slots.
func (b *Board) Accepting() bool {
	return b.accepting.Load()
}

// SetAccepting opens or closes the board to key presses.
func (b *Board) SetAccepting(v bool) {
	b.accepting.Store(v)
}

// Atomically runs fn with the board locked. Other actors observe either none
// or all of the changes fn makes. fn must not retain tx.
func (b *Board) Atomically(fn func(tx *Txn)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&Txn{b: b})
	if checkInvariants {
		if err := b.check(); err != nil {
			panic(err)
		}
	}
}

// PlaceCard puts card on the empty slot.
func (b *Board) PlaceCard(card, slot int) {
	b.Atomically(func(tx *Txn) { tx.PlaceCard(card, slot) })
}

// RemoveCard clears slot and strips every token placed on it.
// ok is false if the slot was already empty.
func (b *Board) RemoveCard(slot int) (card int, ok bool) {
	b.Atomically(func(tx *Txn) { card, ok = tx.RemoveCard(slot) })
	return
}

// PlaceToken puts a token of player on slot. It fails if the slot is empty,
// already carries the player's token, or the player already holds MaxHeld.
func (b *Board) PlaceToken(player, slot int) (ok bool) {
	b.Atomically(func(tx *Txn) { ok = tx.PlaceToken(player, slot) })
	return
}

// RemoveToken removes the token of player from slot; it is a no-op returning
// false if there is none.
func (b *Board) RemoveToken(player, slot int) (ok bool) {
	b.Atomically(func(tx *Txn) { ok = tx.RemoveToken(player, slot) })
	return
}

// ToggleToken removes the player's token from slot if present, otherwise
// tries to place one. held is the number of tokens the player holds
// afterwards; ok is false if nothing changed.
func (b *Board) ToggleToken(player, slot int) (held int, placed bool, ok bool) {
	b.Atomically(func(tx *Txn) { held, placed, ok = tx.ToggleToken(player, slot) })
	return
}

// ClearTokens removes every token of player.
func (b *Board) ClearTokens(player int) {
	b.Atomically(func(tx *Txn) { tx.ClearTokens(player) })
}

// ClearAllTokens removes every token of every player.
func (b *Board) ClearAllTokens() {
	b.Atomically(func(tx *Txn) { tx.ClearAllTokens() })
}

// Card returns the card on slot, or NoCard.
func (b *Board) Card(slot int) (card int) {
	b.Atomically(func(tx *Txn) { card = tx.Card(slot) })
	return
}

// Cards returns the cards on the board in slot order.
func (b *Board) Cards() (cards []int) {
	b.Atomically(func(tx *Txn) { cards = tx.Cards() })
	return
}

// CountCards returns the number of occupied slots.
func (b *Board) CountCards() int {
	return len(b.Cards())
}

// HeldSlots returns the slots carrying the player's tokens, in placement order.
func (b *Board) HeldSlots(player int) (slots []int) {
	b.Atomically(func(tx *Txn) { slots = tx.HeldSlots(player) })
	return
}

// HeldCards returns the cards under the player's tokens; ok is false unless
// the player holds exactly MaxHeld tokens.
func (b *Board) HeldCards(player int) (cards [3]int, ok bool) {
	b.Atomically(func(tx *Txn) { cards, ok = tx.HeldCards(player) })
	return
}

// HasPlayableSet reports whether a triple exists among the board's cards
// together with extra, typically the cards left in the deck.
func (b *Board) HasPlayableSet(extra []int) bool {
	cards := append(b.Cards(), extra...)
	return len(b.oracle.FindTriples(cards, 1)) > 0
}

// Hints returns, for every triple currently on the board, the sorted slots
// holding it.
func (b *Board) Hints() [][]int {
	var hints [][]int
	b.Atomically(func(tx *Txn) {
		for _, t := range b.oracle.FindTriples(tx.Cards(), 0) {
			slots := []int{b.cardToSlot[t[0]], b.cardToSlot[t[1]], b.cardToSlot[t[2]]}
			slices.Sort(slots)
			hints = append(hints, slots)
		}
	})
	return hints
}

// Check verifies the board invariants and returns every violation found.
func (b *Board) Check() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.check()
}

func (b *Board) sleep() {
	if b.delay > 0 {
		time.Sleep(b.delay)
	}
}

func (b *Board) mustSlot(slot int) {
	if slot < 0 || slot >= len(b.slotToCard) {
		panic(fmt.Sprintf("board: slot %d out of range [0, %d)", slot, len(b.slotToCard)))
	}
}

func (b *Board) validSlot(slot int) bool {
	return slot >= 0 && slot < len(b.slotToCard)
}

func (b *Board) validPlayer(player int) bool {
	return player >= 0 && player < len(b.held)
}
