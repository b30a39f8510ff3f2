package deck

import (
	"crypto/cipher"
	"math/big"
	"slices"

	"go.dedis.ch/kyber/v4/suites"
	"go.dedis.ch/kyber/v4/util/random"
)

// Picker chooses an index in [0, n). Implementations must be uniform for a
// fair game; tests substitute deterministic pickers.
type Picker interface {
	Intn(n int) int
}

var suite suites.Suite = suites.MustFind("Ed25519")

// StreamPicker draws uniform indexes from a kyber cipher stream.
// It is not safe for concurrent use: give each goroutine its own picker.
type StreamPicker struct {
	stream cipher.Stream
}

// NewStreamPicker returns a picker seeded from the suite's random stream.
func NewStreamPicker() *StreamPicker {
	return &StreamPicker{stream: suite.RandomStream()}
}

// Intn returns a uniform index in [0, n). It panics if n <= 0.
func (p *StreamPicker) Intn(n int) int {
	if n <= 0 {
		panic("deck: Intn called with non-positive bound")
	}
	// random.Int draws from (0, mod), hence the shift.
	return int(random.Int(big.NewInt(int64(n)+1), p.stream).Int64()) - 1
}

// Deck is the pile of card ids that are not on the board.
// It is owned by the dealer and not safe for concurrent use.
type Deck struct {
	cards  []int
	picker Picker
}

// New returns a deck holding cards 0..size-1.
func New(size int, picker Picker) *Deck {
	cards := make([]int, size)
	for i := range cards {
		cards[i] = i
	}
	return From(cards, picker)
}

// From returns a deck holding exactly the given cards, in order.
func From(cards []int, picker Picker) *Deck {
	if picker == nil {
		picker = NewStreamPicker()
	}
	return &Deck{cards: slices.Clone(cards), picker: picker}
}

// Len returns the number of cards left.
func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the remaining cards.
func (d *Deck) Cards() []int {
	return slices.Clone(d.cards)
}

// Draw removes a uniformly chosen card from the deck.
// ok is false when the deck is empty.
func (d *Deck) Draw() (card int, ok bool) {
	if len(d.cards) == 0 {
		return -1, false
	}
	i := d.picker.Intn(len(d.cards))
	card = d.cards[i]
	d.cards = slices.Delete(d.cards, i, i+1)
	return card, true
}

// Return puts a card back at the bottom of the deck.
func (d *Deck) Return(card int) {
	d.cards = append(d.cards, card)
}
