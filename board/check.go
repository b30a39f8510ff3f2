package board

import (
	"errors"
	"fmt"
	"slices"
)

// check verifies the bijection and token invariants. The lock must be held.
func (b *Board) check() error {
	var errs []error
	for s, c := range b.slotToCard {
		if c == NoCard {
			continue
		}
		if c < 0 || c >= len(b.cardToSlot) || b.cardToSlot[c] != s {
			errs = append(errs, fmt.Errorf("slot %d holds card %d but the card is not mapped back", s, c))
		}
	}
	for c, s := range b.cardToSlot {
		if s == NoSlot {
			continue
		}
		if s < 0 || s >= len(b.slotToCard) || b.slotToCard[s] != c {
			errs = append(errs, fmt.Errorf("card %d mapped to slot %d but the slot does not hold it", c, s))
		}
	}
	for p, slots := range b.held {
		if len(slots) > MaxHeld {
			errs = append(errs, fmt.Errorf("player %d holds %d tokens", p, len(slots)))
		}
		count := 0
		for s := range b.tokens {
			if !b.tokens[s][p] {
				continue
			}
			count++
			if !slices.Contains(slots, s) {
				errs = append(errs, fmt.Errorf("player %d has a token on slot %d missing from its held slots", p, s))
			}
			if b.slotToCard[s] == NoCard {
				errs = append(errs, fmt.Errorf("player %d has a token on empty slot %d", p, s))
			}
		}
		if count != len(slots) {
			errs = append(errs, fmt.Errorf("player %d holds %v but has %d tokens", p, slots, count))
		}
	}
	return errors.Join(errs...)
}
