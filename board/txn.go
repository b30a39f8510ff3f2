package board

import (
	"fmt"
	"slices"
)

// Txn exposes the board operations to a function running under Atomically.
// Its methods assume the lock is held and must not be called after the
// function returns.
type Txn struct {
	b *Board
}

// PlaceCard is Board.PlaceCard within the transaction.
func (tx *Txn) PlaceCard(card, slot int) {
	b := tx.b
	b.mustSlot(slot)
	if card < 0 || card >= len(b.cardToSlot) {
		panic(fmt.Sprintf("board: card %d out of range [0, %d)", card, len(b.cardToSlot)))
	}
	if b.slotToCard[slot] != NoCard {
		panic(fmt.Sprintf("board: slot %d already holds card %d", slot, b.slotToCard[slot]))
	}
	if b.cardToSlot[card] != NoSlot {
		panic(fmt.Sprintf("board: card %d already on slot %d", card, b.cardToSlot[card]))
	}
	b.sleep()
	b.slotToCard[slot] = card
	b.cardToSlot[card] = slot
	b.logger.Debug("card placed", "card", card, "slot", slot)
	b.presenter.PlaceCard(card, slot)
}

// RemoveCard is Board.RemoveCard within the transaction.
func (tx *Txn) RemoveCard(slot int) (int, bool) {
	b := tx.b
	b.mustSlot(slot)
	card := b.slotToCard[slot]
	if card == NoCard {
		return NoCard, false
	}
	b.sleep()
	for p := range b.held {
		if b.tokens[slot][p] {
			tx.RemoveToken(p, slot)
		}
	}
	b.slotToCard[slot] = NoCard
	b.cardToSlot[card] = NoSlot
	b.logger.Debug("card removed", "card", card, "slot", slot)
	b.presenter.RemoveCard(slot)
	return card, true
}

// PlaceToken is Board.PlaceToken within the transaction.
func (tx *Txn) PlaceToken(player, slot int) bool {
	b := tx.b
	if !b.validSlot(slot) || !b.validPlayer(player) {
		return false
	}
	if b.slotToCard[slot] == NoCard || b.tokens[slot][player] || len(b.held[player]) >= MaxHeld {
		return false
	}
	b.tokens[slot][player] = true
	b.held[player] = append(b.held[player], slot)
	b.presenter.PlaceToken(player, slot)
	return true
}

// RemoveToken is Board.RemoveToken within the transaction.
func (tx *Txn) RemoveToken(player, slot int) bool {
	b := tx.b
	if !b.validSlot(slot) || !b.validPlayer(player) || !b.tokens[slot][player] {
		return false
	}
	b.tokens[slot][player] = false
	if i := slices.Index(b.held[player], slot); i >= 0 {
		b.held[player] = slices.Delete(b.held[player], i, i+1)
	}
	b.presenter.RemoveToken(player, slot)
	return true
}

// ToggleToken is Board.ToggleToken within the transaction.
func (tx *Txn) ToggleToken(player, slot int) (held int, placed bool, ok bool) {
	if tx.RemoveToken(player, slot) {
		return len(tx.b.held[player]), false, true
	}
	if tx.PlaceToken(player, slot) {
		return len(tx.b.held[player]), true, true
	}
	if tx.b.validPlayer(player) {
		held = len(tx.b.held[player])
	}
	return held, false, false
}

// ClearTokens is Board.ClearTokens within the transaction.
func (tx *Txn) ClearTokens(player int) {
	if !tx.b.validPlayer(player) {
		return
	}
	for _, slot := range slices.Clone(tx.b.held[player]) {
		tx.RemoveToken(player, slot)
	}
}

// ClearAllTokens is Board.ClearAllTokens within the transaction.
func (tx *Txn) ClearAllTokens() {
	for p := range tx.b.held {
		tx.ClearTokens(p)
	}
}

// Card returns the card on slot, or NoCard.
func (tx *Txn) Card(slot int) int {
	if !tx.b.validSlot(slot) {
		return NoCard
	}
	return tx.b.slotToCard[slot]
}

// Cards returns the cards on the board in slot order.
func (tx *Txn) Cards() []int {
	cards := make([]int, 0, len(tx.b.slotToCard))
	for _, c := range tx.b.slotToCard {
		if c != NoCard {
			cards = append(cards, c)
		}
	}
	return cards
}

// EmptySlots returns the free slots in ascending order.
func (tx *Txn) EmptySlots() []int {
	var slots []int
	for s, c := range tx.b.slotToCard {
		if c == NoCard {
			slots = append(slots, s)
		}
	}
	return slots
}

// HeldSlots returns the player's token slots in placement order.
func (tx *Txn) HeldSlots(player int) []int {
	if !tx.b.validPlayer(player) {
		return nil
	}
	return slices.Clone(tx.b.held[player])
}

// HeldCards is Board.HeldCards within the transaction.
func (tx *Txn) HeldCards(player int) ([3]int, bool) {
	var cards [3]int
	if !tx.b.validPlayer(player) || len(tx.b.held[player]) != MaxHeld {
		return cards, false
	}
	for i, slot := range tx.b.held[player] {
		cards[i] = tx.b.slotToCard[slot]
	}
	return cards, true
}
