// Package board holds the cards laid out on the table and the tokens players
// put on them.
//
// A Board keeps two invariants under a single mutex:
//
//   - slotToCard[s] == c if and only if cardToSlot[c] == s;
//   - a player has a token on slot s if and only if s is in that player's
//     held-slot list, which never grows beyond MaxHeld.
//
// The held-slot lists live here rather than in the player so the dealer and
// the cascading card removal read them under the same lock that guards the
// token matrix. Several mutations that must appear atomic to other actors
// (remove three cards and refill) run inside Atomically.
//
// Violating a precondition (placing a card on an occupied slot, placing a card
// that is already on the board) is a programming error and panics. Building
// with the setdebug tag additionally verifies both invariants after every
// mutation.
package board
