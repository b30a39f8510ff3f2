// Package ui defines the sink the game engine reports to, plus a no-op sink,
// a recording sink for tests and a pterm terminal renderer.
package ui

import "time"

// Presenter receives display updates. Calls are fire-and-forget: an
// implementation must return promptly and must not call back into the
// engine, since the board invokes it while holding its lock.
type Presenter interface {
	PlaceCard(card, slot int)
	RemoveCard(slot int)
	PlaceToken(player, slot int)
	RemoveToken(player, slot int)
	SetScore(player, score int)
	// SetFreeze reports how long the player stays frozen; zero ends the freeze.
	SetFreeze(player int, remaining time.Duration)
	SetCountdown(remaining time.Duration, warn bool)
	AnnounceWinners(players []int)
}

// Nop discards every update.
type Nop struct{}

func (Nop) PlaceCard(int, int)               {}
func (Nop) RemoveCard(int)                   {}
func (Nop) PlaceToken(int, int)              {}
func (Nop) RemoveToken(int, int)             {}
func (Nop) SetScore(int, int)                {}
func (Nop) SetFreeze(int, time.Duration)     {}
func (Nop) SetCountdown(time.Duration, bool) {}
func (Nop) AnnounceWinners([]int)            {}
