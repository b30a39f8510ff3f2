// Package dealer implements the dealer actor: it lays out cards, runs the
// countdown, validates claims in submission order, reshuffles the board when
// the countdown expires, and shuts the game down.
//
// # Game Flow
//
//	Setup -> Round{PlaceCards, Countdown, DrainClaims} -> Reshuffle -> ... -> Shutdown -> AnnounceWinners
//
// The game ends when no triple exists among the deck and the board, or when
// an external stop is requested through the context or Stop.
//
// # Claims
//
// Players submit claims through Submit. The claim queue is a channel with one
// slot per player, so the first claim submitted is the first validated. A
// claim is validated against the cards under the claimant's tokens at
// validation time; if the board changed and the claimant no longer holds
// three tokens, the claim is revoked. Removing a valid triple and refilling
// the freed slots happens in a single board transaction.
//
// Every claim submitted is resolved exactly once, including the ones still
// queued when a round ends or the game stops, and every resolution is
// recorded in the ledger.
package dealer
