package dealer

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/luca-patrignani/set-game/board"
	"github.com/luca-patrignani/set-game/ledger"
)

// placeCards fills the empty slots, in slot order, with cards drawn at
// random from the deck until either runs out.
func (d *Dealer) placeCards(tx *board.Txn) {
	for _, slot := range tx.EmptySlots() {
		card, ok := d.deck.Draw()
		if !ok {
			return
		}
		tx.PlaceCard(card, slot)
	}
}

// removeAllCards clears every slot and token. Cards go back to the deck
// unless discard is set.
func (d *Dealer) removeAllCards(tx *board.Txn, discard bool) {
	tx.ClearAllTokens()
	for slot := range d.board.TableSize() {
		card, ok := tx.RemoveCard(slot)
		if ok && !discard {
			d.deck.Return(card)
		}
	}
}

// reshuffle ends the round: the board is cleared, queued claims are revoked
// and, unless the game is ending, a fresh layout is dealt.
func (d *Dealer) reshuffle(ctx context.Context) {
	d.board.SetAccepting(false)
	terminating := d.terminating(ctx)
	d.board.Atomically(func(tx *board.Txn) {
		d.removeAllCards(tx, terminating)
		d.revokeQueued()
		if !terminating {
			d.placeCards(tx)
		}
	})
	if terminating {
		return
	}
	d.round++
	if _, err := d.ledger.Append(ledger.Entry{
		Kind:   ledger.KindReshuffle,
		Round:  d.round,
		Player: -1,
		Extra:  map[string]string{"deck": strconv.Itoa(d.deck.Len())},
	}); err != nil {
		d.logger.Error("failed to record reshuffle", "err", err)
	}
	d.logger.Debug("board reshuffled", "round", d.round, "cards", d.board.CountCards())
	d.logHints()
	d.board.SetAccepting(true)
}

func (d *Dealer) logHints() {
	if !d.cfg.Hints {
		return
	}
	for _, slots := range d.board.Hints() {
		d.logger.Info("hint: triple found", "slots", slots)
	}
}

// shutdown stops accepting claims, revokes the queued ones and stops every
// player in turn, waiting for each to exit with its input source.
func (d *Dealer) shutdown(stops []playerStop) {
	d.submitMu.Lock()
	d.terminate.Store(true)
	d.submitMu.Unlock()

	d.board.SetAccepting(false)
	d.revokeQueued()
	for i, s := range stops {
		s.cancel()
		<-s.done
		d.logger.Debug("player stopped", "player", i)
	}
	d.revokeQueued()
}

// announceWinners hands every player with the highest score to the
// presenter and returns the game summary.
func (d *Dealer) announceWinners() Result {
	scores := make([]int, len(d.players))
	for i, p := range d.players {
		scores[i] = p.Score()
	}
	w := winners(scores)
	d.presenter.AnnounceWinners(w)

	extra := map[string]string{"winners": formatInts(w)}
	if _, err := d.ledger.Append(ledger.Entry{Kind: ledger.KindGameEnd, Round: d.round, Player: -1, Extra: extra}); err != nil {
		d.logger.Error("failed to record game end", "err", err)
	}
	return Result{
		GameID:  d.gameID,
		Scores:  scores,
		Winners: w,
		Rounds:  d.round,
		Claims:  d.resolved,
	}
}

// winners returns the ids of every player sharing the maximum score.
func winners(scores []int) []int {
	if len(scores) == 0 {
		return nil
	}
	best := slices.Max(scores)
	var w []int
	for id, s := range scores {
		if s == best {
			w = append(w, id)
		}
	}
	return w
}

func formatInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ",")
}
