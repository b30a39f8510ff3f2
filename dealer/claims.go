package dealer

import (
	"github.com/luca-patrignani/set-game/board"
	"github.com/luca-patrignani/set-game/ledger"
	"github.com/luca-patrignani/set-game/player"
)

// validate resolves one claim against the current board. The cards are read
// from the claimant's tokens now, not when the claim was submitted.
func (d *Dealer) validate(c *player.Claim) player.Verdict {
	v := player.Revoked
	var (
		slots []int
		cards [3]int
	)
	d.board.Atomically(func(tx *board.Txn) {
		slots = tx.HeldSlots(c.Player)
		var ok bool
		if cards, ok = tx.HeldCards(c.Player); !ok {
			return
		}
		if !d.oracle.IsValidTriple(cards) {
			v = player.Invalid
			tx.ClearTokens(c.Player)
			return
		}
		v = player.Valid
		for _, s := range slots {
			tx.RemoveCard(s)
		}
		if !d.terminate.Load() {
			d.placeCards(tx)
		}
	})
	if v == player.Valid {
		d.resetDeadline()
	}

	entry := ledger.Entry{
		Kind:    ledger.KindClaim,
		Round:   d.round,
		Seq:     c.Seq,
		Player:  c.Player,
		Slots:   slots,
		Verdict: v.String(),
	}
	if v != player.Revoked {
		entry.Cards = cards[:]
	}
	d.resolve(c, v, entry)
	return v
}

// revokeQueued resolves every queued claim as revoked.
func (d *Dealer) revokeQueued() {
	for {
		select {
		case c := <-d.claims:
			d.resolve(c, player.Revoked, ledger.Entry{
				Kind:    ledger.KindClaim,
				Round:   d.round,
				Seq:     c.Seq,
				Player:  c.Player,
				Verdict: player.Revoked.String(),
			})
		default:
			return
		}
	}
}

// resolve records the verdict, then wakes the claimant.
func (d *Dealer) resolve(c *player.Claim, v player.Verdict, entry ledger.Entry) {
	if _, err := d.ledger.Append(entry); err != nil {
		d.logger.Error("failed to record claim", "seq", c.Seq, "err", err)
	}
	if !c.Resolve(v) {
		d.logger.Warn("claim resolved twice", "seq", c.Seq, "player", c.Player)
		return
	}
	d.resolved++
	d.logger.Debug("claim resolved", "seq", c.Seq, "player", c.Player, "verdict", v, "slots", entry.Slots)
}
