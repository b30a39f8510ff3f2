package player

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// QueueCapacity bounds the presses waiting to be handled by a player.
const QueueCapacity = 3

// ErrStopped is returned by a ClaimSink that no longer accepts claims.
var ErrStopped = errors.New("game stopped")

// Verdict is the dealer's answer to a claim.
type Verdict int32

const (
	// Pending means no claim is being resolved.
	Pending Verdict = iota
	// Valid means the claim was a triple; the player scores.
	Valid
	// Invalid means the claim was not a triple; the player is penalized.
	Invalid
	// Revoked means the board changed under the claim; nothing happens.
	Revoked
)

func (v Verdict) String() string {
	switch v {
	case Pending:
		return "pending"
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Revoked:
		return "revoked"
	default:
		return "unknown"
	}
}

// State is the position of a player in its state machine.
type State int32

const (
	WaitingForInput State = iota
	HoldingTokens
	AwaitingVerdict
	Resolving
	Stopped
)

func (s State) String() string {
	switch s {
	case WaitingForInput:
		return "waiting_for_input"
	case HoldingTokens:
		return "holding_tokens"
	case AwaitingVerdict:
		return "awaiting_verdict"
	case Resolving:
		return "resolving"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Claim is a player's request to have its three tokens validated.
type Claim struct {
	Player    int
	Seq       uint64 // assigned by the sink on submission
	Submitted time.Time

	reply    chan Verdict
	resolved atomic.Bool
}

// NewClaim returns an unresolved claim for player.
func NewClaim(player int) *Claim {
	return &Claim{
		Player: player,
		reply:  make(chan Verdict, 1),
	}
}

// Resolve posts the verdict to the claimant. Only the first call has an
// effect; it reports whether this call was it. Resolve never blocks.
func (c *Claim) Resolve(v Verdict) bool {
	if !c.resolved.CompareAndSwap(false, true) {
		return false
	}
	c.reply <- v
	return true
}

// Resolved reports whether a verdict has been posted.
func (c *Claim) Resolved() bool {
	return c.resolved.Load()
}

// Reply delivers the verdict once posted.
func (c *Claim) Reply() <-chan Verdict {
	return c.reply
}

// ClaimSink accepts claims for validation, typically the dealer.
type ClaimSink interface {
	Submit(ctx context.Context, c *Claim) error
}

// Presser receives slot presses.
type Presser interface {
	KeyPressed(slot int)
}

// InputSource feeds presses to a player until ctx is done.
type InputSource interface {
	Run(ctx context.Context, p Presser)
}
