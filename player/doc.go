// Package player implements the player actor.
//
// A Player consumes slot presses from a bounded queue, toggles its tokens on
// the board and, once it holds three, submits a Claim and blocks until the
// dealer answers with a Verdict:
//
//	WaitingForInput -> HoldingTokens(1..2) -> AwaitingVerdict -> Resolving -> WaitingForInput
//
// Presses arriving while a claim is pending or while the player is frozen are
// dropped. The queue holds at most QueueCapacity presses; a producer pressing
// into a full queue blocks until the player consumes one, a penalty clears the
// queue, or the player stops.
//
// Every blocking wait also selects on the player's context, so cancelling it
// is enough to stop the actor and its input source.
package player
