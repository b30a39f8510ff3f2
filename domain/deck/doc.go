// Package deck holds the cards that are not on the board and draws them at
// random. Draws go through a Picker; the default one is backed by a kyber
// cipher stream, the same source the suite uses to pick secret scalars.
package deck
