package ui

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalRender(t *testing.T) {
	term := NewTerminal(6, []string{"alice", "bob"}, WithColumns(3),
		WithCardFormat(func(card int) string { return fmt.Sprintf("card-%02d", card) }))

	term.PlaceCard(7, 0)
	term.PlaceCard(42, 5)
	term.PlaceToken(1, 5)
	term.SetScore(1, 3)
	term.SetFreeze(0, 1500*time.Millisecond)
	term.SetCountdown(4*time.Second, false)

	frame := term.Render()
	assert.Contains(t, frame, "card-07")
	assert.Contains(t, frame, "card-42")
	assert.Contains(t, frame, "alice")
	assert.Contains(t, frame, "bob")
	assert.Contains(t, frame, "Reshuffle in 4s")
	assert.Contains(t, frame, "1.5s")

	term.RemoveCard(0)
	term.SetCountdown(500*time.Millisecond, true)
	frame = term.Render()
	assert.NotContains(t, frame, "card-07")
	assert.Contains(t, frame, "Reshuffle in 0.5s")
	assert.True(t, term.takeDirty())
	assert.False(t, term.takeDirty())
}

func TestTerminalWinners(t *testing.T) {
	term := NewTerminal(3, []string{"alice", "bob"})
	_, ok := term.WinnersText()
	assert.False(t, ok)

	term.SetScore(0, 2)
	term.SetScore(1, 2)
	term.AnnounceWinners([]int{0, 1})
	text, ok := term.WinnersText()
	require.True(t, ok)
	assert.Contains(t, text, "tie")
	assert.Contains(t, text, "alice")
	assert.Contains(t, text, "bob")
}
