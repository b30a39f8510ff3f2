package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"
)

var tokenColors = []func(a ...any) string{
	pterm.LightCyan,
	pterm.LightYellow,
	pterm.LightBlue,
	pterm.LightRed,
	pterm.LightGreen,
	pterm.LightMagenta,
}

// Terminal renders the game in a pterm area. Presenter calls only update an
// in-memory snapshot; Run redraws it on a fixed refresh interval.
type Terminal struct {
	columns int
	refresh time.Duration
	format  func(card int) string

	mu        sync.Mutex
	dirty     bool
	names     []string
	slots     []int
	tokens    [][]bool
	scores    []int
	freezes   []time.Duration
	countdown time.Duration
	warn      bool
	winners   []int
	announced bool
}

type TerminalOption func(*Terminal)

// WithColumns sets how many slots are drawn per row.
func WithColumns(n int) TerminalOption {
	return func(t *Terminal) {
		t.columns = n
	}
}

func WithRefresh(d time.Duration) TerminalOption {
	return func(t *Terminal) {
		t.refresh = d
	}
}

// WithCardFormat sets how a card id is drawn.
func WithCardFormat(fn func(card int) string) TerminalOption {
	return func(t *Terminal) {
		t.format = fn
	}
}

// NewTerminal creates a renderer for tableSize slots and one player per name.
func NewTerminal(tableSize int, names []string, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		columns: 4,
		refresh: 50 * time.Millisecond,
		format:  strconv.Itoa,
		names:   names,
		slots:   make([]int, tableSize),
		tokens:  make([][]bool, tableSize),
		scores:  make([]int, len(names)),
		freezes: make([]time.Duration, len(names)),
	}
	for s := range t.slots {
		t.slots[s] = -1
		t.tokens[s] = make([]bool, len(names))
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Terminal) update(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn()
	t.dirty = true
}

func (t *Terminal) PlaceCard(card, slot int) {
	t.update(func() { t.slots[slot] = card })
}

func (t *Terminal) RemoveCard(slot int) {
	t.update(func() { t.slots[slot] = -1 })
}

func (t *Terminal) PlaceToken(player, slot int) {
	t.update(func() { t.tokens[slot][player] = true })
}

func (t *Terminal) RemoveToken(player, slot int) {
	t.update(func() { t.tokens[slot][player] = false })
}

func (t *Terminal) SetScore(player, score int) {
	t.update(func() { t.scores[player] = score })
}

func (t *Terminal) SetFreeze(player int, remaining time.Duration) {
	t.update(func() { t.freezes[player] = remaining })
}

func (t *Terminal) SetCountdown(remaining time.Duration, warn bool) {
	t.update(func() {
		t.countdown = remaining
		t.warn = warn
	})
}

func (t *Terminal) AnnounceWinners(players []int) {
	t.update(func() {
		t.winners = append([]int(nil), players...)
		t.announced = true
	})
}

// Run draws the game until ctx is done, then leaves the last frame on
// screen followed by the winners, if any were announced.
func (t *Terminal) Run(ctx context.Context) error {
	area, err := pterm.DefaultArea.Start(t.Render())
	if err != nil {
		return fmt.Errorf("failed to start terminal area: %w", err)
	}
	ticker := time.NewTicker(t.refresh)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			area.Update(t.Render())
			if err := area.Stop(); err != nil {
				return fmt.Errorf("failed to stop terminal area: %w", err)
			}
			if text, ok := t.WinnersText(); ok {
				pterm.DefaultBox.WithTitle(pterm.LightGreen("|WINNERS|")).WithTitleTopCenter().
					WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1).Println(text)
			}
			return nil
		case <-ticker.C:
			if t.takeDirty() {
				area.Update(t.Render())
			}
		}
	}
}

func (t *Terminal) takeDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	d := t.dirty
	t.dirty = false
	return d
}

// Render returns the current frame.
func (t *Terminal) Render() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	seconds := (t.countdown + time.Second - 1) / time.Second
	if t.warn {
		b.WriteString(pterm.LightRed(fmt.Sprintf("Reshuffle in %.1fs", t.countdown.Seconds())))
	} else {
		b.WriteString(pterm.LightGreen(fmt.Sprintf("Reshuffle in %ds", seconds)))
	}
	b.WriteString("\n\n")

	var rows pterm.Panels
	for start := 0; start < len(t.slots); start += t.columns {
		var row []pterm.Panel
		for slot := start; slot < min(start+t.columns, len(t.slots)); slot++ {
			row = append(row, pterm.Panel{Data: t.cell(slot)})
		}
		rows = append(rows, row)
	}
	if grid, err := pterm.DefaultPanel.WithPanels(rows).WithPadding(1).Srender(); err == nil {
		b.WriteString(grid)
	}

	data := pterm.TableData{{"Player", "Score", "Frozen"}}
	for id, name := range t.names {
		frozen := ""
		if t.freezes[id] > 0 {
			frozen = pterm.LightRed(fmt.Sprintf("%.1fs", t.freezes[id].Seconds()))
		}
		data = append(data, []string{t.tokenMark(id) + " " + name, strconv.Itoa(t.scores[id]), frozen})
	}
	if table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender(); err == nil {
		b.WriteString("\n")
		b.WriteString(table)
	}
	return b.String()
}

func (t *Terminal) cell(slot int) string {
	title := pterm.Gray(strconv.Itoa(slot))
	content := pterm.Gray("  -  ")
	if card := t.slots[slot]; card >= 0 {
		content = t.format(card)
	}
	var marks []string
	for player, on := range t.tokens[slot] {
		if on {
			marks = append(marks, t.tokenMark(player))
		}
	}
	return pterm.DefaultBox.WithTitle(title).Sprint(content + "\n" + strings.Join(marks, " ") + " ")
}

func (t *Terminal) tokenMark(player int) string {
	return tokenColors[player%len(tokenColors)]("●")
}

// WinnersText describes the announced winners.
func (t *Terminal) WinnersText() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.announced {
		return "", false
	}
	var lines []string
	for _, id := range t.winners {
		lines = append(lines, pterm.Sprintf("%s wins with %d points", pterm.LightCyan(t.names[id]), t.scores[id]))
	}
	if len(lines) > 1 {
		lines = append([]string{"It's a tie!"}, lines...)
	}
	return strings.Join(lines, "\n"), true
}
