package input

import "fmt"

// Binding is the player and slot a key stands for.
type Binding struct {
	Player int
	Slot   int
}

// KeyMap binds runes to slots of human players.
type KeyMap map[rune]Binding

// Each human player owns a 3x4 grid of keys, mapped row by row to slots.
var layouts = [][3]string{
	{"qwer", "asdf", "zxcv"},
	{"uiop", "jkl;", "m,./"},
}

// DefaultKeyMap binds the first humans human players, which are expected to
// hold ids 0..humans-1, on a board of tableSize slots.
func DefaultKeyMap(humans, tableSize int) (KeyMap, error) {
	if humans > len(layouts) {
		return nil, fmt.Errorf("at most %d human players supported, got %d", len(layouts), humans)
	}
	m := KeyMap{}
	for id := range humans {
		slot := 0
		for _, row := range layouts[id] {
			for _, r := range row {
				if slot < tableSize {
					m[r] = Binding{Player: id, Slot: slot}
				}
				slot++
			}
		}
	}
	return m, nil
}

// Keys returns the runes bound to player, in slot order.
func (m KeyMap) Keys(player int) []rune {
	var out []rune
	for _, row := range layouts[player%len(layouts)] {
		for _, r := range row {
			if b, ok := m[r]; ok && b.Player == player {
				out = append(out, r)
			}
		}
	}
	return out
}
