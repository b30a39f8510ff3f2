package setrules

import (
	"slices"
)

const (
	// FeatureCount is the number of features describing a card.
	FeatureCount = 4
	// FeatureSize is the number of values each feature can take.
	FeatureSize = 3
	// DeckSize is the number of distinct cards, FeatureSize^FeatureCount.
	DeckSize = 81
)

// Features decodes a card id into its feature values.
func Features(card int) [FeatureCount]int {
	var f [FeatureCount]int
	for i := range FeatureCount {
		f[i] = card % FeatureSize
		card /= FeatureSize
	}
	return f
}

// Oracle answers the two questions the dealer asks about cards: whether a
// given triple matches and which triples exist among a set of cards.
// The zero value is ready to use.
type Oracle struct{}

// IsValidTriple reports whether the three cards form a triple.
// A triple containing the same card twice is never valid.
func (Oracle) IsValidTriple(cards [3]int) bool {
	if cards[0] == cards[1] || cards[0] == cards[2] || cards[1] == cards[2] {
		return false
	}
	a, b, c := Features(cards[0]), Features(cards[1]), Features(cards[2])
	for i := range FeatureCount {
		if (a[i]+b[i]+c[i])%FeatureSize != 0 {
			return false
		}
	}
	return true
}

// FindTriples returns up to limit triples among cards, each sorted in
// ascending card order. A limit <= 0 means no limit.
//
// Every triple is listed once, in lexicographic order of the sorted input.
func (o Oracle) FindTriples(cards []int, limit int) [][3]int {
	sorted := slices.Clone(cards)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	var found [][3]int
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			for k := j + 1; k < len(sorted); k++ {
				t := [3]int{sorted[i], sorted[j], sorted[k]}
				if !o.IsValidTriple(t) {
					continue
				}
				found = append(found, t)
				if limit > 0 && len(found) >= limit {
					return found
				}
			}
		}
	}
	return found
}
