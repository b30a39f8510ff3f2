package ui

import (
	"slices"
	"sync"
	"time"
)

// EventKind names a Presenter call.
type EventKind string

const (
	EventPlaceCard   EventKind = "place_card"
	EventRemoveCard  EventKind = "remove_card"
	EventPlaceToken  EventKind = "place_token"
	EventRemoveToken EventKind = "remove_token"
	EventScore       EventKind = "score"
	EventFreeze      EventKind = "freeze"
	EventCountdown   EventKind = "countdown"
	EventWinners     EventKind = "winners"
)

// Event is one recorded Presenter call. Fields that do not apply to the
// kind are left at -1 or zero.
type Event struct {
	Kind      EventKind
	Player    int
	Slot      int
	Card      int
	Score     int
	Remaining time.Duration
	Warn      bool
	Winners   []int
}

// Recorder is a Presenter that keeps every call in order. It is safe for
// concurrent use and is meant for tests and replay.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) add(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *Recorder) PlaceCard(card, slot int) {
	r.add(Event{Kind: EventPlaceCard, Player: -1, Slot: slot, Card: card})
}

func (r *Recorder) RemoveCard(slot int) {
	r.add(Event{Kind: EventRemoveCard, Player: -1, Slot: slot, Card: -1})
}

func (r *Recorder) PlaceToken(player, slot int) {
	r.add(Event{Kind: EventPlaceToken, Player: player, Slot: slot, Card: -1})
}

func (r *Recorder) RemoveToken(player, slot int) {
	r.add(Event{Kind: EventRemoveToken, Player: player, Slot: slot, Card: -1})
}

func (r *Recorder) SetScore(player, score int) {
	r.add(Event{Kind: EventScore, Player: player, Slot: -1, Card: -1, Score: score})
}

func (r *Recorder) SetFreeze(player int, remaining time.Duration) {
	r.add(Event{Kind: EventFreeze, Player: player, Slot: -1, Card: -1, Remaining: remaining})
}

func (r *Recorder) SetCountdown(remaining time.Duration, warn bool) {
	r.add(Event{Kind: EventCountdown, Player: -1, Slot: -1, Card: -1, Remaining: remaining, Warn: warn})
}

func (r *Recorder) AnnounceWinners(players []int) {
	r.add(Event{Kind: EventWinners, Player: -1, Slot: -1, Card: -1, Winners: slices.Clone(players)})
}

// Events returns a copy of the recorded events, optionally filtered by kind.
func (r *Recorder) Events(kinds ...EventKind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if len(kinds) == 0 || slices.Contains(kinds, e.Kind) {
			out = append(out, e)
		}
	}
	return out
}

// Winners returns the last announced winners and whether any announcement
// was made.
func (r *Recorder) Winners() ([]int, bool) {
	ev := r.Events(EventWinners)
	if len(ev) == 0 {
		return nil, false
	}
	return ev[len(ev)-1].Winners, true
}
