package judge

import "git.lost.host/meutraa/lanes/internal/game"

type Judge interface {
	// Index of the closest pending note in lane within the good window
	FindBestMatch(notes []*game.Note, lane int, now, offset float64) (index int, distance float64, ok bool)

	Classify(distance float64) game.Classification

	// Mark a note as hit, false if it was already resolved
	ApplyHit(note *game.Note) bool

	// Mark every pending note past the grace period as missed
	SweepMisses(notes []*game.Note, now, offset float64) int
	Sweep(notes []*game.Note, now, offset float64, onMiss func(index int)) int

	// Find, classify and apply a single key press
	Press(notes []*game.Note, lane int, now, offset float64) Outcome
}

// Outcome of judging a single press.
type Outcome struct {
	Class    game.Classification
	Index    int     // -1 when no note was resolved
	Distance float64 // In judgement units
	Offset   float64 // Seconds early (positive) or late (negative)
}

// Resolved reports whether the press hit a note.
func (o Outcome) Resolved() bool {
	return o.Index >= 0
}

type EmptyPressPolicy int

const (
	// A press with no note in range does nothing
	Ignore EmptyPressPolicy = iota
	// A press with no note in range counts as a miss
	CountMiss
)

func (p EmptyPressPolicy) String() string {
	if p == CountMiss {
		return "miss"
	}
	return "ignore"
}

func ParseEmptyPressPolicy(s string) (EmptyPressPolicy, bool) {
	switch s {
	case "", "ignore":
		return Ignore, true
	case "miss":
		return CountMiss, true
	}
	return Ignore, false
}
