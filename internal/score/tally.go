package score

import (
	"math"

	"git.lost.host/meutraa/lanes/internal/game"
)

type Counts struct {
	Perfect int `json:"perfect"`
	Good    int `json:"good"`
	Miss    int `json:"miss"`
}

func (c Counts) Total() int {
	return c.Perfect + c.Good + c.Miss
}

// Tally accumulates the judgements of one session.
type Tally struct {
	Counts Counts
	Score  int
	Stats  Stats
}

// Add records a judgement. Classifications other than perfect, good
// and miss are ignored.
func (t *Tally) Add(c game.Classification) {
	switch c {
	case game.Perfect:
		t.Counts.Perfect++
	case game.Good:
		t.Counts.Good++
	case game.Miss:
		t.Counts.Miss++
	default:
		return
	}
	t.Score += c.Points()
}

func (t *Tally) Reset() {
	*t = Tally{}
}

// Stats keeps the mean and deviation of hit offsets in seconds.
type Stats struct {
	n    int
	mean float64
	m2   float64
}

func (s *Stats) Add(offset float64) {
	s.n++
	delta := offset - s.mean
	s.mean += delta / float64(s.n)
	s.m2 += delta * (offset - s.mean)
}

func (s *Stats) Hits() int {
	return s.n
}

func (s *Stats) Mean() float64 {
	return s.mean
}

// Stdev is the sample standard deviation, 0 until there are two hits.
func (s *Stats) Stdev() float64 {
	if s.n < 2 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.n-1))
}
