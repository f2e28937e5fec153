package score

import (
	"math"
	"testing"

	"git.lost.host/meutraa/lanes/internal/game"
)

func TestTallyScore(t *testing.T) {
	for _, n := range [][3]int{{0, 0, 0}, {1, 0, 0}, {0, 0, 4}, {7, 3, 2}, {2, 10, 30}} {
		var tally Tally
		for i := 0; i < n[0]; i++ {
			tally.Add(game.Perfect)
		}
		for i := 0; i < n[1]; i++ {
			tally.Add(game.Good)
		}
		for i := 0; i < n[2]; i++ {
			tally.Add(game.Miss)
		}
		expected := 5*n[0] + 2*n[1] - 2*n[2]
		if tally.Score != expected {
			t.Errorf("%v: score %d, expected %d", n, tally.Score, expected)
		}
		if tally.Counts != (Counts{Perfect: n[0], Good: n[1], Miss: n[2]}) {
			t.Errorf("%v: counts %+v", n, tally.Counts)
		}
	}
}

func TestTallyIgnoresUnknown(t *testing.T) {
	var tally Tally
	tally.Add(game.Perfect)
	tally.Add(game.None)
	tally.Add(game.Classification(42))
	if tally.Score != 5 || tally.Counts.Total() != 1 {
		t.Fatalf("unknown classification changed the tally: %+v", tally)
	}
}

func TestTallyReset(t *testing.T) {
	var tally Tally
	tally.Add(game.Good)
	tally.Add(game.Miss)
	tally.Stats.Add(0.01)
	tally.Reset()
	if tally.Score != 0 || tally.Counts.Total() != 0 || tally.Stats.Hits() != 0 {
		t.Fatalf("reset left state behind: %+v", tally)
	}
}

func TestStats(t *testing.T) {
	var s Stats
	if s.Stdev() != 0 {
		t.Fatal("stdev of nothing is not 0")
	}
	for _, x := range []float64{2, 4, 4, 4, 5, 5, 7, 9} {
		s.Add(x)
	}
	if math.Abs(s.Mean()-5) > 1e-9 {
		t.Errorf("mean %v, expected 5", s.Mean())
	}
	// Sample variance is 32/7
	if math.Abs(s.Stdev()-math.Sqrt(32.0/7.0)) > 1e-9 {
		t.Errorf("stdev %v", s.Stdev())
	}
}
