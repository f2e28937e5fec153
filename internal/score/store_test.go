package score

import (
	"path/filepath"
	"testing"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/judge"
)

func TestStoreRoundTrip(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "scores.db"))
	if nil != err {
		t.Fatal(err)
	}
	defer s.Close()

	settings := judge.New()
	settings.Windows.Good = 60
	settings.EmptyPress = judge.CountMiss
	first := &Record{
		Session:  "a",
		Player:   "p1",
		Sum:      "chart",
		Rate:     1,
		Counts:   Counts{Perfect: 2, Good: 1, Miss: 1},
		Score:    10,
		Elapsed:  6,
		Stopped:  true,
		Inputs:   []game.Input{{Lane: 0, Time: 1}, {Lane: 2, Time: 2.5}},
		Settings: *settings,
	}
	second := &Record{Session: "b", Player: "p2", Sum: "chart", Score: 12}
	other := &Record{Session: "c", Sum: "other", Score: 99}
	for _, r := range []*Record{first, second, other} {
		if err := s.Save(r); nil != err {
			t.Fatal(err)
		}
	}

	records, err := s.Load("chart")
	if nil != err {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	r := records[0]
	if r.Session != "a" || r.Counts != first.Counts || r.Score != 10 || r.Elapsed != 6 {
		t.Fatalf("record did not survive the round trip: %+v", r)
	}
	if !r.Stopped || r.Settings != *settings {
		t.Fatalf("judge settings did not survive the round trip: %+v", r.Settings)
	}
	if len(r.Inputs) != 2 || r.Inputs[1] != (game.Input{Lane: 2, Time: 2.5}) {
		t.Fatalf("inputs did not survive the round trip: %+v", r.Inputs)
	}

	best, err := s.Best("chart")
	if nil != err {
		t.Fatal(err)
	}
	if best == nil || best.Session != "b" {
		t.Fatalf("unexpected best %+v", best)
	}

	none, err := s.Best("missing")
	if nil != err || none != nil {
		t.Fatalf("expected no record, got %+v %v", none, err)
	}
}
