package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.lost.host/meutraa/lanes/internal/fixture"
)

func TestDecodeJSON(t *testing.T) {
	chart, err := Decode(strings.NewReader(`{
		"title": "t", "bpm": 150, "duration": 3, "offset": 0.02, "audio": "a.ogg",
		"notes": [{"time": 2, "lane": 3}, {"time": 1, "lane": 0, "type": "tap"}, {"time": 1, "lane": 2}]
	}`), ".json")
	if nil != err {
		t.Fatal(err)
	}
	if chart.Title != "t" || chart.BPM != 150 || chart.Offset != 0.02 || chart.Audio != "a.ogg" {
		t.Fatalf("metadata lost: %+v", chart)
	}
	if len(chart.Notes) != 3 {
		t.Fatalf("expected 3 notes, got %d", len(chart.Notes))
	}
	// Sorted by time, ties keep file order
	if chart.Notes[0].Lane != 0 || chart.Notes[1].Lane != 2 || chart.Notes[2].Time != 2 {
		t.Fatalf("notes not sorted: %v %v %v", chart.Notes[0], chart.Notes[1], chart.Notes[2])
	}
	if chart.Notes[2].Type != "tap" {
		t.Fatal("missing type was not defaulted")
	}
}

func TestDecodeYAML(t *testing.T) {
	chart, err := Decode(strings.NewReader(`
title: yaml chart
bpm: 90
offset: -0.01
notes:
  - {time: 0.5, lane: 1}
  - {time: 0.25, lane: 0, type: tap}
`), "yml")
	if nil != err {
		t.Fatal(err)
	}
	if chart.Title != "yaml chart" || len(chart.Notes) != 2 || chart.Notes[0].Time != 0.25 {
		t.Fatalf("unexpected chart %+v", chart)
	}
}

var rejectTests = map[string]error{
	`{"title": "no notes"}`:                          ErrNoNotes,
	`{"notes": []}`:                                  ErrNoNotes,
	`{"notes": [{"time": 1, "lane": 4}]}`:            ErrLane,
	`{"notes": [{"time": 1, "lane": -1}]}`:           ErrLane,
	`{"notes": [{"time": -1, "lane": 0}]}`:           ErrTime,
	`{"notes": [null]}`:                              ErrTime,
	`{"notes": [{"time": "soon", "lane": 0}]}`:       nil,
	`{"notes": [{"time": 1, "lane": 0}]`:             nil,
	`{"notes": [{"time": 1, "lane": 0}], "bpm": {}}`: nil,
}

func TestDecodeRejects(t *testing.T) {
	for in, expected := range rejectTests {
		_, err := Decode(strings.NewReader(in), ".json")
		if nil == err {
			t.Errorf("%v: accepted", in)
			continue
		}
		if nil != expected && !errors.Is(err, expected) {
			t.Errorf("%v: got %v, expected %v", in, err, expected)
		}
	}
}

func TestDecodeUnknownFormat(t *testing.T) {
	if _, err := Decode(strings.NewReader("{}"), ".xml"); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected a format error, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "chart.json")
	if err := os.WriteFile(file, fixture.Data(), 0o644); nil != err {
		t.Fatal(err)
	}
	var p Parser = &DefaultParser{}
	charts, err := p.Parse(file)
	if nil != err {
		t.Fatal(err)
	}
	if len(charts) != 1 || len(charts[0].Notes) != 10 || charts[0].Title != "Metronome" {
		t.Fatalf("unexpected charts %+v", charts)
	}
}
