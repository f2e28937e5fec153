package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path"
	"strings"

	"git.lost.host/meutraa/lanes/internal/game"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoNotes = errors.New("chart has no notes")
	ErrLane    = errors.New("note lane out of range")
	ErrTime    = errors.New("note time is invalid")
	ErrFormat  = errors.New("unknown chart format")
)

// DefaultParser reads .json, .yaml/.yml and StepMania .sm charts.
type DefaultParser struct {
	StepMania StepManiaParser
}

func (p *DefaultParser) Parse(file string) ([]*game.Chart, error) {
	ext := strings.ToLower(path.Ext(file))
	if ext == ".sm" {
		charts, err := p.StepMania.Parse(file)
		if nil != err {
			return nil, err
		}
		for _, c := range charts {
			if err := Validate(c); nil != err {
				return nil, fmt.Errorf("%v (%v): %w", file, c.Difficulty.Name, err)
			}
		}
		return charts, nil
	}

	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()

	chart, err := Decode(f, ext)
	if nil != err {
		return nil, fmt.Errorf("%v: %w", file, err)
	}
	return []*game.Chart{chart}, nil
}

// Decode reads a single chart in the format named by ext.
func Decode(r io.Reader, ext string) (*game.Chart, error) {
	var chart game.Chart
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "json":
		if err := json.NewDecoder(r).Decode(&chart); nil != err {
			return nil, fmt.Errorf("unable to decode chart: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&chart); nil != err {
			return nil, fmt.Errorf("unable to decode chart: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrFormat, ext)
	}
	if err := Validate(&chart); nil != err {
		return nil, err
	}
	return &chart, nil
}

// Validate rejects charts the judge cannot work with, fills in note
// types and sorts the notes by time.
func Validate(c *game.Chart) error {
	if len(c.Notes) == 0 {
		return ErrNoNotes
	}
	if math.IsNaN(c.Offset) || math.IsInf(c.Offset, 0) {
		return fmt.Errorf("offset %v: %w", c.Offset, ErrTime)
	}
	for i, n := range c.Notes {
		if nil == n {
			return fmt.Errorf("note %d is empty: %w", i, ErrTime)
		}
		if n.Lane < 0 || n.Lane >= game.Lanes {
			return fmt.Errorf("note %d lane %d: %w", i, n.Lane, ErrLane)
		}
		if n.Time < 0 || math.IsNaN(n.Time) || math.IsInf(n.Time, 0) {
			return fmt.Errorf("note %d time %v: %w", i, n.Time, ErrTime)
		}
		if n.Type == "" {
			n.Type = "tap"
		}
	}
	c.Sort()
	return nil
}
