package game

import "sort"

type Chart struct {
	Title    string  `json:"title" yaml:"title"`
	BPM      float64 `json:"bpm" yaml:"bpm"`
	Duration float64 `json:"duration" yaml:"duration"` // Seconds, 0 when unknown
	Offset   float64 `json:"offset" yaml:"offset"`     // Calibration shift for every note
	Audio    string  `json:"audio" yaml:"audio"`
	Notes    []*Note `json:"notes" yaml:"notes"`

	Difficulty Difficulty `json:"-" yaml:"-"`
}

// Sort orders the notes by time. Notes sharing a time keep their file order.
func (c *Chart) Sort() {
	sort.SliceStable(c.Notes, func(i, j int) bool {
		return c.Notes[i].Time < c.Notes[j].Time
	})
}

// Fresh returns a copy of the notes with all hit and miss state cleared.
func (c *Chart) Fresh() []*Note {
	notes := make([]*Note, len(c.Notes))
	for i, n := range c.Notes {
		notes[i] = &Note{Time: n.Time, Lane: n.Lane, Type: n.Type}
	}
	return notes
}

// LastTime is the time of the final note, or 0 for an empty chart.
func (c *Chart) LastTime() float64 {
	if len(c.Notes) == 0 {
		return 0
	}
	return c.Notes[len(c.Notes)-1].Time
}

// End is the point after which nothing more can happen in the chart.
func (c *Chart) End() float64 {
	if c.Duration > c.LastTime() {
		return c.Duration
	}
	return c.LastTime()
}
