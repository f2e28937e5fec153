package game

// Lanes is the number of parallel input tracks a chart can use.
const Lanes = 4

type Note struct {
	Time float64 `json:"time" yaml:"time"` // Seconds from the start of the track
	Lane int     `json:"lane" yaml:"lane"` // 0 is the leftmost lane
	Type string  `json:"type,omitempty" yaml:"type,omitempty"`

	// This is state, set at most once per session
	Hit    bool `json:"-" yaml:"-"`
	Missed bool `json:"-" yaml:"-"`
}

// Resolved notes are ignored by matching and by the miss sweep.
func (n *Note) Resolved() bool {
	return n.Hit || n.Missed
}
