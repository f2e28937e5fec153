package game

type Classification int

const (
	None Classification = iota
	Perfect
	Good
	Miss
)

var classificationNames = map[Classification]string{
	None:    "none",
	Perfect: "perfect",
	Good:    "good",
	Miss:    "miss",
}

func (c Classification) String() string {
	name, ok := classificationNames[c]
	if !ok {
		return "unknown"
	}
	return name
}

// Points is the score delta for a judgement. Anything that is not
// perfect, good or miss is worth nothing.
func (c Classification) Points() int {
	switch c {
	case Perfect:
		return 5
	case Good:
		return 2
	case Miss:
		return -2
	}
	return 0
}

// Counted reports whether the classification belongs in a tally.
func (c Classification) Counted() bool {
	return c == Perfect || c == Good || c == Miss
}
