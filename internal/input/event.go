package input

// Logical codes for keys that do not print a character
const (
	CodeEscape = "esc"
	CodeSpace  = "space"
	CodeEnter  = "enter"
)

// Event is a single key press. Presses are judged at the time of the
// frame that reads them.
type Event struct {
	Code string
}

type Source interface {
	Events() <-chan Event
	Close() error
}
