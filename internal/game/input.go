package game

// Input is a single key press after it was mapped to a lane.
type Input struct {
	Lane int
	Time float64 // Clock position when the press was judged
}
