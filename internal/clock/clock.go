package clock

// Clock is the only time source a session reads. Positions are in
// seconds of track time.
type Clock interface {
	Position() float64
	Start()
	Stop()
	Seek(seconds float64) error
	// Closed once playback reaches the end of the track
	Done() <-chan struct{}
}
