package clock

import (
	"sync"
	"testing"

	"github.com/faiface/beep"
)

type nopCloser struct {
	beep.StreamSeeker
}

func (nopCloser) Close() error { return nil }

func newTestClock(t *testing.T, samples int) (*AudioClock, *[]beep.Streamer) {
	t.Helper()
	format := beep.Format{SampleRate: 1000, NumChannels: 2, Precision: 2}
	buffer := beep.NewBuffer(format)
	buffer.Append(beep.Silence(samples))

	played := []beep.Streamer{}
	play := func(s ...beep.Streamer) { played = append(played, s...) }
	c := NewAudioClock(nopCloser{buffer.Streamer(0, buffer.Len())}, format, &sync.Mutex{}, play)
	return c, &played
}

func pull(s beep.Streamer, n int) {
	samples := make([][2]float64, n)
	s.Stream(samples)
}

func TestAudioClockPosition(t *testing.T) {
	c, played := newTestClock(t, 2000)
	if c.Position() != 0 {
		t.Fatalf("position before start %v", c.Position())
	}
	if c.Length() != 2 {
		t.Fatalf("length %v, expected 2", c.Length())
	}

	c.Start()
	if len(*played) != 1 {
		t.Fatalf("expected one streamer handed to the speaker, got %d", len(*played))
	}
	s := (*played)[0]
	pull(s, 500)
	if c.Position() != 0.5 {
		t.Fatalf("position %v, expected 0.5", c.Position())
	}

	c.Stop()
	pull(s, 500)
	if c.Position() != 0.5 {
		t.Fatalf("stopped clock moved to %v", c.Position())
	}

	if err := c.Seek(1.5); nil != err {
		t.Fatal(err)
	}
	if c.Position() != 1.5 {
		t.Fatalf("position after seek %v", c.Position())
	}

	c.Start()
	if len(*played) != 1 {
		t.Fatal("restarting handed the track to the speaker again")
	}
	select {
	case <-c.Done():
		t.Fatal("done before the end of the track")
	default:
	}
	for i := 0; i < 4; i++ {
		pull(s, 500)
	}
	select {
	case <-c.Done():
	default:
		t.Fatal("done was not signalled at the end of the track")
	}
}

func TestAudioClockSeekClamps(t *testing.T) {
	c, _ := newTestClock(t, 1000)
	if err := c.Seek(-3); nil != err || c.Position() != 0 {
		t.Fatalf("negative seek landed at %v (%v)", c.Position(), err)
	}
	if err := c.Seek(30); nil != err || c.Position() != 1 {
		t.Fatalf("seek past the end landed at %v (%v)", c.Position(), err)
	}
}

func TestManualClock(t *testing.T) {
	c := NewManualClock(2)
	c.Advance(1)
	if c.Position() != 0 {
		t.Fatal("clock advanced before start")
	}
	c.Start()
	c.Advance(1.25)
	if c.Position() != 1.25 {
		t.Fatalf("position %v", c.Position())
	}
	c.Stop()
	c.Advance(1)
	if c.Position() != 1.25 {
		t.Fatal("stopped clock advanced")
	}
	c.Start()
	c.Advance(1)
	select {
	case <-c.Done():
	default:
		t.Fatal("clock past its length is not done")
	}
	// Finishing twice is fine
	c.Finish()
}

func TestDecodeRejectsUnknown(t *testing.T) {
	if _, _, err := Decode("song.flac"); nil == err {
		t.Fatal("expected an error for a missing file")
	}
}

func TestSpeakerRate(t *testing.T) {
	for _, test := range []struct {
		sr       beep.SampleRate
		rate     float64
		expected beep.SampleRate
	}{
		{44100, 1, 44100},
		{44100, 1.5, 66150},
		{48000, 0.75, 36000},
		{44100, 1.1, 48510},
	} {
		if got := speakerRate(test.sr, test.rate); got != test.expected {
			t.Errorf("%v at %v: got %v, expected %v", test.sr, test.rate, got, test.expected)
		}
	}
}

func TestOutputFormat(t *testing.T) {
	c, _ := newTestClock(t, 100)
	if c.Output() != c.Format() {
		t.Fatalf("output %+v differs from the track %+v", c.Output(), c.Format())
	}
	c.output = speakerRate(c.format.SampleRate, 2)
	out := c.Output()
	if out.SampleRate != 2000 || out.NumChannels != c.format.NumChannels {
		t.Fatalf("unexpected output format %+v", out)
	}
	// Track time is unaffected
	if c.Length() != 0.1 {
		t.Fatalf("length %v", c.Length())
	}
}
