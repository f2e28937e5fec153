package clock

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// AudioClock reports the playback position of a decoded track.
type AudioClock struct {
	streamer beep.StreamSeekCloser
	format   beep.Format
	output   beep.SampleRate // Rate the speaker runs at
	ctrl     *beep.Ctrl

	// Guards the streamer while the audio backend pulls samples
	lock sync.Locker
	play func(s ...beep.Streamer)

	started bool
	done    chan struct{}
	once    sync.Once
}

type speakerLock struct{}

func (speakerLock) Lock()   { speaker.Lock() }
func (speakerLock) Unlock() { speaker.Unlock() }

// SpeakerLock guards anything the speaker is currently streaming.
var SpeakerLock sync.Locker = speakerLock{}

// Decode opens an mp3, ogg or wav file.
func Decode(file string) (beep.StreamSeekCloser, beep.Format, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, beep.Format{}, err
	}
	var streamer beep.StreamSeekCloser
	var format beep.Format
	switch strings.ToLower(path.Ext(file)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unsupported audio file %v", file)
	}
	if nil != err {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("unable to decode %v: %w", file, err)
	}
	return streamer, format, nil
}

// Open decodes the track and initialises the speaker. A rate above 1
// plays the track faster; positions stay in track time.
func Open(file string, rate float64) (*AudioClock, error) {
	if rate <= 0 {
		return nil, errors.New("playback rate must be positive")
	}
	streamer, format, err := Decode(file)
	if nil != err {
		return nil, err
	}
	sr := speakerRate(format.SampleRate, rate)
	if err := speaker.Init(sr, format.SampleRate.N(time.Second/60)); nil != err {
		streamer.Close()
		return nil, fmt.Errorf("unable to initialise speaker: %w", err)
	}
	c := NewAudioClock(streamer, format, SpeakerLock, speaker.Play)
	c.output = sr
	return c, nil
}

// The track is sped up by telling the speaker it has more samples per
// second than it does.
func speakerRate(sr beep.SampleRate, rate float64) beep.SampleRate {
	return beep.SampleRate(math.Round(float64(sr) * rate))
}

func NewAudioClock(streamer beep.StreamSeekCloser, format beep.Format, lock sync.Locker, play func(s ...beep.Streamer)) *AudioClock {
	return &AudioClock{
		streamer: streamer,
		format:   format,
		output:   format.SampleRate,
		ctrl:     &beep.Ctrl{Streamer: streamer, Paused: true},
		lock:     lock,
		play:     play,
		done:     make(chan struct{}),
	}
}

func (c *AudioClock) Format() beep.Format {
	return c.format
}

// Output is the format the speaker plays at. Sounds mixed alongside the
// track must be rendered at this rate to keep their pitch.
func (c *AudioClock) Output() beep.Format {
	f := c.format
	f.SampleRate = c.output
	return f
}

func (c *AudioClock) Position() float64 {
	c.lock.Lock()
	p := c.streamer.Position()
	c.lock.Unlock()
	return c.format.SampleRate.D(p).Seconds()
}

// Length of the track in seconds
func (c *AudioClock) Length() float64 {
	c.lock.Lock()
	n := c.streamer.Len()
	c.lock.Unlock()
	return c.format.SampleRate.D(n).Seconds()
}

func (c *AudioClock) Start() {
	c.lock.Lock()
	c.ctrl.Paused = false
	started := c.started
	c.started = true
	c.lock.Unlock()
	if !started {
		c.play(beep.Seq(c.ctrl, beep.Callback(c.finish)))
	}
}

func (c *AudioClock) Stop() {
	c.lock.Lock()
	c.ctrl.Paused = true
	c.lock.Unlock()
}

func (c *AudioClock) Seek(seconds float64) error {
	c.lock.Lock()
	defer c.lock.Unlock()
	p := c.format.SampleRate.N(time.Duration(seconds * float64(time.Second)))
	if p < 0 {
		p = 0
	}
	if n := c.streamer.Len(); p > n {
		p = n
	}
	return c.streamer.Seek(p)
}

func (c *AudioClock) Done() <-chan struct{} {
	return c.done
}

func (c *AudioClock) finish() {
	c.once.Do(func() { close(c.done) })
}

func (c *AudioClock) Close() error {
	c.Stop()
	return c.streamer.Close()
}
