package sfx

import (
	"math"
	"sync"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

// Player plays short judgement sounds on top of the track. Each game
// owns its own Player and hands Streamer to the speaker once.
type Player struct {
	lock   sync.Locker
	mixer  *beep.Mixer
	sounds map[game.Classification]*beep.Buffer
	volume float64
	muted  bool
}

var tones = map[game.Classification]struct {
	freq     float64
	duration time.Duration
}{
	game.Perfect: {1318.5, 60 * time.Millisecond},
	game.Good:    {987.8, 60 * time.Millisecond},
	game.Miss:    {196.0, 120 * time.Millisecond},
}

// NewPlayer renders the judgement sounds for format. volume is in
// halvings, 0 is unchanged and -1 is half as loud.
func NewPlayer(format beep.Format, volume float64, muted bool, lock sync.Locker) *Player {
	p := &Player{
		lock:   lock,
		mixer:  &beep.Mixer{},
		sounds: map[game.Classification]*beep.Buffer{},
		volume: volume,
		muted:  muted,
	}
	for c, t := range tones {
		buffer := beep.NewBuffer(format)
		buffer.Append(tone(format.SampleRate, t.freq, t.duration))
		p.sounds[c] = buffer
	}
	return p
}

// Streamer never drains, so it can stay on the speaker for the whole game.
func (p *Player) Streamer() beep.Streamer {
	return p.mixer
}

func (p *Player) Play(c game.Classification) {
	buffer, ok := p.sounds[c]
	if !ok {
		return
	}
	p.lock.Lock()
	defer p.lock.Unlock()
	if p.muted {
		return
	}
	p.mixer.Add(&effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   p.volume,
	})
}

func (p *Player) SetMuted(muted bool) {
	p.lock.Lock()
	p.muted = muted
	p.lock.Unlock()
}

// Playing is the number of sounds still in the mixer.
func (p *Player) Playing() int {
	p.lock.Lock()
	defer p.lock.Unlock()
	return p.mixer.Len()
}

func (p *Player) Clear() {
	p.lock.Lock()
	p.mixer.Clear()
	p.lock.Unlock()
}

// Sine with a linear decay
func tone(sr beep.SampleRate, freq float64, d time.Duration) beep.Streamer {
	n := sr.N(d)
	i := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if i >= n {
			return 0, false
		}
		k := 0
		for ; k < len(samples) && i < n; k++ {
			env := 1 - float64(i)/float64(n)
			v := 0.3 * env * math.Sin(2*math.Pi*freq*float64(i)/float64(sr))
			samples[k][0], samples[k][1] = v, v
			i++
		}
		return k, true
	})
}
