package sfx

import (
	"sync"
	"testing"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"github.com/faiface/beep"
)

var format = beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2}

func TestPlayerMixesSounds(t *testing.T) {
	p := NewPlayer(format, 0, false, &sync.Mutex{})
	p.Play(game.Perfect)
	p.Play(game.Miss)
	p.Play(game.None)
	if p.Playing() != 2 {
		t.Fatalf("expected 2 sounds in the mixer, got %d", p.Playing())
	}

	samples := make([][2]float64, format.SampleRate.N(200*time.Millisecond))
	n, ok := p.Streamer().Stream(samples)
	if n != len(samples) || !ok {
		t.Fatal("mixer stopped streaming")
	}
	loud := false
	for _, s := range samples[:100] {
		if s[0] != 0 {
			loud = true
		}
	}
	if !loud {
		t.Fatal("mixer produced silence")
	}
	// Both tones are shorter than 200ms
	p.Streamer().Stream(samples)
	if p.Playing() != 0 {
		t.Fatalf("finished sounds were kept, %d left", p.Playing())
	}
}

func TestPlayerMuted(t *testing.T) {
	p := NewPlayer(format, 0, true, &sync.Mutex{})
	p.Play(game.Good)
	if p.Playing() != 0 {
		t.Fatal("muted player queued a sound")
	}
	p.SetMuted(false)
	p.Play(game.Good)
	if p.Playing() != 1 {
		t.Fatal("unmuted player did not queue a sound")
	}
	p.Clear()
	if p.Playing() != 0 {
		t.Fatal("clear left sounds behind")
	}
}

func TestPlayersAreIndependent(t *testing.T) {
	a := NewPlayer(format, 0, false, &sync.Mutex{})
	b := NewPlayer(format, 0, false, &sync.Mutex{})
	a.Play(game.Perfect)
	if b.Playing() != 0 {
		t.Fatal("players share state")
	}
}

func TestTonesFollowSampleRate(t *testing.T) {
	fast := format
	fast.SampleRate = format.SampleRate * 2
	for _, f := range []beep.Format{format, fast} {
		p := NewPlayer(f, 0, false, &sync.Mutex{})
		if n := p.sounds[game.Perfect].Len(); n != f.SampleRate.N(60*time.Millisecond) {
			t.Errorf("%v: perfect tone has %d samples", f.SampleRate, n)
		}
	}
}
