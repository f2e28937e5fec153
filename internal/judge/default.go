package judge

import (
	"math"

	"git.lost.host/meutraa/lanes/internal/game"
)

// Judgement windows are measured in scroll units, the distance a note
// travels at NoteSpeed, not in seconds.
const (
	DefaultPerfect   = 24.0
	DefaultGood      = 48.0
	DefaultNoteSpeed = 300.0 // Units per second
	DefaultMissGrace = 0.2   // Seconds past the hit line before a note is missed
)

type Windows struct {
	Perfect float64
	Good    float64
}

type DefaultJudge struct {
	Windows    Windows
	NoteSpeed  float64
	MissGrace  float64
	EmptyPress EmptyPressPolicy
}

func New() *DefaultJudge {
	return &DefaultJudge{
		Windows:   Windows{Perfect: DefaultPerfect, Good: DefaultGood},
		NoteSpeed: DefaultNoteSpeed,
		MissGrace: DefaultMissGrace,
	}
}

// Signed seconds until the note reaches the hit line
func (j *DefaultJudge) until(n *game.Note, now, offset float64) float64 {
	return n.Time - now - offset
}

func (j *DefaultJudge) Distance(n *game.Note, now, offset float64) float64 {
	return math.Abs(j.until(n, now, offset)) * j.NoteSpeed
}

func (j *DefaultJudge) FindBestMatch(notes []*game.Note, lane int, now, offset float64) (int, float64, bool) {
	best := -1
	distance := math.Inf(1)
	for i, note := range notes {
		if note.Lane != lane || note.Resolved() {
			continue
		}
		d := j.Distance(note, now, offset)
		if d >= j.Windows.Good {
			if best >= 0 {
				// notes are sorted, so everything after this is further away
				break
			}
			continue
		}
		if d < distance {
			best = i
			distance = d
		}
	}
	if best < 0 {
		return -1, 0, false
	}
	return best, distance, true
}

func (j *DefaultJudge) Classify(distance float64) game.Classification {
	if distance < j.Windows.Perfect {
		return game.Perfect
	}
	return game.Good
}

func (j *DefaultJudge) ApplyHit(note *game.Note) bool {
	if note.Resolved() {
		return false
	}
	note.Hit = true
	return true
}

func (j *DefaultJudge) SweepMisses(notes []*game.Note, now, offset float64) int {
	return j.Sweep(notes, now, offset, nil)
}

func (j *DefaultJudge) Sweep(notes []*game.Note, now, offset float64, onMiss func(index int)) int {
	count := 0
	for i, note := range notes {
		if note.Resolved() {
			continue
		}
		if now-(note.Time-offset) <= j.MissGrace {
			// Sorted by time, nothing later can have lapsed either
			break
		}
		note.Missed = true
		count++
		if nil != onMiss {
			onMiss(i)
		}
	}
	return count
}

func (j *DefaultJudge) Press(notes []*game.Note, lane int, now, offset float64) Outcome {
	index, distance, ok := j.FindBestMatch(notes, lane, now, offset)
	if !ok {
		if j.EmptyPress == CountMiss {
			return Outcome{Class: game.Miss, Index: -1}
		}
		return Outcome{Class: game.None, Index: -1}
	}
	note := notes[index]
	j.ApplyHit(note)
	return Outcome{
		Class:    j.Classify(distance),
		Index:    index,
		Distance: distance,
		Offset:   j.until(note, now, offset),
	}
}
