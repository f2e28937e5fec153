package session

import (
	"errors"
	"fmt"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/judge"
	"git.lost.host/meutraa/lanes/internal/score"
	"github.com/google/uuid"
)

type State int

const (
	Idle State = iota
	Ready
	Playing
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Ready:
		return "ready"
	case Playing:
		return "playing"
	case Finished:
		return "finished"
	}
	return "unknown"
}

var ErrState = errors.New("invalid session state")

// Event describes a single judgement, either from a press or from a
// note scrolling past.
type Event struct {
	Session string
	Player  string
	Lane    int
	Outcome judge.Outcome
	Time    float64
	Tally   score.Tally
}

// Result is handed to OnEnd once the session is finished.
type Result struct {
	ID      string
	Player  string
	Sum     string
	Rate    float64
	Offset  float64
	Counts  score.Counts
	Score   int
	Mean    float64 // Seconds, positive is early
	Stdev   float64
	Time    float64 // Clock position when the session ended
	Inputs  []game.Input
	Stopped bool // Ended before the track did
	Judge   judge.DefaultJudge
}

func (r *Result) Record() *score.Record {
	return &score.Record{
		Session:  r.ID,
		Player:   r.Player,
		Sum:      r.Sum,
		Rate:     r.Rate,
		Offset:   r.Offset,
		Counts:   r.Counts,
		Score:    r.Score,
		Elapsed:  r.Time,
		Stopped:  r.Stopped,
		Inputs:   r.Inputs,
		Settings: r.Judge,
	}
}

type Options struct {
	Player string
	Rate   float64
	// Global calibration, added to the chart offset
	Offset float64

	OnJudge func(Event)
	OnEnd   func(Result)
}

// Session is one player's run through a chart. It is driven from a
// single goroutine: Tick once per frame, then Press for the inputs of
// that frame.
type Session struct {
	ID string

	opts  Options
	chart *game.Chart
	judge judge.Judge
	clock clock.Clock
	sum   string

	state  State
	notes  []*game.Note
	tally  score.Tally
	inputs []game.Input
	now    float64
}

func New(chart *game.Chart, j judge.Judge, c clock.Clock, opts Options) *Session {
	if opts.Rate == 0 {
		opts.Rate = 1
	}
	return &Session{
		ID:    uuid.NewString(),
		opts:  opts,
		chart: chart,
		judge: j,
		clock: c,
		sum:   score.HashChart(chart),
		state: Idle,
	}
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Player() string {
	return s.opts.Player
}

func (s *Session) Chart() *game.Chart {
	return s.chart
}

func (s *Session) Notes() []*game.Note {
	return s.notes
}

func (s *Session) Tally() score.Tally {
	return s.tally
}

// Now is the clock position sampled by the last tick.
func (s *Session) Now() float64 {
	return s.now
}

// Offset is the total offset applied to every note time.
func (s *Session) Offset() float64 {
	return s.chart.Offset + s.opts.Offset
}

// Prepare resets the tally and loads a clean copy of the notes.
func (s *Session) Prepare() error {
	if s.state != Idle {
		return fmt.Errorf("%w: prepare while %v", ErrState, s.state)
	}
	s.tally.Reset()
	s.notes = s.chart.Fresh()
	s.inputs = []game.Input{}
	s.now = s.clock.Position()
	s.state = Ready
	return nil
}

// Begin moves to playing without touching the clock, for sessions
// that share a clock.
func (s *Session) Begin() error {
	if s.state != Ready {
		return fmt.Errorf("%w: begin while %v", ErrState, s.state)
	}
	s.state = Playing
	return nil
}

func (s *Session) Start() error {
	if err := s.Begin(); nil != err {
		return err
	}
	s.clock.Start()
	return nil
}

// Tick samples the clock and sweeps notes that scrolled past. It ends
// the session once the track is over or nothing is left to judge.
func (s *Session) Tick() {
	if s.state != Playing {
		return
	}
	s.now = s.clock.Position()
	offset := s.Offset()
	s.judge.Sweep(s.notes, s.now, offset, func(i int) {
		s.tally.Add(game.Miss)
		s.emit(s.notes[i].Lane, judge.Outcome{Class: game.Miss, Index: i})
	})

	select {
	case <-s.clock.Done():
		s.finish(false)
		return
	default:
	}
	if s.resolved() && s.now >= s.chart.End()-offset {
		s.finish(false)
	}
}

func (s *Session) resolved() bool {
	for _, n := range s.notes {
		if !n.Resolved() {
			return false
		}
	}
	return true
}

// Press judges a key press on lane at the time of the last tick.
func (s *Session) Press(lane int) judge.Outcome {
	if s.state != Playing || lane < 0 || lane >= game.Lanes {
		return judge.Outcome{Class: game.None, Index: -1}
	}
	s.inputs = append(s.inputs, game.Input{Lane: lane, Time: s.now})
	out := s.judge.Press(s.notes, lane, s.now, s.Offset())
	s.tally.Add(out.Class)
	if out.Resolved() {
		s.tally.Stats.Add(out.Offset)
	}
	if out.Class != game.None {
		s.emit(lane, out)
	}
	return out
}

// Stop ends a playing session early. The clock is left alone.
func (s *Session) Stop() {
	if s.state == Playing || s.state == Ready {
		s.finish(true)
	}
}

func (s *Session) emit(lane int, out judge.Outcome) {
	if nil == s.opts.OnJudge {
		return
	}
	s.opts.OnJudge(Event{
		Session: s.ID,
		Player:  s.opts.Player,
		Lane:    lane,
		Outcome: out,
		Time:    s.now,
		Tally:   s.tally,
	})
}

func (s *Session) finish(stopped bool) {
	s.state = Finished
	if nil == s.opts.OnEnd {
		return
	}
	s.opts.OnEnd(s.Result(stopped))
}

func (s *Session) Result(stopped bool) Result {
	inputs := make([]game.Input, len(s.inputs))
	copy(inputs, s.inputs)
	var settings judge.DefaultJudge
	if j, ok := s.judge.(*judge.DefaultJudge); ok {
		settings = *j
	}
	return Result{
		ID:      s.ID,
		Player:  s.opts.Player,
		Sum:     s.sum,
		Rate:    s.opts.Rate,
		Offset:  s.Offset(),
		Counts:  s.tally.Counts,
		Score:   s.tally.Score,
		Mean:    s.tally.Stats.Mean(),
		Stdev:   s.tally.Stats.Stdev(),
		Time:    s.now,
		Inputs:  inputs,
		Stopped: stopped,
		Judge:   settings,
	}
}
