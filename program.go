package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"git.lost.host/meutraa/lanes/internal/broadcast"
	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/config"
	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/input"
	"git.lost.host/meutraa/lanes/internal/judge"
	"git.lost.host/meutraa/lanes/internal/logx"
	"git.lost.host/meutraa/lanes/internal/parser"
	"git.lost.host/meutraa/lanes/internal/render"
	"git.lost.host/meutraa/lanes/internal/score"
	"git.lost.host/meutraa/lanes/internal/session"
	"git.lost.host/meutraa/lanes/internal/sfx"
	"git.lost.host/meutraa/lanes/internal/theme"
	"github.com/faiface/beep/speaker"
)

const (
	barRow      = 4    // Rows between the hit bar and the bottom of the screen
	unitsPerRow = 12.0 // Judgement units scrolled per terminal row
	laneSpacing = 4
	playerWidth = 28

	judgementFrames = 60
)

type Program struct {
	Config   *config.Config
	Log      *logx.Logger
	Parser   parser.Parser
	Renderer render.Renderer
	Theme    theme.Theme

	chartFile, audioFile string
	chart                *game.Chart
	judge                *judge.DefaultJudge

	clock     *clock.AudioClock
	sfx       *sfx.Player
	store     *score.Store
	broadcast *broadcast.Client
	input     input.Source
	match     *session.Match

	results []session.Result
}

func (p *Program) Init() error {
	// Ensure our Default implementations are used as interfaces
	if nil == p.Parser {
		p.Parser = &parser.DefaultParser{}
	}
	if nil == p.Renderer {
		p.Renderer = render.NewTerminal()
	}
	if nil == p.Theme {
		p.Theme = &theme.DefaultTheme{}
	}
	if err := p.findFiles(); nil != err {
		return err
	}

	charts, err := p.Parser.Parse(p.chartFile)
	if nil != err {
		return err
	}
	if p.Config.Difficulty < 0 || p.Config.Difficulty >= len(charts) {
		return fmt.Errorf("difficulty %d not found, %v has %d", p.Config.Difficulty, p.chartFile, len(charts))
	}
	p.chart = charts[p.Config.Difficulty]
	if p.audioFile == "" && p.chart.Audio != "" {
		p.audioFile = filepath.Join(filepath.Dir(p.chartFile), p.chart.Audio)
	}
	if p.audioFile == "" {
		return errors.New("unable to find an audio file for the chart")
	}
	p.Log.Infof("opening %v (%v)", p.audioFile, p.chartFile)

	p.clock, err = clock.Open(p.audioFile, p.Config.Rate)
	if nil != err {
		return err
	}
	p.sfx = sfx.NewPlayer(p.clock.Output(), p.Config.Volume, p.Config.Mute, clock.SpeakerLock)
	speaker.Play(p.sfx.Streamer())

	p.store, err = score.Open(p.Config.Database)
	if nil != err {
		return err
	}

	if p.Config.Broadcast != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		p.broadcast, err = broadcast.Dial(ctx, p.Config.Broadcast, p.Log)
		cancel()
		if nil != err {
			// Playing alone is better than not playing
			p.Log.Warnf("unable to connect to %v: %v", p.Config.Broadcast, err)
			p.broadcast = nil
		}
	}

	p.judge = p.Config.Judge()
	players, err := p.Config.Players()
	if nil != err {
		return err
	}
	ps := make([]*session.Player, len(players))
	for i, pl := range players {
		ps[i] = &session.Player{
			Name: pl.Name,
			Keys: pl.Keys,
			Session: session.New(p.chart, p.judge, p.clock, session.Options{
				Player:  pl.Name,
				Rate:    p.Config.Rate,
				Offset:  p.Config.Offset.Seconds(),
				OnJudge: p.onJudge,
				OnEnd:   p.onEnd,
			}),
		}
	}
	p.match, err = session.NewMatch(p.clock, ps...)
	if nil != err {
		return err
	}

	if p.Config.Device != "" {
		p.input, err = input.OpenEvdev(p.Config.Device, 128, p.Log)
	} else {
		p.input, err = input.OpenKeyboard(128, p.Log)
	}
	if nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}

	return nil
}

// findFiles accepts a chart file or a song directory holding one.
func (p *Program) findFiles() error {
	info, err := os.Stat(p.Config.Chart)
	if nil != err {
		return err
	}
	if !info.IsDir() {
		p.chartFile = p.Config.Chart
		return nil
	}

	if err := filepath.Walk(p.Config.Chart, func(f string, info os.FileInfo, err error) error {
		if nil != err {
			return err
		}
		switch strings.ToLower(path.Ext(info.Name())) {
		case ".ogg", ".mp3", ".wav":
			p.audioFile = f
		case ".json", ".yaml", ".yml", ".sm":
			p.chartFile = f
		}
		return nil
	}); nil != err {
		return fmt.Errorf("unable to walk song directory: %w", err)
	}

	if p.chartFile == "" {
		return errors.New("unable to find a chart in the given directory")
	}
	return nil
}

func (p *Program) Run() error {
	if err := p.Renderer.Init(); nil != err {
		return err
	}
	defer func() {
		// Restore the terminal state
		if err := p.Renderer.Deinit(); nil != err {
			p.Log.Errorf("unable to restore terminal: %v", err)
		}
	}()

	startAt := time.Now().Add(p.Config.Delay)
	started := false
	var runErr error

	p.Renderer.RenderLoop(p.Config.FramePeriod, func(frame uint64) bool {
		if !started && !time.Now().Before(startAt) {
			if err := p.match.Start(); nil != err {
				runErr = err
				return false
			}
			started = true
		}
		if started {
			p.match.Tick()
		}

		// get the key inputs that occured since the last frame
		for pending := true; pending; {
			select {
			case ev := <-p.input.Events():
				if ev.Code == input.CodeEscape {
					p.match.Stop()
					return false
				}
				if _, _, ok := p.match.Key(ev.Code); !ok {
					p.Log.Debugf("%q is not a lane key", ev.Code)
				}
			default:
				pending = false
			}
		}

		p.render(started)
		return !(started && p.match.Finished())
	})

	p.clock.Stop()
	return runErr
}

func (p *Program) onJudge(e session.Event) {
	p.sfx.Play(e.Outcome.Class)
	if row, col, ok := p.layout(e.Player); ok {
		p.Renderer.AddDecoration(row+2, col+e.Lane*laneSpacing, p.Theme.RenderJudgement(e.Outcome.Class), judgementFrames)
	}
	p.Log.Debugf("%v lane %d %v at %.3f (%+.1fms)", e.Player, e.Lane, e.Outcome.Class, e.Time, e.Outcome.Offset*1000)

	if nil != p.broadcast {
		p.broadcast.Publish(broadcast.Update{
			Session:   e.Session,
			Player:    e.Player,
			Judgement: e.Outcome.Class.String(),
			Counts:    e.Tally.Counts,
			Score:     e.Tally.Score,
			Time:      e.Time,
		})
	}
}

func (p *Program) onEnd(r session.Result) {
	p.results = append(p.results, r)
	if err := p.store.Save(r.Record()); nil != err {
		p.Log.Errorf("%v", err)
	}
	if nil != p.broadcast {
		p.broadcast.Publish(broadcast.Update{
			Session: r.ID,
			Player:  r.Player,
			Counts:  r.Counts,
			Score:   r.Score,
			Time:    r.Time,
			Final:   true,
		})
	}
}

// layout returns the hit bar row and first column of a player.
func (p *Program) layout(player string) (int, int, bool) {
	columns, rows := p.Renderer.Size()
	players := p.match.Players()
	left := columns/2 - len(players)*playerWidth/2
	for i, pl := range players {
		if pl.Name == player {
			return rows - barRow, left + i*playerWidth, true
		}
	}
	return 0, 0, false
}

func (p *Program) render(started bool) {
	_, rows := p.Renderer.Size()

	p.Renderer.Clear()
	for _, pl := range p.match.Players() {
		s := pl.Session
		hitRow, base, _ := p.layout(pl.Name)

		// Render the hit bar
		for lane := 0; lane < game.Lanes; lane++ {
			p.Renderer.Fill(hitRow, base+lane*laneSpacing, p.Theme.RenderHitField(lane))
		}

		// Render notes
		now, offset := s.Now(), s.Offset()
		for _, note := range s.Notes() {
			if note.Resolved() {
				continue
			}
			d := (note.Time - now - offset) * p.judge.NoteSpeed
			row := hitRow - int(d/unitsPerRow)
			if row < 1 {
				// Sorted, everything after is off the top too
				break
			}
			if row <= rows {
				p.Renderer.Fill(row, base+note.Lane*laneSpacing, p.Theme.RenderNote(note.Lane, note.Type))
			}
		}

		tally := s.Tally()
		p.Renderer.Fill(2, base, pl.Name)
		p.Renderer.Fill(3, base, fmt.Sprintf("Score:  %6d", tally.Score))
		p.Renderer.Fill(4, base, fmt.Sprintf("Mean:   %6.1f ms", tally.Stats.Mean()*1000))
		p.Renderer.Fill(5, base, fmt.Sprintf("Stdev:  %6.1f ms", tally.Stats.Stdev()*1000))
		p.Renderer.Fill(7, base, fmt.Sprintf("%v %6d", p.Theme.RenderJudgement(game.Perfect), tally.Counts.Perfect))
		p.Renderer.Fill(8, base, fmt.Sprintf("%v %6d", p.Theme.RenderJudgement(game.Good), tally.Counts.Good))
		p.Renderer.Fill(9, base, fmt.Sprintf("%v %6d", p.Theme.RenderJudgement(game.Miss), tally.Counts.Miss))
		if !started {
			p.Renderer.Fill(hitRow/2, base+laneSpacing, "Ready")
		}
	}
}

func (p *Program) PrintResults(w io.Writer) {
	for _, r := range p.results {
		fmt.Fprintf(w, "%v: %d (perfect %d, good %d, miss %d) mean %+.1fms stdev %.1fms\n",
			r.Player, r.Score, r.Counts.Perfect, r.Counts.Good, r.Counts.Miss, r.Mean*1000, r.Stdev*1000)
		best, err := p.store.Best(r.Sum)
		if nil != err {
			p.Log.Errorf("%v", err)
			continue
		}
		if nil == best || best.Session == r.ID {
			continue
		}
		fmt.Fprintf(w, "  best: %d by %v", best.Score, best.Player)
		if best.Settings != *p.judge {
			// Judge the best run again with this run's windows
			_, tally := score.Replay(p.chart, p.judge, best.Inputs, best.Offset, best.Elapsed)
			fmt.Fprintf(w, ", %d with the current judge", tally.Score)
		}
		fmt.Fprintln(w)
	}
}

func (p *Program) Close() {
	if nil != p.input {
		if err := p.input.Close(); nil != err {
			p.Log.Errorf("unable to close keyboard: %v", err)
		}
	}
	if nil != p.broadcast {
		if n := p.broadcast.Dropped(); n > 0 {
			p.Log.Warnf("%d score updates were dropped", n)
		}
		if err := p.broadcast.Close(); nil != err {
			p.Log.Debugf("broadcast close: %v", err)
		}
	}
	if nil != p.clock {
		speaker.Clear()
		p.clock.Close()
	}
	if nil != p.store {
		p.store.Close()
	}
}
