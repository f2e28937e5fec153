package session

import (
	"fmt"

	"git.lost.host/meutraa/lanes/internal/clock"
	"git.lost.host/meutraa/lanes/internal/input"
	"git.lost.host/meutraa/lanes/internal/judge"
)

type Player struct {
	Name    string
	Keys    input.KeyMap
	Session *Session
}

// Match runs one or more local players against a shared clock. Every
// player owns their own notes, so presses never interfere.
type Match struct {
	clock   clock.Clock
	players []*Player
}

func NewMatch(c clock.Clock, players ...*Player) (*Match, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("a match needs at least one player")
	}
	for i, p := range players {
		for _, q := range players[:i] {
			if code, ok := p.Keys.Overlaps(q.Keys); ok {
				return nil, fmt.Errorf("players %v and %v share key %q", q.Name, p.Name, code)
			}
		}
	}
	return &Match{clock: c, players: players}, nil
}

func (m *Match) Players() []*Player {
	return m.players
}

// Start prepares every session and then starts the clock once.
func (m *Match) Start() error {
	for _, p := range m.players {
		if err := p.Session.Prepare(); nil != err {
			return err
		}
	}
	for _, p := range m.players {
		if err := p.Session.Begin(); nil != err {
			return err
		}
	}
	m.clock.Start()
	return nil
}

func (m *Match) Tick() {
	for _, p := range m.players {
		p.Session.Tick()
	}
}

// Key routes a key code to the player it belongs to.
func (m *Match) Key(code string) (*Player, judge.Outcome, bool) {
	for _, p := range m.players {
		if lane, ok := p.Keys.Lane(code); ok {
			return p, p.Session.Press(lane), true
		}
	}
	return nil, judge.Outcome{Index: -1}, false
}

func (m *Match) Finished() bool {
	for _, p := range m.players {
		if p.Session.State() != Finished {
			return false
		}
	}
	return true
}

// Stop ends every session and the clock.
func (m *Match) Stop() {
	for _, p := range m.players {
		p.Session.Stop()
	}
	m.clock.Stop()
}
