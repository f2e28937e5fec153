package input

import (
	"strings"
	"sync"

	"git.lost.host/meutraa/lanes/internal/logx"
	"github.com/eiannone/keyboard"
)

// KeyboardSource reads key presses from the terminal.
type KeyboardSource struct {
	events chan Event
	done   chan struct{}
	once   sync.Once
	log    *logx.Logger
}

func OpenKeyboard(buffer int, log *logx.Logger) (*KeyboardSource, error) {
	keys, err := keyboard.GetKeys(buffer)
	if nil != err {
		return nil, err
	}
	s := &KeyboardSource{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		log:    log,
	}
	go s.pump(keys)
	return s, nil
}

func (s *KeyboardSource) pump(keys <-chan keyboard.KeyEvent) {
	for {
		select {
		case <-s.done:
			return
		case key, ok := <-keys:
			if !ok {
				return
			}
			if nil != key.Err {
				s.log.Errorf("unable to read keyboard: %v", key.Err)
				continue
			}
			code := Code(key)
			if code == "" {
				continue
			}
			select {
			case s.events <- Event{Code: code}:
			default:
				s.log.Warnf("input buffer full, dropping %q", code)
			}
		}
	}
}

func (s *KeyboardSource) Events() <-chan Event {
	return s.events
}

func (s *KeyboardSource) Close() error {
	s.once.Do(func() { close(s.done) })
	return keyboard.Close()
}

// Code converts a key event to the logical code used in key maps.
func Code(key keyboard.KeyEvent) string {
	switch key.Key {
	case keyboard.KeyEsc, keyboard.KeyCtrlC:
		return CodeEscape
	case keyboard.KeySpace:
		return CodeSpace
	case keyboard.KeyEnter:
		return CodeEnter
	}
	if key.Rune == 0 {
		return ""
	}
	return strings.ToLower(string(key.Rune))
}
