package input

import (
	"fmt"
	"strings"

	"git.lost.host/meutraa/lanes/internal/game"
)

// KeyMap maps logical key codes to lanes.
type KeyMap map[string]int

// ParseKeys builds a KeyMap from one character per lane, left to right.
func ParseKeys(keys string) (KeyMap, error) {
	runes := []rune(keys)
	if len(runes) != game.Lanes {
		return nil, fmt.Errorf("expected %d keys, got %q", game.Lanes, keys)
	}
	km := KeyMap{}
	for lane, r := range runes {
		code := strings.ToLower(string(r))
		if r == ' ' {
			code = CodeSpace
		}
		if _, ok := km[code]; ok {
			return nil, fmt.Errorf("key %q is used twice", code)
		}
		km[code] = lane
	}
	return km, nil
}

func (km KeyMap) Lane(code string) (int, bool) {
	lane, ok := km[code]
	return lane, ok
}

// Validate checks that every lane has a key and every key a real lane.
func (km KeyMap) Validate() error {
	var seen [game.Lanes]bool
	for code, lane := range km {
		if lane < 0 || lane >= game.Lanes {
			return fmt.Errorf("key %q maps to lane %d", code, lane)
		}
		seen[lane] = true
	}
	for lane, ok := range seen {
		if !ok {
			return fmt.Errorf("lane %d has no key", lane)
		}
	}
	return nil
}

// Overlaps returns a code that both maps share.
func (km KeyMap) Overlaps(other KeyMap) (string, bool) {
	for code := range km {
		if _, ok := other[code]; ok {
			return code, true
		}
	}
	return "", false
}
