package theme

import (
	"strings"
	"testing"

	"git.lost.host/meutraa/lanes/internal/game"
)

func TestRenderJudgement(t *testing.T) {
	var th Theme = &DefaultTheme{}
	for _, c := range []game.Classification{game.Perfect, game.Good, game.Miss} {
		s := th.RenderJudgement(c)
		if !strings.Contains(s, c.String()) || !strings.HasPrefix(s, "\033[38;2;") {
			t.Errorf("%v rendered as %q", c, s)
		}
	}
	if s := th.RenderJudgement(game.None); s != "none" {
		t.Errorf("none rendered as %q", s)
	}
}

func TestRenderNote(t *testing.T) {
	th := DefaultTheme{}
	if !strings.Contains(th.RenderNote(0, "tap"), noteSym) {
		t.Error("tap note symbol missing")
	}
	if !strings.Contains(th.RenderNote(3, "hold"), holdSym) {
		t.Error("hold note symbol missing")
	}
	if !strings.Contains(th.RenderNote(9, "tap"), "255;255;255") {
		t.Error("unknown lane is not white")
	}
}
