package theme

import (
	"fmt"

	"git.lost.host/meutraa/lanes/internal/game"
)

type Color struct {
	R, G, B uint8
}

type DefaultTheme struct{}

func (t *DefaultTheme) RenderNote(lane int, kind string) string {
	color := getLaneColor(lane)
	sym := noteSym
	if kind == "hold" || kind == "roll" {
		sym = holdSym
	}
	return colorize(color, sym)
}

func (t *DefaultTheme) RenderHitField(lane int) string {
	return barSym
}

func (t *DefaultTheme) RenderJudgement(c game.Classification) string {
	color, ok := judgementColors[c]
	if !ok {
		return c.String()
	}
	return colorize(color, fmt.Sprintf("%-7v", c))
}

func colorize(c Color, s string) string {
	return fmt.Sprintf("\033[38;2;%v;%v;%vm%v\033[0m", c.R, c.G, c.B, s)
}

const (
	noteSym = "⬤"
	holdSym = "◆"
	barSym  = "─"
)

var (
	laneColors = [...]Color{
		{236, 30, 0},  // red
		{0, 118, 236}, // blue
		{0, 118, 236}, // blue
		{236, 30, 0},  // red
	}
	judgementColors = map[game.Classification]Color{
		game.Perfect: {173, 236, 236}, // light blue
		game.Good:    {0, 236, 128},   // green
		game.Miss:    {236, 30, 0},    // red
	}
)

func getLaneColor(lane int) Color {
	if lane < 0 || lane >= len(laneColors) {
		return Color{255, 255, 255}
	}
	return laneColors[lane]
}
