package theme

import "git.lost.host/meutraa/lanes/internal/game"

type Theme interface {
	RenderNote(lane int, kind string) string
	RenderHitField(lane int) string
	RenderJudgement(c game.Classification) string
}
