package render

import "time"

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int)
	AddDecoration(row, col int, content string, frames int)
	RenderLoop(period time.Duration, render func(frame uint64) bool)
	Clear()
	Fill(row, column int, message string)
}
