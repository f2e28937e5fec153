package render

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

type DefaultRenderer struct {
	Out io.Writer
	Fd  int

	buffer       strings.Builder
	restoreState *term.State
	decorations  []*decoration
}

type decoration struct {
	Row, Col int
	Content  string
	Frames   int // remaining frames until removed
}

// NewTerminal renders to stdout.
func NewTerminal() *DefaultRenderer {
	return &DefaultRenderer{Out: os.Stdout, Fd: int(os.Stdout.Fd())}
}

func (r *DefaultRenderer) Init() error {
	if term.IsTerminal(r.Fd) {
		state, err := term.MakeRaw(r.Fd)
		if nil != err {
			return err
		}
		r.restoreState = state
	}

	_, err := fmt.Fprintf(r.Out, "%s%s%s",
		"\033[?1049h", // Enable alternate buffer
		"\033[?25l",   // Make the cursor invisible
		"\033[2J",     // Clear the screen
	)
	return err
}

func (r *DefaultRenderer) Deinit() error {
	if _, err := fmt.Fprintf(r.Out, "%s%s",
		"\033[?1049l", // Disable alternate buffer
		"\033[?25h",   // Make the cursor visible
	); nil != err {
		return err
	}
	if nil == r.restoreState {
		return nil
	}
	return term.Restore(r.Fd, r.restoreState)
}

// Size falls back to 80x24 when not attached to a terminal.
func (r *DefaultRenderer) Size() (int, int) {
	columns, rows, err := term.GetSize(r.Fd)
	if nil != err || columns <= 0 || rows <= 0 {
		return 80, 24
	}
	return columns, rows
}

func (r *DefaultRenderer) AddDecoration(row, col int, content string, frames int) {
	r.decorations = append(r.decorations, &decoration{
		Row:     row,
		Col:     col,
		Content: content,
		Frames:  frames,
	})
}

func (r *DefaultRenderer) tickDecorations() {
	nd := make([]*decoration, 0, len(r.decorations))
	for _, d := range r.decorations {
		if d.Frames <= 0 {
			continue
		}
		r.Fill(d.Row, d.Col, d.Content)
		d.Frames--
		nd = append(nd, d)
	}
	r.decorations = nd
}

// RenderLoop calls render once per period until it returns false. Each
// frame is written to the terminal in one piece.
func (r *DefaultRenderer) RenderLoop(period time.Duration, render func(frame uint64) bool) {
	var frame uint64
	for cont := true; cont; frame++ {
		now := time.Now()
		deadline := now.Add(period)

		cont = render(frame)

		r.tickDecorations()
		r.flush()

		time.Sleep(time.Until(deadline))
	}
}

func (r *DefaultRenderer) Clear() {
	r.buffer.WriteString("\033[2J")
}

func (r *DefaultRenderer) Fill(row, column int, message string) {
	r.buffer.WriteString("\033[")
	r.buffer.WriteString(strconv.Itoa(row))
	r.buffer.WriteString(";")
	r.buffer.WriteString(strconv.Itoa(column))
	r.buffer.WriteString("H")
	r.buffer.WriteString(message)
}

func (r *DefaultRenderer) flush() {
	io.WriteString(r.Out, r.buffer.String())
	r.buffer.Reset()
}
