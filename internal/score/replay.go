package score

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"sort"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/judge"
)

// HashChart identifies a chart by its offset and note list.
func HashChart(c *game.Chart) string {
	h := sha256.New()
	fmt.Fprintf(h, "%.6f\n", c.Offset)
	for _, n := range c.Notes {
		fmt.Fprintf(h, "%.6f:%d\n", n.Time, n.Lane)
	}
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// Replay judges recorded inputs against a fresh copy of the chart.
// offset is the total offset the inputs were played with and end the
// clock position the session finished at. Notes still pending at end
// stay pending, as they did in the game.
func Replay(c *game.Chart, j judge.Judge, inputs []game.Input, offset, end float64) ([]*game.Note, Tally) {
	var tally Tally
	notes := c.Fresh()

	ordered := make([]game.Input, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(a, b int) bool {
		return ordered[a].Time < ordered[b].Time
	})

	miss := func(int) { tally.Add(game.Miss) }
	for _, input := range ordered {
		j.Sweep(notes, input.Time, offset, miss)
		out := j.Press(notes, input.Lane, input.Time, offset)
		tally.Add(out.Class)
		if out.Resolved() {
			tally.Stats.Add(out.Offset)
		}
	}
	j.Sweep(notes, end, offset, miss)
	return notes, tally
}

// Replay judges the record again with the judge it was played with.
func (r *Record) Replay(c *game.Chart) ([]*game.Note, Tally) {
	j := r.Settings
	return Replay(c, &j, r.Inputs, r.Offset, r.Elapsed)
}
