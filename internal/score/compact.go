package score

import "git.lost.host/meutraa/lanes/internal/game"

// InputsCompact holds every press of one lane.
type InputsCompact struct {
	Index int
	Times []float64
}

func compactInputs(inputs []game.Input) []InputsCompact {
	colCount := 0
	for _, i := range inputs {
		if i.Lane+1 > colCount {
			colCount = i.Lane + 1
		}
	}
	ins := make([]InputsCompact, colCount)
	for c := range ins {
		ins[c] = InputsCompact{Index: c, Times: []float64{}}
	}
	for _, i := range inputs {
		ins[i.Lane].Times = append(ins[i.Lane].Times, i.Time)
	}
	return ins
}

func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Lane: i.Index, Time: t})
		}
	}
	return ins
}
