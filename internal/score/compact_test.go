package score

import (
	"testing"

	"git.lost.host/meutraa/lanes/internal/game"
)

var compactTests = []struct {
	inputs  []game.Input
	compact []InputsCompact
}{
	{[]game.Input{}, []InputsCompact{}},
	{[]game.Input{{Lane: 0, Time: 0.1}, {Lane: 3, Time: 0.2}}, []InputsCompact{
		{Index: 0, Times: []float64{0.1}},
		{Index: 1, Times: []float64{}},
		{Index: 2, Times: []float64{}},
		{Index: 3, Times: []float64{0.2}},
	}},
	{[]game.Input{{Lane: 1, Time: 2}, {Lane: 1, Time: 1}}, []InputsCompact{
		{Index: 0, Times: []float64{}},
		{Index: 1, Times: []float64{2, 1}},
	}},
}

func TestCompactInputs(t *testing.T) {
	equal := func(p, q []InputsCompact) bool {
		if len(p) != len(q) {
			return false
		}
		for i := 0; i < len(p); i++ {
			pi, qi := p[i], q[i]
			if pi.Index != qi.Index {
				return false
			}
			if len(pi.Times) != len(qi.Times) {
				return false
			}
			for j := 0; j < len(pi.Times); j++ {
				if pi.Times[j] != qi.Times[j] {
					return false
				}
			}
		}
		return true
	}

	for _, test := range compactTests {
		out := compactInputs(test.inputs)
		if !equal(out, test.compact) {
			t.Log("out     ", out)
			t.Log("expected", test.compact)
			t.Fail()
		}
	}
}

func TestUncompactInputs(t *testing.T) {
	// Order is regrouped by lane, so compare as multisets per lane
	count := func(inputs []game.Input) map[game.Input]int {
		m := map[game.Input]int{}
		for _, i := range inputs {
			m[i]++
		}
		return m
	}

	for _, test := range compactTests {
		out := uncompactInputs(test.compact)
		p, q := count(out), count(test.inputs)
		if len(p) != len(q) {
			t.Log("out     ", out)
			t.Log("expected", test.inputs)
			t.Fail()
			continue
		}
		for k, v := range q {
			if p[k] != v {
				t.Log("missing ", k)
				t.Fail()
			}
		}
	}
}
