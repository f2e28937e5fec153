package parser

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"git.lost.host/meutraa/lanes/internal/game"
)

// StepManiaParser converts the playable difficulties of an .sm file.
type StepManiaParser struct{}

type bpm struct {
	StartingBeat float64
	Value        float64
}

func (p *StepManiaParser) getSecondsPerNote(rates []bpm, currentBeat float64, bpn float64) float64 {
	sel := rates[0].Value
	for _, rate := range rates {
		if currentBeat >= rate.StartingBeat {
			sel = rate.Value
		} else {
			break
		}
	}
	return bpn * 60.0 / sel
}

// 0 – No note
// 1 – Normal note
// 2 – Hold head
// 3 – Hold/Roll tail
// 4 – Roll head
// M – Mine (or other negative note)
// K – Automatic keysound
// L – Lift note
// F – Fake note
func noteType(ch byte) (string, bool) {
	switch ch {
	case '1':
		return "tap", true
	case '2':
		return "hold", true
	case '4':
		return "roll", true
	}
	return "", false
}

func (p *StepManiaParser) Parse(file string) ([]*game.Chart, error) {
	f, err := os.Open(file)
	if nil != err {
		return nil, err
	}
	defer f.Close()
	return p.ParseReader(f)
}

func metaValue(mdl, key string) (string, bool) {
	if !strings.HasPrefix(mdl, key+":") {
		return "", false
	}
	mdl = strings.TrimPrefix(mdl, key+":")
	return strings.TrimSpace(strings.TrimSuffix(mdl, ";")), true
}

func (p *StepManiaParser) ParseReader(r io.Reader) ([]*game.Chart, error) {
	data, err := io.ReadAll(r)
	if nil != err {
		return nil, err
	}

	str := strings.ReplaceAll(string(data), "\r", "")
	sections := strings.Split(str, "#NOTES:")
	meta := sections[0]

	var title, music string
	offset := 0.0
	rates := []bpm{}

	for _, mdl := range strings.Split(meta, "\n#") {
		mdl = strings.TrimPrefix(strings.TrimSpace(mdl), "#")
		if v, ok := metaValue(mdl, "TITLE"); ok {
			title = v
		} else if v, ok := metaValue(mdl, "MUSIC"); ok {
			music = v
		} else if v, ok := metaValue(mdl, "OFFSET"); ok {
			offs, err := strconv.ParseFloat(v, 64)
			if nil != err {
				return nil, fmt.Errorf("invalid offset: %w", err)
			}
			offset = -offs
		} else if v, ok := metaValue(mdl, "BPMS"); ok {
			v = strings.ReplaceAll(v, "\n", "")
			for _, pair := range strings.Split(v, ",") {
				as := strings.Split(pair, "=")
				if len(as) != 2 {
					return nil, fmt.Errorf("invalid bpm %q", pair)
				}
				sb, err := strconv.ParseFloat(strings.TrimSpace(as[0]), 64)
				if nil != err {
					return nil, fmt.Errorf("invalid bpm beat: %w", err)
				}
				value, err := strconv.ParseFloat(strings.TrimSpace(as[1]), 64)
				if nil != err {
					return nil, fmt.Errorf("invalid bpm value: %w", err)
				}
				if value <= 0 {
					return nil, fmt.Errorf("invalid bpm value %v", value)
				}
				rates = append(rates, bpm{StartingBeat: sb, Value: value})
			}
		}
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("chart has no bpm")
	}

	charts := []*game.Chart{}
	for _, section := range sections[1:] {
		lines := strings.SplitN(section, "\n", 7)
		if len(lines) < 7 {
			continue
		}
		chartType := strings.TrimSuffix(strings.TrimSpace(lines[1]), ":")
		nKeys, ok := game.NKeyMap[chartType]
		if !ok || nKeys != game.Lanes {
			continue
		}

		chart := &game.Chart{
			Title:  title,
			BPM:    rates[0].Value,
			Audio:  music,
			Offset: 0, // Folded into the note times
			Difficulty: game.Difficulty{
				Name:  strings.TrimSuffix(strings.TrimSpace(lines[3]), ":"),
				Meter: strings.TrimSuffix(strings.TrimSpace(lines[4]), ":"),
			},
			Notes: p.parseNotes(lines[6], rates, offset),
		}
		chart.Duration = chart.LastTime()
		charts = append(charts, chart)
	}

	return charts, nil
}

func (p *StepManiaParser) parseNotes(body string, rates []bpm, offset float64) []*game.Note {
	body = strings.SplitN(body, ";", 2)[0]

	// Start time of first note
	seconds := offset
	currentBeat := 0.0
	notes := []*game.Note{}

	for _, block := range strings.Split(body, "\n,") {
		rows := []string{}
		for _, l := range strings.Split(block, "\n") {
			if i := strings.Index(l, "//"); i >= 0 {
				l = l[:i]
			}
			l = strings.TrimSpace(strings.TrimPrefix(l, ","))
			if len(l) >= game.Lanes {
				rows = append(rows, l)
			}
		}
		if len(rows) == 0 {
			continue
		}

		// Beat count is 4 per block
		beatsPerNote := 4.0 / float64(len(rows)) // 1/4, 1/8, 1/16, 1/24 etc

		for _, row := range rows {
			for lane, c := range []byte(row[:game.Lanes]) {
				if t, ok := noteType(c); ok {
					notes = append(notes, &game.Note{Time: seconds, Lane: lane, Type: t})
				}
			}
			seconds += p.getSecondsPerNote(rates, currentBeat, beatsPerNote)
			currentBeat += beatsPerNote
		}
	}
	return notes
}
