package fixture

import (
	_ "embed"
	"encoding/json"

	"git.lost.host/meutraa/lanes/internal/game"
)

//go:embed chart.json
var data []byte

// GetChart returns a fresh copy of the bundled test chart.
func GetChart() (*game.Chart, error) {
	var chart game.Chart
	if err := json.Unmarshal(data, &chart); nil != err {
		return nil, err
	}
	chart.Sort()
	return &chart, nil
}

func Data() []byte {
	return data
}
