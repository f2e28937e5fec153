package game

type Difficulty struct {
	Name  string
	Meter string
}

// NKeyMap lists the StepMania chart types that can be played, by lane count.
var NKeyMap = map[string]int{
	"dance-single": 4,
}
