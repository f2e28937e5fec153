package config

import (
	"fmt"
	"os"
	"time"

	"git.lost.host/meutraa/lanes/internal/input"
	"git.lost.host/meutraa/lanes/internal/judge"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
)

const Version = "0.3.0"

type Config struct {
	Chart       string
	Difficulty  int
	Rate        float64
	Offset      time.Duration // Global offset, added to the chart offset
	Delay       time.Duration
	FramePeriod time.Duration

	NoteSpeed  float64
	Perfect    float64
	Good       float64
	MissGrace  float64
	EmptyPress string

	Player     string
	Keys       string
	KeysP2     string
	KeyMapFile string
	Device     string

	Database  string
	Broadcast string

	Volume float64
	Mute   bool

	LogLevel string
	LogFile  string
}

func Parse(args []string) (*Config, error) {
	c := &Config{}
	app := kingpin.New("lanes", "Four lane rhythm game")
	app.Version(Version)

	app.Arg("chart", "Chart file or song directory").Required().ExistingFileOrDirVar(&c.Chart)
	app.Flag("difficulty", "Chart index when the file has several").Default("0").Short('D').IntVar(&c.Difficulty)
	app.Flag("rate", "Playback speed").Default("1.0").Short('r').Float64Var(&c.Rate)
	app.Flag("offset", "Global offset").Default("0ms").Short('o').DurationVar(&c.Offset)
	app.Flag("delay", "Start delay").Default("1.5s").Short('d').DurationVar(&c.Delay)
	app.Flag("frame-period", "Render frame period").Default("4ms").Short('p').DurationVar(&c.FramePeriod)

	app.Flag("note-speed", "Scroll units per second").Default(fmt.Sprint(judge.DefaultNoteSpeed)).Float64Var(&c.NoteSpeed)
	app.Flag("perfect", "Perfect window in scroll units").Default(fmt.Sprint(judge.DefaultPerfect)).Float64Var(&c.Perfect)
	app.Flag("good", "Good window in scroll units").Default(fmt.Sprint(judge.DefaultGood)).Float64Var(&c.Good)
	app.Flag("miss-grace", "Seconds past the hit line before a note is missed").Default(fmt.Sprint(judge.DefaultMissGrace)).Float64Var(&c.MissGrace)
	app.Flag("empty-press", "What a press with no note in range counts as").Default("ignore").EnumVar(&c.EmptyPress, "ignore", "miss")

	app.Flag("player", "Player name").Default("p1").StringVar(&c.Player)
	app.Flag("keys", "Keys for the four lanes").Default("dfjk").Short('k').StringVar(&c.Keys)
	app.Flag("keys-p2", "Keys for a second local player").StringVar(&c.KeysP2)
	app.Flag("keymap", "YAML file with player key maps").ExistingFileVar(&c.KeyMapFile)
	app.Flag("device", "Read keys from a Linux event device instead of the terminal").StringVar(&c.Device)

	app.Flag("db", "Score database").Default("./scores.db").StringVar(&c.Database)
	app.Flag("broadcast", "WebSocket URL to publish scores to").StringVar(&c.Broadcast)

	app.Flag("volume", "Hit sound volume, in halvings").Default("-1").Float64Var(&c.Volume)
	app.Flag("mute", "Disable hit sounds").BoolVar(&c.Mute)

	app.Flag("log-level", "debug, info, error or none").Default("info").StringVar(&c.LogLevel)
	app.Flag("log-file", "Log to this file instead of stderr").StringVar(&c.LogFile)

	if _, err := app.Parse(args); nil != err {
		return nil, err
	}
	if err := c.validate(); nil != err {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Rate <= 0 {
		return fmt.Errorf("rate must be positive, got %v", c.Rate)
	}
	if c.NoteSpeed <= 0 {
		return fmt.Errorf("note speed must be positive, got %v", c.NoteSpeed)
	}
	if c.Perfect <= 0 || c.Good <= c.Perfect {
		return fmt.Errorf("windows must satisfy 0 < perfect < good, got %v and %v", c.Perfect, c.Good)
	}
	if c.MissGrace <= 0 {
		return fmt.Errorf("miss grace must be positive, got %v", c.MissGrace)
	}
	if c.FramePeriod <= 0 {
		return fmt.Errorf("frame period must be positive, got %v", c.FramePeriod)
	}
	return nil
}

// Judge builds the judge described by the flags.
func (c *Config) Judge() *judge.DefaultJudge {
	j := judge.New()
	j.Windows = judge.Windows{Perfect: c.Perfect, Good: c.Good}
	j.NoteSpeed = c.NoteSpeed
	j.MissGrace = c.MissGrace
	j.EmptyPress, _ = judge.ParseEmptyPressPolicy(c.EmptyPress)
	return j
}

type Player struct {
	Name string       `yaml:"name"`
	Keys input.KeyMap `yaml:"keys"`
}

type keyMapFile struct {
	Players []Player `yaml:"players"`
}

// Players returns the local players and their key maps, from the
// key map file when one is given.
func (c *Config) Players() ([]Player, error) {
	var players []Player
	if c.KeyMapFile != "" {
		loaded, err := LoadPlayers(c.KeyMapFile)
		if nil != err {
			return nil, err
		}
		players = loaded
	} else {
		keys, err := input.ParseKeys(c.Keys)
		if nil != err {
			return nil, fmt.Errorf("invalid keys: %w", err)
		}
		players = append(players, Player{Name: c.Player, Keys: keys})
		if c.KeysP2 != "" {
			keys, err := input.ParseKeys(c.KeysP2)
			if nil != err {
				return nil, fmt.Errorf("invalid second player keys: %w", err)
			}
			players = append(players, Player{Name: "p2", Keys: keys})
		}
	}
	if err := checkPlayers(players); nil != err {
		return nil, err
	}
	if c.Device != "" {
		for _, p := range players {
			for code := range p.Keys {
				if !input.EvdevReadable(code) {
					return nil, fmt.Errorf("player %v: key %q cannot be read from %v", p.Name, code, c.Device)
				}
			}
		}
	}
	return players, nil
}

func LoadPlayers(file string) ([]Player, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, err
	}
	var km keyMapFile
	if err := yaml.Unmarshal(data, &km); nil != err {
		return nil, fmt.Errorf("unable to parse key map %v: %w", file, err)
	}
	return km.Players, nil
}

func checkPlayers(players []Player) error {
	if len(players) == 0 {
		return fmt.Errorf("no players configured")
	}
	for i, p := range players {
		if err := p.Keys.Validate(); nil != err {
			return fmt.Errorf("player %v: %w", p.Name, err)
		}
		if _, ok := p.Keys.Lane(input.CodeEscape); ok {
			return fmt.Errorf("player %v: escape is reserved", p.Name)
		}
		for _, q := range players[:i] {
			if code, ok := p.Keys.Overlaps(q.Keys); ok {
				return fmt.Errorf("players %v and %v share key %q", q.Name, p.Name, code)
			}
		}
	}
	return nil
}
