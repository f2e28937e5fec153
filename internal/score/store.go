package score

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"git.lost.host/meutraa/lanes/internal/game"
	"git.lost.host/meutraa/lanes/internal/judge"
	_ "github.com/mattn/go-sqlite3"
)

// Record is a finished session as it is kept in the history.
type Record struct {
	Session string
	Player  string
	Sum     string // Chart hash
	Rate    float64
	Offset  float64 // Total offset the session was judged with
	Counts  Counts
	Score   int
	Elapsed float64 // Clock position when the session ended
	Stopped bool
	Inputs  []game.Input
	Created time.Time

	// Judge the inputs were judged with
	Settings judge.DefaultJudge
}

type Store struct {
	db *sql.DB
}

const initStatement = `
create table if not exists results
  (
	  id integer not null primary key,
	  session text not null,
	  player text,
	  sum text not null,
	  rate real,
	  calibration real,
	  perfect integer,
	  good integer,
	  miss integer,
	  score integer,
	  elapsed real,
	  stopped integer,
	  perfect_window real,
	  good_window real,
	  note_speed real,
	  miss_grace real,
	  empty_press text,
	  inputs blob,
	  created integer
  );
create index if not exists results_sum on results(sum);
`

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, fmt.Errorf("unable to open score database: %w", err)
	}
	if _, err := db.Exec(initStatement); nil != err {
		db.Close()
		return nil, fmt.Errorf("unable to create score table: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Save(r *Record) error {
	data, err := json.Marshal(compactInputs(r.Inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	created := r.Created
	if created.IsZero() {
		created = time.Now()
	}
	_, err = s.db.Exec(
		`insert into results(session, player, sum, rate, calibration, perfect, good, miss, score, elapsed, stopped,
		perfect_window, good_window, note_speed, miss_grace, empty_press, inputs, created)
		values(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Session, r.Player, r.Sum, r.Rate, r.Offset,
		r.Counts.Perfect, r.Counts.Good, r.Counts.Miss, r.Score,
		r.Elapsed, r.Stopped,
		r.Settings.Windows.Perfect, r.Settings.Windows.Good, r.Settings.NoteSpeed, r.Settings.MissGrace,
		r.Settings.EmptyPress.String(), data, created.UnixNano(),
	)
	if nil != err {
		return fmt.Errorf("unable to save score: %w", err)
	}
	return nil
}

// Load returns every record for a chart hash, oldest first.
func (s *Store) Load(sum string) ([]Record, error) {
	rows, err := s.db.Query(
		`select session, player, sum, rate, calibration, perfect, good, miss, score, elapsed, stopped,
		perfect_window, good_window, note_speed, miss_grace, empty_press, inputs, created
		from results where sum = ? order by id`, sum)
	if nil != err {
		return nil, fmt.Errorf("unable to load scores: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var r Record
		var data []byte
		var created int64
		var policy string
		if err := rows.Scan(
			&r.Session, &r.Player, &r.Sum, &r.Rate, &r.Offset,
			&r.Counts.Perfect, &r.Counts.Good, &r.Counts.Miss, &r.Score,
			&r.Elapsed, &r.Stopped,
			&r.Settings.Windows.Perfect, &r.Settings.Windows.Good, &r.Settings.NoteSpeed, &r.Settings.MissGrace,
			&policy, &data, &created,
		); nil != err {
			return nil, fmt.Errorf("unable to scan score: %w", err)
		}
		r.Settings.EmptyPress, _ = judge.ParseEmptyPressPolicy(policy)
		var ins []InputsCompact
		if err := json.Unmarshal(data, &ins); nil != err {
			return nil, fmt.Errorf("unable to unmarshal input history: %w", err)
		}
		r.Inputs = uncompactInputs(ins)
		r.Created = time.Unix(0, created)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Best returns the highest scoring record for a chart hash.
func (s *Store) Best(sum string) (*Record, error) {
	records, err := s.Load(sum)
	if nil != err {
		return nil, err
	}
	var best *Record
	for i := range records {
		if best == nil || records[i].Score > best.Score {
			best = &records[i]
		}
	}
	return best, nil
}
