// Package store keeps analysis runs in a SQLite database.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/f3rmion/harakat/internal/markov"
	"github.com/f3rmion/harakat/internal/phonetic"
)

var (
	// ErrNoRuns is returned by LatestRun on an empty database.
	ErrNoRuns = errors.New("no runs stored")
	// ErrNotFound is returned by LoadRun for an unknown id.
	ErrNotFound = errors.New("run not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  INTEGER NOT NULL,
	source      TEXT    NOT NULL,
	words       INTEGER NOT NULL,
	states      INTEGER NOT NULL,
	transitions INTEGER NOT NULL,
	case_count  INTEGER NOT NULL,
	tolerance   REAL    NOT NULL,
	iterations  INTEGER NOT NULL,
	converged   INTEGER NOT NULL,
	delta       REAL    NOT NULL
);
CREATE TABLE IF NOT EXISTS states (
	run_id INTEGER NOT NULL,
	idx    INTEGER NOT NULL,
	label  TEXT    NOT NULL,
	PRIMARY KEY (run_id, idx)
);
CREATE TABLE IF NOT EXISTS transitions (
	run_id      INTEGER NOT NULL,
	src         TEXT    NOT NULL,
	dst         TEXT    NOT NULL,
	count       INTEGER NOT NULL,
	probability REAL    NOT NULL,
	PRIMARY KEY (run_id, src, dst)
);
CREATE TABLE IF NOT EXISTS stationary (
	run_id INTEGER NOT NULL,
	src    INTEGER NOT NULL,
	dst    INTEGER NOT NULL,
	value  REAL    NOT NULL,
	PRIMARY KEY (run_id, src, dst)
);
CREATE TABLE IF NOT EXISTS words (
	run_id   INTEGER NOT NULL,
	idx      INTEGER NOT NULL,
	analysis TEXT    NOT NULL,
	PRIMARY KEY (run_id, idx)
);
`

// Run is the summary row of one stored analysis.
type Run struct {
	ID          int64
	CreatedAt   time.Time
	Source      string // Corpus directory or file list
	Words       int
	States      int
	Transitions int
	CaseCount   int // Override used in the report, 0 if none
	Tolerance   float64
	Iterations  int
	Converged   bool
	Delta       float64
}

// Snapshot is a run together with everything needed to rebuild its reports.
type Snapshot struct {
	Run        Run
	Analyses   []phonetic.Analysis
	Model      *markov.Model
	Stationary *markov.Stationary
}

// Store wraps the results database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One writer at a time is all SQLite allows anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveRun appends a snapshot and returns its run id. The Run fields derived
// from the snapshot contents are filled in here.
func (s *Store) SaveRun(snap *Snapshot) (int64, error) {
	run := snap.Run
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	run.Words = len(snap.Analyses)
	run.States = len(snap.Model.States)
	run.Transitions = snap.Model.TransitionCount
	run.Iterations = snap.Stationary.Iterations
	run.Converged = snap.Stationary.Converged
	run.Delta = snap.Stationary.Delta

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO runs (created_at, source, words, states, transitions, case_count, tolerance, iterations, converged, delta)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.CreatedAt.Unix(), run.Source, run.Words, run.States, run.Transitions,
		run.CaseCount, run.Tolerance, run.Iterations, run.Converged, run.Delta)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	if err := insertStates(tx, id, snap.Model.States); err != nil {
		return 0, err
	}
	if err := insertTransitions(tx, id, snap.Model); err != nil {
		return 0, err
	}
	if err := insertStationary(tx, id, snap.Stationary.Labeled); err != nil {
		return 0, err
	}
	if err := insertWords(tx, id, snap.Analyses); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return id, nil
}

func insertStates(tx *sql.Tx, id int64, states []string) error {
	stmt, err := tx.Prepare("INSERT INTO states (run_id, idx, label) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing states: %w", err)
	}
	defer stmt.Close()

	for i, label := range states {
		if _, err := stmt.Exec(id, i, label); err != nil {
			return fmt.Errorf("inserting state %q: %w", label, err)
		}
	}
	return nil
}

func insertTransitions(tx *sql.Tx, id int64, m *markov.Model) error {
	stmt, err := tx.Prepare("INSERT INTO transitions (run_id, src, dst, count, probability) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing transitions: %w", err)
	}
	defer stmt.Close()

	for _, src := range m.Matrix.Sources() {
		for _, e := range m.Matrix[src].Ranked() {
			if _, err := stmt.Exec(id, src, e.To, m.Counts[src][e.To], e.Probability); err != nil {
				return fmt.Errorf("inserting transition %q -> %q: %w", src, e.To, err)
			}
		}
	}
	return nil
}

// insertStationary keeps only non-zero cells.
func insertStationary(tx *sql.Tx, id int64, l *markov.Labeled) error {
	stmt, err := tx.Prepare("INSERT INTO stationary (run_id, src, dst, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing stationary: %w", err)
	}
	defer stmt.Close()

	for i := 0; i < l.Size(); i++ {
		for j, v := range l.Row(i) {
			if v == 0 {
				continue
			}
			if _, err := stmt.Exec(id, i, j, v); err != nil {
				return fmt.Errorf("inserting stationary cell (%d,%d): %w", i, j, err)
			}
		}
	}
	return nil
}

func insertWords(tx *sql.Tx, id int64, analyses []phonetic.Analysis) error {
	stmt, err := tx.Prepare("INSERT INTO words (run_id, idx, analysis) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing words: %w", err)
	}
	defer stmt.Close()

	for i, a := range analyses {
		data, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("marshaling word %q: %w", a.Word, err)
		}
		if _, err := stmt.Exec(id, i, string(data)); err != nil {
			return fmt.Errorf("inserting word %q: %w", a.Word, err)
		}
	}
	return nil
}

const runColumns = `id, created_at, source, words, states, transitions, case_count, tolerance, iterations, converged, delta`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r       Run
		created int64
	)
	err := row.Scan(&r.ID, &created, &r.Source, &r.Words, &r.States, &r.Transitions,
		&r.CaseCount, &r.Tolerance, &r.Iterations, &r.Converged, &r.Delta)
	r.CreatedAt = time.Unix(created, 0)
	return r, err
}

// ListRuns returns every stored run, newest first.
func (s *Store) ListRuns() ([]Run, error) {
	rows, err := s.db.Query("SELECT " + runColumns + " FROM runs ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LatestRun loads the most recently stored run.
func (s *Store) LatestRun() (*Snapshot, error) {
	var id int64
	err := s.db.QueryRow("SELECT id FROM runs ORDER BY id DESC LIMIT 1").Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("finding latest run: %w", err)
	}
	return s.LoadRun(id)
}

// LoadRun rebuilds the model, stationary matrix and word analyses of a run.
func (s *Store) LoadRun(id int64) (*Snapshot, error) {
	run, err := scanRun(s.db.QueryRow("SELECT "+runColumns+" FROM runs WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading run %d: %w", id, err)
	}

	states, err := s.loadStates(id)
	if err != nil {
		return nil, err
	}
	model, err := s.loadModel(id, states)
	if err != nil {
		return nil, err
	}
	stationary, err := s.loadStationary(id, states)
	if err != nil {
		return nil, err
	}
	stationary.Iterations = run.Iterations
	stationary.Converged = run.Converged
	stationary.Delta = run.Delta

	analyses, err := s.loadWords(id)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Run:        run,
		Analyses:   analyses,
		Model:      model,
		Stationary: stationary,
	}, nil
}

func (s *Store) loadStates(id int64) ([]string, error) {
	rows, err := s.db.Query("SELECT label FROM states WHERE run_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, fmt.Errorf("querying states: %w", err)
	}
	defer rows.Close()

	states := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("scanning state: %w", err)
		}
		states = append(states, label)
	}
	return states, rows.Err()
}

func (s *Store) loadModel(id int64, states []string) (*markov.Model, error) {
	m := &markov.Model{
		States: states,
		Matrix: markov.TransitionMatrix{},
		Counts: make(map[string]map[string]int, len(states)),
		Totals: make(map[string]int, len(states)),
	}
	for _, st := range states {
		m.Counts[st] = map[string]int{}
		m.Totals[st] = 0
	}

	rows, err := s.db.Query("SELECT src, dst, count, probability FROM transitions WHERE run_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying transitions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			src, dst string
			count    int
			p        float64
		)
		if err := rows.Scan(&src, &dst, &count, &p); err != nil {
			return nil, fmt.Errorf("scanning transition: %w", err)
		}
		if m.Matrix[src] == nil {
			m.Matrix[src] = markov.Row{}
		}
		m.Matrix[src][dst] = p
		if m.Counts[src] == nil {
			m.Counts[src] = map[string]int{}
		}
		m.Counts[src][dst] = count
		m.Totals[src] += count
		m.TransitionCount += count
	}
	return m, rows.Err()
}

func (s *Store) loadStationary(id int64, states []string) (*markov.Stationary, error) {
	n := len(states)
	values := make([]float64, n*n)

	rows, err := s.db.Query("SELECT src, dst, value FROM stationary WHERE run_id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("querying stationary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			i, j int
			v    float64
		)
		if err := rows.Scan(&i, &j, &v); err != nil {
			return nil, fmt.Errorf("scanning stationary cell: %w", err)
		}
		if i >= n || j >= n {
			return nil, fmt.Errorf("stationary cell (%d,%d) outside %d states", i, j, n)
		}
		values[i*n+j] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &markov.Stationary{Labeled: markov.NewLabeled(states, values)}, nil
}

func (s *Store) loadWords(id int64) ([]phonetic.Analysis, error) {
	rows, err := s.db.Query("SELECT analysis FROM words WHERE run_id = ? ORDER BY idx", id)
	if err != nil {
		return nil, fmt.Errorf("querying words: %w", err)
	}
	defer rows.Close()

	var analyses []phonetic.Analysis
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning word: %w", err)
		}
		var a phonetic.Analysis
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			return nil, fmt.Errorf("parsing word: %w", err)
		}
		analyses = append(analyses, a)
	}
	return analyses, rows.Err()
}
