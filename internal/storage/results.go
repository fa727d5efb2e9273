package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/deploy-or-die/internal/games/deploy"
)

// ErrChecksum is returned when a result's checksum does not match its fields.
var ErrChecksum = errors.New("storage: result checksum mismatch")

// Entry is one stored session result.
type Entry struct {
	ID int64
	deploy.Result
	PlayedAt time.Time
}

const resultColumns = `id, session_id, variant, player, score, success, completed_cycles,
	mistakes, max_combo, duration_ms, seed, played_at, client_version, checksum`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	err := row.Scan(
		&e.ID,
		&e.SessionID,
		&e.Variant,
		&e.Player,
		&e.Score,
		&e.Success,
		&e.CompletedCycles,
		&e.Mistakes,
		&e.MaxCombo,
		&e.DurationMs,
		&e.Seed,
		&e.Timestamp,
		&e.ClientVersion,
		&e.Checksum,
	)
	if err != nil {
		return Entry{}, err
	}
	e.PlayedAt = time.UnixMilli(e.Timestamp)
	return e, nil
}

func (s *Store) queryEntries(query string, args ...any) ([]Entry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query results: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return entries, nil
}

// SaveResult records a finished session. Results with a bad checksum are
// rejected, and each session can be saved once.
// It implements deploy.ResultSink.
func (s *Store) SaveResult(r deploy.Result) error {
	_, err := s.Insert(r)
	return err
}

var _ deploy.ResultSink = (*Store)(nil)

// Insert records a finished session and returns the row ID.
func (s *Store) Insert(r deploy.Result) (int64, error) {
	if !r.Verify() {
		return 0, fmt.Errorf("%w (session %s)", ErrChecksum, r.SessionID)
	}

	res, err := s.db.Exec(
		`INSERT INTO results
		 (session_id, variant, player, score, success, completed_cycles,
		  mistakes, max_combo, duration_ms, seed, played_at, client_version, checksum)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID,
		r.Variant,
		r.Player,
		r.Score,
		r.Success,
		r.CompletedCycles,
		r.Mistakes,
		r.MaxCombo,
		r.DurationMs,
		r.Seed,
		r.Timestamp,
		r.ClientVersion,
		r.Checksum,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}
	return id, nil
}

// TopResults returns the best results for a variant, highest score first.
// Ties go to the earlier session.
func (s *Store) TopResults(variant string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.queryEntries(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE variant = ?
		 ORDER BY score DESC, played_at ASC, id ASC
		 LIMIT ?`,
		variant, limit,
	)
}

// PlayerHistory returns a player's most recent results across variants.
func (s *Store) PlayerHistory(player string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.queryEntries(
		`SELECT `+resultColumns+`
		 FROM results
		 WHERE player = ?
		 ORDER BY played_at DESC, id DESC
		 LIMIT ?`,
		player, limit,
	)
}

// ResultBySession returns the result stored for a session, or nil.
func (s *Store) ResultBySession(sessionID string) (*Entry, error) {
	e, err := scanEntry(s.db.QueryRow(
		`SELECT `+resultColumns+` FROM results WHERE session_id = ?`,
		sessionID,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query result: %w", err)
	}
	return &e, nil
}

// HighScore returns the highest score for the variant, or 0 if none exist.
func (s *Store) HighScore(variant string) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRow(
		"SELECT MAX(score) FROM results WHERE variant = ?",
		variant,
	).Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearResults deletes all results for the variant.
func (s *Store) ClearResults(variant string) error {
	_, err := s.db.Exec("DELETE FROM results WHERE variant = ?", variant)
	if err != nil {
		return fmt.Errorf("storage: cannot clear results: %w", err)
	}
	return nil
}

// VariantStats contains aggregated statistics for a variant.
type VariantStats struct {
	Variant    string
	Games      int
	Wins       int
	HighScore  int
	AvgScore   float64
	TotalScore int64
	BestCycles int
	LastPlayed time.Time
}

const statsColumns = `COUNT(*), COALESCE(SUM(success), 0), COALESCE(MAX(score), 0),
	COALESCE(AVG(score), 0), COALESCE(SUM(score), 0), COALESCE(MAX(completed_cycles), 0),
	COALESCE(MAX(played_at), 0)`

func scanStats(row scanner, st *VariantStats) error {
	var last int64
	if err := row.Scan(&st.Games, &st.Wins, &st.HighScore, &st.AvgScore, &st.TotalScore, &st.BestCycles, &last); err != nil {
		return err
	}
	if last > 0 {
		st.LastPlayed = time.UnixMilli(last)
	}
	return nil
}

// Stats retrieves aggregated statistics for a variant.
func (s *Store) Stats(variant string) (*VariantStats, error) {
	st := &VariantStats{Variant: variant}
	row := s.db.QueryRow(`SELECT `+statsColumns+` FROM results WHERE variant = ?`, variant)
	if err := scanStats(row, st); err != nil {
		return nil, fmt.Errorf("storage: cannot get stats: %w", err)
	}
	return st, nil
}

// AllStats retrieves statistics for every variant that has been played.
func (s *Store) AllStats() (map[string]*VariantStats, error) {
	rows, err := s.db.Query(`SELECT variant, ` + statsColumns + ` FROM results GROUP BY variant`)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get all stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*VariantStats)
	for rows.Next() {
		var variant string
		st := &VariantStats{}
		row := prefixScanner{rows, &variant}
		if err := scanStats(row, st); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		st.Variant = variant
		stats[variant] = st
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return stats, nil
}

// prefixScanner scans one extra leading column ahead of the caller's.
type prefixScanner struct {
	row   scanner
	first any
}

func (p prefixScanner) Scan(dest ...any) error {
	return p.row.Scan(append([]any{p.first}, dest...)...)
}
