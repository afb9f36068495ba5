// internal/archive/store.go
//
// Outcome archive for finished sessions. Only totals are stored
// (rounds, wins, draws, losses); opponent moves are never written, and
// nothing here is read back into a new session.

package archive

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Result is the archived summary of one finished session.
type Result struct {
	SessionID  string    `json:"sessionId"`
	Rounds     int       `json:"rounds"`
	Wins       int       `json:"wins"`
	Draws      int       `json:"draws"`
	Losses     int       `json:"losses"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Totals aggregates every archived session.
type Totals struct {
	Sessions int     `json:"sessions"`
	Rounds   int     `json:"rounds"`
	Wins     int     `json:"wins"`
	Draws    int     `json:"draws"`
	Losses   int     `json:"losses"`
	WinRate  float64 `json:"winRate"` // wins / rounds, 0 when empty
}

// timeLayout is fixed width so finished_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts a result. Re-recording the same session is ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO session_results(session_id, rounds, wins, draws, losses, finished_at)
		 VALUES(?,?,?,?,?,?)`,
		r.SessionID, r.Rounds, r.Wins, r.Draws, r.Losses, r.FinishedAt.UTC().Format(timeLayout),
	)
	return err
}

func (s *Store) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(rounds),0), COALESCE(SUM(wins),0),
		        COALESCE(SUM(draws),0), COALESCE(SUM(losses),0)
		 FROM session_results`,
	).Scan(&t.Sessions, &t.Rounds, &t.Wins, &t.Draws, &t.Losses)
	if err != nil {
		return Totals{}, err
	}
	if t.Rounds > 0 {
		t.WinRate = float64(t.Wins) / float64(t.Rounds)
	}
	return t, nil
}

// Recent lists the latest results, newest first. Default limit is 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, rounds, wins, draws, losses, finished_at
		 FROM session_results
		 ORDER BY finished_at DESC, session_id ASC
		 LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var r Result
		var finished string
		if err := rows.Scan(&r.SessionID, &r.Rounds, &r.Wins, &r.Draws, &r.Losses, &finished); err != nil {
			return nil, err
		}
		t, err := time.Parse(timeLayout, finished)
		if err != nil {
			return nil, fmt.Errorf("session %s: finished_at: %w", r.SessionID, err)
		}
		r.FinishedAt = t
		out = append(out, r)
	}
	return out, rows.Err()
}

// Purge deletes results finished before cutoff and reports how many went.
func (s *Store) Purge(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM session_results WHERE finished_at < ?`,
		before.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
