package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents a detection session stored in the database.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   *time.Time
	Frames    int
	CreatedAt time.Time
	Results   []*SessionResult
}

// SessionResult represents the outcome for a single exercise within a session.
type SessionResult struct {
	ExerciseType   string
	Detections     int
	PeakConfidence float64
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(sess *Session) error {
	sess.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at, ended_at, frames, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.StartedAt, sess.EndedAt, sess.Frames, sess.CreatedAt,
	)
	if err != nil {
		return err
	}

	return nil
}

// Finish marks a session as ended and records its final frame count.
func (r *SessionRepository) Finish(id string, endedAt time.Time, frames int) error {
	result, err := r.db.Exec(
		`UPDATE sessions SET ended_at = ?, frames = ? WHERE id = ?`,
		endedAt, frames, id,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// SaveResults stores the per-exercise outcomes for a session, replacing
// any previously stored results.
func (r *SessionRepository) SaveResults(sessionID string, results []*SessionResult) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM session_results WHERE session_id = ?`, sessionID); err != nil {
		return err
	}

	for _, res := range results {
		_, err := tx.Exec(
			`INSERT INTO session_results (session_id, exercise_type, detections, peak_confidence)
			 VALUES (?, ?, ?, ?)`,
			sessionID, res.ExerciseType, res.Detections, res.PeakConfidence,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByID retrieves a session by its ID, including its results.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	sess := &Session{}
	var endedAt sql.NullTime

	err := r.db.QueryRow(
		`SELECT id, started_at, ended_at, frames, created_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames, &sess.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if endedAt.Valid {
		sess.EndedAt = &endedAt.Time
	}

	results, err := r.loadResults(id)
	if err != nil {
		return nil, err
	}
	sess.Results = results

	return sess, nil
}

// List retrieves all sessions from the database, most recent first.
// Results are not loaded; use GetByID for a full session.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, frames, created_at
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		sess := &Session{}
		var endedAt sql.NullTime

		err := rows.Scan(&sess.ID, &sess.StartedAt, &endedAt, &sess.Frames, &sess.CreatedAt)
		if err != nil {
			return nil, err
		}

		if endedAt.Valid {
			sess.EndedAt = &endedAt.Time
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session from the database by its ID.
// Associated results are removed by the foreign key cascade.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *SessionRepository) loadResults(sessionID string) ([]*SessionResult, error) {
	rows, err := r.db.Query(
		`SELECT exercise_type, detections, peak_confidence
		 FROM session_results WHERE session_id = ? ORDER BY exercise_type`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []*SessionResult
	for rows.Next() {
		res := &SessionResult{}
		if err := rows.Scan(&res.ExerciseType, &res.Detections, &res.PeakConfidence); err != nil {
			return nil, err
		}
		results = append(results, res)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
