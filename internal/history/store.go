// Package history archives conversation turns to a local SQLite file so
// a learner can review past sessions even though the remote thread is
// never reused. Everything here is best-effort: the interactive session
// works the same with history disabled.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	agent_id   TEXT NOT NULL,
	thread_id  TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	ended_at   TIMESTAMP
);

CREATE TABLE IF NOT EXISTS turns (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL REFERENCES sessions(id),
	role       TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_turns_session ON turns(session_id);
`

// Store persists sessions and their turns. A Store tracks at most one
// active session, matching the one-session-per-process model.
type Store struct {
	db        *sql.DB
	sessionID string
}

// Session is one archived conversation.
type Session struct {
	ID        string
	AgentID   string
	ThreadID  string
	StartedAt time.Time
	EndedAt   *time.Time
}

// Turn is one archived message.
type Turn struct {
	SessionID string
	Role      string
	Content   string
	CreatedAt time.Time
}

// Open opens (creating if needed) the archive at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Begin starts a new archived session for the given remote handles.
func (s *Store) Begin(agentID, threadID string) error {
	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, agent_id, thread_id, started_at) VALUES (?, ?, ?, ?)`,
		id, agentID, threadID, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to begin history session: %w", err)
	}
	s.sessionID = id
	return nil
}

// Record appends one turn to the active session.
func (s *Store) Record(role, content string) error {
	if s.sessionID == "" {
		return fmt.Errorf("no active history session")
	}
	_, err := s.db.Exec(
		`INSERT INTO turns (session_id, role, content, created_at) VALUES (?, ?, ?, ?)`,
		s.sessionID, role, content, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record turn: %w", err)
	}
	return nil
}

// End marks the active session finished.
func (s *Store) End() error {
	if s.sessionID == "" {
		return nil
	}
	_, err := s.db.Exec(
		`UPDATE sessions SET ended_at = ? WHERE id = ?`,
		time.Now().UTC(), s.sessionID,
	)
	s.sessionID = ""
	if err != nil {
		return fmt.Errorf("failed to finalize history session: %w", err)
	}
	return nil
}

// Sessions returns all archived sessions, newest first.
func (s *Store) Sessions() ([]Session, error) {
	rows, err := s.db.Query(
		`SELECT id, agent_id, thread_id, started_at, ended_at FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		var sess Session
		var ended sql.NullTime
		if err := rows.Scan(&sess.ID, &sess.AgentID, &sess.ThreadID, &sess.StartedAt, &ended); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if ended.Valid {
			t := ended.Time
			sess.EndedAt = &t
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

// Turns returns the turns of one session in the order they happened.
func (s *Store) Turns(sessionID string) ([]Turn, error) {
	rows, err := s.db.Query(
		`SELECT session_id, role, content, created_at FROM turns WHERE session_id = ? ORDER BY id ASC`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query turns: %w", err)
	}
	defer rows.Close()

	var out []Turn
	for rows.Next() {
		var turn Turn
		if err := rows.Scan(&turn.SessionID, &turn.Role, &turn.Content, &turn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn: %w", err)
		}
		out = append(out, turn)
	}
	return out, rows.Err()
}

// CurrentSessionID returns the active session id, empty when none.
func (s *Store) CurrentSessionID() string {
	return s.sessionID
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
