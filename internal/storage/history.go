package storage

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryDB records one row per pipeline invocation for operator visibility.
// It stores outcomes only, never transcript text or credentials.
type HistoryDB struct {
	db *sql.DB
}

// Entry is one recorded invocation.
type Entry struct {
	VideoID    string    `json:"video_id"`
	Title      string    `json:"title"`
	Strategy   string    `json:"strategy"`
	Status     string    `json:"status"`
	Error      string    `json:"error,omitempty"`
	DurationMS int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewHistoryDB opens (and if needed initializes) the history database.
func NewHistoryDB(dbPath string) (*HistoryDB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		video_id TEXT NOT NULL,
		title TEXT,
		strategy TEXT NOT NULL,
		status TEXT NOT NULL,
		error TEXT,
		duration_ms INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_requests_created_at ON requests(created_at);
	CREATE INDEX IF NOT EXISTS idx_requests_video_id ON requests(video_id);
	`

	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %v", err)
	}

	return &HistoryDB{db: db}, nil
}

// Record appends one invocation outcome.
func (h *HistoryDB) Record(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	query := `
	INSERT INTO requests (video_id, title, strategy, status, error, duration_ms, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := h.db.Exec(query, e.VideoID, e.Title, e.Strategy, e.Status, e.Error,
		e.DurationMS, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record request: %v", err)
	}

	return nil
}

// List returns the most recent invocations, newest first.
func (h *HistoryDB) List(limit int) ([]Entry, error) {
	query := `
	SELECT video_id, title, strategy, status, error, duration_ms, created_at
	FROM requests ORDER BY created_at DESC, id DESC LIMIT ?
	`

	rows, err := h.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %v", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.VideoID, &e.Title, &e.Strategy, &e.Status, &e.Error,
			&e.DurationMS, &e.CreatedAt); err != nil {
			log.Printf("Failed to scan history row: %v", err)
			continue
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// Close closes the database connection.
func (h *HistoryDB) Close() error {
	return h.db.Close()
}
