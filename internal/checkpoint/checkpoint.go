// Package checkpoint persists bulk-run progress in a local SQLite database so
// an interrupted run can resume without redoing completed locations. One
// checkpoint exists per operation type; a run lock per operation type rejects
// concurrent runs of the same operation.
package checkpoint

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/84emllc/84em-local-pages-sub000/internal/core"
	"github.com/84emllc/84em-local-pages-sub000/internal/logger"
)

// ErrRunActive is returned by Acquire when another run of the same operation
// type holds the lock.
var ErrRunActive = errors.New("another run of this operation is already active")

// lockTTL bounds how long a crashed run blocks a new one. Resume through the
// checkpoint itself stays available for the full staleness window.
const lockTTL = time.Hour

// Store is the SQLite-backed checkpoint store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the checkpoint database under dataDir.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "localpages.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return store, nil
}

func (s *Store) initialize() error {
	checkpointsTable := `
	CREATE TABLE IF NOT EXISTS checkpoints (
		operation_type TEXT PRIMARY KEY,
		id TEXT,
		last_index INTEGER,
		completed TEXT,
		updated_at DATETIME
	);`

	locksTable := `
	CREATE TABLE IF NOT EXISTS run_locks (
		operation_type TEXT PRIMARY KEY,
		run_id TEXT,
		acquired_at DATETIME
	);`

	for _, table := range []string{checkpointsTable, locksTable} {
		if _, err := s.db.Exec(table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save upserts the checkpoint for its operation type.
func (s *Store) Save(cp core.Checkpoint) error {
	if cp.ID == "" {
		cp.ID = uuid.New().String()
	}
	if cp.UpdatedAt.IsZero() {
		cp.UpdatedAt = time.Now()
	}
	completed, err := json.Marshal(cp.Completed)
	if err != nil {
		return fmt.Errorf("failed to encode checkpoint progress: %w", err)
	}

	query := `
	INSERT OR REPLACE INTO checkpoints (operation_type, id, last_index, completed, updated_at)
	VALUES (?, ?, ?, ?, ?)`
	if _, err := s.db.Exec(query, cp.OperationType, cp.ID, cp.LastIndex, string(completed), cp.UpdatedAt); err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}
	return nil
}

// Load returns the checkpoint for an operation type, or nil when none exists.
// A checkpoint older than the staleness window is discarded and nil returned.
func (s *Store) Load(operationType string) (*core.Checkpoint, error) {
	query := `SELECT id, last_index, completed, updated_at FROM checkpoints WHERE operation_type = ?`
	row := s.db.QueryRow(query, operationType)

	var cp core.Checkpoint
	var completed string
	cp.OperationType = operationType
	err := row.Scan(&cp.ID, &cp.LastIndex, &completed, &cp.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkpoint: %w", err)
	}
	if err := json.Unmarshal([]byte(completed), &cp.Completed); err != nil {
		return nil, fmt.Errorf("failed to decode checkpoint progress: %w", err)
	}

	if cp.IsStale() {
		logger.Warn("Discarding stale checkpoint", "operation", operationType, "age", time.Since(cp.UpdatedAt).String())
		if err := s.Delete(operationType); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return &cp, nil
}

// Delete removes the checkpoint for an operation type.
func (s *Store) Delete(operationType string) error {
	if _, err := s.db.Exec(`DELETE FROM checkpoints WHERE operation_type = ?`, operationType); err != nil {
		return fmt.Errorf("failed to delete checkpoint: %w", err)
	}
	return nil
}

// Acquire takes the run lock for an operation type and returns the run id to
// release it with. A live lock held by another run yields ErrRunActive; locks
// older than the TTL are treated as abandoned and taken over.
func (s *Store) Acquire(operationType string) (string, error) {
	var runID string
	var acquiredAt time.Time
	row := s.db.QueryRow(`SELECT run_id, acquired_at FROM run_locks WHERE operation_type = ?`, operationType)
	err := row.Scan(&runID, &acquiredAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return "", fmt.Errorf("failed to inspect run lock: %w", err)
	case time.Since(acquiredAt) < lockTTL:
		return "", fmt.Errorf("%w: %s held since %s", ErrRunActive, operationType, acquiredAt.Format(time.RFC3339))
	default:
		logger.Warn("Taking over abandoned run lock", "operation", operationType)
	}

	newID := uuid.New().String()
	query := `INSERT OR REPLACE INTO run_locks (operation_type, run_id, acquired_at) VALUES (?, ?, ?)`
	if _, err := s.db.Exec(query, operationType, newID, time.Now()); err != nil {
		return "", fmt.Errorf("failed to acquire run lock: %w", err)
	}
	return newID, nil
}

// Release drops the run lock if this run still holds it.
func (s *Store) Release(operationType, runID string) error {
	if _, err := s.db.Exec(`DELETE FROM run_locks WHERE operation_type = ? AND run_id = ?`, operationType, runID); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}
	return nil
}
