// Package store persists conversations so an applicant can resume an
// eligibility check after a dropped session.
//
// The store uses SQLite in WAL mode. Conversation state is serialized
// as JSON in a single row per conversation; SQLite handles durability
// and the retention sweep deletes conversations idle past the
// configured age.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"sahayata-hq/ceres/pkg/dialogue"
	"sahayata-hq/ceres/pkg/inference"
)

// Store persists conversations in SQLite. It is safe for concurrent
// use; SQLite's single-writer constraint is enforced through the
// connection pool.
type Store struct {
	db *sql.DB
	mu sync.RWMutex

	saveStmt    *sql.Stmt
	loadStmt    *sql.Stmt
	deleteStmt  *sql.Stmt
	cleanupStmt *sql.Stmt

	closeOnce sync.Once
}

// Config configures the conversation store.
type Config struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration
}

// New opens a conversation store with default settings.
func New(dbPath string) (*Store, error) {
	return NewWithConfig(Config{DBPath: dbPath})
}

// NewWithConfig opens a conversation store with custom configuration.
func NewWithConfig(cfg Config) (*Store, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}
	return s, nil
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		scheme_id TEXT NOT NULL,
		stage TEXT NOT NULL,
		state TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_conversations_updated ON conversations(updated_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) prepareStatements() error {
	var err error

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO conversations (id, scheme_id, stage, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			stage = excluded.stage,
			state = excluded.state,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.loadStmt, err = s.db.Prepare(`
		SELECT id, scheme_id, stage, state, created_at, updated_at
		FROM conversations
		WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM conversations WHERE id = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	s.cleanupStmt, err = s.db.Prepare(`
		DELETE FROM conversations WHERE updated_at < ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare cleanup statement: %w", err)
	}

	return nil
}

// conversationState is the JSON payload stored per conversation.
type conversationState struct {
	Facts        map[string]interface{}   `json:"facts"`
	Family       []inference.FamilyMember `json:"family,omitempty"`
	CurrentField string                   `json:"current_field,omitempty"`
	Attempts     map[string]int           `json:"attempts,omitempty"`
	Skipped      map[string]bool          `json:"skipped,omitempty"`
	Verdict      *inference.Verdict       `json:"verdict,omitempty"`
	Turns        int                      `json:"turns"`
}

// Save persists a conversation.
func (s *Store) Save(ctx context.Context, conv *dialogue.Conversation) error {
	if conv == nil {
		return fmt.Errorf("conversation cannot be nil")
	}
	if conv.ID == "" {
		return fmt.Errorf("conversation id cannot be empty")
	}

	state := conversationState{
		Facts:        conv.Facts.Values(),
		Family:       conv.Facts.FamilyMembers(),
		CurrentField: conv.CurrentField,
		Attempts:     conv.Attempts,
		Skipped:      conv.Skipped,
		Verdict:      conv.Verdict,
		Turns:        conv.Turns,
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.saveStmt.ExecContext(ctx,
		conv.ID,
		conv.SchemeID,
		string(conv.Stage),
		string(payload),
		conv.CreatedAt.Unix(),
		conv.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// Load retrieves a conversation by id. Returns (nil, nil) when the
// conversation does not exist.
func (s *Store) Load(ctx context.Context, id string) (*dialogue.Conversation, error) {
	if id == "" {
		return nil, fmt.Errorf("conversation id cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		convID    string
		schemeID  string
		stage     string
		payload   string
		createdAt int64
		updatedAt int64
	)
	err := s.loadStmt.QueryRowContext(ctx, id).Scan(
		&convID, &schemeID, &stage, &payload, &createdAt, &updatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var state conversationState
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation state: %w", err)
	}

	facts := inference.FactsFromMap(state.Facts)
	for _, m := range state.Family {
		facts.AddFamilyMember(m.Relation, m.Age)
	}

	conv := &dialogue.Conversation{
		ID:           convID,
		SchemeID:     schemeID,
		Stage:        dialogue.Stage(stage),
		Facts:        facts,
		CurrentField: state.CurrentField,
		Attempts:     state.Attempts,
		Skipped:      state.Skipped,
		Verdict:      state.Verdict,
		Turns:        state.Turns,
		CreatedAt:    time.Unix(createdAt, 0).UTC(),
		UpdatedAt:    time.Unix(updatedAt, 0).UTC(),
	}
	if conv.Attempts == nil {
		conv.Attempts = make(map[string]int)
	}
	if conv.Skipped == nil {
		conv.Skipped = make(map[string]bool)
	}
	return conv, nil
}

// Delete removes a conversation.
func (s *Store) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("conversation id cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.deleteStmt.ExecContext(ctx, id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// Cleanup removes conversations not updated since the given time and
// returns how many were deleted.
func (s *Store) Cleanup(ctx context.Context, olderThan time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.cleanupStmt.ExecContext(ctx, olderThan.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(deleted), nil
}

// Close releases the store's resources. Close is idempotent.
func (s *Store) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		for _, stmt := range []*sql.Stmt{s.saveStmt, s.loadStmt, s.deleteStmt, s.cleanupStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})
	return closeErr
}
