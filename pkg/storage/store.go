package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dskvich/chatwriting/pkg/logger"
)

// Keys of the logical records kept in the store.
const (
	KeyPromptLibrary = "prompt_library"
	KeyModelConfig   = "model_config"
)

type store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *store {
	return &store{db: db}
}

// Load reads the JSON snapshot stored under key into dest. A missing record reports
// (false, nil). So does a malformed one: corrupted snapshots are discarded and the
// caller falls back to its defaults.
func (s *store) Load(ctx context.Context, key string, dest any) (bool, error) {
	const query = `
		SELECT value
		FROM records
		WHERE key = $1
	`

	var raw string
	err := s.db.QueryRowContext(ctx, query, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("fetching record %q: %w", key, err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		slog.DebugContext(ctx, "Discarding malformed record", "key", key, logger.Err(err))
		return false, nil
	}

	return true, nil
}

// Save replaces the JSON snapshot stored under key.
func (s *store) Save(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshaling record %q: %w", key, err)
	}

	const query = `
		INSERT INTO records (key, value, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (key)
		DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, key, string(raw)); err != nil {
		return fmt.Errorf("saving record %q: %w", key, err)
	}

	return nil
}
