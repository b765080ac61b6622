package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/spotcli/internal/shared"
)

// WithTx runs fn in a transaction, committing when fn returns nil and rolling back otherwise.
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// notFound wraps [shared.ErrNotFound] for entity with id.
func notFound(entity, id string) error {
	return fmt.Errorf("%w: %s %s", shared.ErrNotFound, entity, id)
}
