package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotcli/internal/models"
	"github.com/desertthunder/spotcli/internal/shared"
)

// SnapshotRepository implements models.Repository[*models.Snapshot] for saved top-items results.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new SnapshotRepository with the given database connection
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Create inserts a [models.Snapshot] and its items with a generated ID and creation time.
func (r *SnapshotRepository) Create(s *models.Snapshot) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	id := shared.GenerateID()
	created := time.Now().UTC()

	err := WithTx(r.db, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO snapshots (id, kind, time_range, item_limit, created_at)
			VALUES (?, ?, ?, ?, ?)
		`, id, string(s.Kind), s.TimeRange, s.Limit, created)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}

		stmt, err := tx.Prepare(`
			INSERT INTO snapshot_items (snapshot_id, rank, spotify_id, name, detail)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare item insert: %w", err)
		}
		defer stmt.Close()

		for _, item := range s.Items {
			if _, err := stmt.Exec(id, item.Rank, item.SpotifyID, item.Name, item.Detail); err != nil {
				return fmt.Errorf("failed to insert snapshot item %d: %w", item.Rank, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.ID = id
	s.CreatedAt = created
	return nil
}

// Get retrieves a snapshot by ID with its items in rank order.
func (r *SnapshotRepository) Get(id string) (*models.Snapshot, error) {
	row := r.db.QueryRow(`
		SELECT id, kind, time_range, item_limit, created_at
		FROM snapshots
		WHERE id = ?
	`, id)

	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("snapshot", id)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.Items(id)
	if err != nil {
		return nil, err
	}
	s.Items = items
	return s, nil
}

// Items retrieves the ranked items of a snapshot.
func (r *SnapshotRepository) Items(snapshotID string) ([]models.SnapshotItem, error) {
	rows, err := r.db.Query(`
		SELECT rank, spotify_id, name, detail
		FROM snapshot_items
		WHERE snapshot_id = ?
		ORDER BY rank
	`, snapshotID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot items: %w", err)
	}
	defer rows.Close()

	var items []models.SnapshotItem
	for rows.Next() {
		var item models.SnapshotItem
		if err := rows.Scan(&item.Rank, &item.SpotifyID, &item.Name, &item.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

// List retrieves up to limit snapshots, newest first, without items. A limit below 1 returns all.
func (r *SnapshotRepository) List(limit int) ([]*models.Snapshot, error) {
	query := `
		SELECT id, kind, time_range, item_limit, created_at
		FROM snapshots
		ORDER BY created_at DESC, rowid DESC
	`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	return r.query(query, args...)
}

// Latest retrieves the newest snapshot of kind with its items.
func (r *SnapshotRepository) Latest(kind models.Kind) (*models.Snapshot, error) {
	snapshots, err := r.query(`
		SELECT id, kind, time_range, item_limit, created_at
		FROM snapshots
		WHERE kind = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT 1
	`, string(kind))
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, notFound("snapshot of kind", string(kind))
	}
	return r.Get(snapshots[0].ID)
}

// Delete removes a snapshot and, by cascade, its items.
func (r *SnapshotRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound("snapshot", id)
	}
	return nil
}

func (r *SnapshotRepository) query(query string, args ...any) ([]*models.Snapshot, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return snapshots, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row scanner) (*models.Snapshot, error) {
	var (
		s    models.Snapshot
		kind string
	)
	if err := row.Scan(&s.ID, &kind, &s.TimeRange, &s.Limit, &s.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan snapshot: %w", err)
	}
	s.Kind = models.Kind(kind)
	return &s, nil
}

var _ models.Repository[*models.Snapshot] = (*SnapshotRepository)(nil)
