package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/spotcli/internal/models"
	"github.com/desertthunder/spotcli/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.OpenMigrated(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tracksSnapshot() *models.Snapshot {
	return models.TracksSnapshot("short_term", 2, []models.Track{
		{Rank: 1, ID: "t1", Name: "Song One", Artists: []string{"Artist One", "Guest"}},
		{Rank: 2, ID: "t2", Name: "Song Two", Artists: []string{"Artist Two"}},
	})
}

func TestSnapshotRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t))
		snap := tracksSnapshot()

		if err := repo.Create(snap); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}
		if snap.ID == "" {
			t.Error("snapshot ID should be set after creation")
		}
		if snap.CreatedAt.IsZero() {
			t.Error("snapshot creation time should be set")
		}
	})

	t.Run("Get", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t))
		snap := tracksSnapshot()
		if err := repo.Create(snap); err != nil {
			t.Fatalf("failed to create snapshot: %v", err)
		}

		got, err := repo.Get(snap.ID)
		if err != nil {
			t.Fatalf("failed to get snapshot: %v", err)
		}
		if got.Kind != models.KindTracks || got.TimeRange != "short_term" || got.Limit != 2 {
			t.Errorf("unexpected snapshot %+v", got)
		}
		if len(got.Items) != 2 {
			t.Fatalf("expected 2 items, got %d", len(got.Items))
		}
		if got.Items[0].Detail != "Artist One, Guest" || got.Items[1].SpotifyID != "t2" {
			t.Errorf("unexpected items %+v", got.Items)
		}
		if !got.CreatedAt.Equal(snap.CreatedAt) {
			t.Errorf("expected created_at %v, got %v", snap.CreatedAt, got.CreatedAt)
		}
	})

	t.Run("List newest first", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t))

		first := tracksSnapshot()
		second := models.ArtistsSnapshot("long_term", 1, []models.Artist{{Rank: 1, ID: "a1", Name: "Artist"}})
		third := tracksSnapshot()
		for _, s := range []*models.Snapshot{first, second, third} {
			if err := repo.Create(s); err != nil {
				t.Fatalf("failed to create snapshot: %v", err)
			}
		}

		all, err := repo.List(0)
		if err != nil {
			t.Fatalf("failed to list snapshots: %v", err)
		}
		if len(all) != 3 {
			t.Fatalf("expected 3 snapshots, got %d", len(all))
		}
		if all[0].ID != third.ID || all[2].ID != first.ID {
			t.Errorf("expected newest first, got %s, %s, %s", all[0].ID, all[1].ID, all[2].ID)
		}
		if all[0].Items != nil {
			t.Error("List should not load items")
		}

		limited, err := repo.List(2)
		if err != nil {
			t.Fatalf("failed to list snapshots: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 snapshots, got %d", len(limited))
		}
	})

	t.Run("Latest", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t))

		if _, err := repo.Latest(models.KindArtists); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		artists := models.ArtistsSnapshot("medium_term", 1, []models.Artist{{Rank: 1, ID: "a1", Name: "Artist", Genres: []string{"jazz"}}})
		repo.Create(artists)
		repo.Create(tracksSnapshot())

		got, err := repo.Latest(models.KindArtists)
		if err != nil {
			t.Fatalf("failed to get latest: %v", err)
		}
		if got.ID != artists.ID || got.Items[0].Detail != "jazz" {
			t.Errorf("unexpected latest %+v", got)
		}
	})

	t.Run("Delete cascades to items", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSnapshotRepository(db)
		snap := tracksSnapshot()
		repo.Create(snap)

		if err := repo.Delete(snap.ID); err != nil {
			t.Fatalf("failed to delete: %v", err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM snapshot_items").Scan(&count); err != nil {
			t.Fatalf("failed to count items: %v", err)
		}
		if count != 0 {
			t.Errorf("expected items to be deleted, found %d", count)
		}
	})
}

func TestSnapshotRepositoryErrors(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		t.Run("ValidationError", func(t *testing.T) {
			repo := NewSnapshotRepository(setupTestDB(t))

			if err := repo.Create(&models.Snapshot{Kind: "albums", TimeRange: "short_term", Limit: 1}); !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected validation error, got %v", err)
			}
		})

		t.Run("DuplicateRank", func(t *testing.T) {
			repo := NewSnapshotRepository(setupTestDB(t))
			snap := tracksSnapshot()
			snap.Items[1].Rank = 1

			if err := repo.Create(snap); err == nil {
				t.Fatal("expected error for duplicate rank")
			}
			if snap.ID != "" {
				t.Error("ID should not be set on failure")
			}
		})

		t.Run("RollsBackOnItemFailure", func(t *testing.T) {
			db := setupTestDB(t)
			if _, err := db.Exec("DROP TABLE snapshot_items"); err != nil {
				t.Fatalf("failed to drop table: %v", err)
			}
			repo := NewSnapshotRepository(db)

			if err := repo.Create(tracksSnapshot()); err == nil {
				t.Fatal("expected error when items table is missing")
			}

			snapshots, err := repo.List(0)
			if err != nil {
				t.Fatalf("failed to list: %v", err)
			}
			if len(snapshots) != 0 {
				t.Errorf("expected rollback, found %d snapshots", len(snapshots))
			}
		})
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := NewSnapshotRepository(setupTestDB(t))

		if _, err := repo.Get("nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound from Get, got %v", err)
		}
		if err := repo.Delete("nonexistent-id"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound from Delete, got %v", err)
		}
	})

	t.Run("ClosedDatabase", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewSnapshotRepository(db)
		db.Close()

		if _, err := repo.List(0); err == nil {
			t.Error("expected error from closed database")
		}
		if err := repo.Create(tracksSnapshot()); err == nil {
			t.Error("expected error from closed database")
		}
	})
}
