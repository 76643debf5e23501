package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/wasaphoto/internal/models"
	"github.com/desertthunder/wasaphoto/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	shared.ConfigureDatabase(db, 1, 1)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestLocalStorageRepository(t *testing.T) {
	t.Run("Create and Get", func(t *testing.T) {
		repo := NewLocalStorageRepository(setupTestDB(t))

		if err := repo.Create(models.NewStorageItem("token", "abc123")); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		item, err := repo.Get("token")
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}
		if item.Value() != "abc123" {
			t.Errorf("expected value abc123, got %s", item.Value())
		}
		if item.ID() != "token" {
			t.Errorf("expected ID token, got %s", item.ID())
		}
		if item.CreatedAt().IsZero() {
			t.Error("expected created_at to round-trip")
		}
	})

	t.Run("Create duplicate key fails", func(t *testing.T) {
		repo := NewLocalStorageRepository(setupTestDB(t))

		if err := repo.Create(models.NewStorageItem("token", "one")); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}
		if err := repo.Create(models.NewStorageItem("token", "two")); err == nil {
			t.Fatal("expected error creating duplicate key")
		}
	})

	t.Run("Create validates key", func(t *testing.T) {
		repo := NewLocalStorageRepository(setupTestDB(t))

		if err := repo.Create(models.NewStorageItem("", "value")); err == nil {
			t.Fatal("expected validation error for empty key")
		}
	})

	t.Run("Get missing key", func(t *testing.T) {
		repo := NewLocalStorageRepository(setupTestDB(t))

		_, err := repo.Get("token")
		if !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		repo := NewLocalStorageRepository(setupTestDB(t))

		item := models.NewStorageItem("token", "old")
		if err := repo.Create(item); err != nil {
			t.Fatalf("failed to create item: %v", err)
		}

		item.SetValue("new")
		if err := repo.Update(item); err != nil {
			t.Fatalf("failed to update item: %v", err)
		}

		got, err := repo.Get("token")
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}
		if got.Value() != "new" {
			t.Errorf("expected value new, got %s", got.Value())
		}
	})

	t.Run("Update missing key", func(t *testing.T) {
		repo := NewLocalStorageRepository(setupTestDB(t))

		err := repo.Update(models.NewStorageItem("token", "value"))
		if !errors.Is(err, shared.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Put is last write wins", func(t *testing.T) {
		repo := NewLocalStorageRepository(setupTestDB(t))

		for _, v := range []string{"first", "second", "third"} {
			if err := repo.Put("token", v); err != nil {
				t.Fatalf("Put(%s) error = %v", v, err)
			}
		}

		got, err := repo.Get("token")
		if err != nil {
			t.Fatalf("failed to get item: %v", err)
		}
		if got.Value() != "third" {
			t.Errorf("expected value third, got %s", got.Value())
		}
	})

	t.Run("Delete is idempotent", func(t *testing.T) {
		repo := NewLocalStorageRepository(setupTestDB(t))

		if err := repo.Put("token", "abc123"); err != nil {
			t.Fatalf("Put() error = %v", err)
		}
		if err := repo.Delete("token"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := repo.Delete("token"); err != nil {
			t.Fatalf("second Delete() error = %v", err)
		}
		if _, err := repo.Get("token"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("List with prefix", func(t *testing.T) {
		repo := NewLocalStorageRepository(setupTestDB(t))

		for _, k := range []string{"ui.last_path", "token", "ui.theme", "ui_x"} {
			if err := repo.Put(k, "v"); err != nil {
				t.Fatalf("Put(%s) error = %v", k, err)
			}
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(all) != 4 {
			t.Errorf("expected 4 items, got %d", len(all))
		}

		ui, err := repo.List(map[string]any{"prefix": "ui."})
		if err != nil {
			t.Fatalf("List(prefix) error = %v", err)
		}
		if len(ui) != 2 {
			t.Fatalf("expected 2 items with prefix ui., got %d", len(ui))
		}
		if ui[0].Key() != "ui.last_path" || ui[1].Key() != "ui.theme" {
			t.Errorf("unexpected keys %s, %s", ui[0].Key(), ui[1].Key())
		}
	})

	t.Run("closed database", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewLocalStorageRepository(db)
		db.Close()

		if _, err := repo.Get("token"); err == nil || errors.Is(err, shared.ErrNotFound) {
			t.Errorf("expected a non-NotFound error from a closed database, got %v", err)
		}
		if err := repo.Put("token", "v"); err == nil {
			t.Error("expected Put to fail on a closed database")
		}
	})
}
