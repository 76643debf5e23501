// package repositories provides persistence layer implementations for all model types.
package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/wasaphoto/internal/models"
	"github.com/desertthunder/wasaphoto/internal/shared"
)

var _ models.Repository[*models.StorageItem] = (*LocalStorageRepository)(nil)

// LocalStorageRepository implements [models.Repository] for [models.StorageItem] persistence.
type LocalStorageRepository struct {
	db *sql.DB
}

// NewLocalStorageRepository creates a new [LocalStorageRepository] with the given database connection
func NewLocalStorageRepository(db *sql.DB) *LocalStorageRepository {
	return &LocalStorageRepository{db: db}
}

// Create inserts a new item. Fails if the key already exists.
func (r *LocalStorageRepository) Create(item *models.StorageItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `INSERT INTO local_storage (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)`

	_, err := r.db.Exec(query, item.Key(), item.Value(), item.CreatedAt(), item.UpdatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}
	return nil
}

// Get retrieves an item by key.
func (r *LocalStorageRepository) Get(key string) (*models.StorageItem, error) {
	query := `SELECT key, value, created_at, updated_at FROM local_storage WHERE key = ?`

	var (
		k         string
		value     string
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.db.QueryRow(query, key).Scan(&k, &value, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: storage key %s", shared.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query item: %w", err)
	}

	item := models.NewStorageItem(k, value)
	item.SetCreatedAt(createdAt)
	item.SetUpdatedAt(updatedAt)
	return item, nil
}

// Update overwrites the value of an existing item.
func (r *LocalStorageRepository) Update(item *models.StorageItem) error {
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	item.SetUpdatedAt(now)

	result, err := r.db.Exec(`UPDATE local_storage SET value = ?, updated_at = ? WHERE key = ?`, item.Value(), now, item.Key())
	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: storage key %s", shared.ErrNotFound, item.Key())
	}
	return nil
}

// Put inserts or overwrites the value stored under key in a single statement.
func (r *LocalStorageRepository) Put(key, value string) error {
	item := models.NewStorageItem(key, value)
	if err := item.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO local_storage (key, value, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, item.CreatedAt(), item.UpdatedAt()); err != nil {
		return fmt.Errorf("failed to put item: %w", err)
	}
	return nil
}

// Delete removes an item by key. Deleting a missing key is not an error.
func (r *LocalStorageRepository) Delete(key string) error {
	if _, err := r.db.Exec(`DELETE FROM local_storage WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// List retrieves all items ordered by key. The "prefix" criterion filters keys.
func (r *LocalStorageRepository) List(criteria map[string]any) ([]*models.StorageItem, error) {
	query := `SELECT key, value, created_at, updated_at FROM local_storage`
	args := []any{}

	if prefix, ok := criteria["prefix"].(string); ok && prefix != "" {
		query += " WHERE key LIKE ? ESCAPE '\\'"
		args = append(args, escapeLike(prefix)+"%")
	}
	query += " ORDER BY key ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*models.StorageItem
	for rows.Next() {
		var (
			key       string
			value     string
			createdAt time.Time
			updatedAt time.Time
		)
		if err := rows.Scan(&key, &value, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}

		item := models.NewStorageItem(key, value)
		item.SetCreatedAt(createdAt)
		item.SetUpdatedAt(updatedAt)
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	return string(out)
}
