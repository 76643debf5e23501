// package models defines the data model for the wasaphoto client
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// StorageItem is one entry of the client's local key/value storage.
//
// The key doubles as the model ID.
type StorageItem struct {
	key       string
	value     string
	createdAt time.Time
	updatedAt time.Time
}

var _ Model = (*StorageItem)(nil)

// NewStorageItem creates a [StorageItem] with both timestamps set to now.
func NewStorageItem(key, value string) *StorageItem {
	now := time.Now()
	return &StorageItem{key: key, value: value, createdAt: now, updatedAt: now}
}

func (s *StorageItem) ID() string           { return s.key }
func (s *StorageItem) Key() string          { return s.key }
func (s *StorageItem) Value() string        { return s.value }
func (s *StorageItem) CreatedAt() time.Time { return s.createdAt }
func (s *StorageItem) UpdatedAt() time.Time { return s.updatedAt }

func (s *StorageItem) SetValue(v string)        { s.value = v }
func (s *StorageItem) SetCreatedAt(t time.Time) { s.createdAt = t }
func (s *StorageItem) SetUpdatedAt(t time.Time) { s.updatedAt = t }

// Validate requires a non-empty key. Empty values are allowed; they read back as "no value".
func (s *StorageItem) Validate() error {
	if s.key == "" {
		return fmt.Errorf("storage key is required")
	}
	return nil
}
