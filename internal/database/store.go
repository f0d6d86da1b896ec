// file: internal/database/store.go
// version: 1.4.0
// guid: 2c3d4e5f-6a7b-8c9d-0e1f-2a3b4c5d6e7f

package database

import (
	"context"
	"fmt"

	"github.com/gramseva/gazetteer/internal/gazetteer"
)

// Store defines the persistence operations the gazetteer needs. The search
// engine only consumes FindByNameMatch; the remaining methods exist so data
// can be created, imported, and served over the API.
type Store interface {
	// Lifecycle
	Close() error
	Reset() error

	// Name-match lookup for the search engine. Candidates are matched
	// case-insensitively as exact, prefix, or substring against canonical
	// and translated names. Returned places carry resolved ancestor names.
	FindByNameMatch(ctx context.Context, entityType gazetteer.EntityType, candidates []string, tenantID *string) ([]gazetteer.Place, error)

	// Places
	CreatePlace(ctx context.Context, place *gazetteer.Place) (*gazetteer.Place, error) // Generates ULID if ID is empty
	GetPlaceByID(ctx context.Context, id string) (*gazetteer.Place, error)
	GetPlaceByName(ctx context.Context, entityType gazetteer.EntityType, name string, parentID *string) (*gazetteer.Place, error)
	ListChildren(ctx context.Context, parentID string) ([]gazetteer.Place, error)
	ListByType(ctx context.Context, entityType gazetteer.EntityType, limit, offset int) ([]gazetteer.Place, error)
	UpdatePlace(ctx context.Context, id string, place *gazetteer.Place) (*gazetteer.Place, error)
	DeletePlace(ctx context.Context, id string) error
	CountByType(ctx context.Context) (map[gazetteer.EntityType]int, error)

	// Translations
	UpsertTranslation(ctx context.Context, tr *gazetteer.Translation) error
	GetTranslations(ctx context.Context, placeID string) ([]gazetteer.Translation, error)
}

// Global store instance
var GlobalStore Store

// InitializeStore opens the SQLite store at path and installs it as the
// global instance.
func InitializeStore(path string) error {
	store, err := NewSQLiteStore(path)
	if err != nil {
		return fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	GlobalStore = store
	return nil
}

// CloseStore closes the global store
func CloseStore() error {
	if GlobalStore != nil {
		return GlobalStore.Close()
	}
	return nil
}
