// file: internal/database/sqlite_store.go
// version: 1.6.0
// guid: 3d4e5f6a-7b8c-9d0e-1f2a-3b4c5d6e7f8a

package database

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	ulid "github.com/oklog/ulid/v2"

	"github.com/gramseva/gazetteer/internal/gazetteer"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// placeSelectColumns selects a place plus three levels of ancestors. a1 is
// the direct parent, a2 the grandparent, a3 the great-grandparent; which of
// those is the state depends on the row's own type.
const placeSelectColumns = `
	p.id, p.type, p.name, p.parent_id, p.tenant_id, p.created_at, p.updated_at,
	a1.id, a1.name, a2.id, a2.name, a3.id, a3.name
`

const placeSelectJoins = `
	FROM places p
	LEFT JOIN places a1 ON a1.id = p.parent_id
	LEFT JOIN places a2 ON a2.id = a1.parent_id
	LEFT JOIN places a3 ON a3.id = a2.parent_id
`

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}

	// Create tables
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

// createTables creates all required tables
func (s *SQLiteStore) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS places (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL CHECK (type IN ('STATE','DISTRICT','MANDAL','VILLAGE')),
		name TEXT NOT NULL,
		parent_id TEXT,
		tenant_id TEXT,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME,
		FOREIGN KEY (parent_id) REFERENCES places(id)
	);

	CREATE INDEX IF NOT EXISTS idx_places_type_name ON places(type, name);
	CREATE INDEX IF NOT EXISTS idx_places_parent ON places(parent_id);
	CREATE INDEX IF NOT EXISTS idx_places_tenant ON places(tenant_id);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_places_identity
		ON places(type, name, COALESCE(parent_id, ''), COALESCE(tenant_id, ''));

	CREATE TABLE IF NOT EXISTS place_translations (
		place_id TEXT NOT NULL,
		language_code TEXT NOT NULL,
		name TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (place_id, language_code),
		FOREIGN KEY (place_id) REFERENCES places(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_place_translations_name ON place_translations(name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Reset drops all rows. Intended for tests and re-imports.
func (s *SQLiteStore) Reset() error {
	if _, err := s.db.Exec("DELETE FROM place_translations"); err != nil {
		return fmt.Errorf("failed to reset translations: %w", err)
	}
	if _, err := s.db.Exec("DELETE FROM places"); err != nil {
		return fmt.Errorf("failed to reset places: %w", err)
	}
	return nil
}

func newPlaceID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate ULID: %w", err)
	}
	return id.String(), nil
}

// escapeLike neutralizes LIKE wildcards in user-supplied text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// scanPlace reads one placeSelectColumns row and resolves the ancestor chain
// according to the row's own type.
func scanPlace(scanner rowScanner) (*gazetteer.Place, error) {
	var p gazetteer.Place
	var parentID, tenantID sql.NullString
	var createdAt time.Time
	var updatedAt sql.NullTime
	var a1ID, a1Name, a2ID, a2Name, a3ID, a3Name sql.NullString

	err := scanner.Scan(
		&p.ID, &p.Type, &p.Name, &parentID, &tenantID, &createdAt, &updatedAt,
		&a1ID, &a1Name, &a2ID, &a2Name, &a3ID, &a3Name,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		p.ParentID = &parentID.String
	}
	if tenantID.Valid {
		p.TenantID = &tenantID.String
	}
	p.CreatedAt = &createdAt
	if updatedAt.Valid {
		p.UpdatedAt = &updatedAt.Time
	}

	set := func(dst **string, v sql.NullString) {
		if v.Valid {
			*dst = &v.String
		}
	}
	switch p.Type {
	case gazetteer.TypeDistrict:
		set(&p.StateID, a1ID)
		set(&p.StateName, a1Name)
	case gazetteer.TypeMandal:
		set(&p.DistrictID, a1ID)
		set(&p.DistrictName, a1Name)
		set(&p.StateID, a2ID)
		set(&p.StateName, a2Name)
	case gazetteer.TypeVillage:
		set(&p.MandalID, a1ID)
		set(&p.MandalName, a1Name)
		set(&p.DistrictID, a2ID)
		set(&p.DistrictName, a2Name)
		set(&p.StateID, a3ID)
		set(&p.StateName, a3Name)
	}
	return &p, nil
}

func collectPlaces(rows *sql.Rows) ([]gazetteer.Place, error) {
	defer rows.Close()
	var places []gazetteer.Place
	for rows.Next() {
		p, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, *p)
	}
	return places, rows.Err()
}

// FindByNameMatch returns places of the given type whose canonical or
// translated name matches any candidate case-insensitively as an exact,
// prefix, or substring match. A substring LIKE covers all three cases.
// Village lookups honor the tenant filter when one is supplied.
func (s *SQLiteStore) FindByNameMatch(ctx context.Context, entityType gazetteer.EntityType, candidates []string, tenantID *string) ([]gazetteer.Place, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var nameClauses, trClauses []string
	var args []interface{}
	patterns := make([]string, 0, len(candidates))
	for _, c := range candidates {
		patterns = append(patterns, "%"+escapeLike(strings.ToLower(c))+"%")
	}
	for range patterns {
		nameClauses = append(nameClauses, `lower(p.name) LIKE ? ESCAPE '\'`)
	}
	for range patterns {
		trClauses = append(trClauses, `lower(tr.name) LIKE ? ESCAPE '\'`)
	}

	query := "SELECT " + placeSelectColumns + placeSelectJoins + `
		WHERE p.type = ?
		AND (
			(` + strings.Join(nameClauses, " OR ") + `)
			OR EXISTS (
				SELECT 1 FROM place_translations tr
				WHERE tr.place_id = p.id
				AND (` + strings.Join(trClauses, " OR ") + `)
			)
		)`
	args = append(args, string(entityType))
	for _, pat := range patterns {
		args = append(args, pat)
	}
	for _, pat := range patterns {
		args = append(args, pat)
	}

	if entityType == gazetteer.TypeVillage && tenantID != nil {
		query += " AND p.tenant_id = ?"
		args = append(args, *tenantID)
	}
	query += " ORDER BY p.name, p.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s matches: %w", entityType, err)
	}
	return collectPlaces(rows)
}

// Place operations

func (s *SQLiteStore) CreatePlace(ctx context.Context, place *gazetteer.Place) (*gazetteer.Place, error) {
	if _, ok := gazetteer.ParseEntityType(string(place.Type)); !ok {
		return nil, fmt.Errorf("invalid entity type: %s", place.Type)
	}
	if place.Type == gazetteer.TypeState && place.ParentID != nil {
		return nil, fmt.Errorf("a state cannot have a parent")
	}
	if place.Type != gazetteer.TypeState && place.ParentID == nil {
		return nil, fmt.Errorf("%s requires a parent", place.Type)
	}
	if place.Type != gazetteer.TypeVillage && place.TenantID != nil {
		return nil, fmt.Errorf("tenant scope applies to villages only")
	}

	if place.ParentID != nil {
		parent, err := s.GetPlaceByID(ctx, *place.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, fmt.Errorf("parent %s not found", *place.ParentID)
		}
		if gazetteer.ChildType(parent.Type) != place.Type {
			return nil, fmt.Errorf("%s cannot be a child of %s", place.Type, parent.Type)
		}
	}

	id := place.ID
	if id == "" {
		var err error
		if id, err = newPlaceID(); err != nil {
			return nil, err
		}
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO places (id, type, name, parent_id, tenant_id) VALUES (?, ?, ?, ?, ?)",
		id, string(place.Type), place.Name, place.ParentID, place.TenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to create place: %w", err)
	}
	return s.GetPlaceByID(ctx, id)
}

func (s *SQLiteStore) GetPlaceByID(ctx context.Context, id string) (*gazetteer.Place, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+placeSelectColumns+placeSelectJoins+" WHERE p.id = ?", id)
	p, err := scanPlace(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLiteStore) GetPlaceByName(ctx context.Context, entityType gazetteer.EntityType, name string, parentID *string) (*gazetteer.Place, error) {
	query := "SELECT " + placeSelectColumns + placeSelectJoins +
		" WHERE p.type = ? AND lower(p.name) = lower(?)"
	args := []interface{}{string(entityType), name}
	if parentID != nil {
		query += " AND p.parent_id = ?"
		args = append(args, *parentID)
	} else {
		query += " AND p.parent_id IS NULL"
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	p, err := scanPlace(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLiteStore) ListChildren(ctx context.Context, parentID string) ([]gazetteer.Place, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+placeSelectColumns+placeSelectJoins+" WHERE p.parent_id = ? ORDER BY p.name, p.id", parentID)
	if err != nil {
		return nil, err
	}
	return collectPlaces(rows)
}

func (s *SQLiteStore) ListByType(ctx context.Context, entityType gazetteer.EntityType, limit, offset int) ([]gazetteer.Place, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+placeSelectColumns+placeSelectJoins+
			" WHERE p.type = ? ORDER BY p.name, p.id LIMIT ? OFFSET ?",
		string(entityType), limit, offset)
	if err != nil {
		return nil, err
	}
	return collectPlaces(rows)
}

func (s *SQLiteStore) UpdatePlace(ctx context.Context, id string, place *gazetteer.Place) (*gazetteer.Place, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE places SET name = ?, tenant_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		place.Name, place.TenantID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update place: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("place %s not found", id)
	}
	return s.GetPlaceByID(ctx, id)
}

func (s *SQLiteStore) DeletePlace(ctx context.Context, id string) error {
	var children int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM places WHERE parent_id = ?", id).Scan(&children); err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("place %s has %d children", id, children)
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM places WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete place: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("place %s not found", id)
	}
	return nil
}

func (s *SQLiteStore) CountByType(ctx context.Context) (map[gazetteer.EntityType]int, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT type, COUNT(*) FROM places GROUP BY type")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[gazetteer.EntityType]int)
	for _, t := range gazetteer.SearchableTypes {
		counts[t] = 0
	}
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		counts[gazetteer.EntityType(t)] = n
	}
	return counts, rows.Err()
}

// Translation operations

func (s *SQLiteStore) UpsertTranslation(ctx context.Context, tr *gazetteer.Translation) error {
	place, err := s.GetPlaceByID(ctx, tr.PlaceID)
	if err != nil {
		return err
	}
	if place == nil {
		return fmt.Errorf("place %s not found", tr.PlaceID)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO place_translations (place_id, language_code, name)
		VALUES (?, ?, ?)
		ON CONFLICT(place_id, language_code)
		DO UPDATE SET name = excluded.name, updated_at = CURRENT_TIMESTAMP`,
		tr.PlaceID, tr.LanguageCode, tr.Name)
	if err != nil {
		return fmt.Errorf("failed to upsert translation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetTranslations(ctx context.Context, placeID string) ([]gazetteer.Translation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT place_id, language_code, name FROM place_translations WHERE place_id = ? ORDER BY language_code",
		placeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []gazetteer.Translation
	for rows.Next() {
		var tr gazetteer.Translation
		if err := rows.Scan(&tr.PlaceID, &tr.LanguageCode, &tr.Name); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}
