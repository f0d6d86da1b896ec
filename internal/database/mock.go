// file: internal/database/mock.go
// version: 1.3.0
// guid: 4e5f6a7b-8c9d-0e1f-2a3b-4c5d6e7f8a9b

package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gramseva/gazetteer/internal/gazetteer"
)

// MockStore is an in-memory Store for tests. It mirrors the SQLite store's
// matching and validation behavior closely enough for handler and engine
// tests without touching disk.
type MockStore struct {
	mu           sync.RWMutex
	places       map[string]gazetteer.Place
	translations map[string][]gazetteer.Translation
	nextID       int

	// FindErr, when set, makes FindByNameMatch fail for every type.
	FindErr error
}

// NewMockStore creates an empty in-memory store.
func NewMockStore() *MockStore {
	return &MockStore{
		places:       make(map[string]gazetteer.Place),
		translations: make(map[string][]gazetteer.Translation),
	}
}

func (m *MockStore) Close() error { return nil }

func (m *MockStore) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.places = make(map[string]gazetteer.Place)
	m.translations = make(map[string][]gazetteer.Translation)
	return nil
}

func (m *MockStore) FindByNameMatch(_ context.Context, entityType gazetteer.EntityType, candidates []string, tenantID *string) ([]gazetteer.Place, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []gazetteer.Place
	for _, p := range m.places {
		if p.Type != entityType {
			continue
		}
		if entityType == gazetteer.TypeVillage && tenantID != nil {
			if p.TenantID == nil || *p.TenantID != *tenantID {
				continue
			}
		}
		names := []string{p.Name}
		for _, tr := range m.translations[p.ID] {
			names = append(names, tr.Name)
		}
		if !matchesAny(candidates, names) {
			continue
		}
		out = append(out, m.resolveLocked(p))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func matchesAny(candidates, names []string) bool {
	for _, c := range candidates {
		lc := strings.ToLower(c)
		for _, n := range names {
			if strings.Contains(strings.ToLower(n), lc) {
				return true
			}
		}
	}
	return false
}

// resolveLocked fills the ancestor chain; callers hold at least a read lock.
func (m *MockStore) resolveLocked(p gazetteer.Place) gazetteer.Place {
	cur := p
	for cur.ParentID != nil {
		parent, ok := m.places[*cur.ParentID]
		if !ok {
			break
		}
		id, name := parent.ID, parent.Name
		switch parent.Type {
		case gazetteer.TypeState:
			p.StateID, p.StateName = &id, &name
		case gazetteer.TypeDistrict:
			p.DistrictID, p.DistrictName = &id, &name
		case gazetteer.TypeMandal:
			p.MandalID, p.MandalName = &id, &name
		}
		cur = parent
	}
	return p
}

func (m *MockStore) CreatePlace(_ context.Context, place *gazetteer.Place) (*gazetteer.Place, error) {
	if _, ok := gazetteer.ParseEntityType(string(place.Type)); !ok {
		return nil, fmt.Errorf("invalid entity type: %s", place.Type)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if place.Type == gazetteer.TypeState && place.ParentID != nil {
		return nil, fmt.Errorf("a state cannot have a parent")
	}
	if place.Type != gazetteer.TypeState && place.ParentID == nil {
		return nil, fmt.Errorf("%s requires a parent", place.Type)
	}
	if place.ParentID != nil {
		parent, ok := m.places[*place.ParentID]
		if !ok {
			return nil, fmt.Errorf("parent %s not found", *place.ParentID)
		}
		if gazetteer.ChildType(parent.Type) != place.Type {
			return nil, fmt.Errorf("%s cannot be a child of %s", place.Type, parent.Type)
		}
	}

	stored := *place
	if stored.ID == "" {
		m.nextID++
		stored.ID = fmt.Sprintf("mock-%04d", m.nextID)
	}
	now := time.Now()
	stored.CreatedAt = &now
	m.places[stored.ID] = stored

	resolved := m.resolveLocked(stored)
	return &resolved, nil
}

func (m *MockStore) GetPlaceByID(_ context.Context, id string) (*gazetteer.Place, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.places[id]
	if !ok {
		return nil, nil
	}
	resolved := m.resolveLocked(p)
	return &resolved, nil
}

func (m *MockStore) GetPlaceByName(_ context.Context, entityType gazetteer.EntityType, name string, parentID *string) (*gazetteer.Place, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.places {
		if p.Type != entityType || !strings.EqualFold(p.Name, name) {
			continue
		}
		if (parentID == nil) != (p.ParentID == nil) {
			continue
		}
		if parentID != nil && *parentID != *p.ParentID {
			continue
		}
		resolved := m.resolveLocked(p)
		return &resolved, nil
	}
	return nil, nil
}

func (m *MockStore) ListChildren(_ context.Context, parentID string) ([]gazetteer.Place, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []gazetteer.Place
	for _, p := range m.places {
		if p.ParentID != nil && *p.ParentID == parentID {
			out = append(out, m.resolveLocked(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockStore) ListByType(_ context.Context, entityType gazetteer.EntityType, limit, offset int) ([]gazetteer.Place, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var all []gazetteer.Place
	for _, p := range m.places {
		if p.Type == entityType {
			all = append(all, m.resolveLocked(p))
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (m *MockStore) UpdatePlace(_ context.Context, id string, place *gazetteer.Place) (*gazetteer.Place, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.places[id]
	if !ok {
		return nil, fmt.Errorf("place %s not found", id)
	}
	existing.Name = place.Name
	existing.TenantID = place.TenantID
	now := time.Now()
	existing.UpdatedAt = &now
	m.places[id] = existing
	resolved := m.resolveLocked(existing)
	return &resolved, nil
}

func (m *MockStore) DeletePlace(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.places[id]; !ok {
		return fmt.Errorf("place %s not found", id)
	}
	for _, p := range m.places {
		if p.ParentID != nil && *p.ParentID == id {
			return fmt.Errorf("place %s has children", id)
		}
	}
	delete(m.places, id)
	delete(m.translations, id)
	return nil
}

func (m *MockStore) CountByType(_ context.Context) (map[gazetteer.EntityType]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[gazetteer.EntityType]int)
	for _, t := range gazetteer.SearchableTypes {
		counts[t] = 0
	}
	for _, p := range m.places {
		counts[p.Type]++
	}
	return counts, nil
}

func (m *MockStore) UpsertTranslation(_ context.Context, tr *gazetteer.Translation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.places[tr.PlaceID]; !ok {
		return fmt.Errorf("place %s not found", tr.PlaceID)
	}
	list := m.translations[tr.PlaceID]
	for i, existing := range list {
		if existing.LanguageCode == tr.LanguageCode {
			list[i] = *tr
			m.translations[tr.PlaceID] = list
			return nil
		}
	}
	m.translations[tr.PlaceID] = append(list, *tr)
	return nil
}

func (m *MockStore) GetTranslations(_ context.Context, placeID string) ([]gazetteer.Translation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := append([]gazetteer.Translation(nil), m.translations[placeID]...)
	sort.Slice(out, func(i, j int) bool { return out[i].LanguageCode < out[j].LanguageCode })
	return out, nil
}
