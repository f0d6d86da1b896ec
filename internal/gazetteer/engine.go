// file: internal/gazetteer/engine.go
// version: 1.3.0
// guid: 8e9f0a1b-2c3d-4e5f-6a7b-8c9d0e1f2a3b

package gazetteer

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gramseva/gazetteer/internal/metrics"
)

// Store is the collaborator the engine queries during assembly. The store
// decides how a candidate matches (exact, prefix, or substring across
// canonical and translated names); the engine only supplies candidates and
// consumes records with resolved ancestor names.
type Store interface {
	FindByNameMatch(ctx context.Context, entityType EntityType, candidates []string, tenantID *string) ([]Place, error)
}

// Engine turns a raw query into a ranked list of places. It holds no state
// beyond the injected store and is safe for concurrent use.
type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Search runs the full pipeline: validate, normalize, expand variants, fan
// out one lookup per entity type, merge, score against the original query,
// rank, and truncate. It never returns an error: an empty or unusable query
// yields an empty list, and a failed lookup degrades to zero results for
// that type.
func (e *Engine) Search(ctx context.Context, req SearchRequest) []SearchResult {
	start := time.Now()
	metrics.IncSearch()
	defer func() { metrics.ObserveSearchDuration(time.Since(start)) }()

	limit := clampLimit(req.Limit)
	types := requestedTypes(req.Types)

	normalized := Normalize(req.Query)
	if normalized == "" {
		metrics.IncSearchEmptyQuery()
		return []SearchResult{}
	}

	candidates := ExpandVariants(req.Query)
	metrics.ObserveVariantCount(len(candidates))

	merged := e.assemble(ctx, types, candidates, req.TenantID)

	query := strings.TrimSpace(req.Query)
	for i := range merged {
		merged[i].Score = Score(query, merged[i].Name)
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		return strings.ToLower(merged[i].Name) < strings.ToLower(merged[j].Name)
	})

	results := merged
	if req.IncludeSuggestion {
		results = append([]SearchResult{suggestionEntry(query)}, merged...)
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// assemble dispatches one store lookup per requested type concurrently and
// merges the replies. Each goroutine writes only its own slot, so no lock is
// needed; merging happens after all lookups return. A failing type is logged
// and contributes nothing.
func (e *Engine) assemble(ctx context.Context, types []EntityType, candidates []string, tenantID *string) []SearchResult {
	hits := make([][]Place, len(types))

	var wg sync.WaitGroup
	for i, t := range types {
		wg.Add(1)
		go func(i int, t EntityType) {
			defer wg.Done()
			scope := tenantID
			if t != TypeVillage {
				scope = nil
			}
			places, err := e.store.FindByNameMatch(ctx, t, candidates, scope)
			if err != nil {
				log.Printf("[WARN] gazetteer: %s name-match lookup failed: %v", t, err)
				metrics.IncLookupFailed(string(t))
				return
			}
			hits[i] = places
		}(i, t)
	}
	wg.Wait()

	// Dedup on (type, id), first occurrence wins. Types are merged in
	// hierarchy order so repeated calls produce identical output.
	seen := make(map[EntityType]map[string]struct{})
	var merged []SearchResult
	for i, t := range types {
		if seen[t] == nil {
			seen[t] = make(map[string]struct{})
		}
		for _, p := range hits[i] {
			if _, dup := seen[t][p.ID]; dup {
				continue
			}
			seen[t][p.ID] = struct{}{}
			merged = append(merged, shapeResult(p))
		}
	}
	return merged
}

// shapeResult converts a store record into the uniform result shape,
// rendering the ancestor chain nearest-first.
func shapeResult(p Place) SearchResult {
	r := SearchResult{
		Type:         p.Type,
		ID:           strPtr(p.ID),
		Name:         p.Name,
		StateID:      p.StateID,
		StateName:    p.StateName,
		DistrictID:   p.DistrictID,
		DistrictName: p.DistrictName,
		MandalID:     p.MandalID,
		MandalName:   p.MandalName,
		TenantID:     p.TenantID,
	}

	var chain []string
	switch p.Type {
	case TypeState:
		r.StateID = strPtr(p.ID)
		r.StateName = strPtr(p.Name)
		chain = []string{p.Name}
	case TypeDistrict:
		r.DistrictID = strPtr(p.ID)
		r.DistrictName = strPtr(p.Name)
		chain = namesOf(p.StateName)
	case TypeMandal:
		r.MandalID = strPtr(p.ID)
		r.MandalName = strPtr(p.Name)
		chain = namesOf(p.DistrictName, p.StateName)
	case TypeVillage:
		r.VillageID = strPtr(p.ID)
		r.VillageName = strPtr(p.Name)
		chain = namesOf(p.MandalName, p.DistrictName, p.StateName)
	}
	r.Address = strings.Join(chain, ", ")

	if p.Type == TypeState || r.Address == "" {
		r.DisplayName = p.Name
	} else {
		r.DisplayName = p.Name + ", " + r.Address
	}
	return r
}

// suggestionEntry builds the synthetic "did you mean a new village?" result.
// It carries the user's own words, is exempt from scoring, and always sits
// at position 0.
func suggestionEntry(query string) SearchResult {
	return SearchResult{
		Type:        TypeSuggestion,
		ID:          nil,
		Name:        query,
		DisplayName: query,
	}
}

func clampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultLimit
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}

// requestedTypes filters the requested set down to known types, preserving
// hierarchy order and dropping duplicates. An empty request means all four.
func requestedTypes(requested []EntityType) []EntityType {
	if len(requested) == 0 {
		return SearchableTypes
	}
	want := make(map[EntityType]bool, len(requested))
	for _, t := range requested {
		if _, ok := ParseEntityType(string(t)); ok {
			want[t] = true
		}
	}
	if len(want) == 0 {
		return SearchableTypes
	}
	var out []EntityType
	for _, t := range SearchableTypes {
		if want[t] {
			out = append(out, t)
		}
	}
	return out
}

func strPtr(s string) *string { return &s }

func namesOf(parts ...*string) []string {
	var out []string
	for _, p := range parts {
		if p != nil && *p != "" {
			out = append(out, *p)
		}
	}
	return out
}
