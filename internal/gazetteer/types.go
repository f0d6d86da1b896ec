// file: internal/gazetteer/types.go
// version: 1.2.0
// guid: 3e4f5a6b-7c8d-9e0f-1a2b-3c4d5e6f7a8b

package gazetteer

import "time"

// EntityType identifies a level of the administrative hierarchy.
type EntityType string

const (
	TypeState    EntityType = "STATE"
	TypeDistrict EntityType = "DISTRICT"
	TypeMandal   EntityType = "MANDAL"
	TypeVillage  EntityType = "VILLAGE"

	// TypeSuggestion marks the synthetic "place may not exist yet" entry.
	// It is never persisted and never returned by a store.
	TypeSuggestion EntityType = "suggestion"
)

// SearchableTypes lists the four persisted entity types in hierarchy order.
// The assembler iterates this slice so merge order is deterministic.
var SearchableTypes = []EntityType{TypeState, TypeDistrict, TypeMandal, TypeVillage}

// ParseEntityType maps a string to a searchable EntityType. Unknown values
// return false; callers silently drop them per the request contract.
func ParseEntityType(s string) (EntityType, bool) {
	switch EntityType(s) {
	case TypeState, TypeDistrict, TypeMandal, TypeVillage:
		return EntityType(s), true
	}
	return "", false
}

// ChildType returns the entity type one level below t, or "" for villages.
func ChildType(t EntityType) EntityType {
	switch t {
	case TypeState:
		return TypeDistrict
	case TypeDistrict:
		return TypeMandal
	case TypeMandal:
		return TypeVillage
	}
	return ""
}

// Place is one administrative entity. When returned from a name-match
// lookup the ancestor id/name fields are resolved; plain CRUD reads may
// leave them empty.
type Place struct {
	ID       string     `json:"id"`
	Type     EntityType `json:"type"`
	Name     string     `json:"name"`
	ParentID *string    `json:"parent_id,omitempty"`
	TenantID *string    `json:"tenant_id,omitempty"` // villages only

	// Resolved ancestor chain (nearest first in the hierarchy sense).
	StateID      *string `json:"state_id,omitempty"`
	StateName    *string `json:"state_name,omitempty"`
	DistrictID   *string `json:"district_id,omitempty"`
	DistrictName *string `json:"district_name,omitempty"`
	MandalID     *string `json:"mandal_id,omitempty"`
	MandalName   *string `json:"mandal_name,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Translation is a localized name for a place in one language.
type Translation struct {
	PlaceID      string `json:"place_id"`
	LanguageCode string `json:"language_code"`
	Name         string `json:"name"`
}

// SearchRequest carries one search call. Zero values are usable: an empty
// Types slice means all four entity types, Limit 0 becomes DefaultLimit.
type SearchRequest struct {
	Query             string
	Limit             int
	Types             []EntityType
	IncludeSuggestion bool
	TenantID          *string
}

// SearchResult is one ranked hit, constructed fresh per call and never
// persisted. ID is nil only for the synthetic suggestion entry.
type SearchResult struct {
	Type        EntityType `json:"type"`
	ID          *string    `json:"id"`
	Name        string     `json:"name"`
	DisplayName string     `json:"display_name"`

	StateID      *string `json:"state_id,omitempty"`
	StateName    *string `json:"state_name,omitempty"`
	DistrictID   *string `json:"district_id,omitempty"`
	DistrictName *string `json:"district_name,omitempty"`
	MandalID     *string `json:"mandal_id,omitempty"`
	MandalName   *string `json:"mandal_name,omitempty"`
	VillageID    *string `json:"village_id,omitempty"`
	VillageName  *string `json:"village_name,omitempty"`

	// Address is the ancestor chain, nearest ancestor first,
	// e.g. "Tadepalligudem, West Godavari, Andhra Pradesh" for a village.
	Address  string  `json:"address"`
	TenantID *string `json:"tenant_id,omitempty"`

	Score float64 `json:"score"`
}

// Limit bounds for SearchRequest.
const (
	DefaultLimit = 20
	MaxLimit     = 50
)
