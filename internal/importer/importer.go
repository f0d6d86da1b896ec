// file: internal/importer/importer.go
// version: 1.3.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/schollz/progressbar/v3"

	"github.com/gramseva/gazetteer/internal/database"
	"github.com/gramseva/gazetteer/internal/gazetteer"
	"github.com/gramseva/gazetteer/internal/metrics"
)

// Importer loads administrative boundaries from CSV into the store.
//
// The expected layout is one village per row with its full ancestor chain:
//
//	state,district,mandal,village[,<lang>...]
//
// Trailing cells may be blank, in which case the row only defines the
// shallower levels. Any extra header column is treated as a language code
// and its cell as the village's translated name in that language.
type Importer struct {
	store database.Store

	// ShowProgress renders a terminal progress bar during import.
	ShowProgress bool

	// TenantID scopes every imported village when set.
	TenantID *string
}

// Result summarizes one import run.
type Result struct {
	Rows     int                          `json:"rows"`
	Created  map[gazetteer.EntityType]int `json:"created"`
	Existing int                          `json:"existing"`
	Skipped  int                          `json:"skipped"`
	Warnings []string                     `json:"warnings,omitempty"`
}

func New(store database.Store) *Importer {
	return &Importer{store: store}
}

var requiredColumns = []string{"state", "district", "mandal", "village"}

// ImportCSV reads the full CSV and upserts every level of the hierarchy.
// Rows that cannot be applied are skipped with a warning; the import keeps
// going so one bad row does not abort a bulk load.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	languages, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV rows: %w", err)
	}

	var bar *progressbar.ProgressBar
	if im.ShowProgress {
		bar = progressbar.Default(int64(len(records)))
	}

	result := &Result{Created: make(map[gazetteer.EntityType]int)}
	// (type, parent, lowercased name) -> id, so repeated ancestors in
	// consecutive rows cost one store round-trip instead of four.
	cache := make(map[string]string)
	// parent id -> sibling names created this run, for near-duplicate checks.
	siblings := make(map[string][]string)

	for i, record := range records {
		if bar != nil {
			bar.Add(1)
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Rows++

		if err := im.importRow(ctx, record, languages, result, cache, siblings); err != nil {
			result.Skipped++
			metrics.IncImported("skipped")
			warn := fmt.Sprintf("row %d: %v", i+2, err)
			result.Warnings = append(result.Warnings, warn)
			log.Printf("[WARN] importer: %s", warn)
		}
	}
	return result, nil
}

// parseHeader validates the four fixed columns and returns the language
// codes of any extra translation columns, keyed by column index.
func parseHeader(header []string) (map[int]string, error) {
	if len(header) < len(requiredColumns) {
		return nil, fmt.Errorf("CSV header must start with %s", strings.Join(requiredColumns, ","))
	}
	for i, want := range requiredColumns {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return nil, fmt.Errorf("CSV column %d must be %q, got %q", i+1, want, header[i])
		}
	}
	languages := make(map[int]string)
	for i := len(requiredColumns); i < len(header); i++ {
		lang := strings.ToLower(strings.TrimSpace(header[i]))
		if lang == "" {
			return nil, fmt.Errorf("CSV column %d has an empty language code", i+1)
		}
		languages[i] = lang
	}
	return languages, nil
}

func (im *Importer) importRow(ctx context.Context, record []string, languages map[int]string, result *Result, cache map[string]string, siblings map[string][]string) error {
	names := make([]string, len(requiredColumns))
	for i := range requiredColumns {
		if i < len(record) {
			names[i] = strings.TrimSpace(record[i])
		}
	}
	if names[0] == "" {
		return fmt.Errorf("state name is empty")
	}

	var parentID *string
	var villageID string
	for depth, entityType := range gazetteer.SearchableTypes {
		name := names[depth]
		if name == "" {
			// A blank level must not have deeper levels under it.
			for _, rest := range names[depth:] {
				if rest != "" {
					return fmt.Errorf("%s is empty but a deeper level is set", entityType)
				}
			}
			break
		}

		id, err := im.ensurePlace(ctx, entityType, name, parentID, result, cache, siblings)
		if err != nil {
			return err
		}
		if entityType == gazetteer.TypeVillage {
			villageID = id
		}
		parentID = &id
	}

	if villageID != "" {
		for idx, lang := range languages {
			if idx >= len(record) {
				continue
			}
			translated := strings.TrimSpace(record[idx])
			if translated == "" {
				continue
			}
			err := im.store.UpsertTranslation(ctx, &gazetteer.Translation{
				PlaceID: villageID, LanguageCode: lang, Name: translated,
			})
			if err != nil {
				return fmt.Errorf("translation %s: %w", lang, err)
			}
		}
	}
	return nil
}

// ensurePlace returns the id of the named place, creating it if needed.
func (im *Importer) ensurePlace(ctx context.Context, entityType gazetteer.EntityType, name string, parentID *string, result *Result, cache map[string]string, siblings map[string][]string) (string, error) {
	key := cacheKey(entityType, parentID, name)
	if id, ok := cache[key]; ok {
		return id, nil
	}

	existing, err := im.store.GetPlaceByName(ctx, entityType, name, parentID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		cache[key] = existing.ID
		result.Existing++
		metrics.IncImported("existing")
		return existing.ID, nil
	}

	place := &gazetteer.Place{Type: entityType, Name: name, ParentID: parentID}
	if entityType == gazetteer.TypeVillage {
		place.TenantID = im.TenantID
	}
	created, err := im.store.CreatePlace(ctx, place)
	if err != nil {
		return "", err
	}
	cache[key] = created.ID
	result.Created[entityType]++
	metrics.IncImported("created")

	// Flag likely typos among siblings: "Kondapalli" next to "Kondapali"
	// is almost always the same village spelled twice.
	sibKey := "root"
	if parentID != nil {
		sibKey = *parentID
	}
	for _, other := range siblings[sibKey] {
		d := fuzzy.LevenshteinDistance(strings.ToLower(name), strings.ToLower(other))
		if d > 0 && d <= 2 {
			warn := fmt.Sprintf("%s %q is close to existing sibling %q, possible duplicate", entityType, name, other)
			result.Warnings = append(result.Warnings, warn)
			log.Printf("[WARN] importer: %s", warn)
		}
	}
	siblings[sibKey] = append(siblings[sibKey], name)

	return created.ID, nil
}

func cacheKey(entityType gazetteer.EntityType, parentID *string, name string) string {
	parent := ""
	if parentID != nil {
		parent = *parentID
	}
	return string(entityType) + "|" + parent + "|" + strings.ToLower(name)
}
