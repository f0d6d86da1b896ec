// file: internal/server/search_service_test.go
// version: 1.1.0
// guid: 5d6e7f8a-9b0c-1d2e-3f4a-5b6c7d8e9f0a

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/gazetteer/internal/config"
	"github.com/gramseva/gazetteer/internal/database"
	"github.com/gramseva/gazetteer/internal/gazetteer"
)

func newTestServer(t *testing.T) (*Server, *database.MockStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.InitConfig()
	store := database.NewMockStore()
	return NewServer(store), store
}

func seedDistricts(t *testing.T, store *database.MockStore) {
	t.Helper()
	ctx := context.Background()
	state, err := store.CreatePlace(ctx, &gazetteer.Place{Type: gazetteer.TypeState, Name: "Andhra Pradesh"})
	require.NoError(t, err)
	for _, name := range []string{"Visakhapatnam", "Guntur", "Chittoor", "Kurnool", "YSR Kadapa"} {
		_, err := store.CreatePlace(ctx, &gazetteer.Place{
			Type: gazetteer.TypeDistrict, Name: name, ParentID: &state.ID,
		})
		require.NoError(t, err)
	}
}

type searchResponse struct {
	Query   string                   `json:"query"`
	Count   int                      `json:"count"`
	Results []gazetteer.SearchResult `json:"results"`
}

func doSearch(t *testing.T, srv *Server, url string) (int, searchResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var body searchResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w.Code, body
}

func TestHandleSearch(t *testing.T) {
	srv, store := newTestServer(t)
	seedDistricts(t, store)

	code, body := doSearch(t, srv, "/api/v1/search?q=vizag")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, body.Results)
	assert.Equal(t, "Visakhapatnam", body.Results[0].Name)
	assert.Equal(t, "Visakhapatnam, Andhra Pradesh", body.Results[0].DisplayName)
	assert.Equal(t, len(body.Results), body.Count)
}

func TestHandleSearch_EmptyQuery(t *testing.T) {
	srv, store := newTestServer(t)
	seedDistricts(t, store)

	code, body := doSearch(t, srv, "/api/v1/search?q=")
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, body.Count)
	assert.NotNil(t, body.Results)
	assert.Empty(t, body.Results)
}

func TestHandleSearch_Suggestion(t *testing.T) {
	srv, store := newTestServer(t)
	seedDistricts(t, store)

	code, body := doSearch(t, srv, "/api/v1/search?q=gunttur&suggest=true")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, body.Results)
	assert.Equal(t, gazetteer.TypeSuggestion, body.Results[0].Type)
	assert.Nil(t, body.Results[0].ID)
	assert.Equal(t, "gunttur", body.Results[0].Name)
}

func TestHandleSearch_TypesFilter(t *testing.T) {
	srv, store := newTestServer(t)
	seedDistricts(t, store)

	code, body := doSearch(t, srv, "/api/v1/search?q=guntur&types=district")
	require.Equal(t, http.StatusOK, code)
	require.NotEmpty(t, body.Results)
	for _, r := range body.Results {
		assert.Equal(t, gazetteer.TypeDistrict, r.Type)
	}
}

func TestHandleSearch_LimitValidation(t *testing.T) {
	srv, store := newTestServer(t)
	seedDistricts(t, store)

	code, _ := doSearch(t, srv, "/api/v1/search?q=guntur&limit=abc")
	assert.Equal(t, http.StatusBadRequest, code)

	code, body := doSearch(t, srv, "/api/v1/search?q=guntur&limit=1")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body.Results, 1)
}

func TestHandleSearch_StoreFailureStillResponds(t *testing.T) {
	srv, store := newTestServer(t)
	seedDistricts(t, store)
	store.FindErr = assert.AnError

	code, body := doSearch(t, srv, "/api/v1/search?q=guntur")
	require.Equal(t, http.StatusOK, code, "lookups failing must not fail the request")
	assert.Empty(t, body.Results)
}
