// file: internal/server/place_service_test.go
// version: 1.1.0
// guid: 6e7f8a9b-0c1d-2e3f-4a5b-6c7d8e9f0a1b

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/gazetteer/internal/gazetteer"
)

type payload = map[string]any

func doJSON(t *testing.T, srv *Server, method, url string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(raw)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, url, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrapper))
	require.NoError(t, json.Unmarshal(wrapper.Data, out))
}

func TestCreatePlace(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/places", payload{"type": "state", "name": "Andhra Pradesh"})
	require.Equal(t, http.StatusCreated, w.Code)

	var state gazetteer.Place
	decodeData(t, w, &state)
	assert.NotEmpty(t, state.ID)
	assert.Equal(t, gazetteer.TypeState, state.Type)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/places", payload{
		"type": "DISTRICT", "name": "Krishna", "parent_id": state.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var district gazetteer.Place
	decodeData(t, w, &district)
	require.NotNil(t, district.StateName)
	assert.Equal(t, "Andhra Pradesh", *district.StateName)
}

func TestCreatePlace_Validation(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"missing name", payload{"type": "STATE"}, http.StatusBadRequest},
		{"unknown type", payload{"type": "COUNTRY", "name": "India"}, http.StatusBadRequest},
		{"blank name", payload{"type": "STATE", "name": "   "}, http.StatusBadRequest},
		{"district without parent", payload{"type": "DISTRICT", "name": "Krishna"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodPost, "/api/v1/places", tt.body)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestCreatePlace_Duplicate(t *testing.T) {
	srv, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/places", payload{"type": "STATE", "name": "Telangana"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodPost, "/api/v1/places", payload{"type": "STATE", "name": "telangana"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetPlace(t *testing.T) {
	srv, store := newTestServer(t)
	state, err := store.CreatePlace(context.Background(), &gazetteer.Place{
		Type: gazetteer.TypeState, Name: "Andhra Pradesh",
	})
	require.NoError(t, err)

	w := doJSON(t, srv, http.MethodGet, "/api/v1/places/"+state.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got gazetteer.Place
	decodeData(t, w, &got)
	assert.Equal(t, state.ID, got.ID)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/places/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListChildren(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()
	state, err := store.CreatePlace(ctx, &gazetteer.Place{Type: gazetteer.TypeState, Name: "Andhra Pradesh"})
	require.NoError(t, err)
	for _, name := range []string{"Krishna", "Guntur"} {
		_, err := store.CreatePlace(ctx, &gazetteer.Place{
			Type: gazetteer.TypeDistrict, Name: name, ParentID: &state.ID,
		})
		require.NoError(t, err)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/v1/places/"+state.ID+"/children", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []gazetteer.Place `json:"items"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)
	assert.Equal(t, "Guntur", body.Items[0].Name)
	assert.Equal(t, "Krishna", body.Items[1].Name)
}

func TestListPlaces(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()
	for _, name := range []string{"Andhra Pradesh", "Telangana"} {
		_, err := store.CreatePlace(ctx, &gazetteer.Place{Type: gazetteer.TypeState, Name: name})
		require.NoError(t, err)
	}

	w := doJSON(t, srv, http.MethodGet, "/api/v1/places?type=STATE", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items []gazetteer.Place `json:"items"`
		Count int               `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Count)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/places", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "type is required")
}

func TestUpdateAndDeletePlace(t *testing.T) {
	srv, store := newTestServer(t)
	ctx := context.Background()
	state, err := store.CreatePlace(ctx, &gazetteer.Place{Type: gazetteer.TypeState, Name: "Andhra Pradesh"})
	require.NoError(t, err)
	district, err := store.CreatePlace(ctx, &gazetteer.Place{
		Type: gazetteer.TypeDistrict, Name: "Krishna", ParentID: &state.ID,
	})
	require.NoError(t, err)

	w := doJSON(t, srv, http.MethodPut, "/api/v1/places/"+district.ID, payload{"name": "NTR"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated gazetteer.Place
	decodeData(t, w, &updated)
	assert.Equal(t, "NTR", updated.Name)

	// Deleting a place with children conflicts.
	w = doJSON(t, srv, http.MethodDelete, "/api/v1/places/"+state.ID, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, srv, http.MethodDelete, "/api/v1/places/"+district.ID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, srv, http.MethodDelete, "/api/v1/places/"+district.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTranslations(t *testing.T) {
	srv, store := newTestServer(t)
	state, err := store.CreatePlace(context.Background(), &gazetteer.Place{
		Type: gazetteer.TypeState, Name: "Andhra Pradesh",
	})
	require.NoError(t, err)

	w := doJSON(t, srv, http.MethodPost, "/api/v1/places/"+state.ID+"/translations", payload{
		"language_code": "TE", "name": "ఆంధ్రప్రదేశ్",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, srv, http.MethodGet, "/api/v1/places/"+state.ID+"/translations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items []gazetteer.Translation `json:"items"`
		Count int                     `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "te", body.Items[0].LanguageCode, "language codes normalize to lowercase")

	w = doJSON(t, srv, http.MethodPost, "/api/v1/places/missing/translations", payload{
		"language_code": "te", "name": "x",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthCheck(t *testing.T) {
	srv, store := newTestServer(t)
	_, err := store.CreatePlace(context.Background(), &gazetteer.Place{
		Type: gazetteer.TypeState, Name: "Andhra Pradesh",
	})
	require.NoError(t, err)

	w := doJSON(t, srv, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status string         `json:"status"`
		Places map[string]int `json:"places"`
		Total  int            `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, 1, body.Places["STATE"])
}
