// file: internal/server/place_service.go
// version: 1.3.0
// guid: 4c5d6e7f-8a9b-0c1d-2e3f-4a5b6c7d8e9f

package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/gazetteer/internal/gazetteer"
)

// createPlaceRequest is the POST /places payload.
type createPlaceRequest struct {
	Type     string  `json:"type" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	ParentID *string `json:"parent_id"`
	TenantID *string `json:"tenant_id"`
}

// updatePlaceRequest is the PUT /places/:id payload.
type updatePlaceRequest struct {
	Name     string  `json:"name" binding:"required"`
	TenantID *string `json:"tenant_id"`
}

// translationRequest is the POST /places/:id/translations payload.
type translationRequest struct {
	LanguageCode string `json:"language_code" binding:"required"`
	Name         string `json:"name" binding:"required"`
}

func (s *Server) createPlace(c *gin.Context) {
	var req createPlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	entityType, ok := gazetteer.ParseEntityType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if !ok {
		RespondWithBadRequest(c, "type must be one of STATE, DISTRICT, MANDAL, VILLAGE")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		RespondWithBadRequest(c, "name must not be blank")
		return
	}

	ctx := c.Request.Context()
	if existing, err := s.store.GetPlaceByName(ctx, entityType, name, req.ParentID); err == nil && existing != nil {
		RespondWithConflict(c, string(entityType)+" already exists: "+existing.ID)
		return
	}

	place, err := s.store.CreatePlace(ctx, &gazetteer.Place{
		Type:     entityType,
		Name:     name,
		ParentID: req.ParentID,
		TenantID: req.TenantID,
	})
	if err != nil {
		RespondWithBadRequest(c, err.Error())
		return
	}
	RespondWithCreated(c, place)
}

func (s *Server) getPlace(c *gin.Context) {
	place, err := s.store.GetPlaceByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithInternalError(c, "failed to load place")
		return
	}
	if place == nil {
		RespondWithNotFound(c, "place", c.Param("id"))
		return
	}
	RespondWithOK(c, place)
}

func (s *Server) listPlaces(c *gin.Context) {
	entityType, ok := gazetteer.ParseEntityType(strings.ToUpper(c.Query("type")))
	if !ok {
		RespondWithBadRequest(c, "type query parameter is required and must be one of STATE, DISTRICT, MANDAL, VILLAGE")
		return
	}

	limit := parseIntDefault(c.Query("limit"), 100)
	offset := parseIntDefault(c.Query("offset"), 0)
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	places, err := s.store.ListByType(c.Request.Context(), entityType, limit, offset)
	if err != nil {
		RespondWithInternalError(c, "failed to list places")
		return
	}
	if places == nil {
		places = []gazetteer.Place{}
	}
	c.JSON(200, gin.H{
		"items":  places,
		"count":  len(places),
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) updatePlace(c *gin.Context) {
	var req updatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		RespondWithBadRequest(c, "name must not be blank")
		return
	}

	ctx := c.Request.Context()
	existing, err := s.store.GetPlaceByID(ctx, c.Param("id"))
	if err != nil {
		RespondWithInternalError(c, "failed to load place")
		return
	}
	if existing == nil {
		RespondWithNotFound(c, "place", c.Param("id"))
		return
	}

	updated, err := s.store.UpdatePlace(ctx, existing.ID, &gazetteer.Place{
		Name:     name,
		TenantID: req.TenantID,
	})
	if err != nil {
		RespondWithInternalError(c, err.Error())
		return
	}
	RespondWithOK(c, updated)
}

func (s *Server) deletePlace(c *gin.Context) {
	ctx := c.Request.Context()
	existing, err := s.store.GetPlaceByID(ctx, c.Param("id"))
	if err != nil {
		RespondWithInternalError(c, "failed to load place")
		return
	}
	if existing == nil {
		RespondWithNotFound(c, "place", c.Param("id"))
		return
	}

	if err := s.store.DeletePlace(ctx, existing.ID); err != nil {
		RespondWithConflict(c, err.Error())
		return
	}
	RespondWithNoContent(c)
}

func (s *Server) listChildren(c *gin.Context) {
	ctx := c.Request.Context()
	parent, err := s.store.GetPlaceByID(ctx, c.Param("id"))
	if err != nil {
		RespondWithInternalError(c, "failed to load place")
		return
	}
	if parent == nil {
		RespondWithNotFound(c, "place", c.Param("id"))
		return
	}

	children, err := s.store.ListChildren(ctx, parent.ID)
	if err != nil {
		RespondWithInternalError(c, "failed to list children")
		return
	}
	if children == nil {
		children = []gazetteer.Place{}
	}
	c.JSON(200, gin.H{
		"parent": parent,
		"items":  children,
		"count":  len(children),
	})
}

func (s *Server) listTranslations(c *gin.Context) {
	ctx := c.Request.Context()
	place, err := s.store.GetPlaceByID(ctx, c.Param("id"))
	if err != nil {
		RespondWithInternalError(c, "failed to load place")
		return
	}
	if place == nil {
		RespondWithNotFound(c, "place", c.Param("id"))
		return
	}

	translations, err := s.store.GetTranslations(ctx, place.ID)
	if err != nil {
		RespondWithInternalError(c, "failed to list translations")
		return
	}
	if translations == nil {
		translations = []gazetteer.Translation{}
	}
	c.JSON(200, gin.H{
		"items": translations,
		"count": len(translations),
	})
}

func (s *Server) addTranslation(c *gin.Context) {
	var req translationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondWithBadRequest(c, "invalid request body: "+err.Error())
		return
	}

	tr := &gazetteer.Translation{
		PlaceID:      c.Param("id"),
		LanguageCode: strings.ToLower(strings.TrimSpace(req.LanguageCode)),
		Name:         strings.TrimSpace(req.Name),
	}
	if tr.LanguageCode == "" || tr.Name == "" {
		RespondWithBadRequest(c, "language_code and name must not be blank")
		return
	}

	if err := s.store.UpsertTranslation(c.Request.Context(), tr); err != nil {
		RespondWithNotFound(c, "place", tr.PlaceID)
		return
	}
	RespondWithCreated(c, tr)
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
