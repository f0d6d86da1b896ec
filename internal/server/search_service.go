// file: internal/server/search_service.go
// version: 1.2.0
// guid: 3b4c5d6e-7f8a-9b0c-1d2e-3f4a5b6c7d8e

package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gramseva/gazetteer/internal/config"
	"github.com/gramseva/gazetteer/internal/gazetteer"
)

// handleSearch serves GET /api/v1/search.
//
// Query parameters:
//
//	q       the search text (may be empty, returns an empty list)
//	limit   max results, clamped to 1..50, default 20
//	types   comma-separated subset of STATE,DISTRICT,MANDAL,VILLAGE
//	suggest when true, prepend the synthetic new-village suggestion
//	tenant  tenant id scoping village results
func (s *Server) handleSearch(c *gin.Context) {
	req := gazetteer.SearchRequest{
		Query:             c.Query("q"),
		IncludeSuggestion: parseBool(c.Query("suggest")),
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			RespondWithBadRequest(c, "limit must be an integer")
			return
		}
		req.Limit = limit
	}

	if raw := c.Query("types"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.ToUpper(strings.TrimSpace(part))
			if part == "" {
				continue
			}
			// Unknown types ride along; the engine drops them silently.
			req.Types = append(req.Types, gazetteer.EntityType(part))
		}
	}

	if tenant := c.Query("tenant"); tenant != "" {
		req.TenantID = &tenant
	}

	ctx := c.Request.Context()
	if timeout := config.AppConfig.SearchTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	results := s.engine.Search(ctx, req)
	if results == nil {
		results = []gazetteer.SearchResult{}
	}

	c.JSON(http.StatusOK, gin.H{
		"query":   req.Query,
		"count":   len(results),
		"results": results,
	})
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes":
		return true
	}
	return false
}
