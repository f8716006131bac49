package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"master-data-service/services"
)

// SearchController serves variation-SKU prefix search over the master views.
type SearchController struct {
	service   services.SearchService
	cache     *CacheManager
	validator *RequestValidator
}

func NewSearchController(service services.SearchService, cache *CacheManager) *SearchController {
	return &SearchController{
		service:   service,
		cache:     cache,
		validator: NewRequestValidator(),
	}
}

// Search returns one page of master rows matched by variation-SKU prefix.
func (sc *SearchController) Search(c *gin.Context) {
	req, err := sc.validator.ParseSearchRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), DefaultContextTimeout)
	defer cancel()

	if sc.cache != nil {
		if cached, ok := sc.cache.GetSearchResult(ctx, req); ok {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, serr := sc.service.Search(ctx, req)
	if serr != nil {
		c.JSON(serr.StatusCode, gin.H{"error": serr.Message})
		return
	}

	if sc.cache != nil {
		sc.cache.SetSearchResultAsync(req, result)
	}

	zap.L().Info("Search served",
		zap.String("brand", req.Brand),
		zap.String("query", req.Query),
		zap.Int64("total", result.Total),
		zap.Int("shown", result.Shown),
	)
	c.JSON(http.StatusOK, result)
}
