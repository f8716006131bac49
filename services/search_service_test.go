package services_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"master-data-service/models"
	"master-data-service/services"
)

func newSearchService(repo *mockMasterRepo) services.SearchService {
	logger, _ := zap.NewDevelopment()
	return services.NewSearchService(repo, logger)
}

func TestSearch_ReturnsSortedPage(t *testing.T) {
	repo := &mockMasterRepo{
		searchSKUs: []string{"V2", "V1"},
		searchTot:  2,
		variationRows: []map[string]interface{}{
			{"VARIATION_SKU": "V2", "ITEM_SKU": "I3"},
			{"VARIATION_SKU": "V1", "ITEM_SKU": "I2"},
			{"VARIATION_SKU": "V1", "ITEM_SKU": "I1"},
		},
	}
	svc := newSearchService(repo)

	req := &models.SearchRequest{Brand: "PAN", Query: "V"}
	result, serr := svc.Search(context.Background(), req)
	assert.Nil(t, serr)
	assert.Equal(t, int64(2), result.Total)
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, 2, result.Shown)

	// Sorted by VARIATION_SKU, then ITEM_SKU.
	assert.Len(t, result.Rows, 3)
	assert.Equal(t, "I1", result.Rows[0]["ITEM_SKU"])
	assert.Equal(t, "I2", result.Rows[1]["ITEM_SKU"])
	assert.Equal(t, "I3", result.Rows[2]["ITEM_SKU"])
}

func TestSearch_EmptyResult(t *testing.T) {
	repo := &mockMasterRepo{searchSKUs: nil, searchTot: 0}
	svc := newSearchService(repo)

	result, serr := svc.Search(context.Background(), &models.SearchRequest{Query: "ZZZ"})
	assert.Nil(t, serr)
	assert.Empty(t, result.Rows)
	assert.Equal(t, int64(0), result.Total)
	assert.Equal(t, 1, result.PageCount)
	assert.Equal(t, 0, result.Shown)
}

func TestSearch_ShownCountsHydratedVariationsOnly(t *testing.T) {
	// V2 matches in the variation view but has no master row; it must not
	// inflate the shown count.
	repo := &mockMasterRepo{
		searchSKUs: []string{"V1", "V2"},
		searchTot:  2,
		variationRows: []map[string]interface{}{
			{"VARIATION_SKU": "V1", "ITEM_SKU": "I1"},
			{"VARIATION_SKU": "V1", "ITEM_SKU": "I2"},
		},
	}
	svc := newSearchService(repo)

	result, serr := svc.Search(context.Background(), &models.SearchRequest{Query: "V"})
	assert.Nil(t, serr)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, 1, result.Shown)
}

func TestSearch_PageCount(t *testing.T) {
	repo := &mockMasterRepo{
		searchSKUs: []string{"V1"},
		searchTot:  251,
		variationRows: []map[string]interface{}{
			{"VARIATION_SKU": "V1", "ITEM_SKU": "I1"},
		},
	}
	svc := newSearchService(repo)

	req := &models.SearchRequest{PageSize: 100, CurrentPage: 1}
	result, serr := svc.Search(context.Background(), req)
	assert.Nil(t, serr)
	assert.Equal(t, 3, result.PageCount)
}

func TestSearch_SearchError(t *testing.T) {
	repo := &mockMasterRepo{searchErr: errors.New("timeout")}
	svc := newSearchService(repo)

	_, serr := svc.Search(context.Background(), &models.SearchRequest{})
	if assert.NotNil(t, serr) {
		assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	}
}

func TestSearch_HydrationError(t *testing.T) {
	repo := &mockMasterRepo{
		searchSKUs:   []string{"V1"},
		searchTot:    1,
		variationErr: errors.New("timeout"),
	}
	svc := newSearchService(repo)

	_, serr := svc.Search(context.Background(), &models.SearchRequest{})
	if assert.NotNil(t, serr) {
		assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
	}
}

func TestSearchRequest_Normalize(t *testing.T) {
	req := &models.SearchRequest{Brand: "arena", Query: "  V1 ", PageSize: 5000, CurrentPage: 0}
	req.Normalize()
	assert.Equal(t, "ARENA", req.Brand)
	assert.Equal(t, "V1", req.Query)
	assert.Equal(t, models.MaxSearchPageSize, req.PageSize)
	assert.Equal(t, 1, req.CurrentPage)
	assert.Equal(t, 0, req.Offset())

	req = &models.SearchRequest{CurrentPage: 3, PageSize: 50}
	req.Normalize()
	assert.Equal(t, 100, req.Offset())
}
