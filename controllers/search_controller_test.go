package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"master-data-service/controllers"
	"master-data-service/models"
	"master-data-service/services"
)

// ---- mock search service ----

type mockSearchService struct {
	result *models.SearchResult
	err    *services.ServiceError
	gotReq *models.SearchRequest
}

func (m *mockSearchService) Search(_ context.Context, req *models.SearchRequest) (*models.SearchResult, *services.ServiceError) {
	m.gotReq = req
	return m.result, m.err
}

func searchRouter(svc services.SearchService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller := controllers.NewSearchController(svc, nil)
	r.POST("/api/search", controller.Search)
	return r
}

func searchRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/search", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ---- tests ----

func TestSearchEndpoint_Success(t *testing.T) {
	svc := &mockSearchService{result: &models.SearchResult{
		Rows:      []map[string]interface{}{{"VARIATION_SKU": "V1", "ITEM_SKU": "I1"}},
		Total:     1,
		PageCount: 1,
		Shown:     1,
	}}
	r := searchRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchRequest(`{"brand":"pan","query":"V1"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, svc.gotReq) {
		assert.Equal(t, "PAN", svc.gotReq.Brand)
		assert.Equal(t, "V1", svc.gotReq.Query)
		assert.Equal(t, models.DefaultSearchPageSize, svc.gotReq.PageSize)
	}

	var resp models.SearchResult
	assert.Nil(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.Total)
	assert.Len(t, resp.Rows, 1)
}

func TestSearchEndpoint_EmptyBodyUsesDefaults(t *testing.T) {
	svc := &mockSearchService{result: &models.SearchResult{Rows: []map[string]interface{}{}, PageCount: 1}}
	r := searchRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchRequest(``))

	assert.Equal(t, http.StatusOK, w.Code)
	if assert.NotNil(t, svc.gotReq) {
		assert.Equal(t, "PAN", svc.gotReq.Brand)
		assert.Equal(t, 1, svc.gotReq.CurrentPage)
	}
}

func TestSearchEndpoint_InvalidBrand(t *testing.T) {
	r := searchRouter(&mockSearchService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchRequest(`{"brand":"NIKE"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint_MalformedJSON(t *testing.T) {
	r := searchRouter(&mockSearchService{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchRequest(`{"brand":`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchEndpoint_ServiceError(t *testing.T) {
	svc := &mockSearchService{err: services.NewServiceError(http.StatusInternalServerError, "search failed")}
	r := searchRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, searchRequest(`{"query":"V1"}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "search failed")
}
