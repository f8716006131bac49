package services

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"go.uber.org/zap"

	"master-data-service/models"
	"master-data-service/repository"
)

const (
	// searchChunkSize bounds the IN-list size when hydrating matched SKUs.
	searchChunkSize = 250
	// searchConcurrency bounds parallel hydration fetches.
	searchConcurrency = 4
)

// SearchService pages master rows by variation-SKU prefix.
type SearchService interface {
	Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, *ServiceError)
}

type searchService struct {
	repo   repository.MasterRepository
	logger *zap.Logger
}

// NewSearchService creates a new SearchService.
func NewSearchService(repo repository.MasterRepository, logger *zap.Logger) SearchService {
	return &searchService{repo: repo, logger: logger}
}

func (s *searchService) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResult, *ServiceError) {
	req.Normalize()
	brand := models.ParseBrand(req.Brand)

	skus, total, err := s.repo.SearchVariations(ctx, brand.VariationView(), req.Query, req.PageSize, req.Offset())
	if err != nil {
		s.logger.Error("variation search failed",
			zap.String("brand", string(brand)),
			zap.String("query", req.Query),
			zap.Error(err),
		)
		return nil, NewServiceError(http.StatusInternalServerError, "search failed")
	}

	pageCount := int((total + int64(req.PageSize) - 1) / int64(req.PageSize))
	if pageCount < 1 {
		pageCount = 1
	}
	if len(skus) == 0 {
		return &models.SearchResult{
			Rows:      []map[string]interface{}{},
			Total:     total,
			PageCount: pageCount,
			Shown:     0,
		}, nil
	}

	rows, err := s.hydrate(ctx, brand.MasterView(), skus)
	if err != nil {
		s.logger.Error("row hydration failed",
			zap.String("brand", string(brand)),
			zap.Error(err),
		)
		return nil, NewServiceError(http.StatusInternalServerError, "search failed")
	}

	sortRows(rows)
	return &models.SearchResult{
		Rows:      rows,
		Total:     total,
		PageCount: pageCount,
		Shown:     distinctVariations(rows),
	}, nil
}

// distinctVariations counts the distinct variation SKUs actually present in
// the hydrated rows, not in the requested page.
func distinctVariations(rows []map[string]interface{}) int {
	seen := make(map[string]struct{}, len(rows))
	for _, rec := range rows {
		if v, ok := models.NormalizeForCompare(rec[string(models.HeaderVariationSKU)]); ok {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}

// hydrate fetches the full master rows for the page of variation SKUs,
// chunked and fetched concurrently.
func (s *searchService) hydrate(ctx context.Context, view string, skus []string) ([]map[string]interface{}, error) {
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
		rows     []map[string]interface{}
	)
	sem := make(chan struct{}, searchConcurrency)

	for start := 0; start < len(skus); start += searchChunkSize {
		end := start + searchChunkSize
		if end > len(skus) {
			end = len(skus)
		}
		chunk := skus[start:end]

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			fetched, err := s.repo.FetchByVariations(ctx, view, chunk)
			if err != nil {
				once.Do(func() { firstErr = err })
				return
			}
			mu.Lock()
			rows = append(rows, fetched...)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return rows, nil
}

func sortRows(rows []map[string]interface{}) {
	key := func(rec map[string]interface{}, col models.Header) string {
		v, _ := models.NormalizeForCompare(rec[string(col)])
		return v
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a := key(rows[i], models.HeaderVariationSKU)
		b := key(rows[j], models.HeaderVariationSKU)
		if a != b {
			return a < b
		}
		return key(rows[i], models.HeaderItemSKU) < key(rows[j], models.HeaderItemSKU)
	})
}
