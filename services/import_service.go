package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"master-data-service/models"
	"master-data-service/repository"
)

const (
	// fetchChunkSize bounds the IN-list size when fetching existing rows.
	fetchChunkSize = 500
	// insertBatchSize bounds one bulk insert.
	insertBatchSize = 500
	// fetchConcurrency bounds parallel existing-row fetches.
	fetchConcurrency = 4

	stateReadWarning  = "master_import_state table not found; version-skip check disabled for now."
	stateWriteWarning = "master_import_state table not found; import state was not saved."
)

// MasterImportService reconciles an uploaded master workbook against the
// brand's remote view.
type MasterImportService interface {
	ProcessMasterUpload(ctx context.Context, data []byte, filename, contentType string) (*models.ImportSummary, *ServiceError)
}

type masterImportService struct {
	repo    repository.MasterRepository
	state   repository.ImportStateRepository
	archive repository.ArchiveStore
	logger  *zap.Logger
	now     func() time.Time

	// brandLocks serializes imports per brand within this process so the
	// version check and the apply phase cannot interleave across requests.
	brandLocks map[models.Brand]*sync.Mutex
}

// NewMasterImportService creates a new MasterImportService.
func NewMasterImportService(repo repository.MasterRepository, state repository.ImportStateRepository, archive repository.ArchiveStore, logger *zap.Logger) MasterImportService {
	locks := make(map[models.Brand]*sync.Mutex, len(models.Brands))
	for _, b := range models.Brands {
		locks[b] = &sync.Mutex{}
	}
	return &masterImportService{
		repo:       repo,
		state:      state,
		archive:    archive,
		logger:     logger,
		now:        time.Now,
		brandLocks: locks,
	}
}

type archiveResult struct {
	loc *repository.ArchiveLocation
	err error
}

func (s *masterImportService) ProcessMasterUpload(ctx context.Context, data []byte, filename, contentType string) (*models.ImportSummary, *ServiceError) {
	id, err := models.ParseMasterFilename(filename)
	if err != nil {
		return nil, NewServiceError(http.StatusBadRequest, err.Error())
	}
	log := s.logger.With(
		zap.String("brand", string(id.Brand)),
		zap.String("file", id.Filename),
		zap.String("dateKey", id.DateKey),
	)

	// Archival runs alongside parsing but every exit path below joins on it:
	// no write reaches the view until the raw file is safely stored.
	archCh := make(chan archiveResult, 1)
	go func() {
		loc, aerr := s.archive.Store(ctx, string(id.Brand), id.DateKey, id.Filename, contentType, data)
		archCh <- archiveResult{loc: loc, err: aerr}
	}()

	rows, err := ExtractRows(data, id.Filename, id.Brand)
	if err != nil {
		<-archCh
		return nil, NewServiceError(http.StatusBadRequest, err.Error())
	}

	lock := s.brandLocks[id.Brand]
	lock.Lock()
	defer lock.Unlock()

	var stateWarning string
	prev, err := s.state.Get(ctx, string(id.Brand))
	if err != nil {
		if !IsMissingStateTable(err.Error()) {
			<-archCh
			return nil, NewServiceError(http.StatusBadRequest, fmt.Sprintf("failed to read import state: %s", err.Error()))
		}
		log.Warn("import state table missing, skipping version check", zap.Error(err))
		stateWarning = stateReadWarning
	}

	if prev != nil && prev.DateKey >= id.DateKey {
		arch := <-archCh
		if arch.err != nil {
			return nil, NewServiceError(http.StatusBadRequest, arch.err.Error())
		}
		log.Info("skipping import, file is not newer than last imported",
			zap.String("lastDateKey", prev.DateKey),
		)
		return &models.ImportSummary{
			OK:            true,
			Brand:         string(id.Brand),
			File:          id.Filename,
			Status:        models.StatusSkipped,
			Total:         len(rows),
			DateKey:       id.DateKey,
			ArchiveBucket: arch.loc.Bucket,
			ArchivePath:   arch.loc.Path,
			StateWarning:  stateWarning,
			Reason:        fmt.Sprintf("File date %s is not newer than last imported %s", id.DateKey, prev.DateKey),
		}, nil
	}

	view := id.Brand.MasterView()
	headers, err := ResolveWritableHeaders(ctx, s.repo, view, log)
	if err != nil {
		<-archCh
		return nil, NewServiceError(http.StatusBadRequest, err.Error())
	}

	existing, err := s.fetchExisting(ctx, view, headers, rows)
	if err != nil {
		<-archCh
		return nil, NewServiceError(http.StatusBadRequest, fmt.Sprintf("failed to fetch existing rows: %s", err.Error()))
	}

	plan := BuildPlan(rows, existing, headers)

	arch := <-archCh
	if arch.err != nil {
		return nil, NewServiceError(http.StatusBadRequest, arch.err.Error())
	}

	if serr := s.applyPlan(ctx, view, headers, plan, log); serr != nil {
		return nil, serr
	}

	next := &models.ImportState{
		Brand:      string(id.Brand),
		DateKey:    id.DateKey,
		FileName:   id.Filename,
		ImportedAt: s.now().UTC(),
		RowCount:   len(rows),
		Inserted:   len(plan.Inserts),
		Updated:    len(plan.Updates),
		Unchanged:  plan.Unchanged,
	}
	if err := s.state.Upsert(ctx, next); err != nil {
		if !IsMissingStateTable(err.Error()) {
			return nil, NewServiceError(http.StatusBadRequest, fmt.Sprintf("failed to save import state: %s", err.Error()))
		}
		log.Warn("import state table missing, state not saved", zap.Error(err))
		stateWarning = stateWriteWarning
	}

	log.Info("master import finished",
		zap.Int("total", len(rows)),
		zap.Int("inserted", len(plan.Inserts)),
		zap.Int("updated", len(plan.Updates)),
		zap.Int("unchanged", plan.Unchanged),
	)
	return &models.ImportSummary{
		OK:            true,
		Brand:         string(id.Brand),
		File:          id.Filename,
		Status:        models.StatusImported,
		Total:         len(rows),
		Inserted:      len(plan.Inserts),
		Updated:       len(plan.Updates),
		Unchanged:     plan.Unchanged,
		DateKey:       id.DateKey,
		ArchiveBucket: arch.loc.Bucket,
		ArchivePath:   arch.loc.Path,
		StateWarning:  stateWarning,
	}, nil
}

// fetchExisting loads the current rows for every ITEM_SKU in the upload,
// chunked and fetched concurrently, merged into one map keyed by SKU.
func (s *masterImportService) fetchExisting(ctx context.Context, view string, headers []models.Header, rows []models.Row) (map[string]map[string]interface{}, error) {
	columns := make([]string, len(headers))
	for i, h := range headers {
		columns[i] = string(h)
	}

	skus := make([]string, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		key, ok := models.NormalizeForCompare(row[models.HeaderItemSKU])
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		skus = append(skus, key)
	}

	existing := make(map[string]map[string]interface{}, len(skus))
	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	sem := make(chan struct{}, fetchConcurrency)

	for start := 0; start < len(skus); start += fetchChunkSize {
		end := start + fetchChunkSize
		if end > len(skus) {
			end = len(skus)
		}
		chunk := skus[start:end]

		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			fetched, err := s.repo.FetchBySKUs(ctx, view, columns, chunk)
			if err != nil {
				once.Do(func() { firstErr = err })
				return
			}
			mu.Lock()
			defer mu.Unlock()
			for _, rec := range fetched {
				if key, ok := models.NormalizeForCompare(rec[string(models.HeaderItemSKU)]); ok {
					existing[key] = rec
				}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return existing, nil
}

// applyPlan writes the plan: batched inserts first, then per-row updates.
// The first write failure aborts; batches already written stay written.
func (s *masterImportService) applyPlan(ctx context.Context, view string, headers []models.Header, plan *ReconciliationPlan, log *zap.Logger) *ServiceError {
	for start := 0; start < len(plan.Inserts); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(plan.Inserts) {
			end = len(plan.Inserts)
		}
		batch := make([]map[string]interface{}, 0, end-start)
		for _, row := range plan.Inserts[start:end] {
			batch = append(batch, ProjectRow(row, headers))
		}
		if err := s.repo.InsertRows(ctx, view, batch); err != nil {
			log.Error("insert batch failed", zap.Int("offset", start), zap.Error(err))
			return NewServiceError(http.StatusBadRequest, fmt.Sprintf("failed to insert rows: %s", err.Error()))
		}
	}

	for _, upd := range plan.Updates {
		if err := s.repo.UpdateBySKU(ctx, view, upd.ItemSKU, upd.Patch); err != nil {
			log.Error("row update failed", zap.String("itemSku", upd.ItemSKU), zap.Error(err))
			return NewServiceError(http.StatusBadRequest, fmt.Sprintf("failed to update row %s: %s", upd.ItemSKU, err.Error()))
		}
	}
	return nil
}
