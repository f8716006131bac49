package repository

import (
	"context"

	"master-data-service/models"
)

// MasterRepository defines data access against the per-brand master views.
// The views are schema-on-read: callers pass the view name and the column
// projection, and rows come back as generic maps.
type MasterRepository interface {
	// ProbeColumns runs a limit-1 select of the given columns. A missing
	// column surfaces as the underlying store error for the caller to
	// classify.
	ProbeColumns(ctx context.Context, view string, columns []string) error
	// FetchBySKUs returns the rows whose ITEM_SKU is in skus, projected to
	// the given columns.
	FetchBySKUs(ctx context.Context, view string, columns []string, skus []string) ([]map[string]interface{}, error)
	// InsertRows bulk-inserts the projected rows.
	InsertRows(ctx context.Context, view string, rows []map[string]interface{}) error
	// UpdateBySKU applies a column patch to the single row keyed by ITEM_SKU.
	UpdateBySKU(ctx context.Context, view string, itemSKU string, patch map[string]interface{}) error
	// SearchVariations pages variation SKUs matching the prefix, returning
	// the page and the exact total match count.
	SearchVariations(ctx context.Context, view string, prefix string, limit, offset int) ([]string, int64, error)
	// FetchByVariations returns full master rows for the given variation SKUs.
	FetchByVariations(ctx context.Context, view string, variations []string) ([]map[string]interface{}, error)
}

// ImportStateRepository defines access to the per-brand import ledger.
type ImportStateRepository interface {
	// Get returns the ledger row for the brand, or (nil, nil) when the brand
	// has never been imported. A missing ledger table surfaces as an error
	// for the caller to classify.
	Get(ctx context.Context, brand string) (*models.ImportState, error)
	// Upsert writes the ledger row, keyed by brand (last write wins).
	Upsert(ctx context.Context, state *models.ImportState) error
}

// ArchiveLocation identifies where an uploaded file was archived.
type ArchiveLocation struct {
	Bucket string `json:"bucket"`
	Path   string `json:"path"`
}

// ArchiveStore persists raw upload bytes for auditing.
type ArchiveStore interface {
	Store(ctx context.Context, brand, dateKey, filename, contentType string, data []byte) (*ArchiveLocation, error)
}
