package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// GormMasterRepository implements MasterRepository using GORM over the
// per-brand Postgres views.
type GormMasterRepository struct {
	db *gorm.DB
}

// NewGormMasterRepository creates a new GormMasterRepository.
func NewGormMasterRepository(db *gorm.DB) MasterRepository {
	return &GormMasterRepository{db: db}
}

// quoteColumns renders a projection of the uppercase master columns; they
// need quoting or Postgres folds them to lowercase.
func quoteColumns(columns []string) string {
	quoted := make([]string, 0, len(columns))
	for _, c := range columns {
		quoted = append(quoted, fmt.Sprintf("%q", c))
	}
	return strings.Join(quoted, ",")
}

func (r *GormMasterRepository) ProbeColumns(ctx context.Context, view string, columns []string) error {
	var probe []map[string]interface{}
	return r.db.WithContext(ctx).
		Table(view).
		Select(quoteColumns(columns)).
		Limit(1).
		Find(&probe).Error
}

func (r *GormMasterRepository) FetchBySKUs(ctx context.Context, view string, columns []string, skus []string) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if len(skus) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table(view).
		Select(quoteColumns(columns)).
		Where(`"ITEM_SKU" IN ?`, skus).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormMasterRepository) InsertRows(ctx context.Context, view string, rows []map[string]interface{}) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Table(view).Create(&rows).Error
}

func (r *GormMasterRepository) UpdateBySKU(ctx context.Context, view string, itemSKU string, patch map[string]interface{}) error {
	if len(patch) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Table(view).
		Where(`"ITEM_SKU" = ?`, itemSKU).
		Updates(patch).Error
}

func (r *GormMasterRepository) SearchVariations(ctx context.Context, view string, prefix string, limit, offset int) ([]string, int64, error) {
	count := r.db.WithContext(ctx).Table(view)
	if prefix != "" {
		count = count.Where(`"VARIATION_SKU" ILIKE ?`, prefix+"%")
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := r.db.WithContext(ctx).Table(view)
	if prefix != "" {
		page = page.Where(`"VARIATION_SKU" ILIKE ?`, prefix+"%")
	}
	var skus []string
	err := page.
		Order(`"VARIATION_SKU" ASC`).
		Limit(limit).
		Offset(offset).
		Pluck(`"VARIATION_SKU"`, &skus).Error
	if err != nil {
		return nil, 0, err
	}
	return skus, total, nil
}

func (r *GormMasterRepository) FetchByVariations(ctx context.Context, view string, variations []string) ([]map[string]interface{}, error) {
	var rows []map[string]interface{}
	if len(variations) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table(view).
		Where(`"VARIATION_SKU" IN ?`, variations).
		Order(`"VARIATION_SKU" ASC`).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
