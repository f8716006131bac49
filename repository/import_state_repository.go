package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"master-data-service/models"
)

// GormImportStateRepository implements ImportStateRepository using GORM.
type GormImportStateRepository struct {
	db *gorm.DB
}

// NewGormImportStateRepository creates a new GormImportStateRepository.
func NewGormImportStateRepository(db *gorm.DB) ImportStateRepository {
	return &GormImportStateRepository{db: db}
}

func (r *GormImportStateRepository) Get(ctx context.Context, brand string) (*models.ImportState, error) {
	var state models.ImportState
	err := r.db.WithContext(ctx).
		Where("brand = ?", brand).
		Take(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (r *GormImportStateRepository) Upsert(ctx context.Context, state *models.ImportState) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "brand"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"date_key", "file_name", "imported_at",
				"row_count", "inserted", "updated", "unchanged",
			}),
		}).
		Create(state).Error
}
