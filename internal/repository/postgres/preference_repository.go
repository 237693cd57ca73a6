package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartlights/domain"
)

type PreferenceRepository struct {
	DB *gorm.DB
}

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

func (r *PreferenceRepository) GetAll(ctx context.Context) ([]domain.UserPreferenceRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.UserPreferenceRecord
	if err := r.DB.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query user preferences: %w", err)
	}
	return records, nil
}

func (r *PreferenceRepository) UpsertAll(ctx context.Context, records []domain.UserPreferenceRecord) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_name"}, {Name: "room"}, {Name: "time_bucket"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"brightness",
				"samples",
				"updated_at",
			}),
		}).
		Create(&records).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user preferences: %w", err)
	}
	return nil
}
