package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartlights/business/occupancy"
	"smartlights/domain"
)

// ModelStateRepository stores serialized model snapshots keyed by name.
type ModelStateRepository struct {
	DB *gorm.DB
}

var _ occupancy.StateRepository = (*ModelStateRepository)(nil)

func NewModelStateRepository(db *gorm.DB) *ModelStateRepository {
	return &ModelStateRepository{DB: db}
}

func (r *ModelStateRepository) GetState(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var snapshot domain.ModelSnapshot
	err := r.DB.WithContext(ctx).First(&snapshot, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query model snapshot: %w", err)
	}
	return snapshot.State, nil
}

func (r *ModelStateRepository) SaveState(ctx context.Context, key string, raw []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	snapshot := domain.ModelSnapshot{
		Key:       key,
		State:     raw,
		UpdatedAt: time.Now(),
	}
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"state", "updated_at"}),
		}).
		Create(&snapshot).Error
	if err != nil {
		return fmt.Errorf("failed to upsert model snapshot: %w", err)
	}
	return nil
}
