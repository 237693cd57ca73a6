package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"smartlights/domain"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Save(ctx context.Context, entry domain.ActivityLog) (domain.ActivityLog, error) {
	if err := ctx.Err(); err != nil {
		return domain.ActivityLog{}, fmt.Errorf("context error: %w", err)
	}

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	if err := r.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return domain.ActivityLog{}, fmt.Errorf("failed to save activity log: %w", err)
	}
	return entry, nil
}

func (r *ActivityRepository) List(ctx context.Context, filter domain.ActivityFilter, limit, offset int) ([]domain.ActivityLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}

	query := r.DB.WithContext(ctx).Model(&domain.ActivityLog{})
	if filter.Room != "" {
		query = query.Where("room = ?", filter.Room)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("action ILIKE ? OR user_name ILIKE ?", pattern, pattern)
	}

	var logs []domain.ActivityLog
	err := query.
		Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query activity logs: %w", err)
	}
	return logs, nil
}
