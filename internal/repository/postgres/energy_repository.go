package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"smartlights/domain"
)

type EnergyRepository struct {
	DB *gorm.DB
}

func NewEnergyRepository(db *gorm.DB) *EnergyRepository {
	return &EnergyRepository{DB: db}
}

func (r *EnergyRepository) Save(ctx context.Context, usage domain.EnergyUsage) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&usage).Error; err != nil {
		return fmt.Errorf("failed to save energy usage: %w", err)
	}
	return nil
}

func (r *EnergyRepository) GetSince(ctx context.Context, room string, since time.Time) ([]domain.EnergyUsage, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var usages []domain.EnergyUsage
	err := r.DB.WithContext(ctx).
		Where("room = ? AND timestamp >= ?", room, since).
		Order("timestamp ASC").
		Find(&usages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query energy usage: %w", err)
	}
	return usages, nil
}

// TotalKWhSince sums recorded consumption per room.
func (r *EnergyRepository) TotalKWhSince(ctx context.Context, since time.Time) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	type rowTotal struct {
		Room  string
		Total float64
	}
	var rows []rowTotal
	err := r.DB.WithContext(ctx).
		Model(&domain.EnergyUsage{}).
		Select("room, SUM(energy_kwh) AS total").
		Where("timestamp >= ?", since).
		Group("room").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate energy usage: %w", err)
	}

	out := make(map[string]float64, len(rows))
	for _, row := range rows {
		out[row.Room] = row.Total
	}
	return out, nil
}
