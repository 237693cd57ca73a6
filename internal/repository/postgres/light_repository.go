package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartlights/domain"
)

type LightRepository struct {
	DB *gorm.DB
}

func NewLightRepository(db *gorm.DB) *LightRepository {
	return &LightRepository{DB: db}
}

func (r *LightRepository) GetAll(ctx context.Context) ([]domain.Light, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var lights []domain.Light
	if err := r.DB.WithContext(ctx).Find(&lights).Error; err != nil {
		return nil, fmt.Errorf("failed to query lights: %w", err)
	}
	return lights, nil
}

func (r *LightRepository) Upsert(ctx context.Context, light domain.Light) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "room"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status",
				"brightness",
				"color_temperature",
				"motion_detected",
			}),
		}).
		Create(&light).Error
	if err != nil {
		return fmt.Errorf("failed to upsert light: %w", err)
	}
	return nil
}

// SaveStates persists the full runtime state map.
func (r *LightRepository) SaveStates(ctx context.Context, states map[string]domain.LightState) error {
	for room, state := range states {
		light := domain.Light{
			Room:             room,
			Status:           state.Status,
			Brightness:       state.Brightness,
			ColorTemperature: state.ColorTemperature,
			MotionDetected:   state.MotionDetected,
		}
		if err := r.Upsert(ctx, light); err != nil {
			return err
		}
	}
	return nil
}

// LoadStates reads persisted light rows into a runtime state map.
func (r *LightRepository) LoadStates(ctx context.Context) (map[string]domain.LightState, error) {
	lights, err := r.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	states := make(map[string]domain.LightState, len(lights))
	for _, l := range lights {
		states[l.Room] = domain.LightState{
			Status:           l.Status,
			Brightness:       l.Brightness,
			ColorTemperature: l.ColorTemperature,
			MotionDetected:   l.MotionDetected,
		}
	}
	return states, nil
}
