package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"smartlights/domain"
)

type ScheduleRepository struct {
	DB *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{DB: db}
}

func (r *ScheduleRepository) Get(ctx context.Context, room string) (domain.RoomSchedule, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.RoomSchedule{}, false, fmt.Errorf("context error: %w", err)
	}

	var record domain.RoomScheduleRecord
	err := r.DB.WithContext(ctx).First(&record, "room = ?", room).Error
	if err == gorm.ErrRecordNotFound {
		return domain.RoomSchedule{}, false, nil
	}
	if err != nil {
		return domain.RoomSchedule{}, false, fmt.Errorf("failed to query schedule: %w", err)
	}

	sched, err := record.ToSchedule()
	if err != nil {
		return domain.RoomSchedule{}, false, err
	}
	return sched, true, nil
}

func (r *ScheduleRepository) GetAll(ctx context.Context) (map[string]domain.RoomSchedule, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var records []domain.RoomScheduleRecord
	if err := r.DB.WithContext(ctx).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}

	out := make(map[string]domain.RoomSchedule, len(records))
	for _, record := range records {
		sched, err := record.ToSchedule()
		if err != nil {
			return nil, err
		}
		out[record.Room] = sched
	}
	return out, nil
}

func (r *ScheduleRepository) Save(ctx context.Context, room string, sched domain.RoomSchedule) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	record, err := domain.ScheduleRecordFor(room, sched)
	if err != nil {
		return err
	}

	err = r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "room"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled",
				"vacation_mode",
				"sunrise_sunset",
				"adaptive",
				"daily_schedule",
			}),
		}).
		Create(&record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert schedule: %w", err)
	}
	return nil
}
