package domain

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

// ScheduleEvent is a single {time, action, brightness?} instruction inside a
// day's schedule. Time is a literal "HH:MM" string; the executor fires an
// event only when a tick lands exactly on that minute.
type ScheduleEvent struct {
	Time       string `json:"time"`
	Action     string `json:"action"`
	Brightness int    `json:"brightness,omitempty"`
}

// RoomSchedule is the full automation schedule for one room.
type RoomSchedule struct {
	Enabled       bool                       `json:"enabled"`
	VacationMode  bool                       `json:"vacation_mode"`
	SunriseSunset bool                       `json:"sunrise_sunset"`
	Adaptive      bool                       `json:"adaptive"`
	DailySchedule map[string][]ScheduleEvent `json:"daily_schedule"`
}

func EmptyRoomSchedule() RoomSchedule {
	return RoomSchedule{
		DailySchedule: make(map[string][]ScheduleEvent),
	}
}

// CREATE TABLE public.schedules (
//     room           TEXT PRIMARY KEY,
//     enabled        BOOLEAN,
//     vacation_mode  BOOLEAN,
//     sunrise_sunset BOOLEAN,
//     adaptive       BOOLEAN,
//     daily_schedule JSONB
// );

type RoomScheduleRecord struct {
	Room          string         `gorm:"column:room;primaryKey"`
	Enabled       bool           `gorm:"column:enabled"`
	VacationMode  bool           `gorm:"column:vacation_mode"`
	SunriseSunset bool           `gorm:"column:sunrise_sunset"`
	Adaptive      bool           `gorm:"column:adaptive"`
	DailySchedule datatypes.JSON `gorm:"column:daily_schedule;type:jsonb"`
}

func (RoomScheduleRecord) TableName() string {
	return "schedules"
}

func (r RoomScheduleRecord) ToSchedule() (RoomSchedule, error) {
	sched := RoomSchedule{
		Enabled:       r.Enabled,
		VacationMode:  r.VacationMode,
		SunriseSunset: r.SunriseSunset,
		Adaptive:      r.Adaptive,
		DailySchedule: make(map[string][]ScheduleEvent),
	}
	if len(r.DailySchedule) > 0 {
		if err := json.Unmarshal(r.DailySchedule, &sched.DailySchedule); err != nil {
			return RoomSchedule{}, fmt.Errorf("failed to unmarshal daily_schedule: %w", err)
		}
	}
	return sched, nil
}

func ScheduleRecordFor(room string, sched RoomSchedule) (RoomScheduleRecord, error) {
	raw, err := json.Marshal(sched.DailySchedule)
	if err != nil {
		return RoomScheduleRecord{}, fmt.Errorf("failed to marshal daily_schedule: %w", err)
	}
	return RoomScheduleRecord{
		Room:          room,
		Enabled:       sched.Enabled,
		VacationMode:  sched.VacationMode,
		SunriseSunset: sched.SunriseSunset,
		Adaptive:      sched.Adaptive,
		DailySchedule: raw,
	}, nil
}
