package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CREATE TABLE public.activity_logs (
//     id         UUID PRIMARY KEY,
//     timestamp  TIMESTAMPTZ,
//     action     TEXT,
//     room       TEXT,
//     user_name  TEXT,
//     details    JSONB,
//     ip_address TEXT
// );

type ActivityLog struct {
	ID        string            `gorm:"column:id;primaryKey;type:uuid" json:"id"`
	Timestamp time.Time         `gorm:"column:timestamp;index" json:"timestamp"`
	Action    string            `gorm:"column:action;type:text;index" json:"action"`
	Room      string            `gorm:"column:room;type:text" json:"room,omitempty"`
	User      string            `gorm:"column:user_name;type:text" json:"user"`
	Details   datatypes.JSONMap `gorm:"column:details;type:jsonb" json:"details"`
	IPAddress string            `gorm:"column:ip_address;type:text" json:"ip_address"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}

// ActivityFilter narrows an activity-log listing. Zero-value fields are
// ignored; Search matches action and user case-insensitively.
type ActivityFilter struct {
	Room   string `json:"room,omitempty"`
	Action string `json:"action,omitempty"`
	Search string `json:"search,omitempty"`
}

// UsageEvent is a single observed light interaction, the raw material of the
// behavior learner and the schedule optimizer.
type UsageEvent struct {
	Timestamp  time.Time `json:"timestamp"`
	Action     string    `json:"action"`
	Brightness int       `json:"brightness"`
}
