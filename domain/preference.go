package domain

import "time"

// CREATE TABLE public.user_preferences (
//     user_name   TEXT,
//     room        TEXT,
//     time_bucket TEXT,
//     brightness  NUMERIC,
//     samples     INTEGER,
//     updated_at  TIMESTAMPTZ,
//     PRIMARY KEY (user_name, room, time_bucket)
// );

type UserPreferenceRecord struct {
	User       string    `gorm:"column:user_name;primaryKey" json:"user"`
	Room       string    `gorm:"column:room;primaryKey" json:"room"`
	TimeBucket string    `gorm:"column:time_bucket;primaryKey" json:"time_bucket"`
	Brightness float64   `gorm:"column:brightness;type:numeric" json:"brightness"`
	Samples    int       `gorm:"column:samples" json:"samples"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (UserPreferenceRecord) TableName() string {
	return "user_preferences"
}
