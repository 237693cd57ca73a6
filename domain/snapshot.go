package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ModelSnapshot stores serialized predictor state (model + scaler) keyed by
// a stable name, upserted after each successful training run.
type ModelSnapshot struct {
	Key       string         `gorm:"column:key;primaryKey"`
	State     datatypes.JSON `gorm:"column:state;type:jsonb"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (ModelSnapshot) TableName() string {
	return "model_snapshots"
}
