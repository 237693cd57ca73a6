package domain

import "time"

// CREATE TABLE public.energy_usage (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     room        TEXT,
//     timestamp   TIMESTAMPTZ,
//     brightness  INTEGER,
//     power_watts NUMERIC,
//     energy_kwh  NUMERIC
// );

type EnergyUsage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Room       string    `gorm:"column:room;type:text;index" json:"room"`
	Timestamp  time.Time `gorm:"column:timestamp" json:"timestamp"`
	Brightness int       `gorm:"column:brightness" json:"brightness"`
	PowerWatts float64   `gorm:"column:power_watts;type:numeric" json:"power_watts"`
	EnergyKWh  float64   `gorm:"column:energy_kwh;type:numeric" json:"energy_kwh"`
}

func (EnergyUsage) TableName() string {
	return "energy_usage"
}

// EnergyRecord is the in-memory per-room tracking entry kept by the
// brightness optimizer.
type EnergyRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	Brightness int       `json:"brightness"`
	PowerWatts float64   `json:"power_watts"`
	EnergyKWh  float64   `json:"energy_kwh"`
}

// EnergySavings is a static estimate, not a measurement: the savings rate and
// optimization efficiency are declared approximation constants.
type EnergySavings struct {
	Room             string  `json:"room"`
	TotalKWh         float64 `json:"total_kwh"`
	TotalCost        float64 `json:"total_cost"`
	PotentialSavings float64 `json:"potential_savings"`
	EfficiencyRate   float64 `json:"efficiency_rate"`
}
