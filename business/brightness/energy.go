package brightness

import (
	"sync"
	"time"

	"smartlights/domain"
)

// energyTracker keeps a bounded per-room history of optimizer decisions for
// the savings report. Oldest entries are evicted first.
type energyTracker struct {
	mu      sync.Mutex
	cfg     Config
	perRoom map[string][]domain.EnergyRecord
}

func newEnergyTracker(cfg Config) *energyTracker {
	return &energyTracker{
		cfg:     cfg,
		perRoom: make(map[string][]domain.EnergyRecord),
	}
}

func (t *energyTracker) track(room string, brightness int) {
	watts := float64(brightness) * t.cfg.WattsPerPercent
	record := domain.EnergyRecord{
		Timestamp:  time.Now(),
		Brightness: brightness,
		PowerWatts: watts,
		// assumes the level holds for one hour
		EnergyKWh: watts / 1000.0,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	entries := append(t.perRoom[room], record)
	if len(entries) > t.cfg.EnergyBufferCap {
		entries = entries[len(entries)-t.cfg.EnergyBufferCap:]
	}
	t.perRoom[room] = entries
}

func (t *energyTracker) records(room string) []domain.EnergyRecord {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.perRoom[room]
	out := make([]domain.EnergyRecord, len(entries))
	copy(out, entries)
	return out
}

func (t *energyTracker) savings(room string) domain.EnergySavings {
	t.mu.Lock()
	defer t.mu.Unlock()

	var totalKWh float64
	for _, e := range t.perRoom[room] {
		totalKWh += e.EnergyKWh
	}

	totalCost := totalKWh * t.cfg.CostPerKWh
	return domain.EnergySavings{
		Room:             room,
		TotalKWh:         totalKWh,
		TotalCost:        totalCost,
		PotentialSavings: totalCost * t.cfg.PotentialSavingsRate,
		EfficiencyRate:   t.cfg.OptimizationEfficiency,
	}
}
