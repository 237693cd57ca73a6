package schedule

import (
	"math"
	"sync"
	"time"
)

// PerformanceRecord compares expected schedule usage against what actually
// happened.
type PerformanceRecord struct {
	Timestamp time.Time `json:"timestamp"`
	Room      string    `json:"room"`
	Expected  float64   `json:"expected"`
	Actual    float64   `json:"actual"`
	Accuracy  float64   `json:"accuracy"`
}

type performanceLog struct {
	mu      sync.Mutex
	perRoom map[string][]PerformanceRecord
	limit   int
}

func newPerformanceLog(limit int) *performanceLog {
	return &performanceLog{
		perRoom: make(map[string][]PerformanceRecord),
		limit:   limit,
	}
}

func (p *performanceLog) record(room string, expected, actual float64) {
	denom := expected
	if denom < 1 {
		denom = 1
	}
	accuracy := 1 - math.Abs(actual-expected)/denom

	p.mu.Lock()
	defer p.mu.Unlock()

	records := append(p.perRoom[room], PerformanceRecord{
		Timestamp: time.Now(),
		Room:      room,
		Expected:  expected,
		Actual:    actual,
		Accuracy:  accuracy,
	})
	if len(records) > p.limit {
		records = records[len(records)-p.limit:]
	}
	p.perRoom[room] = records
}

func (p *performanceLog) records(room string) []PerformanceRecord {
	p.mu.Lock()
	defer p.mu.Unlock()

	records := p.perRoom[room]
	out := make([]PerformanceRecord, len(records))
	copy(out, records)
	return out
}
