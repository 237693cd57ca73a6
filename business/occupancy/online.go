package occupancy

import "time"

// OnlineEntry is one buffered observation. Entries appended from Predict
// carry no label; entries appended from OnlineLearn do.
type OnlineEntry struct {
	Features  [FeatureDim]float64
	Timestamp time.Time
	Room      string
	Occupied  *bool
}

// onlineBuffer is a bounded FIFO of recent observations. Callers hold the
// predictor's buffer lock; the buffer itself is not safe for concurrent use.
type onlineBuffer struct {
	entries  []OnlineEntry
	capacity int
}

func newOnlineBuffer(capacity int) *onlineBuffer {
	if capacity <= 0 {
		capacity = defaultBufferCapacity
	}
	return &onlineBuffer{
		entries:  make([]OnlineEntry, 0, capacity),
		capacity: capacity,
	}
}

func (b *onlineBuffer) append(e OnlineEntry) {
	b.entries = append(b.entries, e)
	if len(b.entries) > b.capacity {
		// evict oldest first
		b.entries = b.entries[len(b.entries)-b.capacity:]
	}
}

func (b *onlineBuffer) len() int {
	return len(b.entries)
}

func (b *onlineBuffer) labeled() ([][FeatureDim]float64, []float64) {
	rows := make([][FeatureDim]float64, 0, len(b.entries))
	labels := make([]float64, 0, len(b.entries))
	for _, e := range b.entries {
		if e.Occupied == nil {
			continue
		}
		label := 0.0
		if *e.Occupied {
			label = 1.0
		}
		rows = append(rows, e.Features)
		labels = append(labels, label)
	}
	return rows, labels
}

func (b *onlineBuffer) reset() {
	b.entries = b.entries[:0]
}
