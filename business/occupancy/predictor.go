package occupancy

import (
	"context"
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

const snapshotKey = "occupancy_predictor_v1"

// StateRepository persists serialized predictor state. Optional: a nil
// repository keeps the predictor purely in-memory.
type StateRepository interface {
	GetState(ctx context.Context, key string) ([]byte, error)
	SaveState(ctx context.Context, key string, raw []byte) error
}

// Predictor trains and holds the occupancy classifier. Train, Predict and
// OnlineLearn never propagate internal errors: each converts failures into
// its documented default value.
type Predictor struct {
	cfg     Config
	encoder *Encoder

	mu      sync.RWMutex // guards model, scaler, trained, history
	model   LogisticModel
	scaler  StandardScaler
	trained bool
	history []domain.TrainingRecord

	bufMu       sync.Mutex // guards buffer and lastRetrain, independent of mu
	buffer      *onlineBuffer
	lastRetrain time.Time

	stateRepo StateRepository
}

func NewPredictor(cfg Config, stateRepo StateRepository) *Predictor {
	p := &Predictor{
		cfg:         cfg,
		encoder:     NewEncoder(cfg),
		buffer:      newOnlineBuffer(cfg.BufferCapacity),
		lastRetrain: time.Now(),
		stateRepo:   stateRepo,
	}
	p.restore()
	return p
}

func (p *Predictor) Encoder() *Encoder {
	return p.encoder
}

func (p *Predictor) IsTrained() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.trained
}

func (p *Predictor) TrainingHistory() []domain.TrainingRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]domain.TrainingRecord, len(p.history))
	copy(out, p.history)
	return out
}

// Train fits the classifier on historical samples and returns held-out
// accuracy. Fails soft: fewer than MinTrainSamples usable samples, or any
// internal failure, returns 0.0 and leaves the current model untouched.
func (p *Predictor) Train(ctx context.Context, samples []domain.OccupancySample) (accuracy float64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("occupancy training panicked", "panic", r)
			accuracy = 0.0
		}
	}()

	if len(samples) < p.cfg.MinTrainSamples {
		logger.Warn("not enough samples to train occupancy model",
			"samples", len(samples),
			"required", p.cfg.MinTrainSamples,
		)
		return 0.0
	}

	rows := make([][FeatureDim]float64, len(samples))
	labels := make([]float64, len(samples))
	for i, s := range samples {
		rows[i] = p.encoder.Encode(s.Timestamp, s.Room, s.Weather, s.Activity)
		if s.Occupied {
			labels[i] = 1.0
		}
	}

	trainRows, trainLabels, testRows, testLabels := split(rows, labels, p.cfg.TestFraction, p.cfg.SplitSeed)

	var scaler StandardScaler
	scaler.Fit(trainRows)

	var model LogisticModel
	model.Fit(scaler.TransformAll(trainRows), trainLabels, p.cfg.LearningRate, p.cfg.Epochs, p.cfg.SplitSeed)

	accuracy = model.Accuracy(scaler.TransformAll(testRows), testLabels)

	p.mu.Lock()
	p.model = model
	p.scaler = scaler
	p.trained = true
	p.history = append(p.history, domain.TrainingRecord{
		Timestamp:   time.Now(),
		Accuracy:    accuracy,
		SampleCount: len(samples),
	})
	p.mu.Unlock()

	p.persist(ctx)
	TrainingRunsTotal.Inc()

	logger.Info("occupancy model trained",
		"samples", len(samples),
		"accuracy", accuracy,
	)

	return accuracy
}

// Predict returns P(occupied) for a room at a point in time. Untrained
// predictors always return the configured default (0.5). Successful
// predictions are buffered for later retraining.
func (p *Predictor) Predict(
	t time.Time,
	room string,
	weather *domain.WeatherSnapshot,
	activity *domain.ActivitySnapshot,
) (prob float64) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("occupancy prediction panicked", "panic", r, "room", room)
			prob = p.cfg.DefaultProbability
		}
	}()

	p.mu.RLock()
	trained := p.trained
	model := p.model
	scaler := p.scaler
	p.mu.RUnlock()

	if !trained {
		return p.cfg.DefaultProbability
	}

	x := p.encoder.Encode(t, room, weather, activity)
	prob = model.PredictProba(scaler.Transform(x))

	p.bufMu.Lock()
	p.buffer.append(OnlineEntry{Features: x, Timestamp: t, Room: room})
	p.bufMu.Unlock()

	PredictionsTotal.WithLabelValues(room).Inc()

	return prob
}

// OnlineLearn feeds an observed occupancy outcome back into the buffer and
// retrains when either the buffer reaches its retrain size or the retrain
// interval has elapsed, whichever happens first. Checked only at call time;
// there is no background timer.
func (p *Predictor) OnlineLearn(
	actualOccupancy bool,
	t time.Time,
	room string,
	weather *domain.WeatherSnapshot,
	activity *domain.ActivitySnapshot,
) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("online learning panicked", "panic", r, "room", room)
		}
	}()

	x := p.encoder.Encode(t, room, weather, activity)
	occupied := actualOccupancy

	p.bufMu.Lock()
	defer p.bufMu.Unlock()

	p.buffer.append(OnlineEntry{Features: x, Timestamp: t, Room: room, Occupied: &occupied})

	if p.buffer.len() >= p.cfg.RetrainSize || time.Since(p.lastRetrain) >= p.cfg.RetrainInterval {
		p.retrainFromBuffer()
	}
}

// retrainFromBuffer re-fits the classifier (not the scaler) on buffered
// labeled entries. No-op below MinRetrainLabels. Caller holds bufMu.
func (p *Predictor) retrainFromBuffer() {
	rows, labels := p.buffer.labeled()
	if len(rows) < p.cfg.MinRetrainLabels {
		logger.Debug("skipping online retrain, not enough labeled entries",
			"labeled", len(rows),
			"required", p.cfg.MinRetrainLabels,
		)
		return
	}

	p.mu.Lock()
	scaled := p.scaler.TransformAll(rows)
	var model LogisticModel
	model.Fit(scaled, labels, p.cfg.LearningRate, p.cfg.Epochs, p.cfg.SplitSeed)
	p.model = model
	p.trained = true
	p.mu.Unlock()

	p.buffer.reset()
	p.lastRetrain = time.Now()

	OnlineRetrainsTotal.Inc()
	logger.Info("occupancy model retrained from online buffer", "labeled", len(rows))
}

// ---- persistence ----

type predictorState struct {
	LayoutVersion int            `json:"layout_version"`
	Model         LogisticModel  `json:"model"`
	Scaler        StandardScaler `json:"scaler"`
}

func (p *Predictor) persist(ctx context.Context) {
	if p.stateRepo == nil {
		return
	}

	p.mu.RLock()
	state := predictorState{
		LayoutVersion: FeatureLayoutVersion,
		Model:         p.model,
		Scaler:        p.scaler,
	}
	p.mu.RUnlock()

	raw, err := json.Marshal(state)
	if err != nil {
		logger.Error("failed to marshal predictor state", err)
		return
	}

	if err := p.stateRepo.SaveState(ctx, snapshotKey, raw); err != nil {
		logger.Error("failed to persist predictor state", err)
	}
}

func (p *Predictor) restore() {
	if p.stateRepo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	raw, err := p.stateRepo.GetState(ctx, snapshotKey)
	if err != nil || len(raw) == 0 {
		return
	}

	var state predictorState
	if err := json.Unmarshal(raw, &state); err != nil {
		logger.Error("failed to unmarshal predictor state", err)
		return
	}

	// parameters from another layout version are useless
	if state.LayoutVersion != FeatureLayoutVersion {
		logger.Warn("discarding predictor state with stale feature layout",
			"stored", state.LayoutVersion,
			"current", FeatureLayoutVersion,
		)
		return
	}

	p.mu.Lock()
	p.model = state.Model
	p.scaler = state.Scaler
	p.trained = state.Model.Trained
	p.mu.Unlock()

	logger.Info("restored occupancy model from snapshot")
}

// split shuffles deterministically and carves off the test fraction.
func split(
	rows [][FeatureDim]float64,
	labels []float64,
	testFraction float64,
	seed int64,
) (trainRows [][FeatureDim]float64, trainLabels []float64, testRows [][FeatureDim]float64, testLabels []float64) {
	n := len(rows)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(n, func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	testCount := int(float64(n) * testFraction)
	if testCount < 1 {
		testCount = 1
	}

	for i, idx := range order {
		if i < n-testCount {
			trainRows = append(trainRows, rows[idx])
			trainLabels = append(trainLabels, labels[idx])
		} else {
			testRows = append(testRows, rows[idx])
			testLabels = append(testLabels, labels[idx])
		}
	}
	return trainRows, trainLabels, testRows, testLabels
}
