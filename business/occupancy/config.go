package occupancy

import "time"

const (
	defaultMinTrainSamples  = 10
	defaultTestFraction     = 0.2
	defaultSplitSeed        = 42
	defaultProbability      = 0.5
	defaultBufferCapacity   = 500
	defaultRetrainSize      = 100
	defaultRetrainInterval  = 24 * time.Hour
	defaultMinRetrainLabels = 50
	defaultLearningRate     = 0.1
	defaultEpochs           = 200
)

type Config struct {
	// training
	MinTrainSamples int
	TestFraction    float64
	SplitSeed       int64
	LearningRate    float64
	Epochs          int

	// inference
	DefaultProbability float64

	// online learning
	BufferCapacity   int
	RetrainSize      int
	RetrainInterval  time.Duration
	MinRetrainLabels int

	// static holiday table, "MM-DD" keys, fixed at construction
	Holidays map[string]bool
}

func DefaultConfig() Config {
	return Config{
		MinTrainSamples:    defaultMinTrainSamples,
		TestFraction:       defaultTestFraction,
		SplitSeed:          defaultSplitSeed,
		LearningRate:       defaultLearningRate,
		Epochs:             defaultEpochs,
		DefaultProbability: defaultProbability,
		BufferCapacity:     defaultBufferCapacity,
		RetrainSize:        defaultRetrainSize,
		RetrainInterval:    defaultRetrainInterval,
		MinRetrainLabels:   defaultMinRetrainLabels,
		Holidays:           defaultHolidays(),
	}
}

func defaultHolidays() map[string]bool {
	return map[string]bool{
		"01-01": true, // new year
		"05-01": true,
		"12-25": true,
		"12-26": true,
		"12-31": true,
	}
}
