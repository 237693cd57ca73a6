package automation

const (
	defaultOccupancyThreshold = 0.5
	defaultUser               = "admin"
)

type Config struct {
	// OccupancyThreshold is the probability above which a room counts as
	// occupied.
	OccupancyThreshold float64

	// User attributes automated decisions for preference lookups.
	User string
}

func DefaultConfig() Config {
	return Config{
		OccupancyThreshold: defaultOccupancyThreshold,
		User:               defaultUser,
	}
}
