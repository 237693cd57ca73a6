package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"smartlights/domain"
	"smartlights/pkg/logger"
)

const (
	defaultBaseURL       = "https://api.openweathermap.org/data/2.5/weather"
	defaultCacheDuration = 5 * time.Minute
	redisCacheKey        = "weather:current"
	demoAPIKey           = "demo_key"
)

type Config struct {
	APIKey        string
	City          string
	BaseURL       string
	CacheDuration time.Duration
}

// Service fetches and caches weather snapshots. Refresh does the network
// call; Current and NaturalLight only read the cache and never block, which
// is what the automation loop requires.
type Service struct {
	cfg    Config
	client *http.Client
	redis  *redis.Client

	mu        sync.RWMutex
	snapshot  *domain.WeatherSnapshot
	fetchedAt time.Time
}

func NewService(cfg Config, redisClient *redis.Client) *Service {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.CacheDuration <= 0 {
		cfg.CacheDuration = defaultCacheDuration
	}
	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: 5 * time.Second},
		redis:  redisClient,
	}
}

// demoSnapshot stands in when no API key is configured.
func demoSnapshot() *domain.WeatherSnapshot {
	return &domain.WeatherSnapshot{
		Temperature:  20,
		Humidity:     65,
		Condition:    domain.WeatherClouds,
		CloudCover:   40,
		VisibilityKM: 10,
	}
}

// Current returns the cached snapshot, falling back to the redis mirror and
// finally the demo snapshot. Never blocks on the weather API.
func (s *Service) Current() *domain.WeatherSnapshot {
	s.mu.RLock()
	snapshot := s.snapshot
	fetchedAt := s.fetchedAt
	s.mu.RUnlock()

	if snapshot != nil && time.Since(fetchedAt) < s.cfg.CacheDuration {
		return snapshot
	}

	if mirrored := s.fromRedis(); mirrored != nil {
		return mirrored
	}
	if snapshot != nil {
		// stale beats nothing
		return snapshot
	}
	return demoSnapshot()
}

func (s *Service) fromRedis() *domain.WeatherSnapshot {
	if s.redis == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	raw, err := s.redis.Get(ctx, redisCacheKey).Bytes()
	if err != nil {
		return nil
	}

	var snapshot domain.WeatherSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

// Refresh fetches a new snapshot and updates the caches. Intended to be
// driven by a periodic ticker; failures keep the previous snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	snapshot, err := s.fetch(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.fetchedAt = time.Now()
	s.mu.Unlock()

	if s.redis != nil {
		raw, err := json.Marshal(snapshot)
		if err == nil {
			if err := s.redis.Set(ctx, redisCacheKey, raw, s.cfg.CacheDuration).Err(); err != nil {
				logger.Warn("failed to mirror weather snapshot to redis", "error", err)
			}
		}
	}
	return nil
}

// owmResponse is the subset of the OpenWeatherMap payload we use.
type owmResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main string `json:"main"`
	} `json:"weather"`
	Clouds struct {
		All float64 `json:"all"`
	} `json:"clouds"`
	Visibility float64 `json:"visibility"`
}

func (s *Service) fetch(ctx context.Context) (*domain.WeatherSnapshot, error) {
	if s.cfg.APIKey == "" || s.cfg.APIKey == demoAPIKey {
		return demoSnapshot(), nil
	}

	query := url.Values{}
	query.Set("q", s.cfg.City)
	query.Set("appid", s.cfg.APIKey)
	query.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.BaseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build weather request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather api returned status %d", resp.StatusCode)
	}

	var payload owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	condition := domain.WeatherClear
	if len(payload.Weather) > 0 {
		condition = strings.ToLower(payload.Weather[0].Main)
	}

	return &domain.WeatherSnapshot{
		Temperature:  payload.Main.Temp,
		Humidity:     payload.Main.Humidity,
		Condition:    condition,
		CloudCover:   payload.Clouds.All,
		VisibilityKM: payload.Visibility / 1000,
	}, nil
}

// NaturalLight estimates ambient daylight in [0,1] from the cached snapshot
// and the hour of day.
func (s *Service) NaturalLight(now time.Time) float64 {
	snapshot := s.Current()

	hour := now.Hour()
	var base float64
	switch {
	case hour >= 6 && hour <= 10:
		base = 0.6
	case hour > 10 && hour <= 16:
		base = 0.9
	case hour > 16 && hour <= 20:
		base = 0.4
	default:
		base = 0.1
	}

	multiplier := 0.8
	switch {
	case snapshot.Condition == domain.WeatherClear && snapshot.CloudCover < 30:
		multiplier = 1.2
	case snapshot.Condition == domain.WeatherClouds && snapshot.CloudCover > 70:
		multiplier = 0.6
	case snapshot.Condition == domain.WeatherRain:
		multiplier = 0.3
	}

	factor := base * multiplier
	if factor > 1.0 {
		factor = 1.0
	}
	return factor
}
