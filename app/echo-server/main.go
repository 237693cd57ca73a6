package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"smartlights/app/echo-server/router"
	"smartlights/business/auth"
	"smartlights/business/automation"
	"smartlights/business/behavior"
	"smartlights/business/brightness"
	"smartlights/business/lights"
	"smartlights/business/occupancy"
	"smartlights/business/schedule"
	"smartlights/domain"
	"smartlights/internal/middleware"
	"smartlights/internal/notify"
	psqlRepo "smartlights/internal/repository/postgres"
	weatherRepo "smartlights/internal/repository/weather"
	"smartlights/internal/rest"
	"smartlights/pkg/config"
	"smartlights/pkg/database"
	redisdb "smartlights/pkg/database/redis"
	"smartlights/pkg/logger"
	"smartlights/pkg/metrics"
	"smartlights/pkg/utils"
)

const persistInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	defer logger.Sync()
	logger.Info("Starting smart lights backend", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	logger.Info("Database connected successfully")

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Warn("Redis unavailable, continuing without it", "error", err)
			redisClient = nil
		}
	}

	// Init repo
	lightRepo := psqlRepo.NewLightRepository(db)
	scheduleRepo := psqlRepo.NewScheduleRepository(db)
	energyRepo := psqlRepo.NewEnergyRepository(db)
	activityRepo := psqlRepo.NewActivityRepository(db)
	preferenceRepo := psqlRepo.NewPreferenceRepository(db)
	modelStateRepo := psqlRepo.NewModelStateRepository(db)

	weatherService := weatherRepo.NewService(weatherRepo.Config{
		APIKey:        cfg.Weather.APIKey,
		City:          cfg.Weather.City,
		BaseURL:       cfg.Weather.BaseURL,
		CacheDuration: cfg.Weather.CacheTTL,
	}, redisClient)

	// Init notifiers
	hub := notify.NewHub()
	notifiers := notify.Multi{hub}

	var mqttPublisher *notify.MQTTPublisher
	if cfg.MQTT.Enabled {
		mqttPublisher, err = notify.NewMQTTPublisher(notify.MQTTConfig{
			Broker:   cfg.MQTT.BrokerURL,
			ClientID: cfg.MQTT.ClientID,
		})
		if err != nil {
			logger.Warn("MQTT unavailable, continuing without it", "error", err)
		} else {
			notifiers = append(notifiers, mqttPublisher)
		}
	}

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelStartup()

	// Init engine state
	store := automation.NewStore(notifiers)
	if states, err := lightRepo.LoadStates(startupCtx); err != nil {
		logger.Warn("Failed to load light states", "error", err)
	} else if len(states) > 0 {
		store.Load(states)
	}

	learner := behavior.NewLearner(behavior.DefaultConfig())
	if records, err := preferenceRepo.GetAll(startupCtx); err != nil {
		logger.Warn("Failed to load user preferences", "error", err)
	} else {
		learner.LoadPreferences(records)
	}

	scheduleStore := schedule.NewStore()
	if schedules, err := scheduleRepo.GetAll(startupCtx); err != nil {
		logger.Warn("Failed to load schedules", "error", err)
	} else {
		scheduleStore.Load(schedules)
	}

	predictor := occupancy.NewPredictor(occupancy.DefaultConfig(), modelStateRepo)
	brightnessOptimizer := brightness.NewOptimizer(brightness.DefaultConfig())
	scheduleOptimizer := schedule.NewOptimizer(schedule.DefaultConfig())

	// Init service
	controller := automation.NewController(
		automation.DefaultConfig(),
		predictor,
		brightnessOptimizer,
		learner,
		store,
		weatherService,
		notifiers,
	)
	executor := schedule.NewExecutor(
		schedule.DefaultConfig(),
		scheduleStore,
		store,
		weatherService,
		brightnessOptimizer,
		notifiers,
	)
	lightService := lights.NewService(store, learner, activityRepo, lightRepo, notifiers)
	authService := auth.NewService(cfg.App.AdminPasswordHash, cfg.JWT.TokenTTL, redisClient)

	if mqttPublisher != nil {
		if err := mqttPublisher.SubscribeMotion(func(room string, occupied bool) {
			controller.ObserveOccupancy(room, occupied, time.Now())
		}); err != nil {
			logger.Error("Failed to subscribe to motion topic", err)
		}
	}

	if err := weatherService.Refresh(startupCtx); err != nil {
		logger.Warn("Initial weather refresh failed", "error", err)
	}

	// Init handler
	authHandler := rest.NewAuthHandler(authService)
	lightHandler := rest.NewLightHandler(lightService)
	aiHandler := rest.NewAIHandler(controller, predictor, learner, weatherService)
	scheduleHandler := rest.NewScheduleHandler(scheduleStore, scheduleRepo, scheduleOptimizer, learner)
	systemHandler := rest.NewSystemHandler(weatherService, activityRepo, brightnessOptimizer, energyRepo, lightService, hub)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: strings.Split(cfg.Server.AllowedOrigins, ","),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	authRequired := middleware.AuthMiddleware(authService)

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupAuthRoutes(api, authHandler, authRequired)
	router.SetupLightRoutes(api, lightHandler, authRequired)
	router.SetupAIRoutes(api, aiHandler, authRequired)
	router.SetupScheduleRoutes(api, scheduleHandler, authRequired)
	router.SetupSystemRoutes(api, systemHandler, authRequired)

	e.GET("/ws", systemHandler.ServeWS)
	e.GET("/health", systemHandler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Background loops, one goroutine each so a slow collaborator in one
	// never delays the others' ticks
	done := make(chan struct{})
	go runLoop(done, cfg.Automation.ControlInterval, controller.RunOnce)
	go runLoop(done, cfg.Automation.ScheduleInterval, executor.RunOnce)
	go runLoop(done, cfg.Weather.CacheTTL, func(time.Time) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := weatherService.Refresh(ctx); err != nil {
			logger.Warn("Weather refresh failed", "error", err)
		}
	})
	lastEnergyPersist := time.Now()
	go runLoop(done, persistInterval, func(now time.Time) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		persistState(ctx, store, learner, lightRepo, preferenceRepo)
		persistEnergy(ctx, brightnessOptimizer, energyRepo, lastEnergyPersist)
		lastEnergyPersist = now
	})

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	persistState(ctx, store, learner, lightRepo, preferenceRepo)

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	hub.Close()
	if mqttPublisher != nil {
		mqttPublisher.Close()
	}
	if redisClient != nil {
		if err := redisdb.CloseRedisClient(redisClient); err != nil {
			logger.Error("Redis close error", "error", err)
		}
	}

	logger.Info("Server stopped")
}

// runLoop drives one single-tick entry point at a fixed cadence until done
// closes. The engine packages never own thread creation.
func runLoop(done <-chan struct{}, interval time.Duration, fn func(now time.Time)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case now := <-ticker.C:
			fn(now)
		}
	}
}

func persistState(
	ctx context.Context,
	store *automation.Store,
	learner *behavior.Learner,
	lightRepo *psqlRepo.LightRepository,
	preferenceRepo *psqlRepo.PreferenceRepository,
) {
	if err := lightRepo.SaveStates(ctx, store.All()); err != nil {
		logger.Error("Failed to persist light states", err)
	}
	if err := preferenceRepo.UpsertAll(ctx, learner.Preferences()); err != nil {
		logger.Error("Failed to persist user preferences", err)
	}
}

// persistEnergy copies the optimizer's in-memory tracking entries into the
// energy_usage table. Only records newer than the previous persist pass are
// written, so each tracking entry lands in the table once.
func persistEnergy(
	ctx context.Context,
	brightnessOptimizer *brightness.Optimizer,
	energyRepo *psqlRepo.EnergyRepository,
	since time.Time,
) {
	for _, room := range domain.Rooms {
		for _, record := range brightnessOptimizer.EnergyRecords(room) {
			if !record.Timestamp.After(since) {
				continue
			}
			usage := domain.EnergyUsage{
				Room:       room,
				Timestamp:  record.Timestamp,
				Brightness: record.Brightness,
				PowerWatts: record.PowerWatts,
				EnergyKWh:  record.EnergyKWh,
			}
			if err := energyRepo.Save(ctx, usage); err != nil {
				logger.Error("Failed to persist energy usage", err, "room", room)
			}
		}
	}
}
