package router

import (
	"github.com/labstack/echo/v4"

	"smartlights/internal/rest"
)

func SetupAuthRoutes(api *echo.Group, handler *rest.AuthHandler, authRequired echo.MiddlewareFunc) {
	auth := api.Group("/auth")

	auth.POST("/login", handler.Login)
	auth.POST("/logout", handler.Logout, authRequired)
}

func SetupLightRoutes(api *echo.Group, handler *rest.LightHandler, authRequired echo.MiddlewareFunc) {
	lights := api.Group("/lights", authRequired)

	lights.GET("", handler.GetLights)
	lights.GET("/:room", handler.GetLight)
	lights.POST("/:room/control", handler.Control)
	lights.POST("/:room/toggle", handler.Toggle)
	lights.PUT("/:room/brightness", handler.SetBrightness)
	lights.PUT("/:room/color-temperature", handler.SetColorTemperature)
	lights.POST("/bulk", handler.Bulk)
}

func SetupAIRoutes(api *echo.Group, handler *rest.AIHandler, authRequired echo.MiddlewareFunc) {
	ai := api.Group("/ai", authRequired)

	ai.GET("/mode", handler.GetMode)
	ai.POST("/mode", handler.SetMode)
	ai.GET("/status", handler.Status)
	ai.GET("/predictions", handler.Predictions)
	ai.POST("/train", handler.Train)
	ai.POST("/feedback", handler.Feedback)
}

func SetupScheduleRoutes(api *echo.Group, handler *rest.ScheduleHandler, authRequired echo.MiddlewareFunc) {
	schedules := api.Group("/schedules", authRequired)

	schedules.GET("", handler.GetSchedules)
	schedules.GET("/status", handler.Status)
	schedules.GET("/:room", handler.GetSchedule)
	schedules.PUT("/:room", handler.SaveSchedule)
	schedules.POST("/:room/enable", handler.SetFlag("enable"))
	schedules.POST("/:room/vacation", handler.SetFlag("vacation"))
	schedules.POST("/:room/sunrise-sunset", handler.SetFlag("sunrise-sunset"))
	schedules.POST("/:room/adaptive", handler.SetFlag("adaptive"))
	schedules.POST("/:room/times", handler.SetTimes)
	schedules.POST("/:room/generate", handler.GenerateSchedule)
}

func SetupSystemRoutes(api *echo.Group, handler *rest.SystemHandler, authRequired echo.MiddlewareFunc) {
	api.GET("/status", handler.GetStatus, authRequired)
	api.GET("/weather", handler.GetWeather, authRequired)
	api.GET("/weather/impact", handler.GetWeatherImpact, authRequired)
	api.GET("/activity/logs", handler.GetActivityLogs, authRequired)
	api.GET("/statistics", handler.GetStatistics, authRequired)
}
