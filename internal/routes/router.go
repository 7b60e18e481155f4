package routes

import (
	"net/http"

	"fleettrack/internal/config"
	"fleettrack/internal/delivery/http/handler"
	"fleettrack/internal/delivery/ws"
	"fleettrack/internal/format"
	"fleettrack/internal/middleware"
	"fleettrack/internal/overlay"
	"fleettrack/internal/page"
	"fleettrack/internal/prefs"
	"fleettrack/internal/registry"
	"fleettrack/internal/report"
	"fleettrack/internal/status"
	"fleettrack/internal/telemetry"

	"github.com/gin-gonic/gin"
)

// App bundles the wired components so main can manage their lifecycle.
type App struct {
	Router *gin.Engine
	Hub    *ws.Hub
	Feed   *telemetry.Feed
}

// Setup wires the dashboard core bottom-up: registry, preference resolver,
// synthesizer, page controllers, then the HTTP and websocket surfaces.
func Setup(cfg *config.Config, translator format.Translator) (*App, error) {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	reg := registry.NewStore()
	store := prefs.NewMemoryStore(map[string]any{
		report.PrefDistanceUnit:    cfg.Display.DistanceUnit,
		report.PrefVolumeUnit:      cfg.Display.VolumeUnit,
		report.PrefSpeedUnit:       cfg.Display.SpeedUnit,
		report.PrefDevicePrimary:   cfg.Display.DevicePrimary,
		report.PrefDeviceSecondary: cfg.Display.DeviceSecondary,
	})
	resolver := prefs.NewResolver(store, reg)
	synthesizer := report.NewSynthesizer(reg, resolver, translator, cfg.Display)
	classifier := status.NewClassifier(translator, nil)

	client := report.NewClient(&cfg.Backend)
	projector := overlay.NewProjector(synthesizer.DevicePrimary)

	combined := page.NewCombinedController(client, synthesizer, projector)
	stops := page.NewStopsController(client, synthesizer)
	summary := page.NewSummaryController(client, synthesizer)

	// the feed is optional so the report pages still work without a broker
	var feed *telemetry.Feed
	if cfg.Telemetry.Broker != "" {
		var err error
		feed, err = telemetry.NewFeed(&cfg.Telemetry, reg)
		if err != nil {
			return nil, err
		}
	}
	hub := ws.NewHub(reg, classifier)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Service is running",
		})
	})

	deviceHandler := handler.NewDeviceHandler(reg, classifier, synthesizer)
	reportHandler := handler.NewReportHandler(combined, stops, summary)

	api := router.Group("/api/dashboard")
	{
		deviceHandler.RegisterRoutes(api)
		reportHandler.RegisterRoutes(api)
		api.GET("/ws", hub.Handle)
	}

	return &App{Router: router, Hub: hub, Feed: feed}, nil
}
