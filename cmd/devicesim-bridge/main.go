package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devicesim/internal/api"
	"devicesim/internal/config"
	embedfs "devicesim/internal/embed"
	"devicesim/internal/mqtt"
	"devicesim/internal/pool"
	"devicesim/internal/repository/sqlite"
	"devicesim/internal/service"
	"devicesim/internal/startup"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting devicesim bridge...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlite.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	profileRepo := sqlite.NewBehaviorProfileRepository(db)
	lifecycleRepo := sqlite.NewLifecycleEventRepository(db)
	settingRepo := sqlite.NewRuntimeSettingRepository(db)

	profileService := service.NewProfileService(profileRepo)
	lifecycleService := service.NewLifecycleEventService(lifecycleRepo)
	settingService := service.NewSettingService(settingRepo)

	if err := profileService.LoadBuiltinProfiles(context.Background(), embedfs.ProfilesFS, "profiles"); err != nil {
		log.Fatalf("Failed to load builtin behavior profiles: %v", err)
	}

	devicePool := pool.New(pool.Config{
		IdleTimeout:    cfg.Pool.IdleTimeout(),
		MaxDevices:     cfg.Pool.MaxDevices,
		ReaperInterval: cfg.Pool.ReaperInterval(),
	}, profileService, lifecycleService)
	devicePool.StartReaper()

	startupManager := startup.NewManager(devicePool)

	mqttClient := mqtt.NewClient(&cfg.MQTT)
	if err := mqttClient.Connect(); err != nil {
		log.Printf("Warning: Failed to connect to MQTT broker: %v", err)
	}
	telemetryPublisher := mqtt.NewTelemetryPublisher(mqttClient, devicePool, 10*time.Second)
	telemetryPublisher.Start()

	services := &api.Services{
		DevicePool: devicePool,
		Startup:    startupManager,
		Profile:    profileService,
		Setting:    settingService,
		Lifecycle:  lifecycleService,
	}
	server := api.NewServer(cfg, services)

	go func() {
		log.Printf("HTTP server listening on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := server.Start(); err != nil {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	telemetryPublisher.Stop()
	mqttClient.Disconnect()
	devicePool.Shutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
