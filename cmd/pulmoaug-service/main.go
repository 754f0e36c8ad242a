package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"pulmoaug-controller/internal/config"
	"pulmoaug-controller/internal/core"
	"pulmoaug-controller/internal/hardware"
	"pulmoaug-controller/internal/logger"
	"pulmoaug-controller/internal/messaging"
)

func main() {
	var serviceLogLevel int
	flag.IntVar(&serviceLogLevel, "log", 3, "Service log level (0=NONE, 1=ERROR, 2=WARN, 3=INFO, 4=DEBUG)")
	configPath := flag.String("config", "/etc/pulmoaug/controller.yaml", "Path to YAML configuration")
	redisHost := flag.String("redis-host", "", "Override Redis host from config")
	redisPort := flag.Int("redis-port", 0, "Override Redis port from config")

	flag.Parse()

	l := logger.NewStdLogger(logger.LogLevel(serviceLogLevel))

	cfg, err := config.Load(*configPath)
	if err != nil {
		l.Fatalf("Failed to load configuration: %v", err)
	}
	if *redisHost != "" {
		cfg.Redis.Host = *redisHost
	}
	if *redisPort != 0 {
		cfg.Redis.Port = *redisPort
	}

	l.Infof("Starting pulmoaug controller...")

	console, err := hardware.OpenConsole(cfg.Console.Port, cfg.Console.BaudRate)
	if err != nil {
		l.Fatalf("Failed to open console: %v", err)
	}
	defer console.Close()

	system := core.NewControllerSystem(
		cfg,
		hardware.NewLinuxHardwareIO(cfg, l),
		messaging.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, l),
		console,
		l,
	)
	if err := system.Start(); err != nil {
		l.Fatalf("Failed to start system: %v", err)
	}

	l.Infof("System started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	l.Infof("Received signal %v, shutting down...", sig)
	system.Shutdown()
	l.Infof("Shutdown complete")
}
