package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ambercore/config"
	"ambercore/engine"
	"ambercore/mission"
	"ambercore/robot"
	"ambercore/telemetry"
	"ambercore/www"
)

var Version = "dev"

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "ambercore.yaml", "path to config file")
	flag.Parse()

	if *showVersion {
		fmt.Println("ambercore", Version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Mission store
	store, err := mission.Open(cfg.Missions.DataDir, cfg.Missions.AuditLogCap)
	if err != nil {
		log.Fatalf("open mission store: %v", err)
	}
	log.Printf("ambercore: mission store open (%s)", cfg.Missions.DataDir)

	// Device client
	robotClient := robot.NewClient(robot.Config{
		BaseURL:          cfg.Robot.BaseURL,
		AuthSecret:       cfg.Robot.AuthSecret,
		Timeout:          cfg.Robot.Timeout,
		MovePollInterval: cfg.Robot.MovePollInterval,
		MoveTimeout:      cfg.Robot.MoveTimeout,
		AlignTimeout:     cfg.Robot.AlignTimeout,
		JackTimeout:      cfg.Robot.JackTimeout,
		JackSettleDelay:  cfg.Robot.JackSettleDelay,
		ChargeVerifyWait: cfg.Robot.ChargeVerifyWait,
	})
	if err := robotClient.Ping(); err == nil {
		log.Printf("ambercore: robot %s connected (%s)", cfg.Robot.ID, cfg.Robot.BaseURL)
	} else {
		log.Printf("ambercore: robot not available (%v)", err)
	}

	// Engine
	eng := engine.New(engine.Config{
		AppConfig:  cfg,
		ConfigPath: *configPath,
		Robot:      robotClient,
		Store:      store,
	})
	eng.Start()
	defer eng.Stop()

	// Telemetry
	if cfg.Telemetry.Enabled {
		pub := telemetry.NewPublisher(&cfg.Telemetry)
		if err := pub.Connect(); err != nil {
			log.Printf("ambercore: telemetry connect failed (%v)", err)
		} else {
			pub.Start(eng.Events)
			defer pub.Stop(eng.Events)
			log.Printf("ambercore: telemetry connected (mqtt %s:%d)", cfg.Telemetry.Broker, cfg.Telemetry.Port)
		}
	}

	// Web server
	handler, stopWeb := www.NewRouter(eng)

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		log.Printf("ambercore: web server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("web server: %v", err)
		}
	}()

	log.Printf("ambercore: ready")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Printf("ambercore: shutting down...")
	stopWeb()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	srv.Shutdown(shutdownCtx)

	log.Printf("ambercore: stopped")
}
