package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"ledserver/internal/config"
	"ledserver/internal/controller"
	"ledserver/internal/monitor"
	"ledserver/internal/restapi"
)

func main() {
	configPath := flag.String("config", "./data/config.json", "path to the canvas/feature/effect configuration document")
	listenAddr := flag.String("addr", ":7777", "REST API listen address")
	enableMonitor := flag.Bool("monitor", false, "run the terminal status dashboard instead of just serving")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	ctl, loadErrs := config.Load(*configPath)
	for _, e := range loadErrs {
		log.Warn().Err(e).Msg("skipped configuration entity")
	}
	log.Info().Int("canvases", len(ctl.Canvases())).Msg("configuration loaded")
	ctl.SetLogger(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := ctl.Connect(ctx); err != nil {
		log.Error().Err(err).Msg("socket connect fan-out returned an error")
	}
	if err := ctl.Start(ctx); err != nil {
		log.Error().Err(err).Msg("scheduler start fan-out returned an error")
	}

	server := restapi.NewServer(ctl, log)
	httpServer := &http.Server{Addr: *listenAddr, Handler: server.Handler()}
	go func() {
		log.Info().Str("addr", *listenAddr).Msg("REST API listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("REST API server stopped")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	if *enableMonitor {
		mon, err := monitor.New(ctl)
		if err != nil {
			log.Error().Err(err).Msg("failed to start terminal monitor")
		} else {
			stopCh := make(chan struct{})
			go func() {
				<-sigCh
				close(stopCh)
			}()
			mon.Run(stopCh)
		}
	} else {
		<-sigCh
	}

	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx) //nolint:errcheck // best-effort on the way out

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer stopCancel()
	if err := ctl.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("scheduler stop fan-out returned an error")
	}
	if err := ctl.Disconnect(stopCtx); err != nil {
		log.Error().Err(err).Msg("socket disconnect fan-out returned an error")
	}

	if err := config.Save(*configPath, ctl); err != nil {
		log.Error().Err(err).Msg("failed to persist configuration on exit")
	}

	log.Info().Msg("exited cleanly")
}
