package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"hostel/config"
	"hostel/di"
	"hostel/internal/events"
	"hostel/shared/logger"
)

const defaultReconcileInterval = 10 * time.Minute

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.Configure(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services := di.InitializeServices()
	defer services.Kafka.Close()

	done := make(chan struct{})

	go func() {
		defer close(done)

		reconcileEvery(ctx, services, interval(cfg))
	}()

	if cfg.Kafka.Enable {
		consumer := events.NewConsumer(services.Kafka, services.Hostel, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topic)
		if err := consumer.Run(ctx); err != nil {
			log.Error().Err(err).Msg("Hostel event consumer stopped")
		}
	} else {
		log.Warn().Msg("Kafka disabled, only periodic reconciliation will run")
	}

	<-done

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := services.Otel.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to flush traces")
	}

	log.Info().Msg("Worker stopped")
}

func interval(cfg *config.Config) time.Duration {
	if seconds := cfg.App.Worker.ReconcileIntervalSeconds; seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	return defaultReconcileInterval
}

// reconcileEvery sweeps every hostel's counters until ctx is cancelled.
func reconcileEvery(ctx context.Context, services *di.Services, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		repaired, err := services.Hostel.ReconcileAll(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Failed to reconcile hostel counters")
		} else {
			log.Info().Int64("hostels", repaired).Msg("Hostel counters reconciled")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
