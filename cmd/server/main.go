package main

import (
	"context"
	"log"
	"os"
	"runtime/debug"

	"github.com/carelog/carelog/internal/server"
	"github.com/carelog/carelog/modules"
	"github.com/carelog/carelog/pkg/application"
	"github.com/carelog/carelog/pkg/configuration"
	"github.com/carelog/carelog/pkg/eventbus"
	"github.com/carelog/carelog/pkg/logging"
	"github.com/carelog/carelog/pkg/metrics"
	"github.com/carelog/carelog/pkg/pgrest"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			configuration.Use().Unload()
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	if conf.OpenTelemetry.Enabled {
		cleanup := logging.SetupTracing(
			context.Background(),
			conf.OpenTelemetry.ServiceName,
			conf.OpenTelemetry.TempoURL,
		)
		defer cleanup()
		logger.Info("OpenTelemetry tracing enabled, exporting to " + conf.OpenTelemetry.TempoURL)
	}

	// The base client carries only the store URL and anon API key. It never
	// issues a request itself: each inbound request derives a copy bound to
	// that request's bearer token.
	var store *pgrest.Client
	if conf.Store.URL != "" {
		var err error
		store, err = pgrest.New(pgrest.Config{
			BaseURL: conf.Store.URL,
			APIKey:  conf.Store.APIKey,
			Timeout: conf.Store.Timeout,
		})
		if err != nil {
			log.Fatalf("failed to create store client: %v", err)
		}
	} else {
		logger.Warn("STORE_URL not configured; store-backed routes will fail upstream")
	}

	app := application.New(&application.ApplicationOptions{
		Store:    store,
		EventBus: eventbus.NewEventPublisher(logger),
	})
	if err := modules.Load(app, modules.BuiltInModules...); err != nil {
		log.Fatalf("failed to load modules: %v", err)
	}

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}

	serverInstance, err := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Application:   app,
		Store:         store,
	})
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	log.Printf("Listening on: %s\n", conf.Origin)
	if err := serverInstance.Start(conf.SocketAddress); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
