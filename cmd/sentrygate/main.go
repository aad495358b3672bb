// SentryGate - Intruder Detection Gateway
//
// This is the main entry point for the SentryGate host daemon. It owns
// the serial link to the gate device, drives the recognition pipeline,
// and serves the event log to dashboard clients:
//   - Motion notifications in, authorized/intruder commands out
//   - Fail-closed recognition via HTTP service or static allowlist
//   - SQLite event log with REST + WebSocket access
//   - Optional MQTT event bus and InfluxDB metrics
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/ashvale/sentrygate-core/migrations"

	"github.com/ashvale/sentrygate-core/internal/api"
	"github.com/ashvale/sentrygate-core/internal/eventlog"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/config"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/database"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/influxdb"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/logging"
	"github.com/ashvale/sentrygate-core/internal/infrastructure/mqtt"
	"github.com/ashvale/sentrygate-core/internal/orchestrator"
	"github.com/ashvale/sentrygate-core/internal/protocol"
	"github.com/ashvale/sentrygate-core/internal/recognition"
	"github.com/ashvale/sentrygate-core/internal/seriallink"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting SentryGate",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	events := eventlog.NewSQLiteRepository(db.DB)

	// Connect to MQTT broker (optional)
	var mqttClient *mqtt.Client
	if cfg.MQTT.Enabled {
		mqttClient, err = mqtt.Connect(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("connecting to MQTT: %w", err)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
	} else {
		log.Info("InfluxDB disabled")
	}

	// Build the recognizer
	recognizer, err := buildRecognizer(cfg, log)
	if err != nil {
		return fmt.Errorf("building recognizer: %w", err)
	}

	// Open the device link
	conn, err := seriallink.Open(cfg)
	if err != nil {
		return fmt.Errorf("opening device link: %w", err)
	}
	link := seriallink.NewHostLink(conn, protocol.Variant(cfg.Serial.Variant), log)
	defer func() {
		log.Info("closing device link")
		if closeErr := link.Close(); closeErr != nil {
			log.Error("error closing device link", "error", closeErr)
		}
	}()
	log.Info("device link open",
		"transport", cfg.Serial.Transport,
		"device", cfg.Serial.Device,
		"variant", cfg.Serial.Variant,
	)

	// Wire the orchestrator
	orchOpts := []orchestrator.Option{}
	if mqttClient != nil {
		orchOpts = append(orchOpts, orchestrator.WithMQTT(mqttClient, byte(cfg.MQTT.QoS)))
	}
	if influxClient != nil {
		orchOpts = append(orchOpts, orchestrator.WithInfluxDB(influxClient))
	}

	// Start the API server first so its WebSocket hub exists for the
	// orchestrator's broadcast fanout.
	health := map[string]api.HealthChecker{
		"database": db,
	}
	if mqttClient != nil {
		health["mqtt"] = mqttClient
	}
	if influxClient != nil {
		health["influxdb"] = influxClient
	}

	apiServer, err := api.New(api.Deps{
		Config:  cfg.API,
		WS:      cfg.WebSocket,
		Logger:  log,
		Events:  events,
		Health:  health,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := apiServer.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "host", cfg.API.Host, "port", cfg.API.Port)

	orchOpts = append(orchOpts, orchestrator.WithBroadcaster(apiServer.Hub()))

	orch := orchestrator.New(ctx, cfg.Site.ID, cfg.GetRecognitionTimeout(),
		link, recognizer, events, log, orchOpts...)
	apiServer.SetAlarmCanceller(orch)

	// Start consuming motion notifications
	link.SetOnMotion(orch.HandleMotion)
	link.Start()

	// Announce presence on the event bus
	if mqttClient != nil {
		topics := mqtt.Topics{}
		if pubErr := mqttClient.PublishRetained(topics.SystemStatus(), []byte("online")); pubErr != nil {
			log.Warn("failed to publish online status", "error", pubErr)
		}
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown or link loss
	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, cleaning up")
	case <-link.Done():
		log.Error("device link lost, shutting down")
	}

	// Let an in-flight detection cycle finish before the defer chain
	// tears the sinks down.
	orch.Wait()

	log.Info("SentryGate stopped")
	return nil
}

// buildRecognizer selects the recognition backend from configuration.
// A configured service URL wins; otherwise the static allowlist is used.
func buildRecognizer(cfg *config.Config, log *logging.Logger) (recognition.Recognizer, error) {
	if cfg.Recognition.ServiceURL != "" {
		log.Info("using recognition service", "url", cfg.Recognition.ServiceURL)
		return recognition.NewServiceRecognizer(cfg.Recognition.ServiceURL, cfg.GetRecognitionTimeout(), log), nil
	}

	allowlist, err := recognition.LoadAllowlist(cfg.Recognition.AllowlistPath)
	if err != nil {
		return nil, fmt.Errorf("loading allowlist: %w", err)
	}
	log.Info("using static allowlist",
		"path", cfg.Recognition.AllowlistPath,
		"identities", allowlist.Len(),
	)
	return allowlist, nil
}

// getConfigPath returns the configuration file path.
// Uses SENTRYGATE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("SENTRYGATE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
