package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rdkcentral/zilker-sdk-sub009/pkg/api"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/app"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/db"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/descriptor"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/driver"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/events"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/lifecycle"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/propconfig"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/store"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/watchdog"
	"github.com/rdkcentral/zilker-sdk-sub009/pkg/zigbee"
)

// @title           Gateway Device Management API
// @version         1.0
// @description     REST API for the residential gateway device management subsystem

// @host      localhost:8080
// @BasePath  /api/v1
// @schemes   http https

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	dbPath := flag.String("db", "", "Path to installation database file (default: ~/.config/gateway/gateway.db)")
	dataDir := flag.String("data-dir", "", "Directory for device store, descriptor cache, and properties (default: ~/.config/gateway)")
	serialPort := flag.String("port", "/dev/ttyUSB0", "Path to the Zigbee coordinator serial port")
	flag.Parse()

	ctx := context.Background()

	database, err := db.Open(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open installation database")
	}
	defer func() {
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close installation database")
		}
	}()

	log.Info().Str("path", database.Path()).Msg("installation database opened")

	if err := database.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to run database migrations")
	}

	needsBootstrap, err := database.NeedsBootstrap(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to check bootstrap status")
	}
	if needsBootstrap {
		log.Info().Msg("first run detected, bootstrapping installation database")
		if err := database.Bootstrap(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to bootstrap installation database")
		}
	}

	cfg, err := database.ActiveConfig(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load installation configuration")
	}

	log.Info().
		Str("installation", cfg.Profile.Name).
		Str("timezone", cfg.Timezone()).
		Str("apiAddress", cfg.APIAddress()).
		Msg("configuration loaded")

	dir := *dataDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to resolve home directory")
		}
		dir = filepath.Join(home, ".config", "gateway")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("failed to create data directory")
	}

	bus := events.NewBus()
	registry := driver.NewRegistry()

	deviceStore, err := store.Open(filepath.Join(dir, "devices.bolt"), registry, bus)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open device store")
	}

	descHandler := descriptor.NewHandler(filepath.Join(dir, "descriptors"), descriptor.NewHTTPFetcher())
	wd := watchdog.New()

	props, err := propconfig.Load(filepath.Join(dir, "properties.xml"), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load gateway properties")
	}

	orch := lifecycle.New(deviceStore, registry, descHandler, wd, bus)

	zbDriver, err := zigbee.NewDriver(*serialPort, bus, wd)
	if err != nil {
		log.Warn().Err(err).Str("port", *serialPort).Msg("zigbee radio unavailable, registering null driver")
		if regErr := registry.Register(zigbee.NewNullDriver()); regErr != nil {
			log.Fatal().Err(regErr).Msg("failed to register null zigbee driver")
		}
	} else {
		zbDriver.OnDeviceFound = func(details driver.DeviceFoundDetails) {
			if _, err := orch.Onboard(details, false); err != nil {
				log.Warn().Err(err).Str("uuid", details.UUID).Msg("onboarding failed")
			}
		}
		if err := registry.Register(zbDriver); err != nil {
			log.Fatal().Err(err).Msg("failed to register zigbee driver")
		}
	}

	gatewayApp := app.New(deviceStore, registry, orch, wd, descHandler, props, bus)

	router := api.NewRouter(gatewayApp)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("shutting down")
		if err := deviceStore.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close device store")
		}
		if err := database.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close installation database")
		}
		os.Exit(0)
	}()

	addr := cfg.APIAddress()
	log.Info().Str("address", addr).Msg("starting API server")

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}
