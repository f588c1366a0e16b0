package main

import (
	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/gridops/substation-monitor/internal/api"
	"github.com/gridops/substation-monitor/internal/config"
	"github.com/gridops/substation-monitor/internal/ingest"
	"github.com/gridops/substation-monitor/internal/service"
	"github.com/gridops/substation-monitor/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	st := store.New(afero.NewOsFs(), config.DataPath(), log.Logger)
	if _, err := st.Load(); err != nil {
		log.Fatal().Err(err).Msg("document store init failed")
	}

	bus := store.NewBus()
	svcs := service.New(st, bus, log.Logger)

	if config.MQTTEnabled() {
		opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
		client := mqtt.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Fatal().Err(token.Error()).Msg("mqtt connect failed")
		}
		defer client.Disconnect(250)
		if err := ingest.Subscribe(client, config.MQTTTopic(), ingest.New(svcs.Repos, log.Logger)); err != nil {
			log.Fatal().Err(err).Msg("telemetry subscribe failed")
		}
		log.Info().Str("topic", config.MQTTTopic()).Msg("telemetry feed attached")
	}

	app := fiber.New()
	api.Register(app, svcs, log.Logger)

	addr := config.APIAddr()
	log.Info().Str("addr", addr).Msg("api listening")
	log.Fatal().Err(app.Listen(addr)).Msg("server exit")
}
