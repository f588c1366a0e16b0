package main

import (
	"encoding/json"
	"math/rand"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/gridops/substation-monitor/internal/config"
	"github.com/gridops/substation-monitor/internal/domain"
	"github.com/gridops/substation-monitor/internal/ingest"
)

// Seeded equipment the simulator publishes readings for.
var units = []struct {
	id string
	t  domain.EquipmentType
}{
	{"EQ-2023-001", domain.TypeTransformer},
	{"EQ-2023-002", domain.TypeBreaker},
	{"EQ-2023-003", domain.TypeDisconnector},
	{"EQ-2023-004", domain.TypeInstrumentTransformer},
	{"EQ-2023-005", domain.TypeArrester},
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	opts := mqtt.NewClientOptions().AddBroker(config.MQTTBroker())
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatal().Err(token.Error()).Msg("mqtt connect failed")
	}
	defer client.Disconnect(250)

	for i := 0; i < 100; i++ {
		u := units[i%len(units)]
		band := domain.NormalBand(u.t)
		temperature, current, load := band.Sample(rng)
		r := ingest.Reading{
			EquipmentID: u.id,
			Timestamp:   time.Now(),
			Temperature: temperature,
			Voltage:     10 + rng.Float64(),
			Current:     current,
			Load:        load,
		}
		payload, _ := json.Marshal(r)
		token := client.Publish(config.MQTTTopic(), 0, false, payload)
		token.Wait()
		time.Sleep(500 * time.Millisecond)
	}
	log.Info().Msg("simulation done")
}
