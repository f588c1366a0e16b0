// Package ingest applies the simulated telemetry feed to the store.
// Readings update telemetry fields only, never status: status changes stay
// the business of alerts and the fault-resolution workflow.
package ingest

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/gridops/substation-monitor/internal/repository"
)

// Reading is one telemetry sample published on the feed topic.
type Reading struct {
	EquipmentID string    `json:"equipment_id"`
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperature"`
	Voltage     float64   `json:"voltage"`
	Current     float64   `json:"current"`
	Load        float64   `json:"load"`
}

type Service struct {
	repos *repository.Repos
	log   zerolog.Logger
}

func New(repos *repository.Repos, log zerolog.Logger) *Service {
	return &Service{repos: repos, log: log}
}

// FromMQTT decodes one feed message and applies it as a telemetry-only
// equipment update.
func (s *Service) FromMQTT(topic string, payload []byte) error {
	var r Reading
	if err := json.Unmarshal(payload, &r); err != nil {
		return fmt.Errorf("decode telemetry: %w", err)
	}
	patch := repository.EquipmentPatch{
		Temperature: &r.Temperature,
		Voltage:     &r.Voltage,
		Current:     &r.Current,
		Load:        &r.Load,
	}
	if !s.repos.UpdateEquipment(r.EquipmentID, patch) {
		return fmt.Errorf("telemetry for unknown equipment %q", r.EquipmentID)
	}
	return nil
}

// Subscribe attaches the service to the feed topic on a connected client.
func Subscribe(client mqtt.Client, topic string, s *Service) error {
	handler := func(_ mqtt.Client, msg mqtt.Message) {
		if err := s.FromMQTT(msg.Topic(), msg.Payload()); err != nil {
			s.log.Error().Err(err).Msg("telemetry ingest failed")
		}
	}
	if token := client.Subscribe(topic, 0, handler); token.Wait() && token.Error() != nil {
		return token.Error()
	}
	return nil
}
