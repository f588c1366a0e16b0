package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/gridops/substation-monitor/internal/config"
	"github.com/gridops/substation-monitor/internal/expert"
	"github.com/gridops/substation-monitor/internal/reports"
	"github.com/gridops/substation-monitor/internal/repository"
	"github.com/gridops/substation-monitor/internal/store"
	"github.com/gridops/substation-monitor/internal/workflow"
)

// Services bundles the application components behind the API.
type Services struct {
	Repos    *repository.Repos
	Workflow *workflow.Engine
	Expert   *expert.Client
	log      zerolog.Logger
}

func New(st *store.Store, bus *store.Bus, log zerolog.Logger) *Services {
	repos := repository.New(st, bus, log)
	return &Services{
		Repos:    repos,
		Workflow: workflow.NewEngine(repos, st, workflow.TimerScheduler{}, log),
		Expert: expert.New(
			config.ChatAPIURL(),
			config.ChatAPIKey(),
			config.ChatModel(),
			time.Duration(config.ChatTimeoutSeconds())*time.Second,
		),
		log: log,
	}
}

// expertContext is the data-context snapshot serialized into the chat
// request: equipment state, active alerts and the report metrics.
type expertContext struct {
	Equipment    []expertEquipment `json:"equipmentStatus"`
	ActiveAlerts []expertAlert     `json:"alertHistory"`
	Metrics      reports.Overview  `json:"systemMetrics"`
}

type expertEquipment struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	Status      string  `json:"status"`
	Temperature float64 `json:"temperature"`
	Voltage     float64 `json:"voltage"`
	Current     float64 `json:"current"`
	Load        float64 `json:"load"`
}

type expertAlert struct {
	Equipment string `json:"equipment"`
	Message   string `json:"message"`
	Level     string `json:"level"`
	Time      string `json:"time"`
}

// AskExpert answers a free-form question grounded in a fresh snapshot of
// the system. Failures are returned to the caller, never retried.
func (s *Services) AskExpert(ctx context.Context, question string) (string, error) {
	snapshot := expertContext{Metrics: reports.Build(s.Repos)}
	for _, eq := range s.Repos.ListEquipment() {
		snapshot.Equipment = append(snapshot.Equipment, expertEquipment{
			ID:          eq.ID,
			Name:        eq.Name,
			Type:        string(eq.Type),
			Status:      string(eq.Status),
			Temperature: eq.Temperature,
			Voltage:     eq.Voltage,
			Current:     eq.Current,
			Load:        eq.Load,
		})
	}
	for _, a := range s.Repos.ListActiveAlerts() {
		snapshot.ActiveAlerts = append(snapshot.ActiveAlerts, expertAlert{
			Equipment: a.EquipmentName,
			Message:   a.Message,
			Level:     string(a.Level),
			Time:      a.Time,
		})
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", err
	}
	return s.Expert.Ask(ctx, string(data), question)
}
