package api

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/gridops/substation-monitor/internal/service"
	"github.com/gridops/substation-monitor/internal/workflow"
)

type handlers struct {
	svcs *service.Services
	hub  *Hub
	log  zerolog.Logger
}

// Register wires all routes onto the app and connects the change bus and
// the workflow engine to the websocket feed.
func Register(app *fiber.App, svcs *service.Services, log zerolog.Logger) {
	h := &handlers{svcs: svcs, hub: NewHub(log), log: log}

	svcs.Repos.Bus().Subscribe(func() {
		h.hub.Broadcast(map[string]any{"type": "changed"})
	})

	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(h.hub.serve))

	g := app.Group("/")
	g.Get("substations", h.listSubstations)
	g.Get("substations/:id", h.getSubstation)
	g.Post("substations", h.addSubstation)
	g.Patch("substations/:id", h.updateSubstation)
	g.Delete("substations/:id", h.deleteSubstation)
	g.Get("substations/:id/equipment", h.listEquipmentBySubstation)

	g.Get("equipment", h.listEquipment)
	g.Get("equipment/:id", h.getEquipment)
	g.Post("equipment", h.addEquipment)
	g.Patch("equipment/:id", h.updateEquipment)
	g.Delete("equipment/:id", h.deleteEquipment)
	g.Get("equipment/:id/alerts", h.listAlertsByEquipment)
	g.Get("equipment/:id/maintenance", h.listMaintenanceByEquipment)

	g.Get("alerts", h.listActiveAlerts)
	g.Post("alerts", h.addAlert)
	g.Patch("alerts/:id/status", h.updateAlertStatus)
	g.Delete("alerts/:id", h.deleteAlert)
	g.Delete("alerts", h.clearAlerts)

	g.Get("maintenance", h.listMaintenance)
	g.Post("maintenance", h.addMaintenance)
	g.Patch("maintenance/:id", h.updateMaintenance)
	g.Delete("maintenance/:id", h.deleteMaintenance)

	g.Get("equipment/:id/diagnosis", h.getSession)
	g.Post("equipment/:id/diagnosis", h.startDiagnosis)
	g.Post("equipment/:id/diagnosis/commands/:cmd", h.sendCommand)
	g.Post("equipment/:id/diagnosis/complete", h.completeDiagnosis)

	g.Post("expert", h.askExpert)
	g.Get("reports/overview", h.reportOverview)
}

// wsObserver forwards workflow transitions to websocket clients; they
// re-read the session through the REST route.
type wsObserver struct{ hub *Hub }

func (o wsObserver) SessionUpdated(equipmentID string, _ workflow.Session) {
	o.hub.Broadcast(map[string]any{"type": "workflow", "equipmentId": equipmentID})
}
