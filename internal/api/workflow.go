package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gridops/substation-monitor/internal/diagnosis"
	"github.com/gridops/substation-monitor/internal/workflow"
)

func (h *handlers) getSession(c *fiber.Ctx) error {
	return c.JSON(h.svcs.Workflow.Open(c.Params("id")))
}

func (h *handlers) startDiagnosis(c *fiber.Ctx) error {
	equipmentID := c.Params("id")
	eq, ok := h.svcs.Repos.GetEquipment(equipmentID)
	if !ok {
		return notFound(c)
	}

	var in struct {
		FaultTime string                `json:"faultTime"`
		Symptoms  string                `json:"symptoms"`
		Sensor    *diagnosis.SensorData `json:"sensorData"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, err)
	}

	fault := diagnosis.FaultData{
		EquipmentID:   eq.ID,
		EquipmentName: eq.Name,
		EquipmentType: eq.Type,
		FaultTime:     in.FaultTime,
		Symptoms:      in.Symptoms,
		Sensor:        in.Sensor,
	}
	if err := h.svcs.Workflow.Start(fault, wsObserver{hub: h.hub}); err != nil {
		if errors.Is(err, workflow.ErrSessionRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusAccepted).JSON(h.svcs.Workflow.Open(equipmentID))
}

func (h *handlers) sendCommand(c *fiber.Ctx) error {
	err := h.svcs.Workflow.SendCommand(c.Params("id"), c.Params("cmd"))
	switch {
	case errors.Is(err, workflow.ErrNoSolution), errors.Is(err, workflow.ErrUnknownCommand):
		return notFound(c)
	case errors.Is(err, workflow.ErrCommandInFlight):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusAccepted)
}

func (h *handlers) completeDiagnosis(c *fiber.Ctx) error {
	var in struct {
		AlertID string `json:"alertId"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, err)
	}
	if err := h.svcs.Workflow.Complete(c.Params("id"), in.AlertID); err != nil {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) askExpert(c *fiber.Ctx) error {
	var in struct {
		Question string `json:"question"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, err)
	}
	reply, err := h.svcs.AskExpert(c.Context(), in.Question)
	if err != nil {
		h.log.Error().Err(err).Msg("expert request failed")
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"reply": reply})
}
