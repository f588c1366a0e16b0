package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gridops/substation-monitor/internal/domain"
	"github.com/gridops/substation-monitor/internal/reports"
	"github.com/gridops/substation-monitor/internal/repository"
)

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

// ---- Substations ----

func (h *handlers) listSubstations(c *fiber.Ctx) error {
	return c.JSON(h.svcs.Repos.ListSubstations())
}

func (h *handlers) getSubstation(c *fiber.Ctx) error {
	sub, ok := h.svcs.Repos.GetSubstation(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	return c.JSON(sub)
}

func (h *handlers) addSubstation(c *fiber.Ctx) error {
	var sub domain.Substation
	if err := c.BodyParser(&sub); err != nil {
		return badRequest(c, err)
	}
	created, err := h.svcs.Repos.AddSubstation(sub)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *handlers) updateSubstation(c *fiber.Ctx) error {
	var patch repository.SubstationPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, err)
	}
	if !h.svcs.Repos.UpdateSubstation(c.Params("id"), patch) {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteSubstation(c *fiber.Ctx) error {
	if !h.svcs.Repos.DeleteSubstation(c.Params("id")) {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Equipment ----

func (h *handlers) listEquipment(c *fiber.Ctx) error {
	return c.JSON(h.svcs.Repos.ListEquipment())
}

func (h *handlers) listEquipmentBySubstation(c *fiber.Ctx) error {
	return c.JSON(h.svcs.Repos.ListEquipmentBySubstation(c.Params("id")))
}

func (h *handlers) getEquipment(c *fiber.Ctx) error {
	eq, ok := h.svcs.Repos.GetEquipment(c.Params("id"))
	if !ok {
		return notFound(c)
	}
	return c.JSON(eq)
}

func (h *handlers) addEquipment(c *fiber.Ctx) error {
	var eq domain.Equipment
	if err := c.BodyParser(&eq); err != nil {
		return badRequest(c, err)
	}
	created, err := h.svcs.Repos.AddEquipment(eq)
	if err == repository.ErrNotFound {
		return notFound(c)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *handlers) updateEquipment(c *fiber.Ctx) error {
	var patch repository.EquipmentPatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, err)
	}
	if !h.svcs.Repos.UpdateEquipment(c.Params("id"), patch) {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteEquipment(c *fiber.Ctx) error {
	if !h.svcs.Repos.DeleteEquipment(c.Params("id")) {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Alerts ----

func (h *handlers) listActiveAlerts(c *fiber.Ctx) error {
	return c.JSON(h.svcs.Repos.ListActiveAlerts())
}

func (h *handlers) listAlertsByEquipment(c *fiber.Ctx) error {
	return c.JSON(h.svcs.Repos.ListAlertsByEquipment(c.Params("id")))
}

func (h *handlers) addAlert(c *fiber.Ctx) error {
	var in struct {
		EquipmentID string            `json:"equipmentId"`
		Message     string            `json:"message"`
		Level       domain.AlertLevel `json:"level"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, err)
	}
	alert, err := h.svcs.Repos.AddAlert(in.EquipmentID, in.Message, in.Level)
	if err == repository.ErrNotFound {
		return notFound(c)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(alert)
}

func (h *handlers) updateAlertStatus(c *fiber.Ctx) error {
	var in struct {
		Status domain.AlertStatus `json:"status"`
	}
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, err)
	}
	if !h.svcs.Repos.UpdateAlertStatus(c.Params("id"), in.Status) {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteAlert(c *fiber.Ctx) error {
	if !h.svcs.Repos.DeleteAlert(c.Params("id")) {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) clearAlerts(c *fiber.Ctx) error {
	h.svcs.Repos.ClearAlerts()
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Maintenance ----

func (h *handlers) listMaintenance(c *fiber.Ctx) error {
	return c.JSON(h.svcs.Repos.ListMaintenance())
}

func (h *handlers) listMaintenanceByEquipment(c *fiber.Ctx) error {
	return c.JSON(h.svcs.Repos.ListMaintenanceByEquipment(c.Params("id")))
}

func (h *handlers) addMaintenance(c *fiber.Ctx) error {
	var m domain.Maintenance
	if err := c.BodyParser(&m); err != nil {
		return badRequest(c, err)
	}
	created, err := h.svcs.Repos.AddMaintenance(m)
	if err == repository.ErrNotFound {
		return notFound(c)
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *handlers) updateMaintenance(c *fiber.Ctx) error {
	var patch repository.MaintenancePatch
	if err := c.BodyParser(&patch); err != nil {
		return badRequest(c, err)
	}
	if !h.svcs.Repos.UpdateMaintenance(c.Params("id"), patch) {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *handlers) deleteMaintenance(c *fiber.Ctx) error {
	if !h.svcs.Repos.DeleteMaintenance(c.Params("id")) {
		return notFound(c)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ---- Reports ----

func (h *handlers) reportOverview(c *fiber.Ctx) error {
	return c.JSON(reports.Build(h.svcs.Repos))
}
