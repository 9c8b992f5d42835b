package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httpresp"
	"github.com/VillaMorraStudio/agenda-barberia/internal/middleware"
	ucAgenda "github.com/VillaMorraStudio/agenda-barberia/internal/usecase/agenda"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	listUC    *ucAgenda.ListSlots
	updateUC  *ucAgenda.UpdateSlot
	releaseUC *ucAgenda.ReleaseSlot
	generator *ucAgenda.GenerateSlots
	cleanupUC *ucAgenda.CleanupSlots
}

func NewAppointmentHandler(
	listUC *ucAgenda.ListSlots,
	updateUC *ucAgenda.UpdateSlot,
	releaseUC *ucAgenda.ReleaseSlot,
	generator *ucAgenda.GenerateSlots,
	cleanupUC *ucAgenda.CleanupSlots,
) *AppointmentHandler {
	return &AppointmentHandler{
		listUC:    listUC,
		updateUC:  updateUC,
		releaseUC: releaseUC,
		generator: generator,
		cleanupUC: cleanupUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateSlotRequest struct {
	Status        *string  `json:"status"`
	CustomerName  *string  `json:"customer_name"`
	CustomerPhone *string  `json:"customer_phone"`
	BarberID      *uint    `json:"barber_id"`
	TotalCost     *float64 `json:"total_cost"`
	PaymentStatus *string  `json:"payment_status"`
	ServiceIDs    *[]uint  `json:"service_ids"`
}

type GenerateSlotsRequest struct {
	Date string `json:"date"`
	From string `json:"from"`
	To   string `json:"to"`
}

type CleanupSlotsRequest struct {
	Date string `json:"date" binding:"required"`
}

// ======================================================
// LIST  GET /me/appointments?date=&barber=&state=
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	in := ucAgenda.ListSlotsInput{
		BarberID: parseUintQuery(c, "barber"),
		Status:   c.Query("state"),
	}

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := parseDate(dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
			return
		}
		in.Date = &date
	}

	slots, err := h.listUC.Execute(c.Request.Context(), in)
	if err != nil {
		httperr.Internal(c, "appointments_list_failed", "Error al listar turnos.")
		return
	}

	httpresp.List(c, slots)
}

// ======================================================
// UPDATE  PUT /me/appointments/:id
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var req UpdateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	slot, err := h.updateUC.Execute(c.Request.Context(), id, userID, ucAgenda.UpdateSlotInput{
		Status:        req.Status,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		BarberID:      req.BarberID,
		TotalCost:     req.TotalCost,
		PaymentStatus: req.PaymentStatus,
		ServiceIDs:    req.ServiceIDs,
	})
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "slot_not_found"):
			httperr.NotFound(c, "slot_not_found", "Turno no encontrado.")
		case httperr.IsBusiness(err, "invalid_state"):
			httperr.BadRequest(c, "invalid_state", "Transición de estado inválida.")
		case httperr.IsBusiness(err, "use_release"):
			httperr.BadRequest(c, "use_release", "Para liberar un turno usá la acción de cancelación.")
		case httperr.IsBusiness(err, "service_not_found"):
			httperr.BadRequest(c, "service_not_found", "Servicio inválido.")
		default:
			httperr.Internal(c, "slot_update_failed", "Error al actualizar el turno.")
		}
		return
	}

	httpresp.OK(c, slot)
}

// ======================================================
// RELEASE  DELETE /me/appointments/:id
// ======================================================

func (h *AppointmentHandler) Release(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	slot, err := h.releaseUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		if httperr.IsBusiness(err, "slot_not_found") {
			httperr.NotFound(c, "slot_not_found", "Turno no encontrado.")
			return
		}
		httperr.Internal(c, "slot_release_failed", "Error al liberar el turno.")
		return
	}

	httpresp.OK(c, slot)
}

// ======================================================
// GENERATE  POST /me/appointments/generate
// ======================================================

func (h *AppointmentHandler) Generate(c *gin.Context) {
	var req GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	switch {
	case req.Date != "":
		date, err := parseDate(req.Date)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
			return
		}

		result, err := h.generator.Execute(c.Request.Context(), date)
		if err != nil {
			httperr.Internal(c, "generation_failed", "Error al generar turnos.")
			return
		}
		httpresp.OK(c, result)

	case req.From != "" && req.To != "":
		from, err1 := parseDate(req.From)
		to, err2 := parseDate(req.To)
		if err1 != nil || err2 != nil || to.Before(from) {
			httperr.BadRequest(c, "invalid_range", "Rango de fechas inválido.")
			return
		}

		results, err := h.generator.ExecuteRange(c.Request.Context(), from, to)
		if err != nil {
			httperr.Internal(c, "generation_failed", "Error al generar turnos.")
			return
		}
		httpresp.List(c, results)

	default:
		httperr.BadRequest(c, "missing_params", "Indicá una fecha o un rango.")
	}
}

// ======================================================
// CLEANUP  POST /me/appointments/cleanup
// ======================================================

func (h *AppointmentHandler) Cleanup(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req CleanupSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	removed, err := h.cleanupUC.Execute(c.Request.Context(), date, userID)
	if err != nil {
		httperr.Internal(c, "cleanup_failed", "Error al limpiar turnos.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
