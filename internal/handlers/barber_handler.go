package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VillaMorraStudio/agenda-barberia/internal/audit"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httpresp"
	"github.com/VillaMorraStudio/agenda-barberia/internal/middleware"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

type BarberHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBarberHandler(db *gorm.DB, auditor *audit.Dispatcher) *BarberHandler {
	return &BarberHandler{db: db, audit: auditor}
}

type BarberRequest struct {
	Name              string `json:"name" binding:"required"`
	Phone             string `json:"phone"`
	Active            *bool  `json:"active"`
	IncludeInSchedule *bool  `json:"include_in_schedule"`
}

func (h *BarberHandler) List(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.Order("id ASC").Find(&barbers).Error; err != nil {
		httperr.Internal(c, "barbers_list_failed", "Error al listar barberos.")
		return
	}
	httpresp.List(c, barbers)
}

func (h *BarberHandler) Create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req BarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	barber := models.Barber{
		Name:              req.Name,
		Phone:             req.Phone,
		Active:            true,
		IncludeInSchedule: true,
	}
	if req.Active != nil {
		barber.Active = *req.Active
	}
	if req.IncludeInSchedule != nil {
		barber.IncludeInSchedule = *req.IncludeInSchedule
	}

	if err := h.db.Create(&barber).Error; err != nil {
		httperr.Internal(c, "barber_create_failed", "Error al crear barbero.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &barber.ID,
	})

	c.JSON(http.StatusCreated, barber)
}

func (h *BarberHandler) Update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var barber models.Barber
	if err := h.db.First(&barber, id).Error; err != nil {
		httperr.NotFound(c, "barber_not_found", "Barbero no encontrado.")
		return
	}

	var req BarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	barber.Name = req.Name
	barber.Phone = req.Phone
	if req.Active != nil {
		barber.Active = *req.Active
	}
	if req.IncludeInSchedule != nil {
		barber.IncludeInSchedule = *req.IncludeInSchedule
	}

	if err := h.db.Save(&barber).Error; err != nil {
		httperr.Internal(c, "barber_update_failed", "Error al actualizar barbero.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "barber_updated",
		Entity:   "barber",
		EntityID: &barber.ID,
	})

	httpresp.OK(c, barber)
}
