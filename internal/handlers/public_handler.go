package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httpresp"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
	ucAgenda "github.com/VillaMorraStudio/agenda-barberia/internal/usecase/agenda"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db             *gorm.DB
	availabilityUC *ucAgenda.GetAvailability
	reserveUC      *ucAgenda.ReserveSlot
}

func NewPublicHandler(
	db *gorm.DB,
	availabilityUC *ucAgenda.GetAvailability,
	reserveUC *ucAgenda.ReserveSlot,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		availabilityUC: availabilityUC,
		reserveUC:      reserveUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type ReserveSlotRequest struct {
	Date          string `json:"date" binding:"required"` // YYYY-MM-DD
	Hour          string `json:"hour" binding:"required"` // HH:mm
	BarberID      *uint  `json:"barber_id"`
	CustomerName  string `json:"customer_name" binding:"required"`
	CustomerPhone string `json:"customer_phone" binding:"required"`
	ServiceIDs    []uint `json:"service_ids" binding:"required"`
}

////////////////////////////////////////////////////////
// CATALOGS
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.
		Where("active = true").
		Order("id ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "services_list_failed", "Error al listar servicios.")
		return
	}

	httpresp.List(c, services)
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	var barbers []models.Barber
	if err := h.db.
		Where("active = true AND include_in_schedule = true").
		Order("id ASC").
		Find(&barbers).Error; err != nil {
		httperr.Internal(c, "barbers_list_failed", "Error al listar barberos.")
		return
	}

	httpresp.List(c, barbers)
}

func (h *PublicHandler) ListBanners(c *gin.Context) {
	var banners []models.Banner
	if err := h.db.
		Where("active = true").
		Order("position ASC, id ASC").
		Find(&banners).Error; err != nil {
		httperr.Internal(c, "banners_list_failed", "Error al listar banners.")
		return
	}

	httpresp.List(c, banners)
}

////////////////////////////////////////////////////////
// AVAILABILITY  GET /appointments/availability/:date
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
		return
	}

	availability, err := h.availabilityUC.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Internal(c, "availability_failed", "Error al calcular disponibilidad.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"date":         c.Param("date"),
		"availability": availability,
	})
}

////////////////////////////////////////////////////////
// RESERVE  POST /appointments/reserve
////////////////////////////////////////////////////////

func (h *PublicHandler) Reserve(c *gin.Context) {
	var req ReserveSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	slot, err := h.reserveUC.Execute(c.Request.Context(), ucAgenda.ReserveSlotInput{
		Date:          req.Date,
		Hour:          req.Hour,
		BarberID:      req.BarberID,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		ServiceIDs:    req.ServiceIDs,
	})
	if err != nil {
		mapReserveErrors(c, err)
		return
	}

	c.JSON(http.StatusCreated, slot)
}

func mapReserveErrors(c *gin.Context, err error) {
	var dup *domain.DuplicateBookingError
	if errors.As(err, &dup) {
		c.JSON(http.StatusConflict, gin.H{
			"error_code": "duplicate_active_booking",
			"message":    "Ya tenés un turno reservado.",
			"conflict": gin.H{
				"slot_id":     dup.SlotID,
				"date":        dup.Date.Format("2006-01-02"),
				"hour":        dup.Hour,
				"barber_id":   dup.BarberID,
				"barber_name": dup.BarberName,
			},
		})
		return
	}

	switch {
	case httperr.IsBusiness(err, "invalid_customer_name"):
		httperr.BadRequest(c, "invalid_customer_name", "El nombre debe tener al menos 3 letras.")
	case httperr.IsBusiness(err, "invalid_customer_phone"):
		httperr.BadRequest(c, "invalid_customer_phone", "El celular debe ser 09 seguido de 8 dígitos.")
	case httperr.IsBusiness(err, "missing_services"):
		httperr.BadRequest(c, "missing_services", "Elegí al menos un servicio.")
	case httperr.IsBusiness(err, "invalid_date"):
		httperr.BadRequest(c, "invalid_date", "Fecha inválida.")
	case httperr.IsBusiness(err, "invalid_hour"):
		httperr.BadRequest(c, "invalid_hour", "Hora inválida.")
	case httperr.IsBusiness(err, "service_not_found"):
		httperr.BadRequest(c, "service_not_found", "Servicio inválido.")
	case httperr.IsBusiness(err, "slot_unavailable"):
		httperr.Conflict(c, "slot_unavailable", "Ese horario ya no está disponible. Actualizá y probá otro.")
	default:
		httperr.Internal(c, "reserve_failed", "Error al reservar el turno.")
	}
}
