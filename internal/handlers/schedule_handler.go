package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VillaMorraStudio/agenda-barberia/internal/audit"
	"github.com/VillaMorraStudio/agenda-barberia/internal/clock"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httpresp"
	"github.com/VillaMorraStudio/agenda-barberia/internal/infra/repository"
	"github.com/VillaMorraStudio/agenda-barberia/internal/middleware"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
	ucAgenda "github.com/VillaMorraStudio/agenda-barberia/internal/usecase/agenda"
)

// Days ahead regenerated after a schedule change.
const regenerateDays = 7

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	db        *gorm.DB
	generator *ucAgenda.GenerateSlots
	audit     *audit.Dispatcher
	clock     clock.Clock
}

func NewScheduleHandler(
	db *gorm.DB,
	generator *ucAgenda.GenerateSlots,
	auditor *audit.Dispatcher,
	clk clock.Clock,
) *ScheduleHandler {
	return &ScheduleHandler{
		db:        db,
		generator: generator,
		audit:     auditor,
		clock:     clk,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpsertScheduleEntryRequest struct {
	Hour   string   `json:"hour" binding:"required"`
	Days   []string `json:"days" binding:"required"`
	Active *bool    `json:"active"`
}

// ======================================================
// LIST
// ======================================================

func (h *ScheduleHandler) List(c *gin.Context) {
	var entries []models.ScheduleEntry
	if err := h.db.Order("hour ASC").Find(&entries).Error; err != nil {
		httperr.Internal(c, "schedule_list_failed", "Error al listar horarios.")
		return
	}

	var days []models.ScheduleDay
	if err := h.db.Order("id ASC").Find(&days).Error; err != nil {
		httperr.Internal(c, "schedule_list_failed", "Error al listar días.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"days":    days,
	})
}

// ======================================================
// UPSERT (one entry per hour)
// ======================================================

func (h *ScheduleHandler) Upsert(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req UpsertScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	if _, err := time.Parse("15:04", req.Hour); err != nil {
		httperr.BadRequest(c, "invalid_hour", "Hora inválida.")
		return
	}

	days := make([]string, 0, len(req.Days))
	for _, d := range req.Days {
		d = strings.ToLower(strings.TrimSpace(d))
		if !domain.IsValidWeekday(d) {
			httperr.BadRequest(c, "invalid_weekday", "Día inválido: "+d)
			return
		}
		days = append(days, d)
	}

	var entry models.ScheduleEntry
	err := h.db.Where("hour = ?", req.Hour).First(&entry).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		httperr.Internal(c, "schedule_upsert_failed", "Error al guardar horario.")
		return
	}

	entry.Hour = req.Hour
	entry.SetDays(days)
	if req.Active != nil {
		entry.Active = *req.Active
	} else if entry.ID == 0 {
		entry.Active = true
	}

	if err := h.db.Save(&entry).Error; err != nil {
		// two admins creating the same hour at once hit the unique index
		if repository.IsUniqueViolation(err) {
			httperr.Conflict(c, "duplicate_hour", "Ya existe una configuración para esa hora.")
			return
		}
		httperr.Internal(c, "schedule_upsert_failed", "Error al guardar horario.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "schedule_entry_upserted",
		Entity:   "schedule_entry",
		EntityID: &entry.ID,
	})

	h.regenerateUpcoming(c)

	httpresp.OK(c, entry)
}

// ======================================================
// DELETE ENTRY
// ======================================================

func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	result := h.db.Delete(&models.ScheduleEntry{}, id)
	if result.Error != nil {
		httperr.Internal(c, "schedule_delete_failed", "Error al eliminar horario.")
		return
	}
	if result.RowsAffected == 0 {
		httperr.NotFound(c, "schedule_entry_not_found", "Horario no encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "schedule_entry_deleted",
		Entity:   "schedule_entry",
		EntityID: &id,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ======================================================
// TOGGLE WEEKDAY
// ======================================================

func (h *ScheduleHandler) ToggleDay(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	weekday := strings.ToLower(strings.TrimSpace(c.Param("weekday")))
	if !domain.IsValidWeekday(weekday) {
		httperr.BadRequest(c, "invalid_weekday", "Día inválido.")
		return
	}

	var day models.ScheduleDay
	err := h.db.Where("weekday = ?", weekday).First(&day).Error
	if err == gorm.ErrRecordNotFound {
		// missing row counts as enabled, so the first toggle disables
		day = models.ScheduleDay{Weekday: weekday, Enabled: false}
		err = h.db.Create(&day).Error
		if repository.IsUniqueViolation(err) {
			httperr.Conflict(c, "schedule_toggle_conflict", "El día fue modificado por otro usuario.")
			return
		}
	} else if err == nil {
		day.Enabled = !day.Enabled
		err = h.db.Save(&day).Error
	}
	if err != nil {
		httperr.Internal(c, "schedule_toggle_failed", "Error al actualizar el día.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "schedule_day_toggled",
		Entity:   "schedule_day",
		EntityID: &day.ID,
		Metadata: gin.H{"weekday": weekday, "enabled": day.Enabled},
	})

	// Disabling never deletes generated slots; cleanup is explicit.
	if day.Enabled {
		h.regenerateUpcoming(c)
	}

	httpresp.OK(c, day)
}

// regenerateUpcoming refreshes the coming days after a schedule
// change. Generation is idempotent, so over-calling is harmless.
func (h *ScheduleHandler) regenerateUpcoming(c *gin.Context) {
	from := h.clock.Now()
	to := from.AddDate(0, 0, regenerateDays-1)

	if _, err := h.generator.ExecuteRange(c.Request.Context(), from, to); err != nil {
		log.Printf("schedule regeneration failed: %v", err)
	}
}
