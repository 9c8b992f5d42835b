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

type BannerHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewBannerHandler(db *gorm.DB, auditor *audit.Dispatcher) *BannerHandler {
	return &BannerHandler{db: db, audit: auditor}
}

type BannerRequest struct {
	Title    string `json:"title" binding:"required"`
	ImageURL string `json:"image_url"`
	Active   *bool  `json:"active"`
	Position int    `json:"position"`
}

func (h *BannerHandler) List(c *gin.Context) {
	var banners []models.Banner
	if err := h.db.Order("position ASC, id ASC").Find(&banners).Error; err != nil {
		httperr.Internal(c, "banners_list_failed", "Error al listar banners.")
		return
	}
	httpresp.List(c, banners)
}

func (h *BannerHandler) Create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	banner := models.Banner{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		Active:   true,
		Position: req.Position,
	}
	if req.Active != nil {
		banner.Active = *req.Active
	}

	if err := h.db.Create(&banner).Error; err != nil {
		httperr.Internal(c, "banner_create_failed", "Error al crear banner.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "banner_created",
		Entity:   "banner",
		EntityID: &banner.ID,
	})

	c.JSON(http.StatusCreated, banner)
}

func (h *BannerHandler) Update(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	var banner models.Banner
	if err := h.db.First(&banner, id).Error; err != nil {
		httperr.NotFound(c, "banner_not_found", "Banner no encontrado.")
		return
	}

	var req BannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	banner.Title = req.Title
	banner.ImageURL = req.ImageURL
	banner.Position = req.Position
	if req.Active != nil {
		banner.Active = *req.Active
	}

	if err := h.db.Save(&banner).Error; err != nil {
		httperr.Internal(c, "banner_update_failed", "Error al actualizar banner.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "banner_updated",
		Entity:   "banner",
		EntityID: &banner.ID,
	})

	httpresp.OK(c, banner)
}

func (h *BannerHandler) Delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	id, ok := parseUintParam(c, "id")
	if !ok {
		httperr.BadRequest(c, "invalid_id", "Identificador inválido.")
		return
	}

	result := h.db.Delete(&models.Banner{}, id)
	if result.Error != nil {
		httperr.Internal(c, "banner_delete_failed", "Error al eliminar banner.")
		return
	}
	if result.RowsAffected == 0 {
		httperr.NotFound(c, "banner_not_found", "Banner no encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   userID,
		Action:   "banner_deleted",
		Entity:   "banner",
		EntityID: &id,
	})

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
