package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httperr"
	"github.com/VillaMorraStudio/agenda-barberia/internal/httpresp"
	"github.com/VillaMorraStudio/agenda-barberia/internal/infra/repository"
	"github.com/VillaMorraStudio/agenda-barberia/internal/notify"
	"github.com/VillaMorraStudio/agenda-barberia/internal/payments"
)

// ======================================================
// HANDLER
// ======================================================

type PaymentHandler struct {
	repo          domain.Repository
	gateway       payments.Gateway
	webhookSecret string
	notify        *notify.Dispatcher
}

func NewPaymentHandler(
	repo domain.Repository,
	gateway payments.Gateway,
	webhookSecret string,
	notifier *notify.Dispatcher,
) *PaymentHandler {
	return &PaymentHandler{
		repo:          repo,
		gateway:       gateway,
		webhookSecret: webhookSecret,
		notify:        notifier,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreatePreferenceRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// ======================================================
// CREATE PREFERENCE  POST /payments/preference
// ======================================================

func (h *PaymentHandler) CreatePreference(c *gin.Context) {
	if h.gateway == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "upstream_unavailable", "Pagos no disponibles por el momento.")
		return
	}

	var req CreatePreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Datos inválidos.")
		return
	}

	slot, err := h.repo.GetSlotByReference(c.Request.Context(), req.Reference)
	if err != nil {
		if repository.IsNotFound(err) {
			httperr.NotFound(c, "slot_not_found", "Reserva no encontrada.")
			return
		}
		httperr.Internal(c, "payment_failed", "Error al iniciar el pago.")
		return
	}

	if slot.PaymentStatus == string(domain.PaymentPaid) {
		httperr.BadRequest(c, "already_paid", "La reserva ya está paga.")
		return
	}

	pref, err := h.gateway.CreatePreference(c.Request.Context(), slot)
	if err != nil {
		log.Printf("payment preference failed for slot %d: %v", slot.ID, err)
		httperr.Write(c, http.StatusBadGateway, "upstream_unavailable", "El proveedor de pagos no respondió.")
		return
	}

	httpresp.OK(c, pref)
}

// ======================================================
// WEBHOOK  POST /payments/webhook
// ======================================================

// Webhook handles Mercado Pago notifications. The booking itself is
// already committed; this only moves payment state forward, so every
// recognized notification is acknowledged with 200 to stop retries.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	dataID := c.Query("data.id")
	if dataID == "" {
		dataID = c.Query("id")
	}

	if !payments.VerifySignature(
		c.GetHeader("x-signature"),
		c.GetHeader("x-request-id"),
		dataID,
		h.webhookSecret,
	) {
		httperr.Unauthorized(c, "invalid_signature", "Firma inválida.")
		return
	}

	if c.Query("type") != "payment" || h.gateway == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	paymentID, err := strconv.Atoi(dataID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	info, err := h.gateway.GetPayment(c.Request.Context(), paymentID)
	if err != nil {
		log.Printf("payment lookup %d failed: %v", paymentID, err)
		httperr.Write(c, http.StatusBadGateway, "upstream_unavailable", "No se pudo consultar el pago.")
		return
	}

	if info.Status != "approved" {
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	slot, err := h.repo.GetSlotByReference(c.Request.Context(), info.Reference)
	if err != nil {
		// unknown reference: acknowledge so the gateway stops retrying
		c.JSON(http.StatusOK, gin.H{"status": "unknown_reference"})
		return
	}

	slot.PaymentStatus = string(domain.PaymentPaid)
	if slot.Status == string(domain.StatusReserved) {
		if err := domain.Confirm(slot); err == nil {
			h.notify.Dispatch(notify.Event{
				Kind:  notify.EventConfirmed,
				Phone: slot.CustomerPhone,
				Name:  slot.CustomerName,
				Date:  slot.Date,
				Hour:  slot.Hour,
			})
		}
	}

	if err := h.repo.UpdateSlot(c.Request.Context(), slot); err != nil {
		httperr.Internal(c, "payment_update_failed", "Error al registrar el pago.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
