package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/VillaMorraStudio/agenda-barberia/internal/audit"
	"github.com/VillaMorraStudio/agenda-barberia/internal/clock"
	"github.com/VillaMorraStudio/agenda-barberia/internal/config"
	"github.com/VillaMorraStudio/agenda-barberia/internal/handlers"
	infraRepo "github.com/VillaMorraStudio/agenda-barberia/internal/infra/repository"
	"github.com/VillaMorraStudio/agenda-barberia/internal/middleware"
	"github.com/VillaMorraStudio/agenda-barberia/internal/notify"
	"github.com/VillaMorraStudio/agenda-barberia/internal/payments"
	ucAgenda "github.com/VillaMorraStudio/agenda-barberia/internal/usecase/agenda"
)

type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Clock    clock.Clock
	Notify   *notify.Dispatcher
	Gateway  payments.Gateway
	SlotRepo *infraRepo.SlotGormRepository
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	auditLogger := audit.New(d.DB)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES — AGENDA
	// ======================================================
	generateUC := ucAgenda.NewGenerateSlots(d.SlotRepo)
	availabilityUC := ucAgenda.NewGetAvailability(d.SlotRepo)
	reserveUC := ucAgenda.NewReserveSlot(d.SlotRepo, d.Clock, d.Notify)
	releaseUC := ucAgenda.NewReleaseSlot(d.SlotRepo, auditDispatcher, d.Notify)
	updateUC := ucAgenda.NewUpdateSlot(d.SlotRepo, auditDispatcher)
	listUC := ucAgenda.NewListSlots(d.SlotRepo)
	cleanupUC := ucAgenda.NewCleanupSlots(d.SlotRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(d.DB, d.Config)

	scheduleHandler := handlers.NewScheduleHandler(d.DB, generateUC, auditDispatcher, d.Clock)
	appointmentHandler := handlers.NewAppointmentHandler(
		listUC,
		updateUC,
		releaseUC,
		generateUC,
		cleanupUC,
	)

	barberHandler := handlers.NewBarberHandler(d.DB, auditDispatcher)
	serviceHandler := handlers.NewServiceHandler(d.DB, auditDispatcher)
	bannerHandler := handlers.NewBannerHandler(d.DB, auditDispatcher)

	publicHandler := handlers.NewPublicHandler(d.DB, availabilityUC, reserveUC)
	paymentHandler := handlers.NewPaymentHandler(
		d.SlotRepo,
		d.Gateway,
		d.Config.MPWebhookSecret,
		d.Notify,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		public := api.Group("/public")
		{
			public.GET("/services", publicHandler.ListServices)
			public.GET("/barbers", publicHandler.ListBarbers)
			public.GET("/banners", publicHandler.ListBanners)
			public.GET("/appointments/availability/:date", publicHandler.Availability)
			public.POST("/appointments/reserve", publicHandler.Reserve)

			public.POST("/payments/preference", paymentHandler.CreatePreference)
		}

		// Inbound gateway notifications (HMAC validated, no JWT)
		api.POST("/payments/webhook", paymentHandler.Webhook)

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// ADMIN
		// ------------------------------
		secured := api.Group("/me")
		secured.Use(middleware.AuthMiddleware(d.Config))
		{
			secured.GET("/schedule", scheduleHandler.List)
			secured.PUT("/schedule", scheduleHandler.Upsert)
			secured.DELETE("/schedule/:id", scheduleHandler.Delete)
			secured.PATCH("/schedule/:weekday/toggle", scheduleHandler.ToggleDay)

			secured.GET("/appointments", appointmentHandler.List)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", appointmentHandler.Release)
			secured.POST("/appointments/generate", appointmentHandler.Generate)
			secured.POST("/appointments/cleanup", appointmentHandler.Cleanup)

			secured.GET("/barbers", barberHandler.List)
			secured.POST("/barbers", barberHandler.Create)
			secured.PATCH("/barbers/:id", barberHandler.Update)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.PATCH("/services/:id", serviceHandler.Update)

			secured.GET("/banners", bannerHandler.List)
			secured.POST("/banners", bannerHandler.Create)
			secured.PATCH("/banners/:id", bannerHandler.Update)
			secured.DELETE("/banners/:id", bannerHandler.Delete)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
