package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VillaMorraStudio/agenda-barberia/internal/clock"
	"github.com/VillaMorraStudio/agenda-barberia/internal/config"
	dbpkg "github.com/VillaMorraStudio/agenda-barberia/internal/db"
	infraRepo "github.com/VillaMorraStudio/agenda-barberia/internal/infra/repository"
	"github.com/VillaMorraStudio/agenda-barberia/internal/lock"
	"github.com/VillaMorraStudio/agenda-barberia/internal/middleware"
	"github.com/VillaMorraStudio/agenda-barberia/internal/notify"
	"github.com/VillaMorraStudio/agenda-barberia/internal/payments"
	"github.com/VillaMorraStudio/agenda-barberia/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	slotRepo := infraRepo.NewSlotGormRepository(db)
	clk := clock.System()

	whatsapp := notify.NewWhatsAppClient(cfg.WhatsAppAPIURL, cfg.WhatsAppAPIToken)
	notifier := notify.NewDispatcher(whatsapp)

	var gateway payments.Gateway
	if cfg.MPAccessToken != "" {
		mp, err := payments.NewMercadoPagoGateway(cfg.MPAccessToken)
		if err != nil {
			log.Fatalf("failed to init payment gateway: %v", err)
		}
		gateway = mp
	}

	var locker lock.Locker
	if redisLock, err := lock.NewRedisLock(cfg.RedisAddr); err != nil {
		// single-instance deployments can run without the lock
		log.Printf("redis unavailable, reminder sweep runs unlocked: %v", err)
	} else {
		locker = redisLock
	}

	sweeper := notify.NewReminderSweeper(
		slotRepo,
		notifier,
		locker,
		clk,
		time.Duration(cfg.ReminderLeadMinutes)*time.Minute,
	)
	go sweeper.Run(context.Background())

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Clock:    clk,
		Notify:   notifier,
		Gateway:  gateway,
		SlotRepo: slotRepo,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
