package db

import (
	"log"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/VillaMorraStudio/agenda-barberia/internal/config"
	domain "github.com/VillaMorraStudio/agenda-barberia/internal/domain/agenda"
	"github.com/VillaMorraStudio/agenda-barberia/internal/models"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Barber{},
		&models.Service{},
		&models.Banner{},
		&models.ScheduleEntry{},
		&models.ScheduleDay{},
		&models.AppointmentSlot{},
		&models.SlotService{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	seedDefaults(db)

	return db
}

// seedDefaults creates the weekday switches and a first admin so a
// fresh database is usable without manual inserts.
func seedDefaults(db *gorm.DB) {
	for _, weekday := range domain.AllWeekdays {
		var count int64
		db.Model(&models.ScheduleDay{}).Where("weekday = ?", weekday).Count(&count)
		if count == 0 {
			db.Create(&models.ScheduleDay{Weekday: weekday, Enabled: weekday != "domingo"})
		}
	}

	var users int64
	db.Model(&models.User{}).Count(&users)
	if users == 0 {
		hashed, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("failed to seed admin user: %v", err)
			return
		}
		db.Create(&models.User{
			Name:         "Administrador",
			Email:        "admin@barberia.local",
			PasswordHash: string(hashed),
			Role:         "admin",
		})
		log.Println("seeded default admin user (admin@barberia.local)")
	}
}
