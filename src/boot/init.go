package boot

import (
	"atman/src/common"
	"atman/src/config"
	"atman/src/db"
	"atman/src/lib"
	"atman/src/models"
	"log"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.Setting{},
		&models.Service{},
		&models.ScheduleEvent{},
		&models.Contact{},
		&models.Booking{},
		&models.Payment{},
		&models.PaymentLog{},
		&models.GalleryItem{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	seedSettings(db)

	return db
}

// seedSettings inserts the public settings the site payload is composed
// from, so a fresh database serves a usable /site response. Existing keys
// are left untouched.
func seedSettings(db *gorm.DB) {
	defaults := map[string]string{
		"brand":   "СТУДИЯ АТМАН",
		"tagline": "Практики осознанности и телесной работы",
	}
	for key, value := range defaults {
		v := value
		setting := models.Setting{Key: key, Value: &v, IsPublic: true}
		if err := db.Where(models.Setting{Key: key}).FirstOrCreate(&setting).Error; err != nil {
			log.Printf("Error seeding setting %s: %s\n", key, err.Error())
		}
	}
}

func InitScheduler(cfg *config.Config) {
	if cfg.SweepInterval <= 0 {
		return
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Fatalf("error initializing scheduler: %s", err.Error())
	}
	_, err = lib.CreateCronJob(func() {
		common.SweepPendingPayments(cfg, lib.GetGateway())
	}, cfg.SweepInterval)
	if err != nil {
		log.Fatalf("error registering payment sweep job: %s", err.Error())
	}
	sched.Start()
	log.Printf("Payment sweep scheduled every %s\n", cfg.SweepInterval)
}
