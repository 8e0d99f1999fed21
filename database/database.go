package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/aietlabs/faceattend/config"
	"github.com/aietlabs/faceattend/models"
)

var DB *gorm.DB

func Connect(cfg *config.Config) {
	db, err := open(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("auto migrate failed: %v", err)
	}
}

func open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "sqlite", "":
		return gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	case "postgres":
		return gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// Migrate creates the schema and seeds default settings. Split out so tests
// can run it against an in-memory database.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Student{},
		&models.FaceSample{},
		&models.Subject{},
		&models.Attendance{},
		&models.Faculty{},
		&models.Setting{},
	); err != nil {
		return err
	}

	// Seed default settings once; existing values are never overwritten.
	defaults := []models.Setting{
		{Key: models.SettingTelegramBotToken, Value: ""},
		{Key: models.SettingTelegramChatID, Value: ""},
		{Key: models.SettingRecognitionThreshold, Value: "70"},
	}
	for _, s := range defaults {
		var existing models.Setting
		if err := db.Where("key = ?", s.Key).First(&existing).Error; err == gorm.ErrRecordNotFound {
			if err := db.Create(&s).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// GetSetting reads a settings value, falling back to def when the key is
// missing or blank.
func GetSetting(key, def string) string {
	var s models.Setting
	if err := DB.Where("key = ?", key).First(&s).Error; err != nil {
		return def
	}
	if s.Value == "" {
		return def
	}
	return s.Value
}
