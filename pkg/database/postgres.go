package database

import (
	"log"
	"os"

	"github.com/sefazor/checkout-backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func NewDatabase() *gorm.DB {
	// Doğrudan DATABASE_URL'i kullan
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	return db
}

func RunMigrations(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.Purchase{},
	)
	if err != nil {
		return err
	}

	// Örnek ürünleri ekle (eğer yoksa)
	products := []models.Product{
		{
			Name:           "Premium Ringtone",
			Description:    "One premium ringtone download",
			PriceSettingID: 111111,
			IsActive:       true,
		},
		{
			Name:           "Wallpaper Pack",
			Description:    "Five wallpapers for your phone",
			PriceSettingID: 111111,
			IsActive:       true,
		},
	}

	for _, product := range products {
		var count int64
		db.Model(&models.Product{}).Where("name = ?", product.Name).Count(&count)
		if count == 0 {
			if err := db.Create(&product).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
