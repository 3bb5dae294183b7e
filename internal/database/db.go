package database

import (
	"fmt"
	"time"

	"campstock/internal/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver
)

// Open initializes a database connection for the given dialect
func Open(dialect, dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	db.DB().SetMaxIdleConns(10)
	db.DB().SetMaxOpenConns(100)
	db.DB().SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate creates and updates all required tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Property{},
		&models.Supplier{},
		&models.ProductCategory{},
		&models.InventoryItem{},
		&models.InventoryCount{},
		&models.InventoryCountItem{},
		&models.MasterProduct{},
		&models.Order{},
		&models.OrderItem{},
		&models.Receipt{},
		&models.Notification{},
	).Error
}

// SeedDefaults ensures essential data exists so a fresh install is usable
func SeedDefaults(db *gorm.DB, adminEmail, adminPasswordHash string) error {
	var propertyCount int64
	db.Model(&models.Property{}).Count(&propertyCount)
	if propertyCount == 0 {
		defaults := []models.Property{
			{Name: "Yukon River Camp", Code: "YRC", IsActive: true},
			{Name: "Coldfoot Camp", Code: "CFC", IsActive: true},
		}
		for _, p := range defaults {
			if err := db.Create(&p).Error; err != nil {
				return err
			}
		}
	}

	var categoryCount int64
	db.Model(&models.ProductCategory{}).Count(&categoryCount)
	if categoryCount == 0 {
		names := []string{"Dairy", "Produce", "Protein", "Dry Goods", "Beverages", "Cleaning", "Paper Goods"}
		for i, name := range names {
			cat := models.ProductCategory{Name: name, SortOrder: i, IsActive: true}
			if err := db.Create(&cat).Error; err != nil {
				return err
			}
		}
	}

	if adminEmail != "" {
		var adminCount int64
		db.Model(&models.User{}).Where("role = ?", string(models.RoleAdmin)).Count(&adminCount)
		if adminCount == 0 {
			admin := models.User{
				Email:          adminEmail,
				HashedPassword: adminPasswordHash,
				FullName:       "Administrator",
				Role:           string(models.RoleAdmin),
				IsActive:       true,
			}
			if err := db.Create(&admin).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
