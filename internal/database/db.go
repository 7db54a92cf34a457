package database

import (
	"log"

	"hidetrade/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.User{},
		&model.ProductType{},
		&model.RawLeatherType{},
		&model.Product{},
		&model.RawLeather{},
		&model.QuoteRequest{},
		&model.Invoice{},
		&model.SampleRequest{},
		&model.Notification{},
		&model.Message{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
