package model

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The schema must migrate and insert cleanly on sqlite as well as
// postgres: primary keys carry no database-side default, so BeforeCreate
// has to hand out the UUIDs.
func TestSchemaMigratesAndAssignsIDsOnSQLite(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&QuoteRequest{},
		&Invoice{},
		&SampleRequest{},
		&Notification{},
		&Message{},
		&User{},
		&ProductType{},
		&RawLeatherType{},
		&Product{},
		&RawLeather{},
	))

	quote := QuoteRequest{
		RequestNumber:    "QR-20260801-00001",
		ItemName:         "Full grain cowhide",
		ItemTypeCategory: ItemCategoryRawLeather,
		CustomerName:     "Lena Okafor",
		Email:            "lena@okafor.example",
		Country:          "Germany",
		Quantity:         decimal.NewFromInt(10),
		QuantityUnit:     "sq ft",
		Status:           QuoteRequested,
	}
	require.NoError(t, db.Create(&quote).Error)
	assert.NotEqual(t, uuid.Nil, quote.ID)

	notif := Notification{
		Title:   "New quote request",
		Message: "Lena Okafor requested a quote",
		Type:    NotifNewQuoteRequest,
	}
	require.NoError(t, db.Create(&notif).Error)
	assert.NotEqual(t, uuid.Nil, notif.ID)

	// Pre-set IDs are preserved, not overwritten.
	preset := uuid.New()
	msg := Message{ID: preset, Name: "Marco", Email: "marco@ruiz.example", Body: "hello"}
	require.NoError(t, db.Create(&msg).Error)
	assert.Equal(t, preset, msg.ID)
}
