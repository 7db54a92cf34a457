package service

import (
	"context"
	"testing"

	"hidetrade/internal/model"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuoteFixture(t *testing.T) (QuoteService, *gorm.DB) {
	db := newTestDB(t)
	svc := NewQuoteService(repository.NewQuoteRepository(db), repository.NewCatalogRepository(db), newTestNotifier(db))
	return svc, db
}

func validQuoteInput() CreateQuoteRequestInput {
	return CreateQuoteRequestInput{
		ItemName:         "Crazy horse leather",
		ItemTypeCategory: model.ItemCategoryRawLeather,
		CustomerName:     "Marco Ruiz",
		CompanyName:      "Ruiz Saddlery",
		Email:            "marco@ruiz.example",
		Country:          "Mexico",
		Quantity:         "250",
		QuantityUnit:     "sq ft",
	}
}

func TestCreateQuoteRequest(t *testing.T) {
	svc, db := newQuoteFixture(t)

	resp, err := svc.CreateQuoteRequest(context.Background(), validQuoteInput())
	require.NoError(t, err)

	assert.Equal(t, model.QuoteRequested, resp.Status)
	assert.Regexp(t, `^QR-\d{8}-\d{5}$`, resp.RequestNumber)
	assert.Equal(t, "250", resp.Quantity)

	// A notification is recorded as a side effect.
	var notifCount int64
	require.NoError(t, db.Model(&model.Notification{}).Where("type = ?", model.NotifNewQuoteRequest).Count(&notifCount).Error)
	assert.EqualValues(t, 1, notifCount)
}

func TestCreateQuoteRequestSequentialNumbers(t *testing.T) {
	svc, _ := newQuoteFixture(t)

	first, err := svc.CreateQuoteRequest(context.Background(), validQuoteInput())
	require.NoError(t, err)
	second, err := svc.CreateQuoteRequest(context.Background(), validQuoteInput())
	require.NoError(t, err)

	assert.NotEqual(t, first.RequestNumber, second.RequestNumber)
	assert.Equal(t, first.RequestNumber[:12], second.RequestNumber[:12])
}

func TestCreateQuoteRequestResolvesCatalogItem(t *testing.T) {
	svc, db := newQuoteFixture(t)

	rl := model.RawLeather{Name: "Pull-up buffalo", IsActive: true}
	require.NoError(t, db.Create(&rl).Error)

	input := validQuoteInput()
	input.ItemID = rl.ID.String()
	input.ItemName = "stale client-side name"
	resp, err := svc.CreateQuoteRequest(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, "Pull-up buffalo", resp.ItemName)

	// Dangling references are caller errors.
	input.ItemID = "3c1f9a2b-0000-4000-8000-000000000000"
	_, err = svc.CreateQuoteRequest(context.Background(), input)
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCreateQuoteRequestRejectsBadQuantity(t *testing.T) {
	svc, _ := newQuoteFixture(t)

	for _, quantity := range []string{"0", "-5", "many"} {
		input := validQuoteInput()
		input.Quantity = quantity
		_, err := svc.CreateQuoteRequest(context.Background(), input)
		assert.ErrorIs(t, err, apperr.ErrValidation, "quantity %q", quantity)
	}
}

func TestUpdateQuoteRequestStatusAndPricing(t *testing.T) {
	svc, db := newQuoteFixture(t)

	created, err := svc.CreateQuoteRequest(context.Background(), validQuoteInput())
	require.NoError(t, err)

	approved := model.QuoteApproved
	price := "3.80"
	comments := "Approved at listed volume"
	resp, err := svc.UpdateQuoteRequest(context.Background(), created.ID, UpdateQuoteRequestInput{
		Status:               &approved,
		AdminComments:        &comments,
		ProposedPricePerUnit: &price,
	})
	require.NoError(t, err)

	assert.Equal(t, model.QuoteApproved, resp.Status)
	assert.Equal(t, comments, resp.AdminComments)
	require.NotNil(t, resp.ProposedPricePerUnit)
	assert.Equal(t, "3.80", *resp.ProposedPricePerUnit)
	require.NotNil(t, resp.ProposedTotalPrice)
	assert.Equal(t, "950.00", *resp.ProposedTotalPrice)

	// Status change recorded a notification on top of the creation one.
	var notifCount int64
	require.NoError(t, db.Model(&model.Notification{}).Where("type = ?", model.NotifQuoteStatus).Count(&notifCount).Error)
	assert.EqualValues(t, 1, notifCount)
}

func TestUpdateQuoteRequestSameStatusIsQuiet(t *testing.T) {
	svc, db := newQuoteFixture(t)

	created, err := svc.CreateQuoteRequest(context.Background(), validQuoteInput())
	require.NoError(t, err)

	requested := model.QuoteRequested
	_, err = svc.UpdateQuoteRequest(context.Background(), created.ID, UpdateQuoteRequestInput{Status: &requested})
	require.NoError(t, err)

	var notifCount int64
	require.NoError(t, db.Model(&model.Notification{}).Where("type = ?", model.NotifQuoteStatus).Count(&notifCount).Error)
	assert.Zero(t, notifCount)
}

func TestUpdateQuoteRequestDispatchStampsTime(t *testing.T) {
	svc, db := newQuoteFixture(t)

	created, err := svc.CreateQuoteRequest(context.Background(), validQuoteInput())
	require.NoError(t, err)

	dispatched := model.QuoteDispatched
	tracking := "https://track.example/XYZ"
	_, err = svc.UpdateQuoteRequest(context.Background(), created.ID, UpdateQuoteRequestInput{
		Status:               &dispatched,
		ShippingTrackingLink: &tracking,
	})
	require.NoError(t, err)

	var reloaded model.QuoteRequest
	require.NoError(t, db.First(&reloaded, "request_number = ?", created.RequestNumber).Error)
	require.NotNil(t, reloaded.DispatchedAt)
	assert.Equal(t, tracking, reloaded.ShippingTrackingLink)
}

func TestGetQuoteRequestNotFound(t *testing.T) {
	svc, _ := newQuoteFixture(t)

	_, err := svc.GetQuoteRequest(context.Background(), "2f6a1c7d-0000-4000-8000-000000000000")
	require.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = svc.GetQuoteRequest(context.Background(), "not-a-uuid")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestListQuoteRequestsFilters(t *testing.T) {
	svc, _ := newQuoteFixture(t)

	for _, country := range []string{"Mexico", "Mexico", "Japan"} {
		input := validQuoteInput()
		input.Country = country
		_, err := svc.CreateQuoteRequest(context.Background(), input)
		require.NoError(t, err)
	}

	all, total, err := svc.ListQuoteRequests(context.Background(), QuoteListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	mexican, total, err := svc.ListQuoteRequests(context.Background(), QuoteListFilter{Country: "Mexico"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	for _, q := range mexican {
		assert.Equal(t, "Mexico", q.Country)
	}

	bySearch, total, err := svc.ListQuoteRequests(context.Background(), QuoteListFilter{Search: "Ruiz"})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.NotEmpty(t, bySearch)

	_, total, err = svc.ListQuoteRequests(context.Background(), QuoteListFilter{Status: model.QuoteApproved})
	require.NoError(t, err)
	assert.Zero(t, total)
}
