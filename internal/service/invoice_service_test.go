package service

import (
	"context"
	"testing"
	"time"

	"hidetrade/internal/config"
	"hidetrade/internal/model"
	"hidetrade/internal/repository"
	"hidetrade/pkg/apperr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func testVendor() config.VendorInfo {
	return config.VendorInfo{
		Name:    "HideTrade Leather Co.",
		Address: "Tannery Road 12, Dhaka",
		Email:   "sales@hidetrade.example",
	}
}

func seedQuote(t *testing.T, db *gorm.DB, status string) *model.QuoteRequest {
	t.Helper()
	quote := &model.QuoteRequest{
		RequestNumber:    "QR-20260801-00001",
		ItemName:         "Full grain cowhide",
		ItemTypeCategory: model.ItemCategoryRawLeather,
		CustomerName:     "Lena Okafor",
		CompanyName:      "Okafor Leatherworks",
		Email:            "lena@okafor.example",
		Country:          "Germany",
		Address:          "Lederstrasse 4, Offenbach",
		Quantity:         decimal.NewFromInt(100),
		QuantityUnit:     "sq ft",
		Status:           status,
	}
	require.NoError(t, db.Create(quote).Error)
	return quote
}

func newInvoiceFixture(t *testing.T) (InvoiceService, *gorm.DB, *stubMailer, *stubRenderer) {
	db := newTestDB(t)
	renderer := &stubRenderer{}
	mail := &stubMailer{}
	svc := NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewQuoteRepository(db),
		renderer,
		mail,
		newTestNotifier(db),
		testVendor(),
		"https://shop.hidetrade.example",
	)
	return svc, db, mail, renderer
}

func TestGenerateInvoiceTotals(t *testing.T) {
	svc, db, mail, _ := newInvoiceFixture(t)
	quote := seedQuote(t, db, model.QuoteApproved)

	resp, err := svc.GenerateInvoice(context.Background(), quote.ID.String(), GenerateInvoiceInput{
		ProposedPricePerUnit: "5.00",
		PaymentTerms:         model.Terms100Advance,
		TaxRate:              "0.05",
		ShippingCost:         "50",
	})
	require.NoError(t, err)

	assert.Equal(t, "500.00", resp.Subtotal)
	assert.Equal(t, "25.00", resp.TaxAmount)
	assert.Equal(t, "50.00", resp.ShippingCost)
	assert.Equal(t, "575.00", resp.TotalAmount)
	assert.Equal(t, model.InvoiceSent, resp.Status)

	issue, err := time.Parse("2006-01-02", resp.IssueDate)
	require.NoError(t, err)
	due, err := time.Parse("2006-01-02", resp.DueDate)
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, due.Sub(issue))

	// Customer identity is denormalized onto the invoice.
	assert.Equal(t, quote.CustomerName, resp.CustomerName)
	assert.Equal(t, quote.Email, resp.CustomerEmail)

	// The email went out with the PDF attached.
	require.Len(t, mail.sent, 1)
	assert.Equal(t, quote.Email, mail.sent[0].To)
	require.Len(t, mail.sent[0].Attachments, 1)
	assert.Equal(t, resp.InvoiceNumber+".pdf", mail.sent[0].Attachments[0].Filename)
}

func TestGenerateInvoiceWritesQuoteBackReference(t *testing.T) {
	svc, db, _, _ := newInvoiceFixture(t)
	quote := seedQuote(t, db, model.QuoteApproved)

	resp, err := svc.GenerateInvoice(context.Background(), quote.ID.String(), GenerateInvoiceInput{
		ProposedPricePerUnit: "4.25",
		PaymentTerms:         model.Terms3070Split,
		PaymentInstructions:  "Wire to IBAN DE89 3704 0044 0532 0130 00, ref the invoice number",
	})
	require.NoError(t, err)

	var reloaded model.QuoteRequest
	require.NoError(t, db.First(&reloaded, "id = ?", quote.ID).Error)
	require.NotNil(t, reloaded.InvoiceID)
	assert.Equal(t, resp.ID, reloaded.InvoiceID.String())
	require.NotNil(t, reloaded.ProposedPricePerUnit)
	assert.True(t, reloaded.ProposedPricePerUnit.Equal(decimal.RequireFromString("4.25")))
	assert.Equal(t, model.Terms3070Split, reloaded.PaymentMethod)
	assert.Equal(t, "Wire to IBAN DE89 3704 0044 0532 0130 00, ref the invoice number", reloaded.PaymentDetails)
}

func TestGenerateInvoiceLCTermsInitiateLetterOfCredit(t *testing.T) {
	svc, db, _, _ := newInvoiceFixture(t)
	quote := seedQuote(t, db, model.QuoteApproved)

	_, err := svc.GenerateInvoice(context.Background(), quote.ID.String(), GenerateInvoiceInput{
		ProposedPricePerUnit: "5.00",
		PaymentTerms:         model.TermsLC,
		LCNumber:             "LC-889021",
		LCBank:               "Commerzbank",
	})
	require.NoError(t, err)

	var reloaded model.QuoteRequest
	require.NoError(t, db.First(&reloaded, "id = ?", quote.ID).Error)
	assert.Equal(t, "initiated", reloaded.LCStatus)
	assert.Equal(t, "LC-889021", reloaded.LCNumber)
	assert.Equal(t, "Commerzbank", reloaded.LCBank)
}

func TestGenerateInvoiceRequiresApprovedQuote(t *testing.T) {
	svc, db, _, _ := newInvoiceFixture(t)
	quote := seedQuote(t, db, model.QuoteRequested)

	_, err := svc.GenerateInvoice(context.Background(), quote.ID.String(), GenerateInvoiceInput{
		ProposedPricePerUnit: "5.00",
		PaymentTerms:         model.Terms100Advance,
	})
	require.ErrorIs(t, err, apperr.ErrValidation)

	// Nothing persisted past the failed precondition.
	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.Zero(t, count)

	var reloaded model.QuoteRequest
	require.NoError(t, db.First(&reloaded, "id = ?", quote.ID).Error)
	assert.Nil(t, reloaded.InvoiceID)
}

func TestGenerateInvoiceAtMostOnePerQuote(t *testing.T) {
	svc, db, _, _ := newInvoiceFixture(t)
	quote := seedQuote(t, db, model.QuoteApproved)

	_, err := svc.GenerateInvoice(context.Background(), quote.ID.String(), GenerateInvoiceInput{
		ProposedPricePerUnit: "5.00",
		PaymentTerms:         model.Terms100Advance,
	})
	require.NoError(t, err)

	_, err = svc.GenerateInvoice(context.Background(), quote.ID.String(), GenerateInvoiceInput{
		ProposedPricePerUnit: "6.00",
		PaymentTerms:         model.Terms100Advance,
	})
	require.ErrorIs(t, err, apperr.ErrConflict)

	var count int64
	require.NoError(t, db.Model(&model.Invoice{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGenerateInvoiceUnknownQuote(t *testing.T) {
	svc, _, _, _ := newInvoiceFixture(t)

	_, err := svc.GenerateInvoice(context.Background(), "9f3c5b1e-0000-4000-8000-000000000000", GenerateInvoiceInput{
		ProposedPricePerUnit: "5.00",
		PaymentTerms:         model.Terms100Advance,
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestGenerateInvoiceSurvivesDeliveryFailures(t *testing.T) {
	db := newTestDB(t)
	renderer := &stubRenderer{fail: true}
	mail := &stubMailer{fail: true}
	svc := NewInvoiceService(
		repository.NewInvoiceRepository(db),
		repository.NewQuoteRepository(db),
		renderer,
		mail,
		newTestNotifier(db),
		testVendor(),
		"https://shop.hidetrade.example",
	)
	quote := seedQuote(t, db, model.QuoteApproved)

	resp, err := svc.GenerateInvoice(context.Background(), quote.ID.String(), GenerateInvoiceInput{
		ProposedPricePerUnit: "5.00",
		PaymentTerms:         model.Terms100Advance,
	})
	require.NoError(t, err)

	// The invoice exists even though both PDF rendering and email failed.
	var stored model.Invoice
	require.NoError(t, db.First(&stored, "invoice_number = ?", resp.InvoiceNumber).Error)
	assert.Equal(t, model.InvoiceSent, stored.Status)
}

func TestInvoiceUpdateStatus(t *testing.T) {
	svc, db, _, _ := newInvoiceFixture(t)
	quote := seedQuote(t, db, model.QuoteApproved)

	created, err := svc.GenerateInvoice(context.Background(), quote.ID.String(), GenerateInvoiceInput{
		ProposedPricePerUnit: "5.00",
		PaymentTerms:         model.Terms100Advance,
	})
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), created.ID, model.InvoicePaid)
	require.NoError(t, err)
	assert.Equal(t, model.InvoicePaid, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), created.ID, "shredded")
	require.ErrorIs(t, err, apperr.ErrValidation)
}
