package service

import (
	"context"
	"errors"
	"testing"

	"hidetrade/internal/mailer"
	"hidetrade/internal/model"
	"hidetrade/internal/payment"
	"hidetrade/internal/pdf"
	"hidetrade/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.QuoteRequest{},
		&model.Invoice{},
		&model.SampleRequest{},
		&model.Notification{},
		&model.Message{},
		&model.User{},
		&model.ProductType{},
		&model.RawLeatherType{},
		&model.Product{},
		&model.RawLeather{},
	))

	return db
}

func newTestNotifier(db *gorm.DB) NotificationService {
	return NewNotificationService(repository.NewNotificationRepository(db), nil)
}

// --- side-effect stubs ---

type stubRenderer struct {
	fail  bool
	calls int
}

func (r *stubRenderer) RenderInvoice(ctx context.Context, doc pdf.InvoiceDocument) ([]byte, error) {
	r.calls++
	if r.fail {
		return nil, errors.New("render failed")
	}
	return []byte("%PDF-1.4 stub"), nil
}

type stubMailer struct {
	fail bool
	sent []mailer.Message
}

func (m *stubMailer) Send(ctx context.Context, msg mailer.Message) error {
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type stubIntents struct {
	fail    bool
	lastAmt int64
	lastCur string
	lastMD  map[string]string
}

func (s *stubIntents) CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*payment.Intent, error) {
	if s.fail {
		return nil, errors.New("provider down")
	}
	s.lastAmt = amountCents
	s.lastCur = currency
	s.lastMD = metadata
	return &payment.Intent{ID: "pi_test_123", ClientSecret: "pi_test_123_secret", Status: "requires_payment_method"}, nil
}

type stubTransfers struct {
	status payment.TransferStatus
	err    error
}

func (s *stubTransfers) CheckTransfer(ctx context.Context, transferID string) (*payment.TransferStatus, error) {
	if s.err != nil {
		return nil, s.err
	}
	st := s.status
	st.TransferID = transferID
	return &st, nil
}
