package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"hidetrade/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransferSandboxBypass(t *testing.T) {
	client := NewWiseClient("test_token_abc", "https://api.sandbox.transferwise.tech")

	status, err := client.CheckTransfer(context.Background(), "123456")
	require.NoError(t, err)
	assert.Equal(t, "123456", status.TransferID)
	assert.Equal(t, "outgoing_payment_sent", status.Status)
}

func TestCheckTransferRequiresID(t *testing.T) {
	client := NewWiseClient("test_token_abc", "https://api.sandbox.transferwise.tech")

	_, err := client.CheckTransfer(context.Background(), "")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCheckTransferLiveToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/transfers/987", r.URL.Path)
		assert.Equal(t, "Bearer live_token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":987,"status":"processing"}`))
	}))
	defer srv.Close()

	client := NewWiseClient("live_token", srv.URL)
	status, err := client.CheckTransfer(context.Background(), "987")
	require.NoError(t, err)
	assert.Equal(t, "processing", status.Status)
}

func TestCheckTransferNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewWiseClient("live_token", srv.URL)
	_, err := client.CheckTransfer(context.Background(), "missing")
	require.ErrorIs(t, err, apperr.ErrNotFound)
}
