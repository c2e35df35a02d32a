package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePayload() POSPayload {
	return POSPayload{
		Reference:     "POS-1-123",
		SessionID:     1,
		TableID:       2,
		RestaurantID:  3,
		Subtotal:      1200,
		Total:         1200,
		AmountPaid:    1200,
		PaymentMethod: "cash",
		Items:         []BillLine{{Name: "Mie Ayam", Quantity: 2, UnitPrice: 600, LineTotal: 1200}},
		StartedAt:     time.Now().Add(-time.Hour),
		ClosedAt:      time.Now(),
	}
}

func TestPOSClientSendsAuthenticatedJSON(t *testing.T) {
	var (
		gotAuth string
		gotBody POSPayload
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := NewPOSClient().Notify(context.Background(), server.URL, "secret-cred", samplePayload())
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-cred", gotAuth)
	assert.Equal(t, "POS-1-123", gotBody.Reference)
	assert.Equal(t, int64(1200), gotBody.Total)
}

func TestPOSClientNon2xxIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "pos offline", http.StatusBadGateway)
	}))
	defer server.Close()

	err := NewPOSClient().Notify(context.Background(), server.URL, "", samplePayload())
	assert.ErrorIs(t, err, ErrPOSNotify)
}

func TestPOSClientTransportErrorIsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	err := NewPOSClient().Notify(context.Background(), server.URL, "", samplePayload())
	assert.ErrorIs(t, err, ErrPOSNotify)
}
