package moyasar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MikeRez0/trucksy/internal/adapter/config"
	"github.com/MikeRez0/trucksy/internal/core/domain"
	"github.com/MikeRez0/trucksy/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(&config.Gateway{BaseURL: srv.URL, APIKey: "sk_test", Timeout: time.Second}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func TestClient_Charge(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payments", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test", user)
		assert.Empty(t, pass)

		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "card", r.PostForm.Get("source[type]"))
		assert.Equal(t, "4111111111111111", r.PostForm.Get("source[number]"))
		assert.Equal(t, "4500", r.PostForm.Get("amount"))
		assert.Equal(t, "SAR", r.PostForm.Get("currency"))
		assert.Equal(t, "https://trucksy.test/api/v1/order/callback/1", r.PostForm.Get("callback_url"))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"pay_1","status":"initiated","amount":4500,` +
			`"source":{"transaction_url":"https://pay.test/3ds"}}`))
	})

	res, err := c.Charge(context.Background(), &port.ChargeRequest{
		AmountMinor: 4500,
		Currency:    "SAR",
		Card:        domain.Card{Name: "Client", Number: "4111111111111111", CVC: "123", Month: "12", Year: "2030"},
		CallbackURL: "https://trucksy.test/api/v1/order/callback/1",
	})
	require.NoError(t, err)
	assert.Equal(t, "pay_1", res.ID)
	assert.Equal(t, "initiated", res.Status)
	assert.Contains(t, string(res.Body), "transaction_url")
}

func TestClient_Charge_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{name: "declined", status: http.StatusBadRequest, body: `{"type":"invalid_request_error"}`, wantErr: domain.ErrGatewayResponse},
		{name: "garbage", status: http.StatusCreated, body: `<html>`, wantErr: domain.ErrGatewayResponse},
		{name: "no id", status: http.StatusCreated, body: `{"status":"initiated"}`, wantErr: domain.ErrGatewayResponse},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(test.status)
				_, _ = w.Write([]byte(test.body))
			})
			_, err := c.Charge(context.Background(), &port.ChargeRequest{AmountMinor: 100, Currency: "SAR"})
			assert.True(t, errors.Is(err, test.wantErr), err)
		})
	}
}

func TestClient_Status(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/payments/pay_1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"pay_1","status":"paid","amount":4500,"currency":"SAR"}`))
	})

	res, err := c.Status(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, &port.PaymentStatus{ID: "pay_1", Status: "paid", AmountMinor: 4500, Currency: "SAR"}, res)
}

func TestClient_Status_Errors(t *testing.T) {
	var calls atomic.Int32
	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	_, err := down.Status(context.Background(), "pay_1")
	assert.True(t, errors.Is(err, domain.ErrGatewayUnavailable), err)
	assert.Contains(t, err.Error(), "Retry-After: 3s")
	// no automatic retry
	assert.Equal(t, int32(1), calls.Load())

	broken := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err = broken.Status(context.Background(), "pay_1")
	assert.True(t, errors.Is(err, domain.ErrGatewayUnavailable), err)

	missing := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	_, err = missing.Status(context.Background(), "pay_1")
	assert.True(t, errors.Is(err, domain.ErrGatewayResponse), err)

	_, err = missing.Status(context.Background(), "")
	assert.True(t, errors.Is(err, domain.ErrGatewayResponse), err)

	bodies := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "no amount", body: `{"id":"pay_1","status":"paid"}`},
		{name: "no status", body: `{"id":"pay_1","amount":4500}`},
		{name: "no id", body: `{"status":"paid","amount":4500}`},
		{name: "not json", body: `<html>`},
	}
	for _, test := range bodies {
		t.Run(test.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(test.body))
			})
			res, err := c.Status(context.Background(), "pay_1")
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, domain.ErrGatewayResponse), err)
		})
	}
}

func TestNewClient_NoKey(t *testing.T) {
	_, err := NewClient(&config.Gateway{BaseURL: "https://api.moyasar.com/v1"}, zap.NewNop())
	assert.Error(t, err)
}
