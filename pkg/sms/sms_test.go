package sms_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shashiranjanraj/fastfood-api/pkg/sms"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMSISDN(t *testing.T) {
	cases := map[string]string{
		"+221771234567":   "+221771234567",
		"771234567":       "+221771234567",
		"761234567":       "+221761234567",
		"781234567":       "+221781234567",
		"+33 6 12 34 56":  "+336123456",
		"77 123-45-67":    "+221771234567",
		"+1 555 000 1234": "+15550001234",
		"331234567":       "331234567", // not a Senegalese prefix, left as-is
	}
	for in, want := range cases {
		assert.Equal(t, want, sms.NormalizeMSISDN(in), "input %q", in)
	}
}

func TestMockSenderRejectsEmpty(t *testing.T) {
	m := sms.MockSender{}
	assert.ErrorIs(t, m.Send(context.Background(), "", "hello"), sms.ErrEmptyNumber)
	assert.ErrorIs(t, m.Send(context.Background(), "+221771234567", "  "), sms.ErrEmptyMessage)
	assert.NoError(t, m.Send(context.Background(), "+221771234567", "hello"))
}

func TestIntechClientSend(t *testing.T) {
	var got map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"status":"sent"}`)) //nolint:errcheck
	}))
	defer srv.Close()

	c := sms.NewIntechClient(srv.URL, "app-key-123", "FastFood")
	require.NoError(t, c.Send(context.Background(), "771234567", "Commande #1 confirmee !"))

	assert.Equal(t, "app-key-123", got["app_key"])
	assert.Equal(t, "FastFood", got["sender"])
	assert.Equal(t, "Commande #1 confirmee !", got["content"])
	assert.Equal(t, []interface{}{"+221771234567"}, got["msisdn"])
}

func TestIntechClientGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid app_key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := sms.NewIntechClient(srv.URL, "bad-key", "FastFood")
	err := c.Send(context.Background(), "+221771234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
