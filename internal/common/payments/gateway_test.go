package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hmacHex(secret string, parts ...string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	for _, p := range parts {
		mac.Write([]byte(p))
	}
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyHMACSignature(t *testing.T) {
	payload := []byte(`{"event":"charge:confirmed"}`)

	assert.True(t, VerifyHMACSignature(payload, hmacHex("whsec_test", string(payload)), "whsec_test"))
	assert.False(t, VerifyHMACSignature(payload, hmacHex("whsec_other", string(payload)), "whsec_test"))
	assert.False(t, VerifyHMACSignature(payload, "not-hex", "whsec_test"))
}

func stripeHeader(t *testing.T, payload []byte, secret string, ts time.Time) string {
	t.Helper()
	timestamp := fmt.Sprintf("%d", ts.Unix())
	return fmt.Sprintf("t=%s,v1=%s", timestamp, hmacHex(secret, timestamp, ".", string(payload)))
}

func TestVerifyStripeSignature(t *testing.T) {
	payload := []byte(`{"type":"checkout.session.completed"}`)
	secret := "whsec_stripe"

	t.Run("valid", func(t *testing.T) {
		header := stripeHeader(t, payload, secret, time.Now())
		assert.True(t, VerifyStripeSignature(payload, header, secret, 5*time.Minute))
	})

	t.Run("stale timestamp rejected", func(t *testing.T) {
		header := stripeHeader(t, payload, secret, time.Now().Add(-time.Hour))
		assert.False(t, VerifyStripeSignature(payload, header, secret, 5*time.Minute))
	})

	t.Run("wrong secret", func(t *testing.T) {
		header := stripeHeader(t, payload, "whsec_other", time.Now())
		assert.False(t, VerifyStripeSignature(payload, header, secret, 5*time.Minute))
	})

	t.Run("tampered payload", func(t *testing.T) {
		header := stripeHeader(t, payload, secret, time.Now())
		assert.False(t, VerifyStripeSignature([]byte(`{"type":"refund"}`), header, secret, 5*time.Minute))
	})

	t.Run("malformed header", func(t *testing.T) {
		assert.False(t, VerifyStripeSignature(payload, "v1=abc", secret, 5*time.Minute))
		assert.False(t, VerifyStripeSignature(payload, "t=123", secret, 5*time.Minute))
		assert.False(t, VerifyStripeSignature(payload, "t=notanumber,v1=abc", secret, 5*time.Minute))
	})

	t.Run("second v1 candidate accepted", func(t *testing.T) {
		timestamp := fmt.Sprintf("%d", time.Now().Unix())
		good := hmacHex(secret, timestamp, ".", string(payload))
		header := fmt.Sprintf("t=%s,v1=deadbeef,v1=%s", timestamp, good)
		assert.True(t, VerifyStripeSignature(payload, header, secret, 5*time.Minute))
	})
}

func TestStripeGateway_CreateCheckout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "sk_test", user)

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "lead-1", r.PostForm.Get("client_reference_id"))
		assert.Equal(t, "aed", r.PostForm.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "1850000", r.PostForm.Get("line_items[0][price_data][unit_amount]"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_123","url":"https://checkout.stripe.com/c/cs_123","status":"open"}`)
	}))
	defer srv.Close()

	gateway := NewStripeGateway(srv.URL, "sk_test", 5*time.Second)
	session, err := gateway.CreateCheckout(context.Background(), CheckoutRequest{
		LeadID:      "lead-1",
		Amount:      18500,
		Currency:    "AED",
		Description: "IFZA Starter setup",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_123", session.GatewayID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_123", session.CheckoutURL)
}

func TestStripeGateway_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error":{"message":"Your card was declined.","type":"card_error"}}`)
	}))
	defer srv.Close()

	gateway := NewStripeGateway(srv.URL, "sk_test", 5*time.Second)
	_, err := gateway.CreateCheckout(context.Background(), CheckoutRequest{
		LeadID: "lead-1", Amount: 100, Currency: "AED",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "card was declined")
}
