package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopcart-app/shopcart-backend/pkg/config"
)

func TestNewClientValidatesCredentials(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.RazorpayConfig
		ok   bool
	}{
		{name: "valid", cfg: config.RazorpayConfig{KeyID: "rzp_test_abc", KeySecret: "secret", Env: "test"}, ok: true},
		{name: "missing key id", cfg: config.RazorpayConfig{KeySecret: "secret"}, ok: false},
		{name: "missing secret", cfg: config.RazorpayConfig{KeyID: "rzp_test_abc"}, ok: false},
		{name: "bad env", cfg: config.RazorpayConfig{KeyID: "rzp_test_abc", KeySecret: "secret", Env: "sandbox"}, ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tc.cfg, nil)
			if tc.ok && (err != nil || client == nil) {
				t.Fatalf("expected client, got err=%v", err)
			}
			if !tc.ok && err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestCreateOrderSendsBasicAuthAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/orders" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "rzp_test_abc" || pass != "secret" {
			t.Errorf("missing or wrong basic auth")
		}
		body, _ := io.ReadAll(r.Body)
		var req OrderRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.AmountCents != 159800 || req.Currency != "INR" {
			t.Errorf("unexpected request payload %+v", req)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_test_123",
			Amount:   req.AmountCents,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	order, err := client.CreateOrder(context.Background(), OrderRequest{
		AmountCents: 159800,
		Currency:    "INR",
		Receipt:     "ord-receipt-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ID != "order_test_123" || order.Status != "created" {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestCreateOrderDecodesGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.CreateOrder(context.Background(), OrderRequest{AmountCents: 100, Currency: "INR"})
	if err == nil {
		t.Fatalf("expected error")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Code != "BAD_REQUEST_ERROR" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestCreateOrderRejectsInvalidInput(t *testing.T) {
	client := newTestClient(t, "http://localhost:0")
	if _, err := client.CreateOrder(context.Background(), OrderRequest{AmountCents: 0, Currency: "INR"}); err == nil {
		t.Fatalf("expected error for zero amount")
	}
	if _, err := client.CreateOrder(context.Background(), OrderRequest{AmountCents: 100}); err == nil {
		t.Fatalf("expected error for missing currency")
	}
}

func TestVerifySignature(t *testing.T) {
	secret := "secret"
	intentRef := "order_test_123"
	confirmationRef := "pay_test_456"

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(intentRef + "|" + confirmationRef))
	valid := hex.EncodeToString(mac.Sum(nil))

	if !VerifySignature(secret, intentRef, confirmationRef, valid) {
		t.Fatalf("expected valid signature to verify")
	}
	if !VerifySignature(secret, intentRef, confirmationRef, " "+valid+" ") {
		t.Fatalf("expected whitespace-padded signature to verify")
	}
	if VerifySignature(secret, intentRef, confirmationRef, valid[:len(valid)-1]+"0") {
		t.Fatalf("expected tampered signature to fail")
	}
	if VerifySignature(secret, intentRef, "pay_test_other", valid) {
		t.Fatalf("expected signature over different refs to fail")
	}
	if VerifySignature(secret, "", confirmationRef, valid) {
		t.Fatalf("expected empty intent ref to fail")
	}

	client := newTestClient(t, "http://localhost:0")
	if !client.VerifySignature(intentRef, confirmationRef, valid) {
		t.Fatalf("expected client verification to pass")
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(context.Background(), config.RazorpayConfig{
		KeyID:     "rzp_test_abc",
		KeySecret: "secret",
		BaseURL:   baseURL,
		Timeout:   2 * time.Second,
		Env:       "test",
	}, nil)
	if err != nil {
		t.Fatalf("build client: %v", err)
	}
	return client
}
