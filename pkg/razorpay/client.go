package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopcart-app/shopcart-backend/pkg/config"
	"github.com/shopcart-app/shopcart-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"

	ordersPath = "/v1/orders"

	defaultTimeout = 10 * time.Second
)

var (
	errKeyIDRequired     = errors.New("razorpay key id is required")
	errKeySecretRequired = errors.New("razorpay key secret is required")
	errInvalidGatewayEnv = fmt.Errorf("razorpay environment must be %q or %q", testEnv, liveEnv)
)

// Client is a thin Razorpay Orders API client plus signature verification.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	keyID       string
	keySecret   string
	environment string
}

// OrderRequest describes a payment intent to open before an order is persisted.
type OrderRequest struct {
	AmountCents int               `json:"amount"`
	Currency    string            `json:"currency"`
	Receipt     string            `json:"receipt,omitempty"`
	Notes       map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's view of an opened intent.
type Order struct {
	ID        string `json:"id"`
	Amount    int    `json:"amount"`
	Currency  string `json:"currency"`
	Receipt   string `json:"receipt"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// APIError is a non-2xx response from the gateway.
type APIError struct {
	StatusCode  int
	Code        string
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("razorpay: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// NewClient validates the configured credentials and environment once at startup.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}

	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecretRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("razorpay client initialized (%s)", env))
	}

	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		baseURL:     baseURL,
		keyID:       keyID,
		keySecret:   keySecret,
		environment: env,
	}, nil
}

// Environment reports the normalized gateway environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// CreateOrder opens a payment intent at the gateway. Amounts are in the
// currency's smallest unit (paise for INR).
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("razorpay client not initialized")
	}
	if req.AmountCents <= 0 {
		return nil, errors.New("order amount must be positive")
	}
	if strings.TrimSpace(req.Currency) == "" {
		return nil, errors.New("order currency is required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ordersPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read order response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeAPIError(resp.StatusCode, payload)
	}

	var order Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	if order.ID == "" {
		return nil, errors.New("gateway returned an order without an id")
	}
	return &order, nil
}

// VerifySignature checks the settlement signature the gateway computes over
// "<intentRef>|<confirmationRef>" with HMAC-SHA256, hex encoded.
func (c *Client) VerifySignature(intentRef, confirmationRef, signature string) bool {
	if c == nil {
		return false
	}
	return VerifySignature(c.keySecret, intentRef, confirmationRef, signature)
}

// VerifySignature is the key-explicit form used by tests and tooling.
func VerifySignature(keySecret, intentRef, confirmationRef, signature string) bool {
	if keySecret == "" || intentRef == "" || confirmationRef == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(keySecret))
	mac.Write([]byte(intentRef + "|" + confirmationRef))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

func decodeAPIError(status int, payload []byte) error {
	var wrapper struct {
		Error struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &wrapper); err != nil || wrapper.Error.Code == "" {
		return &APIError{StatusCode: status, Code: "unknown", Description: strings.TrimSpace(string(payload))}
	}
	return &APIError{
		StatusCode:  status,
		Code:        wrapper.Error.Code,
		Description: wrapper.Error.Description,
	}
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidGatewayEnv
	}
}
