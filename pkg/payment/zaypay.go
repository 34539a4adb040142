package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

var (
	ErrLocaleNotSet        = errors.New("zaypay: locale not set")
	ErrPaymentMethodNotSet = errors.New("zaypay: payment method not set")
)

// GatewayError, Zaypay'den 2xx dışında dönen her cevabı sarar.
type GatewayError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("zaypay: unexpected response %s: %s", e.Status, e.Body)
}

const (
	PlatformSMS           = "sms"
	PlatformPhone         = "phone"
	SubPlatformPayPerCall = "pay per call"
)

// Payment is the gateway-reported state of a single payment attempt.
type Payment struct {
	ID                    int64  `json:"id"`
	Status                string `json:"status"`
	Platform              string `json:"platform"`
	SubPlatform           string `json:"sub_platform"`
	PaymentMethodID       string `json:"payment_method_id"`
	VerificationNeeded    bool   `json:"verification_needed"`
	VerificationTriesLeft int    `json:"verification_tries_left"`
	LongInstructions      string `json:"long_instructions"`
}

type paymentEnvelope struct {
	Payment struct {
		ID                    int64  `json:"id"`
		Status                string `json:"status"`
		Platform              string `json:"platform"`
		SubPlatform           string `json:"sub_platform"`
		PaymentMethodID       string `json:"payment_method_id"`
		VerificationNeeded    bool   `json:"verification_needed"`
		VerificationTriesLeft int    `json:"verification_tries_left"`
	} `json:"payment"`
	Instructions struct {
		LongInstructions string `json:"long_instructions"`
	} `json:"instructions"`
}

type Config struct {
	BaseURL string
	APIKey  string

	Client *http.Client
	Logger *zap.Logger
}

// PriceSetting is a client for one Zaypay price setting. Locale and payment
// method must be bound before CreatePayment is called.
type PriceSetting struct {
	priceSettingID  int
	apiKey          string
	baseURL         *url.URL
	locale          string
	paymentMethodID string

	httpClient *http.Client
	logger     *zap.Logger
}

func NewPriceSetting(priceSettingID int, cfg Config) (*PriceSetting, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("zaypay: base url is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("zaypay: parse base url: %w", err)
	}

	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PriceSetting{
		priceSettingID: priceSettingID,
		apiKey:         cfg.APIKey,
		baseURL:        u,
		httpClient:     client,
		logger:         logger,
	}, nil
}

// SetLocale binds a locale like "nl-NL" for subsequent payment creation.
func (ps *PriceSetting) SetLocale(locale string) {
	ps.locale = locale
}

func (ps *PriceSetting) SetPaymentMethod(id string) {
	ps.paymentMethodID = id
}

func (ps *PriceSetting) CreatePayment(ctx context.Context, purchaseID uint) (*Payment, error) {
	// locale ve payment_method_id, create_payment çağrısından önce set edilmiş olmalı
	if ps.locale == "" {
		return nil, ErrLocaleNotSet
	}
	if ps.paymentMethodID == "" {
		return nil, ErrPaymentMethodNotSet
	}

	query := url.Values{}
	query.Set("locale", ps.locale)
	query.Set("payment_method_id", ps.paymentMethodID)
	query.Set("purchase_id", strconv.FormatUint(uint64(purchaseID), 10))

	payment, err := ps.do(ctx, http.MethodPost, fmt.Sprintf("/pay/%d/payments", ps.priceSettingID), query)
	if err != nil {
		return nil, err
	}

	ps.logger.Info("zaypay payment created",
		zap.Int64("payment_id", payment.ID),
		zap.Uint("purchase_id", purchaseID),
		zap.String("status", payment.Status),
		zap.String("platform", payment.Platform),
	)
	return payment, nil
}

func (ps *PriceSetting) ShowPayment(ctx context.Context, paymentID int64) (*Payment, error) {
	return ps.do(ctx, http.MethodGet, fmt.Sprintf("/pay/%d/payments/%d", ps.priceSettingID, paymentID), nil)
}

func (ps *PriceSetting) VerificationCode(ctx context.Context, paymentID int64, code string) (*Payment, error) {
	query := url.Values{}
	query.Set("verification_code", code)
	return ps.do(ctx, http.MethodPost, fmt.Sprintf("/pay/%d/payments/%d/verification", ps.priceSettingID, paymentID), query)
}

func (ps *PriceSetting) do(ctx context.Context, method, path string, query url.Values) (*Payment, error) {
	endpoint := *ps.baseURL
	endpoint.Path = endpoint.Path + path

	if query == nil {
		query = url.Values{}
	}
	if ps.apiKey != "" {
		query.Set("key", ps.apiKey)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("zaypay: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := ps.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zaypay: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("zaypay: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		ps.logger.Warn("zaypay request failed",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
		)
		return nil, &GatewayError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	var envelope paymentEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("zaypay: decode response: %w", err)
	}

	return &Payment{
		ID:                    envelope.Payment.ID,
		Status:                envelope.Payment.Status,
		Platform:              envelope.Payment.Platform,
		SubPlatform:           envelope.Payment.SubPlatform,
		PaymentMethodID:       envelope.Payment.PaymentMethodID,
		VerificationNeeded:    envelope.Payment.VerificationNeeded,
		VerificationTriesLeft: envelope.Payment.VerificationTriesLeft,
		LongInstructions:      envelope.Instructions.LongInstructions,
	}, nil
}
