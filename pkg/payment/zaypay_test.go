package payment

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCreatePayment_RequiresLocaleAndPaymentMethod(t *testing.T) {
	hits := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer ts.Close()

	ps, err := NewPriceSetting(111111, Config{BaseURL: ts.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := ps.CreatePayment(context.Background(), 1); !errors.Is(err, ErrLocaleNotSet) {
		t.Errorf("error = %v, want ErrLocaleNotSet", err)
	}

	ps.SetLocale("nl-NL")
	if _, err := ps.CreatePayment(context.Background(), 1); !errors.Is(err, ErrPaymentMethodNotSet) {
		t.Errorf("error = %v, want ErrPaymentMethodNotSet", err)
	}

	if hits != 0 {
		t.Errorf("gateway hit %d times before configuration was complete", hits)
	}
}

func TestCreatePayment_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/pay/111111/payments" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("locale") != "nl-NL" {
			t.Errorf("locale = %q", q.Get("locale"))
		}
		if q.Get("payment_method_id") != "2" {
			t.Errorf("payment_method_id = %q", q.Get("payment_method_id"))
		}
		if q.Get("purchase_id") != "7" {
			t.Errorf("purchase_id = %q", q.Get("purchase_id"))
		}
		if q.Get("key") != "secret" {
			t.Errorf("key = %q", q.Get("key"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"payment": {
				"id": 12345,
				"status": "prepared",
				"platform": "sms",
				"payment_method_id": "2",
				"verification_needed": false,
				"verification_tries_left": 3
			},
			"instructions": {
				"long_instructions": "Please text the message PAY 3955 to phone number 7711."
			}
		}`))
	}))
	defer ts.Close()

	ps, err := NewPriceSetting(111111, Config{BaseURL: ts.URL, APIKey: "secret"})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}
	ps.SetLocale("nl-NL")
	ps.SetPaymentMethod("2")

	record, err := ps.CreatePayment(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != 12345 {
		t.Errorf("id = %d, want 12345", record.ID)
	}
	if record.Status != "prepared" {
		t.Errorf("status = %q", record.Status)
	}
	if record.Platform != PlatformSMS {
		t.Errorf("platform = %q", record.Platform)
	}
	if record.VerificationTriesLeft != 3 {
		t.Errorf("verification_tries_left = %d", record.VerificationTriesLeft)
	}
	if record.LongInstructions != "Please text the message PAY 3955 to phone number 7711." {
		t.Errorf("long_instructions = %q", record.LongInstructions)
	}
}

func TestShowPayment_Non2xxReturnsGatewayError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"payment not found"}`))
	}))
	defer ts.Close()

	ps, err := NewPriceSetting(111111, Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	_, err = ps.ShowPayment(context.Background(), 12345)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("expected *GatewayError, got %T", err)
	}
	if gatewayErr.StatusCode != http.StatusNotFound {
		t.Errorf("status code = %d", gatewayErr.StatusCode)
	}
	if gatewayErr.Body == "" {
		t.Error("expected body to be populated")
	}
}

func TestShowPayment_Success(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pay/111111/payments/12345" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"payment":{"id":12345,"status":"in_progress","platform":"phone","sub_platform":"pay per minute"}}`))
	}))
	defer ts.Close()

	ps, err := NewPriceSetting(111111, Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	record, err := ps.ShowPayment(context.Background(), 12345)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Status != "in_progress" {
		t.Errorf("status = %q", record.Status)
	}
	if record.SubPlatform != "pay per minute" {
		t.Errorf("sub_platform = %q", record.SubPlatform)
	}
}

func TestVerificationCode_SendsCode(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pay/111111/payments/12345/verification" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("verification_code"); got != "9999" {
			t.Errorf("verification_code = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"payment":{"id":12345,"status":"paid","platform":"sms"}}`))
	}))
	defer ts.Close()

	ps, err := NewPriceSetting(111111, Config{BaseURL: ts.URL})
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	record, err := ps.VerificationCode(context.Background(), 12345, "9999")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Status != "paid" {
		t.Errorf("status = %q", record.Status)
	}
}

func TestNewPriceSetting_RequiresBaseURL(t *testing.T) {
	if _, err := NewPriceSetting(111111, Config{}); err == nil {
		t.Error("expected error for missing base url")
	}
}
