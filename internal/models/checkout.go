package models

import "github.com/sefazor/checkout-backend/pkg/payment"

type CreatePurchaseRequest struct {
	Language      string `json:"language" form:"language"`
	Country       string `json:"country" form:"country"`
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

// Locale, gateway'in beklediği "nl-NL" biçimini üretir.
func (r CreatePurchaseRequest) Locale() string {
	return r.Language + "-" + r.Country
}

// PaymentReport is the webhook-style notification the gateway fires when a
// payment changes state. Every field must be present before it is processed.
type PaymentReport struct {
	GatewayPaymentID int64  `json:"payment_id" form:"payment_id" query:"payment_id" validate:"required"`
	PriceSettingID   int    `json:"price_setting_id" form:"price_setting_id" query:"price_setting_id" validate:"required"`
	PurchaseID       uint   `json:"purchase_id" form:"purchase_id" query:"purchase_id" validate:"required"`
	Status           string `json:"status" form:"status" query:"status" validate:"required"`
}

// CheckoutView is what the status endpoints return: the local purchase plus
// the freshest gateway record we hold for it (nil once terminal).
type CheckoutView struct {
	Purchase *Purchase        `json:"purchase"`
	Payment  *payment.Payment `json:"payment,omitempty"`
}
