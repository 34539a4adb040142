package models

import (
	"time"

	"github.com/sefazor/checkout-backend/pkg/payment"
)

type PurchaseStatus string

const (
	PurchaseStatusPrepared   PurchaseStatus = "prepared"
	PurchaseStatusInProgress PurchaseStatus = "in_progress"
	PurchaseStatusPaused     PurchaseStatus = "paused"
	PurchaseStatusPaid       PurchaseStatus = "paid"
	PurchaseStatusError      PurchaseStatus = "error"
)

// Purchase, tek bir checkout denemesini takip eder. Status sadece gateway'in
// bildirdiği değerlerden beslenir, lokalde uydurulmaz.
type Purchase struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	ProductID        uint           `json:"product_id" gorm:"not null"`
	Product          Product        `json:"-" gorm:"foreignKey:ProductID"`
	SessionToken     string         `json:"-" gorm:"not null"`
	GatewayPaymentID *int64         `json:"gateway_payment_id"`
	Status           PurchaseStatus `json:"status" gorm:"not null;default:'prepared'"`
	NeedsPolling     bool           `json:"needs_polling" gorm:"not null;default:false"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

func (p *Purchase) IsPrepared() bool {
	return p.Status == PurchaseStatusPrepared
}

func (p *Purchase) IsInProgress() bool {
	return p.Status == PurchaseStatusInProgress
}

func (p *Purchase) IsPaused() bool {
	return p.Status == PurchaseStatusPaused
}

func (p *Purchase) IsPaid() bool {
	return p.Status == PurchaseStatusPaid
}

func (p *Purchase) HasError() bool {
	return p.Status == PurchaseStatusError
}

func (p *Purchase) IsTerminal() bool {
	return p.IsPaid() || p.HasError()
}

// ComputeNeedsPolling decides whether the client should keep polling for
// this purchase given the latest gateway-reported payment record.
//
// sms ödemeleri sadece kullanıcıdan doğrulama kodu beklenirken poll edilir;
// durum değişiklikleri report ile gelir. "pay per call" ödemeler giden arama
// ile çözülür, polling ile değil. Geri kalan her şey terminal olmayan bir
// durumdayken poll edilir.
func (p *Purchase) ComputeNeedsPolling(record *payment.Payment) bool {
	if record == nil {
		return false
	}
	if record.Platform == payment.PlatformSMS {
		return p.Status == PurchaseStatusInProgress && record.VerificationNeeded
	}
	if record.SubPlatform == payment.SubPlatformPayPerCall {
		return false
	}
	switch p.Status {
	case PurchaseStatusInProgress, PurchaseStatusPaused:
		return true
	case PurchaseStatusPrepared, PurchaseStatusPaid, PurchaseStatusError:
		return false
	}
	return false
}

// MatchesReport checks that an inbound report addresses this purchase's own
// gateway payment id and the product's price setting. A report that fails
// either check is spoofed or misrouted and must be ignored without touching
// the gateway at all.
func (p *Purchase) MatchesReport(report PaymentReport) bool {
	if p.GatewayPaymentID == nil || *p.GatewayPaymentID != report.GatewayPaymentID {
		return false
	}
	return p.Product.PriceSettingID == report.PriceSettingID
}
