package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sefazor/checkout-backend/internal/models"
	"github.com/sefazor/checkout-backend/pkg/payment"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Gateway is the slice of the Zaypay client the checkout flow consumes.
// Locale and payment method must be bound before CreatePayment.
type Gateway interface {
	SetLocale(locale string)
	SetPaymentMethod(id string)
	CreatePayment(ctx context.Context, purchaseID uint) (*payment.Payment, error)
	ShowPayment(ctx context.Context, paymentID int64) (*payment.Payment, error)
	VerificationCode(ctx context.Context, paymentID int64, code string) (*payment.Payment, error)
}

// GatewayFactory builds a gateway client for one price setting. Her istekte
// taze bir client kurulur; locale/payment method state'i istekler arasında
// sızmaz.
type GatewayFactory func(priceSettingID int) Gateway

type PurchaseStore interface {
	Create(purchase *models.Purchase) error
	GetByID(id uint) (*models.Purchase, error)
	Delete(purchase *models.Purchase) error
	UpdateStatus(id uint, status models.PurchaseStatus) error
	UpdateNeedsPolling(id uint, needsPolling bool) error
	SetGatewayPayment(id uint, gatewayPaymentID int64, needsPolling bool) error
}

type ProductStore interface {
	GetByID(id uint) (*models.Product, error)
	GetAll() ([]models.Product, error)
}

type PurchaseService struct {
	purchases PurchaseStore
	products  ProductStore
	gateway   GatewayFactory
	logger    *zap.Logger
}

func NewPurchaseService(purchases PurchaseStore, products ProductStore, gateway GatewayFactory, logger *zap.Logger) *PurchaseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{
		purchases: purchases,
		products:  products,
		gateway:   gateway,
		logger:    logger,
	}
}

// NewCheckout resolves the product a checkout form is being opened for.
func (s *PurchaseService) NewCheckout(productID uint) (*models.Product, error) {
	product, err := s.products.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return product, nil
}

// CreatePurchase runs the create step of the flow: validate the selection,
// persist a prepared purchase, ask the gateway for a payment. Gateway'de
// herhangi bir hata olursa yeni kayıt silinir; yarım purchase bırakılmaz.
func (s *PurchaseService) CreatePurchase(ctx context.Context, productID uint, sessionToken string, req models.CreatePurchaseRequest) (*models.CheckoutView, error) {
	missing := &MissingSelectionError{
		Language:      strings.TrimSpace(req.Language) == "",
		Country:       strings.TrimSpace(req.Country) == "",
		PaymentMethod: strings.TrimSpace(req.PaymentMethod) == "",
	}
	if missing.Any() {
		return nil, missing
	}

	product, err := s.NewCheckout(productID)
	if err != nil {
		return nil, err
	}

	// locale ve payment_method_id, create_payment'tan önce bağlanmalı
	gw := s.gateway(product.PriceSettingID)
	gw.SetLocale(req.Locale())
	gw.SetPaymentMethod(req.PaymentMethod)

	purchase := &models.Purchase{
		ProductID:    product.ID,
		Product:      *product,
		SessionToken: sessionToken,
		Status:       models.PurchaseStatusPrepared,
	}
	if err := s.purchases.Create(purchase); err != nil {
		return nil, err
	}

	record, err := gw.CreatePayment(ctx, purchase.ID)
	if err != nil {
		if delErr := s.purchases.Delete(purchase); delErr != nil {
			s.logger.Error("failed to roll back purchase",
				zap.Uint("purchase_id", purchase.ID),
				zap.Error(delErr),
			)
		}
		if errors.Is(err, payment.ErrLocaleNotSet) || errors.Is(err, payment.ErrPaymentMethodNotSet) {
			return nil, err
		}
		s.logger.Warn("payment creation failed",
			zap.Uint("purchase_id", purchase.ID),
			zap.Error(err),
		)
		return nil, ErrPaymentFailed
	}

	purchase.GatewayPaymentID = &record.ID
	purchase.NeedsPolling = purchase.ComputeNeedsPolling(record)
	if err := s.purchases.SetGatewayPayment(purchase.ID, record.ID, purchase.NeedsPolling); err != nil {
		return nil, err
	}

	return &models.CheckoutView{Purchase: purchase, Payment: record}, nil
}

// GetPurchase serves the status view. Terminal olmayan her okuma gateway'den
// taze kaydı çeker ve needs_polling'i yeniden hesaplar; paid/error bir daha
// gateway'e gitmez.
func (s *PurchaseService) GetPurchase(ctx context.Context, id uint, sessionToken string) (*models.CheckoutView, error) {
	purchase, err := s.authorizedPurchase(id, sessionToken)
	if err != nil {
		return nil, err
	}

	if purchase.IsTerminal() || purchase.GatewayPaymentID == nil {
		return &models.CheckoutView{Purchase: purchase}, nil
	}

	gw := s.gateway(purchase.Product.PriceSettingID)
	record, err := gw.ShowPayment(ctx, *purchase.GatewayPaymentID)
	if err != nil {
		return nil, fmt.Errorf("show payment: %w", err)
	}

	if err := s.refreshPolling(purchase, record); err != nil {
		return nil, err
	}

	return &models.CheckoutView{Purchase: purchase, Payment: record}, nil
}

// SubmitVerificationCode forwards an sms verification code to the gateway.
// Sadece in_progress bir purchase ve boş olmayan bir kod için çalışır;
// diğer her durumda mevcut state'i aynen döner.
func (s *PurchaseService) SubmitVerificationCode(ctx context.Context, id uint, sessionToken, code string) (*models.CheckoutView, error) {
	purchase, err := s.authorizedPurchase(id, sessionToken)
	if err != nil {
		return nil, err
	}

	if !purchase.IsInProgress() || strings.TrimSpace(code) == "" || purchase.GatewayPaymentID == nil {
		return &models.CheckoutView{Purchase: purchase}, nil
	}

	gw := s.gateway(purchase.Product.PriceSettingID)
	record, err := gw.VerificationCode(ctx, *purchase.GatewayPaymentID, code)
	if err != nil {
		return nil, fmt.Errorf("verification code: %w", err)
	}

	if err := s.refreshPolling(purchase, record); err != nil {
		return nil, err
	}

	return &models.CheckoutView{Purchase: purchase, Payment: record}, nil
}

// ProcessReport handles the asynchronous gateway notification. Bir report
// tek başına asla güvenilir sayılmaz: purchase'ın kendi sakladığı payment id
// ile gateway'den güncel durum çekilir ve report'taki status birebir aynı
// değilse hiçbir şey değişmez. Hangi kontrolün düştüğü dışarı sızdırılmaz.
func (s *PurchaseService) ProcessReport(ctx context.Context, report models.PaymentReport) error {
	purchase, err := s.purchases.GetByID(report.PurchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if !purchase.MatchesReport(report) {
		s.logger.Warn("report discarded: identity mismatch",
			zap.Uint("purchase_id", report.PurchaseID),
			zap.Int64("payment_id", report.GatewayPaymentID),
		)
		return nil
	}

	// report'taki id'ye değil, lokalde saklanan payment id'ye göre doğrula
	gw := s.gateway(purchase.Product.PriceSettingID)
	live, err := gw.ShowPayment(ctx, *purchase.GatewayPaymentID)
	if err != nil {
		s.logger.Warn("report discarded: gateway lookup failed",
			zap.Uint("purchase_id", report.PurchaseID),
			zap.Error(err),
		)
		return nil
	}
	if live.Status != report.Status {
		s.logger.Warn("report discarded: status mismatch",
			zap.Uint("purchase_id", report.PurchaseID),
			zap.String("reported", report.Status),
			zap.String("live", live.Status),
		)
		return nil
	}

	purchase.Status = models.PurchaseStatus(report.Status)
	if err := s.purchases.UpdateStatus(purchase.ID, purchase.Status); err != nil {
		return err
	}

	s.logger.Info("purchase status updated from report",
		zap.Uint("purchase_id", purchase.ID),
		zap.String("status", string(purchase.Status)),
	)

	if purchase.IsPrepared() || purchase.GatewayPaymentID == nil {
		return nil
	}

	// needs_polling, report alanlarıyla değil taze gateway kaydıyla hesaplanır
	fresh, err := gw.ShowPayment(ctx, *purchase.GatewayPaymentID)
	if err != nil {
		s.logger.Warn("polling refresh skipped: gateway lookup failed",
			zap.Uint("purchase_id", purchase.ID),
			zap.Error(err),
		)
		return nil
	}
	return s.refreshPolling(purchase, fresh)
}

func (s *PurchaseService) authorizedPurchase(id uint, sessionToken string) (*models.Purchase, error) {
	purchase, err := s.purchases.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if purchase.SessionToken != sessionToken {
		return nil, ErrUnauthorized
	}
	return purchase, nil
}

func (s *PurchaseService) refreshPolling(purchase *models.Purchase, record *payment.Payment) error {
	needs := purchase.ComputeNeedsPolling(record)
	if needs != purchase.NeedsPolling {
		if err := s.purchases.UpdateNeedsPolling(purchase.ID, needs); err != nil {
			return err
		}
		purchase.NeedsPolling = needs
	}
	return nil
}
