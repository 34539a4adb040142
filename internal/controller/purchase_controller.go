package controller

import (
	"context"

	"github.com/sefazor/checkout-backend/internal/models"
	"github.com/sefazor/checkout-backend/internal/service"
)

type PurchaseController struct {
	purchaseService *service.PurchaseService
}

func NewPurchaseController(purchaseService *service.PurchaseService) *PurchaseController {
	return &PurchaseController{
		purchaseService: purchaseService,
	}
}

func (c *PurchaseController) NewCheckout(productID uint) (*models.Product, error) {
	return c.purchaseService.NewCheckout(productID)
}

func (c *PurchaseController) CreatePurchase(ctx context.Context, productID uint, sessionToken string, req models.CreatePurchaseRequest) (*models.CheckoutView, error) {
	return c.purchaseService.CreatePurchase(ctx, productID, sessionToken, req)
}

func (c *PurchaseController) GetPurchase(ctx context.Context, id uint, sessionToken string) (*models.CheckoutView, error) {
	return c.purchaseService.GetPurchase(ctx, id, sessionToken)
}

func (c *PurchaseController) SubmitVerificationCode(ctx context.Context, id uint, sessionToken, code string) (*models.CheckoutView, error) {
	return c.purchaseService.SubmitVerificationCode(ctx, id, sessionToken, code)
}

func (c *PurchaseController) ProcessReport(ctx context.Context, report models.PaymentReport) error {
	return c.purchaseService.ProcessReport(ctx, report)
}
