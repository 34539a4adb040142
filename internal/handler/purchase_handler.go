package handler

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/checkout-backend/internal/controller"
	"github.com/sefazor/checkout-backend/internal/models"
	"github.com/sefazor/checkout-backend/internal/service"
	"github.com/sefazor/checkout-backend/pkg/payment"
	"github.com/sefazor/checkout-backend/pkg/utils"
)

const reportAck = "*ok*"

type PurchaseHandler struct {
	purchaseController *controller.PurchaseController
	validator          *utils.Validator
}

func NewPurchaseHandler(purchaseController *controller.PurchaseController, validator *utils.Validator) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseController: purchaseController,
		validator:          validator,
	}
}

// NewCheckout, checkout formunun açılacağı ürünü döner. Status view'ları
// cache'lenirse eski ödeme durumu gösterilir; o yüzden cache tamamen kapalı.
func (h *PurchaseHandler) NewCheckout(c *fiber.Ctx) error {
	c.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Set("Pragma", "no-cache")
	c.Set("Expires", "0")

	productID, err := strconv.ParseUint(c.Params("productId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid product ID"))
	}

	product, err := h.purchaseController.NewCheckout(uint(productID))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Product not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	data := fiber.Map{"product": product}
	if c.Query("language") != "" && c.Query("country") != "" {
		data["locale"] = c.Query("language") + "-" + c.Query("country")
	}

	return c.JSON(models.SuccessResponse(data, ""))
}

func (h *PurchaseHandler) CreatePurchase(c *fiber.Ctx) error {
	productID, err := strconv.ParseUint(c.Params("productId"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid product ID"))
	}
	sessionToken := sessionTokenFromLocals(c)

	var req models.CreatePurchaseRequest
	if err := c.BodyParser(&req); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	view, err := h.purchaseController.CreatePurchase(c.Context(), uint(productID), sessionToken, req)
	if err != nil {
		return h.createError(c, uint(productID), err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.Response{
		Success:  true,
		Redirect: purchasePath(uint(productID), view.Purchase.ID),
		Data:     view,
	})
}

// Gateway hataları ham detayıyla değil kategorisiyle kullanıcıya döner;
// hepsi checkout formuna geri yönlendirir.
func (h *PurchaseHandler) createError(c *fiber.Ctx, productID uint, err error) error {
	var missing *service.MissingSelectionError
	if errors.As(err, &missing) {
		return c.Status(fiber.StatusBadRequest).
			JSON(models.RedirectResponse(newPurchasePath(productID), missing.Error()))
	}

	switch {
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Product not found"))
	case errors.Is(err, payment.ErrLocaleNotSet):
		return c.Status(fiber.StatusBadRequest).
			JSON(models.RedirectResponse(newPurchasePath(productID), "There was an error with the country or language you provided"))
	case errors.Is(err, payment.ErrPaymentMethodNotSet):
		return c.Status(fiber.StatusBadRequest).
			JSON(models.RedirectResponse(newPurchasePath(productID), "There was an error with the payment method you provided"))
	default:
		return c.Status(fiber.StatusBadRequest).
			JSON(models.RedirectResponse(newPurchasePath(productID), "Oops... Something went wrong, please try again"))
	}
}

func (h *PurchaseHandler) GetPurchase(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid purchase ID"))
	}
	sessionToken := sessionTokenFromLocals(c)

	view, err := h.purchaseController.GetPurchase(c.Context(), uint(id), sessionToken)
	if err != nil {
		return h.viewError(c, err)
	}

	return c.JSON(models.SuccessResponse(view, ""))
}

func (h *PurchaseHandler) SubmitVerificationCode(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid purchase ID"))
	}
	sessionToken := sessionTokenFromLocals(c)

	var body struct {
		VerificationCode string `json:"verification_code" form:"verification_code"`
	}
	if err := c.BodyParser(&body); err != nil && !errors.Is(err, fiber.ErrUnprocessableEntity) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}

	view, err := h.purchaseController.SubmitVerificationCode(c.Context(), uint(id), sessionToken, body.VerificationCode)
	if err != nil {
		return h.viewError(c, err)
	}

	return c.JSON(models.SuccessResponse(view, ""))
}

// Session eşleşmeyen veya olmayan purchase'lar aynı cevabı alır; hangisinin
// olduğu dışarıdan ayırt edilemez.
func (h *PurchaseHandler) viewError(c *fiber.Ctx, err error) error {
	if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrUnauthorized) {
		return c.Status(fiber.StatusNotFound).
			JSON(models.RedirectResponse("/products", "You tried to access a page that does not exist"))
	}
	return c.Status(fiber.StatusBadGateway).
		JSON(models.ErrorResponse("Oops... Something went wrong, please try again"))
}

// HandleReport, gateway'in fire-and-forget bildirimi. Doğrulama sonucu ne
// olursa olsun cevap her zaman aynıdır.
func (h *PurchaseHandler) HandleReport(c *fiber.Ctx) error {
	var report models.PaymentReport
	if c.Method() == fiber.MethodGet {
		if err := c.QueryParser(&report); err != nil {
			return c.SendString(reportAck)
		}
	} else {
		if err := c.BodyParser(&report); err != nil {
			return c.SendString(reportAck)
		}
	}

	if err := h.validator.Struct(report); err != nil {
		return c.SendString(reportAck)
	}

	// hata dönse bile caller'a yansıtılmaz; service zaten logluyor
	_ = h.purchaseController.ProcessReport(c.Context(), report)

	return c.SendString(reportAck)
}

func sessionTokenFromLocals(c *fiber.Ctx) string {
	token, _ := c.Locals("sessionToken").(string)
	return token
}

func newPurchasePath(productID uint) string {
	return fmt.Sprintf("/products/%d/purchases/new", productID)
}

func purchasePath(productID, purchaseID uint) string {
	return fmt.Sprintf("/products/%d/purchases/%d", productID, purchaseID)
}
