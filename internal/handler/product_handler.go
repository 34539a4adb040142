package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sefazor/checkout-backend/internal/controller"
	"github.com/sefazor/checkout-backend/internal/models"
)

type ProductHandler struct {
	productController *controller.ProductController
}

func NewProductHandler(productController *controller.ProductController) *ProductHandler {
	return &ProductHandler{
		productController: productController,
	}
}

func (h *ProductHandler) GetAllProducts(c *fiber.Ctx) error {
	products, err := h.productController.GetAllProducts()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(products, ""))
}
