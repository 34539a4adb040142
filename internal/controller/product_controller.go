package controller

import (
	"github.com/sefazor/checkout-backend/internal/models"
	"github.com/sefazor/checkout-backend/internal/service"
)

type ProductController struct {
	productService *service.ProductService
}

func NewProductController(productService *service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

func (c *ProductController) GetAllProducts() ([]models.Product, error) {
	return c.productService.GetAllProducts()
}
