package service

import "github.com/sefazor/checkout-backend/internal/models"

type ProductService struct {
	products ProductStore
}

func NewProductService(products ProductStore) *ProductService {
	return &ProductService{
		products: products,
	}
}

func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.products.GetAll()
}
