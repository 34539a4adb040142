package repository

import (
	"github.com/sefazor/checkout-backend/internal/models"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{
		db: db,
	}
}

func (r *PurchaseRepository) Create(purchase *models.Purchase) error {
	// Product ilişkisi sadece okunur; create sırasında dokunulmaz
	return r.db.Omit("Product").Create(purchase).Error
}

func (r *PurchaseRepository) GetByID(id uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Preload("Product").First(&purchase, id).Error
	return &purchase, err
}

func (r *PurchaseRepository) Delete(purchase *models.Purchase) error {
	return r.db.Delete(purchase).Error
}

// Status ve needs_polling güncellemeleri tek UPDATE cümlesiyle yapılır;
// aynı purchase üzerinde yarışan report/poll istekleri kısmi yazamaz.
func (r *PurchaseRepository) UpdateStatus(id uint, status models.PurchaseStatus) error {
	return r.db.Model(&models.Purchase{}).Where("id = ?", id).Update("status", status).Error
}

func (r *PurchaseRepository) UpdateNeedsPolling(id uint, needsPolling bool) error {
	return r.db.Model(&models.Purchase{}).Where("id = ?", id).Update("needs_polling", needsPolling).Error
}

func (r *PurchaseRepository) SetGatewayPayment(id uint, gatewayPaymentID int64, needsPolling bool) error {
	return r.db.Model(&models.Purchase{}).Where("id = ?", id).Updates(map[string]interface{}{
		"gateway_payment_id": gatewayPaymentID,
		"needs_polling":      needsPolling,
	}).Error
}
