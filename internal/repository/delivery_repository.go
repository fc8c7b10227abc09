package repository

import (
	"errors"

	"github.com/etiquetas-qr/internal/models"

	"gorm.io/gorm"
)

// DeliveryRepository is the delivery evidence data access interface.
type DeliveryRepository interface {
	Create(delivery *models.Delivery) error
	GetByID(id uint) (*models.Delivery, error)
	CountBySerial(serialID uint) (int64, error)
	List(filter DeliveryListFilter) ([]models.Delivery, int64, error)
	WithTx(tx *gorm.DB) *GormDeliveryRepository
}

// GormDeliveryRepository is the GORM implementation.
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository builds a delivery repository.
func NewDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormDeliveryRepository) WithTx(tx *gorm.DB) *GormDeliveryRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryRepository{db: tx}
}

// Create inserts a delivery.
func (r *GormDeliveryRepository) Create(delivery *models.Delivery) error {
	return r.db.Create(delivery).Error
}

// GetByID fetches one delivery with serial and request, nil when absent.
func (r *GormDeliveryRepository) GetByID(id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := r.db.Preload("Serial").Preload("Request").First(&delivery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delivery, nil
}

// CountBySerial counts deliveries recorded for a serial.
func (r *GormDeliveryRepository) CountBySerial(serialID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Delivery{}).
		Where("serial_id = ?", serialID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// List returns deliveries matching the filter with a total count.
func (r *GormDeliveryRepository) List(filter DeliveryListFilter) ([]models.Delivery, int64, error) {
	query := r.db.Model(&models.Delivery{})
	if filter.RequestID > 0 {
		query = query.Where("request_id = ?", filter.RequestID)
	}
	if filter.SerialID > 0 {
		query = query.Where("serial_id = ?", filter.SerialID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.Delivery
	if err := query.Preload("Serial").Order("id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
