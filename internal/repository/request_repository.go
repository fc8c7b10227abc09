package repository

import (
	"errors"

	"github.com/etiquetas-qr/internal/models"

	"gorm.io/gorm"
)

// RequestRepository is the request data access interface.
type RequestRepository interface {
	Create(request *models.Request) error
	GetByID(id uint) (*models.Request, error)
	GetByCode(code string) (*models.Request, error)
	List(filter RequestListFilter) ([]models.Request, int64, error)
	Update(request *models.Request) error
	Delete(id uint) error
	ReplaceLocations(requestID uint, locations []models.Location) error
	WithTx(tx *gorm.DB) *GormRequestRepository
}

// GormRequestRepository is the GORM implementation.
type GormRequestRepository struct {
	db *gorm.DB
}

// NewRequestRepository builds a request repository.
func NewRequestRepository(db *gorm.DB) *GormRequestRepository {
	return &GormRequestRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormRequestRepository) WithTx(tx *gorm.DB) *GormRequestRepository {
	if tx == nil {
		return r
	}
	return &GormRequestRepository{db: tx}
}

// Create inserts a request with its locations.
func (r *GormRequestRepository) Create(request *models.Request) error {
	return r.db.Create(request).Error
}

// GetByID fetches one request with locations, nil when absent.
func (r *GormRequestRepository) GetByID(id uint) (*models.Request, error) {
	var request models.Request
	if err := r.db.Preload("Locations").First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// GetByCode fetches one request by public code, nil when absent.
func (r *GormRequestRepository) GetByCode(code string) (*models.Request, error) {
	var request models.Request
	if err := r.db.Preload("Locations").Where("code = ?", code).First(&request).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// List returns requests matching the filter with a total count.
func (r *GormRequestRepository) List(filter RequestListFilter) ([]models.Request, int64, error) {
	query := r.db.Model(&models.Request{})
	if filter.Search != "" {
		cond, count := buildLikeCondition(r.db, []string{"code", "company_name", "tax_id"})
		query = query.Where(cond, repeatLikeArgs("%"+filter.Search+"%", count)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.Request
	if err := query.Preload("Locations").Order("id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update saves a request.
func (r *GormRequestRepository) Update(request *models.Request) error {
	return r.db.Save(request).Error
}

// Delete removes a request and its locations.
func (r *GormRequestRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", id).Delete(&models.Location{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Request{}, id).Error
	})
}

// ReplaceLocations swaps the full location set of a request.
func (r *GormRequestRepository) ReplaceLocations(requestID uint, locations []models.Location) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("request_id = ?", requestID).Delete(&models.Location{}).Error; err != nil {
			return err
		}
		if len(locations) == 0 {
			return nil
		}
		for i := range locations {
			locations[i].ID = 0
			locations[i].RequestID = requestID
		}
		return tx.Create(&locations).Error
	})
}
