package repository

import (
	"errors"

	"github.com/etiquetas-qr/internal/models"

	"gorm.io/gorm"
)

// TemplateRepository is the landing template data access interface.
type TemplateRepository interface {
	Create(template *models.LabelTemplate) error
	GetByID(id uint) (*models.LabelTemplate, error)
	GetByClientAndName(clientID uint, name string) (*models.LabelTemplate, error)
	ListByClient(clientID uint, page, pageSize int) ([]models.LabelTemplate, int64, error)
	Update(template *models.LabelTemplate) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormTemplateRepository
}

// GormTemplateRepository is the GORM implementation.
type GormTemplateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository builds a template repository.
func NewTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormTemplateRepository) WithTx(tx *gorm.DB) *GormTemplateRepository {
	if tx == nil {
		return r
	}
	return &GormTemplateRepository{db: tx}
}

// Create inserts a template.
func (r *GormTemplateRepository) Create(template *models.LabelTemplate) error {
	return r.db.Create(template).Error
}

// GetByID fetches one template, nil when absent.
func (r *GormTemplateRepository) GetByID(id uint) (*models.LabelTemplate, error) {
	var template models.LabelTemplate
	if err := r.db.First(&template, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// GetByClientAndName fetches a template by its unique key, nil when absent.
func (r *GormTemplateRepository) GetByClientAndName(clientID uint, name string) (*models.LabelTemplate, error) {
	var template models.LabelTemplate
	if err := r.db.Where("client_id = ? AND name = ?", clientID, name).First(&template).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &template, nil
}

// ListByClient returns a client's templates with a total count. A
// zero clientID lists every template.
func (r *GormTemplateRepository) ListByClient(clientID uint, page, pageSize int) ([]models.LabelTemplate, int64, error) {
	query := r.db.Model(&models.LabelTemplate{})
	if clientID > 0 {
		query = query.Where("client_id = ?", clientID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var items []models.LabelTemplate
	if err := query.Order("id asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update saves a template.
func (r *GormTemplateRepository) Update(template *models.LabelTemplate) error {
	return r.db.Save(template).Error
}

// Delete removes a template.
func (r *GormTemplateRepository) Delete(id uint) error {
	return r.db.Delete(&models.LabelTemplate{}, id).Error
}
