package repository

import (
	"errors"

	"github.com/etiquetas-qr/internal/models"

	"gorm.io/gorm"
)

// ClientRepository is the client data access interface.
type ClientRepository interface {
	Create(client *models.Client) error
	GetByID(id uint) (*models.Client, error)
	GetBySlug(slug string) (*models.Client, error)
	List(page, pageSize int, search string) ([]models.Client, int64, error)
	Update(client *models.Client) error
	Delete(id uint) error
	WithTx(tx *gorm.DB) *GormClientRepository
}

// GormClientRepository is the GORM implementation.
type GormClientRepository struct {
	db *gorm.DB
}

// NewClientRepository builds a client repository.
func NewClientRepository(db *gorm.DB) *GormClientRepository {
	return &GormClientRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormClientRepository) WithTx(tx *gorm.DB) *GormClientRepository {
	if tx == nil {
		return r
	}
	return &GormClientRepository{db: tx}
}

// Create inserts a client.
func (r *GormClientRepository) Create(client *models.Client) error {
	return r.db.Create(client).Error
}

// GetByID fetches one client, nil when absent.
func (r *GormClientRepository) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.First(&client, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// GetBySlug fetches one client by landing slug, nil when absent.
func (r *GormClientRepository) GetBySlug(slug string) (*models.Client, error) {
	var client models.Client
	if err := r.db.Where("slug = ?", slug).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

// List returns clients matching the search with a total count.
func (r *GormClientRepository) List(page, pageSize int, search string) ([]models.Client, int64, error) {
	query := r.db.Model(&models.Client{})
	if search != "" {
		cond, count := buildLikeCondition(r.db, []string{"name", "slug", "client_code"})
		query = query.Where(cond, repeatLikeArgs("%"+search+"%", count)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, page, pageSize)

	var items []models.Client
	if err := query.Order("id asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update saves a client.
func (r *GormClientRepository) Update(client *models.Client) error {
	return r.db.Save(client).Error
}

// Delete removes a client.
func (r *GormClientRepository) Delete(id uint) error {
	return r.db.Delete(&models.Client{}, id).Error
}
