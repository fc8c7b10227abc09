package repository

import (
	"errors"
	"time"

	"github.com/etiquetas-qr/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SerialRepository is the serial data access interface.
type SerialRepository interface {
	CreateBatchIgnoreConflicts(items []models.Serial) (int64, error)
	MaxCode() (string, error)
	ListCodesIn(codes []string) ([]string, error)
	GetByCode(code string) (*models.Serial, error)
	GetByCodeForUpdate(code string) (*models.Serial, error)
	GetByID(id uint) (*models.Serial, error)
	FirstInRange(from, to string) (*models.Serial, error)
	ListInRange(from, to string) ([]models.Serial, error)
	CountInRange(from, to string) (int64, error)
	CountInRangeLinkedToOther(from, to string, requestID uint) (int64, error)
	DistinctRequestIDsInRange(from, to string) ([]uint, error)
	UpdateRange(from, to string, values map[string]interface{}) (int64, error)
	List(filter SerialListFilter) ([]models.Serial, int64, error)
	Update(serial *models.Serial) error
	CountByRequest(requestID uint) (int64, error)
	DetachFromRequest(requestID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormSerialRepository
}

// GormSerialRepository is the GORM implementation.
type GormSerialRepository struct {
	db *gorm.DB
}

// NewSerialRepository builds a serial repository.
func NewSerialRepository(db *gorm.DB) *GormSerialRepository {
	return &GormSerialRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormSerialRepository) WithTx(tx *gorm.DB) *GormSerialRepository {
	if tx == nil {
		return r
	}
	return &GormSerialRepository{db: tx}
}

// CreateBatchIgnoreConflicts inserts the batch skipping rows whose
// code already exists, and reports how many rows were inserted.
func (r *GormSerialRepository) CreateBatchIgnoreConflicts(items []models.Serial) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&items)
	return result.RowsAffected, result.Error
}

// MaxCode returns the highest assigned code, empty when none exist.
// Codes are fixed width so MAX over the string column is numeric MAX.
func (r *GormSerialRepository) MaxCode() (string, error) {
	var code *string
	if err := r.db.Model(&models.Serial{}).Select("MAX(code)").Scan(&code).Error; err != nil {
		return "", err
	}
	if code == nil {
		return "", nil
	}
	return *code, nil
}

// ListCodesIn returns which of the candidate codes already exist.
func (r *GormSerialRepository) ListCodesIn(codes []string) ([]string, error) {
	if len(codes) == 0 {
		return []string{}, nil
	}
	var existing []string
	if err := r.db.Model(&models.Serial{}).
		Where("code IN ?", codes).
		Pluck("code", &existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// GetByCode fetches one serial, nil when absent.
func (r *GormSerialRepository) GetByCode(code string) (*models.Serial, error) {
	var serial models.Serial
	if err := r.db.Preload("Product").Preload("Client").Where("code = ?", code).First(&serial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &serial, nil
}

// GetByCodeForUpdate fetches one serial under a row lock. Run inside
// a transaction.
func (r *GormSerialRepository) GetByCodeForUpdate(code string) (*models.Serial, error) {
	var serial models.Serial
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("code = ?", code).
		First(&serial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &serial, nil
}

// GetByID fetches one serial with its relations, nil when absent.
func (r *GormSerialRepository) GetByID(id uint) (*models.Serial, error) {
	var serial models.Serial
	if err := r.db.Preload("Product").Preload("Client").Preload("Request").First(&serial, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &serial, nil
}

// FirstInRange returns the lowest serial inside [from, to], nil when
// the range is empty.
func (r *GormSerialRepository) FirstInRange(from, to string) (*models.Serial, error) {
	var serial models.Serial
	if err := r.db.Preload("Product").
		Where("code BETWEEN ? AND ?", from, to).
		Order("code asc").
		First(&serial).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &serial, nil
}

// ListInRange returns every serial inside [from, to] in code order,
// with relations loaded for export.
func (r *GormSerialRepository) ListInRange(from, to string) ([]models.Serial, error) {
	var items []models.Serial
	if err := r.db.Preload("Client").Preload("Product").Preload("Request").
		Where("code BETWEEN ? AND ?", from, to).
		Order("code asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// CountInRange counts serials inside [from, to].
func (r *GormSerialRepository) CountInRange(from, to string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Serial{}).
		Where("code BETWEEN ? AND ?", from, to).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountInRangeLinkedToOther counts serials inside [from, to] already
// linked to a request other than requestID.
func (r *GormSerialRepository) CountInRangeLinkedToOther(from, to string, requestID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Serial{}).
		Where("code BETWEEN ? AND ?", from, to).
		Where("request_id IS NOT NULL AND request_id <> ?", requestID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DistinctRequestIDsInRange returns the distinct non-null request
// links inside [from, to].
func (r *GormSerialRepository) DistinctRequestIDsInRange(from, to string) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Serial{}).
		Where("code BETWEEN ? AND ?", from, to).
		Where("request_id IS NOT NULL").
		Distinct().
		Pluck("request_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateRange applies values to every serial inside [from, to] and
// reports rows affected.
func (r *GormSerialRepository) UpdateRange(from, to string, values map[string]interface{}) (int64, error) {
	if len(values) == 0 {
		return 0, nil
	}
	if _, ok := values["updated_at"]; !ok {
		values["updated_at"] = time.Now()
	}
	result := r.db.Model(&models.Serial{}).
		Where("code BETWEEN ? AND ?", from, to).
		Updates(values)
	return result.RowsAffected, result.Error
}

// List returns serials matching the filter with a total count.
func (r *GormSerialRepository) List(filter SerialListFilter) ([]models.Serial, int64, error) {
	query := r.db.Model(&models.Serial{})
	if filter.ClientID > 0 {
		query = query.Where("client_id = ?", filter.ClientID)
	}
	if filter.ProductID > 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.RequestID > 0 {
		query = query.Where("request_id = ?", filter.RequestID)
	}
	if filter.CodeSearch != "" {
		query = query.Where("code LIKE ?", "%"+filter.CodeSearch+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var items []models.Serial
	if err := query.Preload("Product").Preload("Request").Order("code asc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Update saves a serial.
func (r *GormSerialRepository) Update(serial *models.Serial) error {
	return r.db.Save(serial).Error
}

// DetachFromRequest clears the request link of every serial owned by
// a request and reports rows affected.
func (r *GormSerialRepository) DetachFromRequest(requestID uint) (int64, error) {
	result := r.db.Model(&models.Serial{}).
		Where("request_id = ?", requestID).
		Update("request_id", nil)
	return result.RowsAffected, result.Error
}

// CountByRequest counts serials linked to a request.
func (r *GormSerialRepository) CountByRequest(requestID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Serial{}).
		Where("request_id = ?", requestID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
