package service

import (
	"fmt"

	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"

	"gorm.io/gorm"
)

// RangeService validates serial ranges and links them to requests.
type RangeService struct {
	serialRepo  repository.SerialRepository
	requestRepo repository.RequestRepository
}

// NewRangeService builds the range service.
func NewRangeService(serialRepo repository.SerialRepository, requestRepo repository.RequestRepository) *RangeService {
	return &RangeService{
		serialRepo:  serialRepo,
		requestRepo: requestRepo,
	}
}

// ParseRange parses both bounds and rejects inverted input. Errors
// name the failing bound.
func (s *RangeService) ParseRange(fromRaw, toRaw string) (models.SerialCode, models.SerialCode, error) {
	from, err := models.ParseSerialCode(fromRaw)
	if err != nil {
		return "", "", fmt.Errorf("invalid range start: %w", err)
	}
	to, err := models.ParseSerialCode(toRaw)
	if err != nil {
		return "", "", fmt.Errorf("invalid range end: %w", err)
	}
	if from.Uint64() > to.Uint64() {
		return "", "", ErrRangeInverted
	}
	return from, to, nil
}

// ValidateRange checks that the stored rows inside [from, to] match
// the arithmetic size of the range.
func (s *RangeService) ValidateRange(fromRaw, toRaw string) (models.SerialCode, models.SerialCode, error) {
	from, to, err := s.ParseRange(fromRaw, toRaw)
	if err != nil {
		return "", "", err
	}
	expected := int64(to.Uint64() - from.Uint64() + 1)
	count, err := s.serialRepo.CountInRange(from.String(), to.String())
	if err != nil {
		return "", "", err
	}
	if count != expected {
		return "", "", fmt.Errorf("%w: expected %d serials in range, found %d", ErrRangeCountMismatch, expected, count)
	}
	return from, to, nil
}

// ResolveRangeResult reports which request owns a range.
type ResolveRangeResult struct {
	Request      *models.Request `json:"request,omitempty"`
	RequestCount int             `json:"request_count"`
	Warning      string          `json:"warning,omitempty"`
}

// ResolveRange finds the distinct requests already linked inside the
// range. Exactly one becomes the selection; more than one yields an
// ambiguity warning and no selection.
func (s *RangeService) ResolveRange(fromRaw, toRaw string) (*ResolveRangeResult, error) {
	from, to, err := s.ValidateRange(fromRaw, toRaw)
	if err != nil {
		return nil, err
	}

	ids, err := s.serialRepo.DistinctRequestIDsInRange(from.String(), to.String())
	if err != nil {
		return nil, err
	}

	result := &ResolveRangeResult{RequestCount: len(ids)}
	switch len(ids) {
	case 0:
	case 1:
		request, err := s.requestRepo.GetByID(ids[0])
		if err != nil {
			return nil, err
		}
		result.Request = request
	default:
		result.Warning = fmt.Sprintf("the range contains %d associated requests; narrow the range to select one", len(ids))
	}
	return result, nil
}

// RangeFieldsResult carries form prefill data for a range.
type RangeFieldsResult struct {
	FieldNames [5]string `json:"field_names"`
	Values     [5]string `json:"values"`
	Status     string    `json:"status"`
}

// RangeFields returns the custom field display names and current
// values for a range, taken from its first serial. Defaults apply
// when the range is empty.
func (s *RangeService) RangeFields(fromRaw, toRaw string) (*RangeFieldsResult, error) {
	from, to, err := s.ParseRange(fromRaw, toRaw)
	if err != nil {
		return nil, err
	}
	first, err := s.serialRepo.FirstInRange(from.String(), to.String())
	if err != nil {
		return nil, err
	}

	result := &RangeFieldsResult{
		FieldNames: (&models.Product{}).FieldNames(),
		Status:     models.SerialStatusScheduled,
	}
	if first != nil {
		result.FieldNames = first.Product.FieldNames()
		result.Values = [5]string{first.Field1, first.Field2, first.Field3, first.Field4, first.Field5}
		if first.Status != "" {
			result.Status = first.Status
		}
	}
	return result, nil
}

// AssociateRangeInput is the association request.
type AssociateRangeInput struct {
	From      string
	To        string
	RequestID uint
	Field1    string
	Field2    string
	Field3    string
	Field4    string
	Field5    string
	Status    string
}

// AssociateRangeResult reports what an association changed.
type AssociateRangeResult struct {
	Updated         int64  `json:"updated"`
	ReassignedCount int64  `json:"reassigned_count"`
	Warning         string `json:"warning,omitempty"`
	NothingToDo     bool   `json:"nothing_to_do"`
}

// AssociateRange links every serial in the range to a request and
// overwrites the five custom fields and the status, atomically.
// Serials already linked elsewhere are counted and overwritten, not
// skipped. Repeating the call with the same input is a no-op beyond
// refreshing timestamps.
func (s *RangeService) AssociateRange(input AssociateRangeInput) (*AssociateRangeResult, error) {
	from, to, err := s.ParseRange(input.From, input.To)
	if err != nil {
		return nil, err
	}
	if !models.ValidSerialStatus(input.Status) {
		return nil, ErrInvalidStatus
	}
	request, err := s.requestRepo.GetByID(input.RequestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	result := &AssociateRangeResult{}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.serialRepo.WithTx(tx)

		reassigned, err := repo.CountInRangeLinkedToOther(from.String(), to.String(), input.RequestID)
		if err != nil {
			return err
		}
		result.ReassignedCount = reassigned

		updated, err := repo.UpdateRange(from.String(), to.String(), map[string]interface{}{
			"request_id": input.RequestID,
			"field1":     input.Field1,
			"field2":     input.Field2,
			"field3":     input.Field3,
			"field4":     input.Field4,
			"field5":     input.Field5,
			"status":     input.Status,
		})
		if err != nil {
			return err
		}
		result.Updated = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Updated == 0 {
		result.NothingToDo = true
		return result, nil
	}
	if result.ReassignedCount > 0 {
		result.Warning = fmt.Sprintf("%d serials in the range were already associated to another request and have been reassigned", result.ReassignedCount)
	}
	return result, nil
}
