package service

import (
	"fmt"
	"strings"

	"github.com/etiquetas-qr/internal/config"
	"github.com/etiquetas-qr/internal/constants"
	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"
)

// SerialService allocates and manages serial labels.
type SerialService struct {
	cfg         *config.Config
	serialRepo  repository.SerialRepository
	clientRepo  repository.ClientRepository
	productRepo repository.ProductRepository
}

// NewSerialService builds the serial service.
func NewSerialService(cfg *config.Config, serialRepo repository.SerialRepository, clientRepo repository.ClientRepository, productRepo repository.ProductRepository) *SerialService {
	return &SerialService{
		cfg:         cfg,
		serialRepo:  serialRepo,
		clientRepo:  clientRepo,
		productRepo: productRepo,
	}
}

// AllocateSerialsInput is the allocation request.
type AllocateSerialsInput struct {
	ClientID  uint
	ProductID uint
	Count     int
}

// AllocateSerialsResult reports what an allocation produced.
type AllocateSerialsResult struct {
	Requested int      `json:"requested"`
	Created   int64    `json:"created"`
	Codes     []string `json:"codes"`
	From      string   `json:"from,omitempty"`
	To        string   `json:"to,omitempty"`
	Warning   string   `json:"warning,omitempty"`
}

// AllocateSerials assigns the next Count serial numbers to a product.
// Candidates come from a window of twice the requested size starting
// right after the highest assigned number, skipping any number already
// taken; the batch insert skips conflicts instead of failing, so a
// concurrent allocation can only shrink the created set, never corrupt
// it.
func (s *SerialService) AllocateSerials(input AllocateSerialsInput) (*AllocateSerialsResult, error) {
	if input.Count <= 0 {
		return nil, ErrInvalidSerialCount
	}
	client, err := s.clientRepo.GetByID(input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	product, err := s.productRepo.GetByID(input.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.ClientID != client.ID {
		return nil, ErrProductNotFound
	}

	start, err := s.nextNumber()
	if err != nil {
		return nil, err
	}

	candidates := make([]string, 0, 2*input.Count)
	for i := 0; i < 2*input.Count; i++ {
		code, err := models.NewSerialCode(start + uint64(i))
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, code.String())
	}

	existing, err := s.serialRepo.ListCodesIn(candidates)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]struct{}, len(existing))
	for _, code := range existing {
		taken[code] = struct{}{}
	}

	selected := make([]string, 0, input.Count)
	for _, code := range candidates {
		if _, ok := taken[code]; ok {
			continue
		}
		selected = append(selected, code)
		if len(selected) == input.Count {
			break
		}
	}

	maxDeliveries := s.defaultMaxDeliveries()
	items := make([]models.Serial, 0, len(selected))
	for _, code := range selected {
		items = append(items, models.Serial{
			Code:          code,
			ClientID:      client.ID,
			ProductID:     product.ID,
			URL:           s.buildSerialURL(client.Slug, models.SerialCode(code)),
			Status:        models.SerialStatusScheduled,
			MaxDeliveries: maxDeliveries,
		})
	}

	created, err := s.serialRepo.CreateBatchIgnoreConflicts(items)
	if err != nil {
		return nil, err
	}

	result := &AllocateSerialsResult{
		Requested: input.Count,
		Created:   created,
		Codes:     selected,
	}
	if len(selected) > 0 {
		result.From = selected[0]
		result.To = selected[len(selected)-1]
	}
	if created < int64(input.Count) {
		result.Warning = fmt.Sprintf("only %d of %d serials could be created", created, input.Count)
	}
	return result, nil
}

// nextNumber returns the first candidate number: one past the highest
// assigned code. The configured floor counts as already assigned, so
// allocation always yields codes strictly greater than it.
func (s *SerialService) nextNumber() (uint64, error) {
	last := s.floor()
	maxCode, err := s.serialRepo.MaxCode()
	if err != nil {
		return 0, err
	}
	if trimmed := strings.TrimSpace(maxCode); trimmed != "" {
		if value := models.SerialCode(trimmed).Uint64(); value > last {
			last = value
		}
	}
	return last + 1, nil
}

func (s *SerialService) floor() uint64 {
	if s.cfg != nil && s.cfg.Serial.Floor > 0 {
		return s.cfg.Serial.Floor
	}
	return constants.SerialFloor
}

func (s *SerialService) defaultMaxDeliveries() int {
	if s.cfg != nil && s.cfg.Serial.MaxDeliveries > 0 {
		return s.cfg.Serial.MaxDeliveries
	}
	return constants.DefaultMaxDeliveries
}

func (s *SerialService) buildSerialURL(clientSlug string, code models.SerialCode) string {
	base := ""
	if s.cfg != nil {
		base = strings.TrimRight(strings.TrimSpace(s.cfg.Serial.BaseURL), "/")
	}
	return fmt.Sprintf("%s/%s/qr/?qr=%s", base, clientSlug, code.Display())
}

// ListSerials returns serials for the back office.
func (s *SerialService) ListSerials(filter repository.SerialListFilter) ([]models.Serial, int64, error) {
	return s.serialRepo.List(filter)
}

// GetSerialByCode fetches one serial by raw code input.
func (s *SerialService) GetSerialByCode(raw string) (*models.Serial, error) {
	code, err := models.ParseSerialCode(raw)
	if err != nil {
		return nil, err
	}
	serial, err := s.serialRepo.GetByCode(code.String())
	if err != nil {
		return nil, err
	}
	if serial == nil {
		return nil, ErrSerialNotFound
	}
	return serial, nil
}

// UpdateSerialInput carries editable serial fields.
type UpdateSerialInput struct {
	Status        *string
	Field1        *string
	Field2        *string
	Field3        *string
	Field4        *string
	Field5        *string
	MaxDeliveries *int
}

// UpdateSerial edits one serial.
func (s *SerialService) UpdateSerial(id uint, input UpdateSerialInput) (*models.Serial, error) {
	serial, err := s.serialRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if serial == nil {
		return nil, ErrSerialNotFound
	}

	if input.Status != nil {
		if !models.ValidSerialStatus(*input.Status) {
			return nil, ErrInvalidStatus
		}
		serial.Status = *input.Status
	}
	if input.Field1 != nil {
		serial.Field1 = *input.Field1
	}
	if input.Field2 != nil {
		serial.Field2 = *input.Field2
	}
	if input.Field3 != nil {
		serial.Field3 = *input.Field3
	}
	if input.Field4 != nil {
		serial.Field4 = *input.Field4
	}
	if input.Field5 != nil {
		serial.Field5 = *input.Field5
	}
	if input.MaxDeliveries != nil {
		if *input.MaxDeliveries <= 0 {
			return nil, fmt.Errorf("max deliveries must be positive")
		}
		serial.MaxDeliveries = *input.MaxDeliveries
	}

	if err := s.serialRepo.Update(serial); err != nil {
		return nil, err
	}
	return serial, nil
}

// SerialsForExport returns the serials of a validated range, in code
// order, for CSV export.
func (s *SerialService) SerialsForExport(fromRaw, toRaw string) ([]models.Serial, error) {
	from, err := models.ParseSerialCode(fromRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid range start: %w", err)
	}
	to, err := models.ParseSerialCode(toRaw)
	if err != nil {
		return nil, fmt.Errorf("invalid range end: %w", err)
	}
	if from.Uint64() > to.Uint64() {
		return nil, ErrRangeInverted
	}
	return s.serialRepo.ListInRange(from.String(), to.String())
}
