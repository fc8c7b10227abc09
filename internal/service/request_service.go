package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/etiquetas-qr/internal/constants"
	"github.com/etiquetas-qr/internal/logger"
	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"
	"github.com/etiquetas-qr/internal/storage"

	"github.com/google/uuid"
)

// RequestService manages label requests and their logo assets.
type RequestService struct {
	requestRepo repository.RequestRepository
	serialRepo  repository.SerialRepository
	store       storage.ObjectStorage
}

// NewRequestService builds the request service.
func NewRequestService(requestRepo repository.RequestRepository, serialRepo repository.SerialRepository, store storage.ObjectStorage) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		serialRepo:  serialRepo,
		store:       store,
	}
}

// LogoUpload is a logo file received from the back office.
type LogoUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RequestInput carries the editable request fields.
type RequestInput struct {
	Code               string
	AboutUs            string
	CompanyName        string
	TaxID              string
	Address            string
	Phone              string
	Mobile             string
	Email              string
	Website            string
	ExtraLink          string
	Boxes              int
	Rolls              int
	SerialCount        int
	ShowDeliveryButton bool
	Locations          []models.Location

	Logo      *LogoUpload
	ClearLogo bool
}

// CreateRequest creates a request, generating the public code when
// absent and storing the logo first so a storage failure creates
// nothing.
func (s *RequestService) CreateRequest(ctx context.Context, input RequestInput) (*models.Request, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = generateRequestCode()
	}
	if existing, err := s.requestRepo.GetByCode(code); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("request code %s already exists", code)
	}

	logoPath := ""
	if input.Logo != nil {
		key, err := s.storeLogo(ctx, input.Logo)
		if err != nil {
			return nil, err
		}
		logoPath = key
	}

	request := &models.Request{
		Code:               code,
		LogoPath:           logoPath,
		AboutUs:            SanitizeAboutUs(input.AboutUs),
		CompanyName:        input.CompanyName,
		TaxID:              input.TaxID,
		Address:            input.Address,
		Phone:              input.Phone,
		Mobile:             input.Mobile,
		Email:              input.Email,
		Website:            input.Website,
		ExtraLink:          input.ExtraLink,
		Boxes:              input.Boxes,
		Rolls:              input.Rolls,
		SerialCount:        input.SerialCount,
		ShowDeliveryButton: input.ShowDeliveryButton,
		Locations:          input.Locations,
	}
	if err := s.requestRepo.Create(request); err != nil {
		if logoPath != "" {
			if cleanupErr := s.store.Delete(ctx, logoPath); cleanupErr != nil {
				logger.Warnw("request_logo_cleanup_failed", "path", logoPath, "error", cleanupErr)
			}
		}
		return nil, err
	}
	return request, nil
}

// UpdateRequest edits a request. Replacing or clearing the logo
// removes the previously stored object before the row is saved.
func (s *RequestService) UpdateRequest(ctx context.Context, id uint, input RequestInput) (*models.Request, error) {
	request, err := s.requestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	if input.Logo != nil || input.ClearLogo {
		if request.LogoPath != "" {
			if err := s.store.Delete(ctx, request.LogoPath); err != nil {
				return nil, fmt.Errorf("remove previous logo: %w", err)
			}
		}
		request.LogoPath = ""
		if input.Logo != nil {
			key, err := s.storeLogo(ctx, input.Logo)
			if err != nil {
				return nil, err
			}
			request.LogoPath = key
		}
	}

	request.AboutUs = SanitizeAboutUs(input.AboutUs)
	request.CompanyName = input.CompanyName
	request.TaxID = input.TaxID
	request.Address = input.Address
	request.Phone = input.Phone
	request.Mobile = input.Mobile
	request.Email = input.Email
	request.Website = input.Website
	request.ExtraLink = input.ExtraLink
	request.Boxes = input.Boxes
	request.Rolls = input.Rolls
	request.SerialCount = input.SerialCount
	request.ShowDeliveryButton = input.ShowDeliveryButton

	if err := s.requestRepo.Update(request); err != nil {
		return nil, err
	}
	if input.Locations != nil {
		if err := s.requestRepo.ReplaceLocations(request.ID, input.Locations); err != nil {
			return nil, err
		}
		request.Locations = input.Locations
	}
	return request, nil
}

// DeleteRequest removes a request, its locations and its stored logo.
// Linked serials are detached, not deleted.
func (s *RequestService) DeleteRequest(ctx context.Context, id uint) error {
	request, err := s.requestRepo.GetByID(id)
	if err != nil {
		return err
	}
	if request == nil {
		return ErrRequestNotFound
	}

	if request.LogoPath != "" {
		if err := s.store.Delete(ctx, request.LogoPath); err != nil {
			return fmt.Errorf("remove request logo: %w", err)
		}
	}

	if _, err := s.serialRepo.DetachFromRequest(request.ID); err != nil {
		return err
	}
	return s.requestRepo.Delete(request.ID)
}

// GetRequest fetches one request by id.
func (s *RequestService) GetRequest(id uint) (*models.Request, error) {
	request, err := s.requestRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return request, nil
}

// GetRequestByCode fetches one request by public code.
func (s *RequestService) GetRequestByCode(code string) (*models.Request, error) {
	request, err := s.requestRepo.GetByCode(strings.TrimSpace(code))
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	return request, nil
}

// ListRequests returns requests for the back office.
func (s *RequestService) ListRequests(filter repository.RequestListFilter) ([]models.Request, int64, error) {
	return s.requestRepo.List(filter)
}

// LogoURL resolves the public URL of a stored logo.
func (s *RequestService) LogoURL(request *models.Request) string {
	if request == nil || request.LogoPath == "" {
		return ""
	}
	return s.store.URL(request.LogoPath)
}

func (s *RequestService) storeLogo(ctx context.Context, logo *LogoUpload) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(logo.Filename)), ".")
	if ext == "" {
		ext = "png"
	}
	base := strings.TrimSuffix(filepath.Base(logo.Filename), filepath.Ext(logo.Filename))
	key := storage.ObjectName(constants.StoragePrefixLogos, base, ext)
	return s.store.Save(ctx, key, logo.Data, logo.ContentType)
}

// generateRequestCode builds "CI" plus 8 uppercase hex characters.
func generateRequestCode() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return constants.RequestCodePrefix + strings.ToUpper(hex[:constants.RequestCodeLength])
}
