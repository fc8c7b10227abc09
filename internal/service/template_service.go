package service

import (
	"strings"

	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"
)

// TemplateService manages per-client landing templates.
type TemplateService struct {
	templateRepo repository.TemplateRepository
	clientRepo   repository.ClientRepository
}

// NewTemplateService builds the template service.
func NewTemplateService(templateRepo repository.TemplateRepository, clientRepo repository.ClientRepository) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
		clientRepo:   clientRepo,
	}
}

// TemplateInput carries the editable template fields.
type TemplateInput struct {
	ClientID uint
	Name     string
	IsActive *bool
}

// CreateTemplate creates a template under a client. Names are
// restricted to filesystem-safe tokens and unique per client.
func (s *TemplateService) CreateTemplate(input TemplateInput) (*models.LabelTemplate, error) {
	name := strings.TrimSpace(input.Name)
	if !models.TemplateNamePattern.MatchString(name) {
		return nil, ErrTemplateNameInvalid
	}
	client, err := s.clientRepo.GetByID(input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	if existing, err := s.templateRepo.GetByClientAndName(client.ID, name); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrTemplateNameTaken
	}

	template := &models.LabelTemplate{
		ClientID: client.ID,
		Name:     name,
		IsActive: true,
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}
	if err := s.templateRepo.Create(template); err != nil {
		return nil, err
	}
	return template, nil
}

// UpdateTemplate edits a template.
func (s *TemplateService) UpdateTemplate(id uint, input TemplateInput) (*models.LabelTemplate, error) {
	template, err := s.templateRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != template.Name {
		if !models.TemplateNamePattern.MatchString(name) {
			return nil, ErrTemplateNameInvalid
		}
		if existing, err := s.templateRepo.GetByClientAndName(template.ClientID, name); err != nil {
			return nil, err
		} else if existing != nil && existing.ID != template.ID {
			return nil, ErrTemplateNameTaken
		}
		template.Name = name
	}
	if input.IsActive != nil {
		template.IsActive = *input.IsActive
	}

	if err := s.templateRepo.Update(template); err != nil {
		return nil, err
	}
	return template, nil
}

// DeleteTemplate removes a template.
func (s *TemplateService) DeleteTemplate(id uint) error {
	template, err := s.templateRepo.GetByID(id)
	if err != nil {
		return err
	}
	if template == nil {
		return ErrTemplateNotFound
	}
	return s.templateRepo.Delete(id)
}

// ListTemplates returns templates for the back office.
func (s *TemplateService) ListTemplates(clientID uint, page, pageSize int) ([]models.LabelTemplate, int64, error) {
	return s.templateRepo.ListByClient(clientID, page, pageSize)
}
