package service

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"
)

// ClientService manages clients.
type ClientService struct {
	clientRepo repository.ClientRepository
}

// NewClientService builds the client service.
func NewClientService(clientRepo repository.ClientRepository) *ClientService {
	return &ClientService{clientRepo: clientRepo}
}

// ClientInput carries the editable client fields.
type ClientInput struct {
	Name       string
	Slug       string
	ClientCode string
}

// CreateClient creates a client, deriving the landing slug from the
// name when not given.
func (s *ClientService) CreateClient(input ClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("client name is required")
	}
	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	} else {
		slug = Slugify(slug)
	}
	if existing, err := s.clientRepo.GetBySlug(slug); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, ErrClientSlugTaken
	}

	client := &models.Client{
		Name:       name,
		Slug:       slug,
		ClientCode: strings.TrimSpace(input.ClientCode),
	}
	if err := s.clientRepo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// UpdateClient edits a client.
func (s *ClientService) UpdateClient(id uint, input ClientInput) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		client.Name = name
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		slug = Slugify(slug)
		if slug != client.Slug {
			if existing, err := s.clientRepo.GetBySlug(slug); err != nil {
				return nil, err
			} else if existing != nil && existing.ID != client.ID {
				return nil, ErrClientSlugTaken
			}
			client.Slug = slug
		}
	}
	client.ClientCode = strings.TrimSpace(input.ClientCode)

	if err := s.clientRepo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

// DeleteClient removes a client.
func (s *ClientService) DeleteClient(id uint) error {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return ErrClientNotFound
	}
	return s.clientRepo.Delete(id)
}

// GetClient fetches one client.
func (s *ClientService) GetClient(id uint) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// GetClientBySlug fetches one client by landing slug.
func (s *ClientService) GetClientBySlug(slug string) (*models.Client, error) {
	client, err := s.clientRepo.GetBySlug(strings.TrimSpace(slug))
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	return client, nil
}

// ListClients returns clients for the back office.
func (s *ClientService) ListClients(page, pageSize int, search string) ([]models.Client, int64, error) {
	return s.clientRepo.List(page, pageSize, search)
}

// Slugify lowercases, strips accents on common Latin letters and
// collapses everything else into single dashes.
func Slugify(value string) string {
	replacer := strings.NewReplacer(
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u",
		"à", "a", "è", "e", "ì", "i", "ò", "o", "ù", "u",
		"ä", "a", "ë", "e", "ï", "i", "ö", "o", "ü", "u",
		"ñ", "n", "ç", "c",
	)
	value = replacer.Replace(strings.ToLower(strings.TrimSpace(value)))

	var b strings.Builder
	lastDash := true
	for _, r := range value {
		switch {
		case unicode.IsLetter(r) && r < unicode.MaxASCII, unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}
