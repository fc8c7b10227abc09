package service

import (
	"fmt"
	"strings"

	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"
)

// ProductService manages labeled product lines.
type ProductService struct {
	productRepo  repository.ProductRepository
	clientRepo   repository.ClientRepository
	templateRepo repository.TemplateRepository
}

// NewProductService builds the product service.
func NewProductService(productRepo repository.ProductRepository, clientRepo repository.ClientRepository, templateRepo repository.TemplateRepository) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		clientRepo:   clientRepo,
		templateRepo: templateRepo,
	}
}

// ProductInput carries the editable product fields.
type ProductInput struct {
	ClientID    uint
	TemplateID  *uint
	Name        string
	ProductCode string
	Description string
	FieldName1  string
	FieldName2  string
	FieldName3  string
	FieldName4  string
	FieldName5  string
}

// CreateProduct creates a product under a client.
func (s *ProductService) CreateProduct(input ProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	client, err := s.clientRepo.GetByID(input.ClientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}
	if err := s.validateTemplate(input.TemplateID, client.ID); err != nil {
		return nil, err
	}

	product := &models.Product{
		ClientID:    client.ID,
		TemplateID:  input.TemplateID,
		Name:        name,
		ProductCode: strings.TrimSpace(input.ProductCode),
		Description: input.Description,
		FieldName1:  strings.TrimSpace(input.FieldName1),
		FieldName2:  strings.TrimSpace(input.FieldName2),
		FieldName3:  strings.TrimSpace(input.FieldName3),
		FieldName4:  strings.TrimSpace(input.FieldName4),
		FieldName5:  strings.TrimSpace(input.FieldName5),
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct edits a product. The owning client never changes.
func (s *ProductService) UpdateProduct(id uint, input ProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	if err := s.validateTemplate(input.TemplateID, product.ClientID); err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	product.TemplateID = input.TemplateID
	product.ProductCode = strings.TrimSpace(input.ProductCode)
	product.Description = input.Description
	product.FieldName1 = strings.TrimSpace(input.FieldName1)
	product.FieldName2 = strings.TrimSpace(input.FieldName2)
	product.FieldName3 = strings.TrimSpace(input.FieldName3)
	product.FieldName4 = strings.TrimSpace(input.FieldName4)
	product.FieldName5 = strings.TrimSpace(input.FieldName5)

	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(id uint) error {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.productRepo.Delete(id)
}

// GetProduct fetches one product.
func (s *ProductService) GetProduct(id uint) (*models.Product, error) {
	product, err := s.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListProducts returns products for the back office.
func (s *ProductService) ListProducts(filter repository.ProductListFilter) ([]models.Product, int64, error) {
	return s.productRepo.List(filter)
}

func (s *ProductService) validateTemplate(templateID *uint, clientID uint) error {
	if templateID == nil {
		return nil
	}
	template, err := s.templateRepo.GetByID(*templateID)
	if err != nil {
		return err
	}
	if template == nil || template.ClientID != clientID {
		return ErrTemplateNotFound
	}
	return nil
}
