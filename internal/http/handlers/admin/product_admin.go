package admin

import (
	"errors"
	"strconv"

	"github.com/etiquetas-qr/internal/http/response"
	"github.com/etiquetas-qr/internal/repository"
	"github.com/etiquetas-qr/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest is the create/update payload for products.
type ProductRequest struct {
	ClientID    uint   `json:"client_id" binding:"required"`
	TemplateID  *uint  `json:"template_id"`
	Name        string `json:"name" binding:"required"`
	ProductCode string `json:"product_code"`
	Description string `json:"description"`
	FieldName1  string `json:"field_name1"`
	FieldName2  string `json:"field_name2"`
	FieldName3  string `json:"field_name3"`
	FieldName4  string `json:"field_name4"`
	FieldName5  string `json:"field_name5"`
}

func (r ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		ClientID:    r.ClientID,
		TemplateID:  r.TemplateID,
		Name:        r.Name,
		ProductCode: r.ProductCode,
		Description: r.Description,
		FieldName1:  r.FieldName1,
		FieldName2:  r.FieldName2,
		FieldName3:  r.FieldName3,
		FieldName4:  r.FieldName4,
		FieldName5:  r.FieldName5,
	}
}

// CreateProduct creates a product under a client.
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.CreateProduct(req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			respondError(c, response.CodeNotFound, "client not found", nil)
		case errors.Is(err, service.ErrTemplateNotFound):
			respondError(c, response.CodeNotFound, "template not found for this client", nil)
		default:
			respondError(c, response.CodeInternal, "product create failed", err)
		}
		return
	}
	response.Success(c, product)
}

// UpdateProduct edits a product.
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	product, err := h.ProductService.UpdateProduct(uint(id), req.toInput())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		case errors.Is(err, service.ErrTemplateNotFound):
			respondError(c, response.CodeNotFound, "template not found for this client", nil)
		default:
			respondError(c, response.CodeInternal, "product update failed", err)
		}
		return
	}
	response.Success(c, product)
}

// DeleteProduct removes a product.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	if err := h.ProductService.DeleteProduct(uint(id)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product delete failed", err)
		return
	}
	response.Success(c, nil)
}

// GetProduct fetches one product.
func (h *Handler) GetProduct(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid product id", nil)
		return
	}

	product, err := h.ProductService.GetProduct(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			respondError(c, response.CodeNotFound, "product not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "product fetch failed", err)
		return
	}
	response.Success(c, product)
}

// GetProducts lists products.
func (h *Handler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 64)

	products, total, err := h.ProductService.ListProducts(repository.ProductListFilter{
		Page:     page,
		PageSize: pageSize,
		ClientID: uint(clientID),
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "product list failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, products, pagination)
}
