package admin

import (
	"errors"
	"strconv"

	"github.com/etiquetas-qr/internal/http/response"
	"github.com/etiquetas-qr/internal/service"

	"github.com/gin-gonic/gin"
)

// TemplateRequest is the create/update payload for label templates.
type TemplateRequest struct {
	ClientID uint   `json:"client_id"`
	Name     string `json:"name" binding:"required"`
	IsActive *bool  `json:"is_active"`
}

// CreateTemplate creates a landing template for a client.
func (h *Handler) CreateTemplate(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	template, err := h.TemplateService.CreateTemplate(service.TemplateInput{
		ClientID: req.ClientID,
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			respondError(c, response.CodeNotFound, "client not found", nil)
		case errors.Is(err, service.ErrTemplateNameInvalid):
			respondError(c, response.CodeBadRequest, "template name may only contain letters, digits, dot, dash and underscore", nil)
		case errors.Is(err, service.ErrTemplateNameTaken):
			respondError(c, response.CodeConflict, "template name already in use for this client", nil)
		default:
			respondError(c, response.CodeInternal, "template create failed", err)
		}
		return
	}
	response.Success(c, template)
}

// UpdateTemplate edits a template.
func (h *Handler) UpdateTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid template id", nil)
		return
	}

	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	template, err := h.TemplateService.UpdateTemplate(uint(id), service.TemplateInput{
		Name:     req.Name,
		IsActive: req.IsActive,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTemplateNotFound):
			respondError(c, response.CodeNotFound, "template not found", nil)
		case errors.Is(err, service.ErrTemplateNameInvalid):
			respondError(c, response.CodeBadRequest, "template name may only contain letters, digits, dot, dash and underscore", nil)
		case errors.Is(err, service.ErrTemplateNameTaken):
			respondError(c, response.CodeConflict, "template name already in use for this client", nil)
		default:
			respondError(c, response.CodeInternal, "template update failed", err)
		}
		return
	}
	response.Success(c, template)
}

// DeleteTemplate removes a template.
func (h *Handler) DeleteTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid template id", nil)
		return
	}

	if err := h.TemplateService.DeleteTemplate(uint(id)); err != nil {
		if errors.Is(err, service.ErrTemplateNotFound) {
			respondError(c, response.CodeNotFound, "template not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "template delete failed", err)
		return
	}
	response.Success(c, nil)
}

// GetTemplates lists templates, optionally scoped to one client.
func (h *Handler) GetTemplates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 64)

	templates, total, err := h.TemplateService.ListTemplates(uint(clientID), page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "template list failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, templates, pagination)
}
