package admin

import (
	"errors"
	"strconv"

	"github.com/etiquetas-qr/internal/http/response"
	"github.com/etiquetas-qr/internal/service"

	"github.com/gin-gonic/gin"
)

// ClientRequest is the create/update payload for clients.
type ClientRequest struct {
	Name       string `json:"name" binding:"required"`
	Slug       string `json:"slug"`
	ClientCode string `json:"client_code"`
}

// CreateClient creates a client.
func (h *Handler) CreateClient(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	client, err := h.ClientService.CreateClient(service.ClientInput{
		Name:       req.Name,
		Slug:       req.Slug,
		ClientCode: req.ClientCode,
	})
	if err != nil {
		if errors.Is(err, service.ErrClientSlugTaken) {
			respondError(c, response.CodeConflict, "client slug already in use", nil)
			return
		}
		respondError(c, response.CodeInternal, "client create failed", err)
		return
	}
	response.Success(c, client)
}

// UpdateClient edits a client.
func (h *Handler) UpdateClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid client id", nil)
		return
	}

	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	client, err := h.ClientService.UpdateClient(uint(id), service.ClientInput{
		Name:       req.Name,
		Slug:       req.Slug,
		ClientCode: req.ClientCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			respondError(c, response.CodeNotFound, "client not found", nil)
		case errors.Is(err, service.ErrClientSlugTaken):
			respondError(c, response.CodeConflict, "client slug already in use", nil)
		default:
			respondError(c, response.CodeInternal, "client update failed", err)
		}
		return
	}
	response.Success(c, client)
}

// DeleteClient removes a client.
func (h *Handler) DeleteClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid client id", nil)
		return
	}

	if err := h.ClientService.DeleteClient(uint(id)); err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondError(c, response.CodeNotFound, "client not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "client delete failed", err)
		return
	}
	response.Success(c, nil)
}

// GetClient fetches one client.
func (h *Handler) GetClient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid client id", nil)
		return
	}

	client, err := h.ClientService.GetClient(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondError(c, response.CodeNotFound, "client not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "client fetch failed", err)
		return
	}
	response.Success(c, client)
}

// GetClients lists clients.
func (h *Handler) GetClients(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	clients, total, err := h.ClientService.ListClients(page, pageSize, c.Query("search"))
	if err != nil {
		respondError(c, response.CodeInternal, "client list failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, clients, pagination)
}
