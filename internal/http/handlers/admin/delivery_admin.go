package admin

import (
	"errors"
	"strconv"

	"github.com/etiquetas-qr/internal/http/response"
	"github.com/etiquetas-qr/internal/repository"
	"github.com/etiquetas-qr/internal/service"

	"github.com/gin-gonic/gin"
)

// GetDeliveries lists captured deliveries.
func (h *Handler) GetDeliveries(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	requestID, _ := strconv.ParseUint(c.Query("request_id"), 10, 64)
	serialID, _ := strconv.ParseUint(c.Query("serial_id"), 10, 64)

	deliveries, total, err := h.DeliveryService.ListDeliveries(repository.DeliveryListFilter{
		Page:      page,
		PageSize:  pageSize,
		RequestID: uint(requestID),
		SerialID:  uint(serialID),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "delivery list failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, deliveries, pagination)
}

// GetDelivery fetches one delivery with its evidence URLs.
func (h *Handler) GetDelivery(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid delivery id", nil)
		return
	}

	delivery, err := h.DeliveryService.GetDelivery(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(c, response.CodeNotFound, "delivery not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "delivery fetch failed", err)
		return
	}

	response.Success(c, gin.H{
		"delivery":      delivery,
		"photo_url":     h.Storage.URL(delivery.PhotoPath),
		"signature_url": h.Storage.URL(delivery.SignaturePath),
	})
}
