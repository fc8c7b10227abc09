package admin

import (
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"

	"github.com/etiquetas-qr/internal/http/response"
	"github.com/etiquetas-qr/internal/repository"
	"github.com/etiquetas-qr/internal/service"

	"github.com/gin-gonic/gin"
)

// AllocateSerialsRequest asks for a batch of new serials.
type AllocateSerialsRequest struct {
	ClientID  uint `json:"client_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Count     int  `json:"count" binding:"required"`
}

// AllocateSerials assigns the next block of serial numbers to a product.
func (h *Handler) AllocateSerials(c *gin.Context) {
	var req AllocateSerialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.SerialService.AllocateSerials(service.AllocateSerialsInput{
		ClientID:  req.ClientID,
		ProductID: req.ProductID,
		Count:     req.Count,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSerialCount):
			respondError(c, response.CodeBadRequest, "count must be positive", nil)
		case errors.Is(err, service.ErrClientNotFound):
			respondError(c, response.CodeNotFound, "client not found", nil)
		case errors.Is(err, service.ErrProductNotFound):
			respondError(c, response.CodeNotFound, "product not found", nil)
		default:
			respondError(c, response.CodeInternal, "serial allocation failed", err)
		}
		return
	}

	requestLog(c).Infow("serials_allocated",
		"client_id", req.ClientID,
		"product_id", req.ProductID,
		"requested", result.Requested,
		"created", result.Created,
	)
	response.Success(c, result)
}

// GetSerials lists serials with filters.
func (h *Handler) GetSerials(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)
	clientID, _ := strconv.ParseUint(c.Query("client_id"), 10, 64)
	productID, _ := strconv.ParseUint(c.Query("product_id"), 10, 64)
	requestID, _ := strconv.ParseUint(c.Query("request_id"), 10, 64)

	serials, total, err := h.SerialService.ListSerials(repository.SerialListFilter{
		Page:       page,
		PageSize:   pageSize,
		ClientID:   uint(clientID),
		ProductID:  uint(productID),
		Status:     c.Query("status"),
		RequestID:  uint(requestID),
		CodeSearch: c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "serial list failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, serials, pagination)
}

// GetSerial fetches one serial by code.
func (h *Handler) GetSerial(c *gin.Context) {
	serial, err := h.SerialService.GetSerialByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrSerialNotFound) {
			respondError(c, response.CodeNotFound, "serial not found", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "invalid serial code", err)
		return
	}
	response.Success(c, serial)
}

// UpdateSerialRequest edits one serial's mutable fields.
type UpdateSerialRequest struct {
	Status        *string `json:"status"`
	Field1        *string `json:"field1"`
	Field2        *string `json:"field2"`
	Field3        *string `json:"field3"`
	Field4        *string `json:"field4"`
	Field5        *string `json:"field5"`
	MaxDeliveries *int    `json:"max_deliveries"`
}

// UpdateSerial edits one serial.
func (h *Handler) UpdateSerial(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid serial id", nil)
		return
	}

	var req UpdateSerialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	serial, err := h.SerialService.UpdateSerial(uint(id), service.UpdateSerialInput{
		Status:        req.Status,
		Field1:        req.Field1,
		Field2:        req.Field2,
		Field3:        req.Field3,
		Field4:        req.Field4,
		Field5:        req.Field5,
		MaxDeliveries: req.MaxDeliveries,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSerialNotFound):
			respondError(c, response.CodeNotFound, "serial not found", nil)
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(c, response.CodeBadRequest, "invalid serial status", nil)
		default:
			respondError(c, response.CodeInternal, "serial update failed", err)
		}
		return
	}
	response.Success(c, serial)
}

// ExportSerials streams a CSV of the serials inside a range.
func (h *Handler) ExportSerials(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")

	serials, err := h.SerialService.SerialsForExport(from, to)
	if err != nil {
		if errors.Is(err, service.ErrRangeInverted) {
			respondError(c, response.CodeBadRequest, "range start exceeds range end", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "invalid serial range", err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=seriales_%s_%s.csv", from, to))

	w := csv.NewWriter(c.Writer)
	_ = w.Write([]string{"code", "url", "status", "client", "product", "request", "field1", "field2", "field3", "field4", "field5"})
	for _, s := range serials {
		requestCode := ""
		if s.Request != nil {
			requestCode = s.Request.Code
		}
		_ = w.Write([]string{
			s.Code, s.URL, s.Status,
			s.Client.Name, s.Product.Name, requestCode,
			s.Field1, s.Field2, s.Field3, s.Field4, s.Field5,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		requestLog(c).Errorw("serial_export_write_failed", "error", err)
	}
}
