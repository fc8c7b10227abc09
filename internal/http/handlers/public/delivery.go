package public

import (
	"errors"

	"github.com/etiquetas-qr/internal/http/response"
	"github.com/etiquetas-qr/internal/service"

	"github.com/gin-gonic/gin"
)

// GetDeliveryForm returns the quota state the capture form shows
// before the visitor submits evidence.
func (h *Handler) GetDeliveryForm(c *gin.Context) {
	serial, quota, err := h.DeliveryService.QuotaForSerial(c.Query("qr"))
	if err != nil {
		if errors.Is(err, service.ErrSerialNotFound) {
			respondError(c, response.CodeNotFound, "serial not found", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "invalid serial code", err)
		return
	}
	if serial.RequestID == nil {
		respondError(c, response.CodeNotFound, "delivery capture is not enabled for this serial", nil)
		return
	}

	response.Success(c, gin.H{
		"serial": serial.SerialCode().Display(),
		"quota":  quota,
	})
}

// SubmitDeliveryRequest is one proof-of-delivery submission. Photo and
// signature arrive as data-URI base64 strings from the capture form;
// either may be empty, the delivery is recorded without that asset.
type SubmitDeliveryRequest struct {
	SerialCode    string `json:"serial_code" binding:"required"`
	ReceiverName  string `json:"receiver_name" binding:"required"`
	ReceiverEmail string `json:"receiver_email"`
	ReceiverPhone string `json:"receiver_phone"`
	Photo         string `json:"photo"`
	Signature     string `json:"signature"`
}

// SubmitDelivery records a delivery with its evidence.
func (h *Handler) SubmitDelivery(c *gin.Context) {
	var req SubmitDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	delivery, err := h.DeliveryService.SubmitDelivery(c.Request.Context(), service.SubmitDeliveryInput{
		SerialCode:    req.SerialCode,
		ReceiverName:  req.ReceiverName,
		ReceiverEmail: req.ReceiverEmail,
		ReceiverPhone: req.ReceiverPhone,
		Photo:         req.Photo,
		Signature:     req.Signature,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSerialNotFound):
			respondError(c, response.CodeNotFound, "serial not found", nil)
		case errors.Is(err, service.ErrDeliveryNotAllowed):
			respondError(c, response.CodeNotFound, "delivery capture is not enabled for this serial", nil)
		case errors.Is(err, service.ErrDeliveryQuotaExhausted):
			respondError(c, response.CodeConflict, "delivery quota exhausted for this serial", nil)
		default:
			respondError(c, response.CodeBadRequest, err.Error(), err)
		}
		return
	}

	requestLog(c).Infow("delivery_recorded",
		"delivery_id", delivery.ID,
		"serial_id", delivery.SerialID,
		"request_id", delivery.RequestID,
	)
	response.Success(c, gin.H{
		"id":           delivery.ID,
		"delivered_at": delivery.DeliveredAt,
	})
}
