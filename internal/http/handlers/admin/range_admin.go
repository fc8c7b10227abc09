package admin

import (
	"errors"

	"github.com/etiquetas-qr/internal/http/response"
	"github.com/etiquetas-qr/internal/service"

	"github.com/gin-gonic/gin"
)

// ValidateRange checks that a from/to pair is well formed and that the
// stored serial count matches the range width.
func (h *Handler) ValidateRange(c *gin.Context) {
	from, to, err := h.RangeService.ValidateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		if errors.Is(err, service.ErrRangeCountMismatch) {
			response.ErrorWithData(c, response.CodeConflict, err.Error(), nil)
			return
		}
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, gin.H{
		"from":  from.String(),
		"to":    to.String(),
		"count": to.Uint64() - from.Uint64() + 1,
	})
}

// ResolveRange finds the request(s) already linked inside a range.
func (h *Handler) ResolveRange(c *gin.Context) {
	result, err := h.RangeService.ResolveRange(c.Query("from"), c.Query("to"))
	if err != nil {
		if errors.Is(err, service.ErrRangeCountMismatch) {
			response.ErrorWithData(c, response.CodeConflict, err.Error(), nil)
			return
		}
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, result)
}

// GetRangeFields returns field display names and current values for a
// range, for prefilling the association form.
func (h *Handler) GetRangeFields(c *gin.Context) {
	result, err := h.RangeService.RangeFields(c.Query("from"), c.Query("to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, err.Error(), nil)
		return
	}
	response.Success(c, result)
}

// AssociateRangeRequest links a serial range to a request.
type AssociateRangeRequest struct {
	From      string `json:"from" binding:"required"`
	To        string `json:"to" binding:"required"`
	RequestID uint   `json:"request_id" binding:"required"`
	Field1    string `json:"field1"`
	Field2    string `json:"field2"`
	Field3    string `json:"field3"`
	Field4    string `json:"field4"`
	Field5    string `json:"field5"`
	Status    string `json:"status"`
}

// AssociateRange links every serial in a range to a request and
// stamps the custom fields and status.
func (h *Handler) AssociateRange(c *gin.Context) {
	var req AssociateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	result, err := h.RangeService.AssociateRange(service.AssociateRangeInput{
		From:      req.From,
		To:        req.To,
		RequestID: req.RequestID,
		Field1:    req.Field1,
		Field2:    req.Field2,
		Field3:    req.Field3,
		Field4:    req.Field4,
		Field5:    req.Field5,
		Status:    req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRequestNotFound):
			respondError(c, response.CodeNotFound, "request not found", nil)
		case errors.Is(err, service.ErrInvalidStatus):
			respondError(c, response.CodeBadRequest, "invalid serial status", nil)
		case errors.Is(err, service.ErrRangeInverted):
			respondError(c, response.CodeBadRequest, "range start exceeds range end", nil)
		default:
			respondError(c, response.CodeBadRequest, err.Error(), err)
		}
		return
	}

	requestLog(c).Infow("range_associated",
		"from", req.From,
		"to", req.To,
		"request_id", req.RequestID,
		"updated", result.Updated,
		"reassigned", result.ReassignedCount,
	)
	response.Success(c, result)
}
