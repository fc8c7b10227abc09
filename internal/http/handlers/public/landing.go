package public

import (
	"errors"

	"github.com/etiquetas-qr/internal/http/response"
	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/service"

	"github.com/gin-gonic/gin"
)

// landingField pairs a product field display name with the serial's
// stamped value. Empty values are omitted from the landing.
type landingField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// GetLanding resolves the page a scanned QR lands on. A serial not
// yet associated to a request renders the inactive variant with no
// company data.
func (h *Handler) GetLanding(c *gin.Context) {
	slug := c.Param("slug")
	client, err := h.ClientService.GetClientBySlug(slug)
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			respondError(c, response.CodeNotFound, "page not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "landing lookup failed", err)
		return
	}

	serial, err := h.SerialService.GetSerialByCode(c.Query("qr"))
	if err != nil {
		if errors.Is(err, service.ErrSerialNotFound) {
			respondError(c, response.CodeNotFound, "serial not found", nil)
			return
		}
		respondError(c, response.CodeBadRequest, "invalid serial code", err)
		return
	}
	if serial.ClientID != client.ID {
		respondError(c, response.CodeNotFound, "serial not found", nil)
		return
	}

	payload := gin.H{
		"client": gin.H{
			"name": client.Name,
			"slug": client.Slug,
		},
		"serial": gin.H{
			"code":   serial.SerialCode().Display(),
			"status": serial.Status,
		},
		"product": gin.H{
			"name":        serial.Product.Name,
			"description": serial.Product.Description,
		},
		"fields": landingFields(serial),
		"active": serial.RequestID != nil,
	}

	if serial.RequestID == nil {
		response.Success(c, payload)
		return
	}

	request, err := h.RequestService.GetRequest(*serial.RequestID)
	if err != nil {
		respondError(c, response.CodeInternal, "landing lookup failed", err)
		return
	}

	payload["request"] = gin.H{
		"company_name": request.CompanyName,
		"about_us":     request.AboutUs,
		"tax_id":       request.TaxID,
		"address":      request.Address,
		"phone":        request.Phone,
		"mobile":       request.Mobile,
		"email":        request.Email,
		"website":      request.Website,
		"extra_link":   request.ExtraLink,
		"logo_url":     h.RequestService.LogoURL(request),
		"locations":    request.Locations,
	}

	if request.ShowDeliveryButton {
		_, quota, err := h.DeliveryService.QuotaForSerial(serial.Code)
		if err != nil {
			requestLog(c).Warnw("landing_quota_lookup_failed", "serial", serial.Code, "error", err)
		} else {
			payload["delivery"] = gin.H{
				"enabled": quota.Remaining > 0,
				"quota":   quota,
			}
		}
	}

	response.Success(c, payload)
}

func landingFields(serial *models.Serial) []landingField {
	names := serial.Product.FieldNames()
	values := [5]string{serial.Field1, serial.Field2, serial.Field3, serial.Field4, serial.Field5}

	fields := make([]landingField, 0, len(values))
	for i, value := range values {
		if value == "" {
			continue
		}
		fields = append(fields, landingField{Name: names[i], Value: value})
	}
	return fields
}
