package admin

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/etiquetas-qr/internal/http/response"
	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"
	"github.com/etiquetas-qr/internal/service"

	"github.com/gin-gonic/gin"
)

// requestFormInput reads the multipart form the back office sends for
// create and update. The logo travels as a file part, locations as a
// JSON-encoded field.
func requestFormInput(c *gin.Context) (service.RequestInput, error) {
	boxes, _ := strconv.Atoi(c.PostForm("boxes"))
	rolls, _ := strconv.Atoi(c.PostForm("rolls"))
	serialCount, _ := strconv.Atoi(c.PostForm("serial_count"))
	showDelivery, _ := strconv.ParseBool(c.DefaultPostForm("show_delivery_button", "false"))
	clearLogo, _ := strconv.ParseBool(c.DefaultPostForm("clear_logo", "false"))

	input := service.RequestInput{
		Code:               c.PostForm("code"),
		AboutUs:            c.PostForm("about_us"),
		CompanyName:        c.PostForm("company_name"),
		TaxID:              c.PostForm("tax_id"),
		Address:            c.PostForm("address"),
		Phone:              c.PostForm("phone"),
		Mobile:             c.PostForm("mobile"),
		Email:              c.PostForm("email"),
		Website:            c.PostForm("website"),
		ExtraLink:          c.PostForm("extra_link"),
		Boxes:              boxes,
		Rolls:              rolls,
		SerialCount:        serialCount,
		ShowDeliveryButton: showDelivery,
		ClearLogo:          clearLogo,
	}

	if raw := c.PostForm("locations"); raw != "" {
		var locations []models.Location
		if err := json.Unmarshal([]byte(raw), &locations); err != nil {
			return input, err
		}
		input.Locations = locations
	}

	file, err := c.FormFile("logo")
	if err == nil {
		logo, err := readLogoUpload(file)
		if err != nil {
			return input, err
		}
		input.Logo = logo
	}
	return input, nil
}

func readLogoUpload(file *multipart.FileHeader) (*service.LogoUpload, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &service.LogoUpload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// CreateRequest creates a label request.
func (h *Handler) CreateRequest(c *gin.Context) {
	input, err := requestFormInput(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid request form", err)
		return
	}

	request, err := h.RequestService.CreateRequest(c.Request.Context(), input)
	if err != nil {
		respondError(c, response.CodeInternal, "request create failed", err)
		return
	}
	response.Success(c, request)
}

// UpdateRequest edits a label request.
func (h *Handler) UpdateRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid request id", nil)
		return
	}

	input, err := requestFormInput(c)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid request form", err)
		return
	}

	request, err := h.RequestService.UpdateRequest(c.Request.Context(), uint(id), input)
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			respondError(c, response.CodeNotFound, "request not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "request update failed", err)
		return
	}
	response.Success(c, request)
}

// DeleteRequest removes a label request and detaches its serials.
func (h *Handler) DeleteRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid request id", nil)
		return
	}

	if err := h.RequestService.DeleteRequest(c.Request.Context(), uint(id)); err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			respondError(c, response.CodeNotFound, "request not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "request delete failed", err)
		return
	}
	response.Success(c, nil)
}

// GetRequest fetches one request with its logo URL.
func (h *Handler) GetRequest(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, response.CodeBadRequest, "invalid request id", nil)
		return
	}

	request, err := h.RequestService.GetRequest(uint(id))
	if err != nil {
		if errors.Is(err, service.ErrRequestNotFound) {
			respondError(c, response.CodeNotFound, "request not found", nil)
			return
		}
		respondError(c, response.CodeInternal, "request fetch failed", err)
		return
	}
	response.Success(c, gin.H{
		"request":  request,
		"logo_url": h.RequestService.LogoURL(request),
	})
}

// GetRequests lists requests.
func (h *Handler) GetRequests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	requests, total, err := h.RequestService.ListRequests(repository.RequestListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "request list failed", err)
		return
	}

	pagination := response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	}
	response.SuccessWithPage(c, requests, pagination)
}
