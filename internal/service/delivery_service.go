package service

import (
	"context"
	"fmt"
	"time"

	"github.com/etiquetas-qr/internal/constants"
	"github.com/etiquetas-qr/internal/logger"
	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/queue"
	"github.com/etiquetas-qr/internal/repository"
	"github.com/etiquetas-qr/internal/storage"

	"gorm.io/gorm"
)

// DeliveryService captures proof-of-delivery evidence under the
// per-serial quota.
type DeliveryService struct {
	serialRepo   repository.SerialRepository
	deliveryRepo repository.DeliveryRepository
	store        storage.ObjectStorage
	queueClient  *queue.Client
}

// NewDeliveryService builds the delivery service.
func NewDeliveryService(serialRepo repository.SerialRepository, deliveryRepo repository.DeliveryRepository, store storage.ObjectStorage, queueClient *queue.Client) *DeliveryService {
	return &DeliveryService{
		serialRepo:   serialRepo,
		deliveryRepo: deliveryRepo,
		store:        store,
		queueClient:  queueClient,
	}
}

// SubmitDeliveryInput is one proof-of-delivery submission. Photo and
// Signature are data-URI base64 payloads from the capture form.
type SubmitDeliveryInput struct {
	SerialCode    string
	ReceiverName  string
	ReceiverEmail string
	ReceiverPhone string
	Photo         string
	Signature     string
}

// QuotaStatus reports how much of a serial's quota is used.
type QuotaStatus struct {
	Used      int64 `json:"used"`
	Max       int   `json:"max"`
	Remaining int64 `json:"remaining"`
}

// QuotaForSerial returns the current quota usage for the capture form.
// The authoritative check happens again under lock on submit.
func (s *DeliveryService) QuotaForSerial(raw string) (*models.Serial, *QuotaStatus, error) {
	code, err := models.ParseSerialCode(raw)
	if err != nil {
		return nil, nil, err
	}
	serial, err := s.serialRepo.GetByCode(code.String())
	if err != nil {
		return nil, nil, err
	}
	if serial == nil {
		return nil, nil, ErrSerialNotFound
	}
	used, err := s.deliveryRepo.CountBySerial(serial.ID)
	if err != nil {
		return nil, nil, err
	}
	remaining := int64(serial.MaxDeliveries) - used
	if remaining < 0 {
		remaining = 0
	}
	return serial, &QuotaStatus{Used: used, Max: serial.MaxDeliveries, Remaining: remaining}, nil
}

// SubmitDelivery records one delivery. The serial row is locked and
// the count re-checked inside the transaction so concurrent submits
// cannot pass the quota. Missing or undecodable evidence images are
// recorded as absent; storage failure for a decoded image aborts
// everything. The receipt email is queued after commit and never
// fails the submission.
func (s *DeliveryService) SubmitDelivery(ctx context.Context, input SubmitDeliveryInput) (*models.Delivery, error) {
	code, err := models.ParseSerialCode(input.SerialCode)
	if err != nil {
		return nil, err
	}
	if input.ReceiverName == "" {
		return nil, fmt.Errorf("receiver name is required")
	}
	photo := decodeEvidenceImage(input.Photo)
	signature := decodeEvidenceImage(input.Signature)

	var delivery *models.Delivery
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		serialRepo := s.serialRepo.WithTx(tx)
		deliveryRepo := s.deliveryRepo.WithTx(tx)

		serial, err := serialRepo.GetByCodeForUpdate(code.String())
		if err != nil {
			return err
		}
		if serial == nil {
			return ErrSerialNotFound
		}
		if serial.RequestID == nil {
			return ErrDeliveryNotAllowed
		}

		used, err := deliveryRepo.CountBySerial(serial.ID)
		if err != nil {
			return err
		}
		if used >= int64(serial.MaxDeliveries) {
			return ErrDeliveryQuotaExhausted
		}

		base := code.Display()
		photoKey := ""
		if photo != nil {
			photoKey, err = s.store.Save(ctx, storage.ObjectName(constants.StoragePrefixPhotos, base, photo.Ext), photo.Data, photo.ContentType)
			if err != nil {
				return fmt.Errorf("store delivery photo: %w", err)
			}
		}
		signatureKey := ""
		if signature != nil {
			signatureKey, err = s.store.Save(ctx, storage.ObjectName(constants.StoragePrefixSignatures, base, signature.Ext), signature.Data, signature.ContentType)
			if err != nil {
				return fmt.Errorf("store delivery signature: %w", err)
			}
		}

		delivery = &models.Delivery{
			RequestID:     *serial.RequestID,
			SerialID:      serial.ID,
			ReceiverName:  input.ReceiverName,
			ReceiverEmail: input.ReceiverEmail,
			ReceiverPhone: input.ReceiverPhone,
			PhotoPath:     photoKey,
			SignaturePath: signatureKey,
			DeliveredAt:   time.Now(),
		}
		return deliveryRepo.Create(delivery)
	})
	if err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueDeliveryReceiptEmail(queue.DeliveryReceiptEmailPayload{DeliveryID: delivery.ID}); err != nil {
		logger.Warnw("delivery_receipt_email_enqueue_failed",
			"delivery_id", delivery.ID,
			"serial", code.String(),
			"error", err,
		)
	}

	return delivery, nil
}

// ListDeliveries returns deliveries for the back office.
func (s *DeliveryService) ListDeliveries(filter repository.DeliveryListFilter) ([]models.Delivery, int64, error) {
	return s.deliveryRepo.List(filter)
}

// GetDelivery fetches one delivery with its relations.
func (s *DeliveryService) GetDelivery(id uint) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, ErrNotFound
	}
	return delivery, nil
}
