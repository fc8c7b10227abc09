package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/etiquetas-qr/internal/logger"
	"github.com/etiquetas-qr/internal/pdf"
	"github.com/etiquetas-qr/internal/provider"
	"github.com/etiquetas-qr/internal/queue"
	"github.com/etiquetas-qr/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer processes queued tasks.
type Consumer struct {
	*provider.Container
}

// NewConsumer creates the consumer.
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register wires task handlers into the mux.
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDeliveryReceiptEmail, c.handleDeliveryReceiptEmail)
}

// handleDeliveryReceiptEmail renders the proof-of-delivery PDF and
// mails it to the request owner, copying the receiver. Missing or
// malformed data skips the task; transient send failures are retried
// by asynq.
func (c *Consumer) handleDeliveryReceiptEmail(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_delivery_receipt_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DeliveryReceiptEmailPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_delivery_receipt_unmarshal_failed", "error", err)
		return err
	}
	if payload.DeliveryID == 0 {
		logger.Debugw("worker_delivery_receipt_skip_invalid_payload", "delivery_id", payload.DeliveryID)
		return nil
	}

	delivery, err := c.DeliveryRepo.GetByID(payload.DeliveryID)
	if err != nil {
		logger.Warnw("worker_delivery_receipt_fetch_failed", "delivery_id", payload.DeliveryID, "error", err)
		return err
	}
	if delivery == nil {
		logger.Debugw("worker_delivery_receipt_skip_not_found", "delivery_id", payload.DeliveryID)
		return nil
	}

	ownerEmail := strings.TrimSpace(delivery.Request.Email)
	if ownerEmail == "" {
		logger.Debugw("worker_delivery_receipt_skip_no_owner_email",
			"delivery_id", delivery.ID,
			"request_id", delivery.RequestID,
		)
		return nil
	}
	if c.EmailService == nil {
		logger.Warnw("worker_delivery_receipt_skip_email_service_nil", "delivery_id", delivery.ID)
		return nil
	}

	serialCode := delivery.Serial.SerialCode().Display()

	data := pdf.ReceiptData{
		SerialCode:    serialCode,
		CompanyName:   delivery.Request.CompanyName,
		ReceiverName:  delivery.ReceiverName,
		ReceiverEmail: delivery.ReceiverEmail,
		ReceiverPhone: delivery.ReceiverPhone,
		DeliveredAt:   delivery.DeliveredAt,
		Logo:          c.loadImageAsset(ctx, delivery.Request.LogoPath),
		Photo:         c.loadImageAsset(ctx, delivery.PhotoPath),
		Signature:     c.loadImageAsset(ctx, delivery.SignaturePath),
	}

	document, err := pdf.RenderReceipt(data)
	if err != nil {
		logger.Warnw("worker_delivery_receipt_render_failed", "delivery_id", delivery.ID, "error", err)
		return err
	}

	recipients := []string{ownerEmail}
	if cc := strings.TrimSpace(delivery.ReceiverEmail); cc != "" && !strings.EqualFold(cc, ownerEmail) {
		recipients = append(recipients, cc)
	}

	subject := fmt.Sprintf("notificacion prueba de entrega %s", serialCode)
	body := fmt.Sprintf(
		"Confirmación de recepción del serial %s.\r\n\r\nRecibido por: %s\r\nFecha: %s\r\n\r\nSe adjunta la prueba de entrega.",
		serialCode,
		delivery.ReceiverName,
		delivery.DeliveredAt.Format("2006-01-02 15:04:05"),
	)
	attachments := []service.EmailAttachment{{
		Filename:    pdf.ReceiptFilename(serialCode),
		ContentType: "application/pdf",
		Data:        document,
	}}

	if err := c.EmailService.SendEmailWithAttachment(recipients, subject, body, attachments); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailServiceDisabled),
			errors.Is(err, service.ErrEmailServiceNotConfigured):
			logger.Debugw("worker_delivery_receipt_skip_email_disabled", "delivery_id", delivery.ID)
			return nil
		case errors.Is(err, service.ErrInvalidEmail),
			errors.Is(err, service.ErrEmailRecipientRejected):
			logger.Warnw("worker_delivery_receipt_skip_bad_recipient",
				"delivery_id", delivery.ID,
				"recipients", recipients,
				"error", err,
			)
			return nil
		default:
			logger.Warnw("worker_delivery_receipt_send_failed",
				"delivery_id", delivery.ID,
				"recipients", recipients,
				"error", err,
			)
			return err
		}
	}
	return nil
}

// loadImageAsset fetches a stored object, nil when the key is empty
// or the object is unreadable. The PDF renders without the image in
// that case.
func (c *Consumer) loadImageAsset(ctx context.Context, key string) *pdf.ImageAsset {
	key = strings.TrimSpace(key)
	if key == "" || c.Storage == nil {
		return nil
	}
	data, err := c.Storage.Get(ctx, key)
	if err != nil {
		logger.Warnw("worker_delivery_receipt_asset_load_failed", "key", key, "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	return &pdf.ImageAsset{
		Data: data,
		Ext:  strings.TrimPrefix(path.Ext(key), "."),
	}
}
