package queue

import (
	"encoding/json"

	"github.com/etiquetas-qr/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDeliveryReceiptEmail sends the proof-of-delivery PDF by email.
	TaskDeliveryReceiptEmail = constants.TaskDeliveryReceiptEmail
)

// DeliveryReceiptEmailPayload identifies the delivery to notify about.
type DeliveryReceiptEmailPayload struct {
	DeliveryID uint `json:"delivery_id"`
}

// NewDeliveryReceiptEmailTask builds a receipt email task.
func NewDeliveryReceiptEmailTask(payload DeliveryReceiptEmailPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDeliveryReceiptEmail, body), nil
}
