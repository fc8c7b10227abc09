package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/etiquetas-qr/internal/config"
	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/provider"
	"github.com/etiquetas-qr/internal/queue"
	"github.com/etiquetas-qr/internal/repository"
	"github.com/etiquetas-qr/internal/service"
	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

var workerTestDBSeq int64

func newWorkerTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:worker_test_%d?mode=memory&cache=shared", atomic.AddInt64(&workerTestDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Serial{}, &models.Request{}, &models.Delivery{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newConsumerForTest(t *testing.T, db *gorm.DB, emailEnabled bool) *Consumer {
	t.Helper()

	emailCfg := &config.EmailConfig{Enabled: emailEnabled}
	container := &provider.Container{
		DeliveryRepo: repository.NewDeliveryRepository(db),
		EmailService: service.NewEmailService(emailCfg),
	}
	return NewConsumer(container)
}

func receiptTask(t *testing.T, deliveryID uint) *asynq.Task {
	t.Helper()
	data, err := json.Marshal(queue.DeliveryReceiptEmailPayload{DeliveryID: deliveryID})
	if err != nil {
		t.Fatalf("marshal payload failed: %v", err)
	}
	return asynq.NewTask(queue.TaskDeliveryReceiptEmail, data)
}

func seedDelivery(t *testing.T, db *gorm.DB, ownerEmail string) models.Delivery {
	t.Helper()

	code, err := models.NewSerialCode(100000001)
	if err != nil {
		t.Fatalf("new serial code failed: %v", err)
	}
	request := models.Request{Code: "CIWRK0001", CompanyName: "Industrias Demo", Email: ownerEmail}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("create request failed: %v", err)
	}
	serial := models.Serial{
		Code:          code.String(),
		ClientID:      1,
		ProductID:     1,
		URL:           "https://qr.example.test/demo/qr/?qr=" + code.Display(),
		Status:        models.SerialStatusDistribution,
		RequestID:     &request.ID,
		MaxDeliveries: 2,
	}
	if err := db.Create(&serial).Error; err != nil {
		t.Fatalf("create serial failed: %v", err)
	}
	delivery := models.Delivery{
		RequestID:     request.ID,
		SerialID:      serial.ID,
		ReceiverName:  "Maria Lopez",
		ReceiverEmail: "maria@example.test",
		PhotoPath:     "entregas/fotos/100000001_abcd1234.jpg",
		SignaturePath: "entregas/firmas/100000001_abcd1234.png",
		DeliveredAt:   time.Now(),
	}
	if err := db.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery failed: %v", err)
	}
	return delivery
}

func TestHandleDeliveryReceiptEmail_SkipsZeroID(t *testing.T) {
	consumer := newConsumerForTest(t, newWorkerTestDB(t), true)

	if err := consumer.handleDeliveryReceiptEmail(context.Background(), receiptTask(t, 0)); err != nil {
		t.Fatalf("expected zero id to be skipped, got %v", err)
	}
}

func TestHandleDeliveryReceiptEmail_SkipsMissingDelivery(t *testing.T) {
	consumer := newConsumerForTest(t, newWorkerTestDB(t), true)

	if err := consumer.handleDeliveryReceiptEmail(context.Background(), receiptTask(t, 9999)); err != nil {
		t.Fatalf("expected missing delivery to be skipped, got %v", err)
	}
}

func TestHandleDeliveryReceiptEmail_SkipsWithoutOwnerEmail(t *testing.T) {
	db := newWorkerTestDB(t)
	consumer := newConsumerForTest(t, db, true)
	delivery := seedDelivery(t, db, "")

	if err := consumer.handleDeliveryReceiptEmail(context.Background(), receiptTask(t, delivery.ID)); err != nil {
		t.Fatalf("expected delivery without owner email to be skipped, got %v", err)
	}
}

func TestHandleDeliveryReceiptEmail_SkipsWhenEmailDisabled(t *testing.T) {
	db := newWorkerTestDB(t)
	consumer := newConsumerForTest(t, db, false)
	delivery := seedDelivery(t, db, "dueno@example.test")

	if err := consumer.handleDeliveryReceiptEmail(context.Background(), receiptTask(t, delivery.ID)); err != nil {
		t.Fatalf("expected disabled email service to skip, got %v", err)
	}
}

func TestHandleDeliveryReceiptEmail_MalformedPayloadFails(t *testing.T) {
	consumer := newConsumerForTest(t, newWorkerTestDB(t), true)
	task := asynq.NewTask(queue.TaskDeliveryReceiptEmail, []byte("{not json"))

	if err := consumer.handleDeliveryReceiptEmail(context.Background(), task); err == nil {
		t.Fatal("expected malformed payload to error")
	}
}
