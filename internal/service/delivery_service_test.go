package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"strings"
	"sync"
	"testing"

	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"
	"gorm.io/gorm"
)

// memStore is an in-memory ObjectStorage for tests.
type memStore struct {
	mu       sync.Mutex
	objects  map[string][]byte
	failSave bool
}

func newMemStore() *memStore {
	return &memStore{objects: make(map[string][]byte)}
}

func (s *memStore) Save(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return "", errors.New("storage unavailable")
	}
	s.objects[key] = append([]byte(nil), data...)
	return key, nil
}

func (s *memStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memStore) URL(key string) string {
	return "/uploads/" + key
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// testImagePayload returns a small PNG as a capture-form data URI.
func testImagePayload(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png failed: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func newDeliveryServiceForTest(t *testing.T) (*DeliveryService, *memStore, *gorm.DB, models.Client, models.Product) {
	t.Helper()

	db := newServiceTestDB(t)
	client, product := seedClientAndProduct(t, db)
	store := newMemStore()
	svc := NewDeliveryService(
		repository.NewSerialRepository(db),
		repository.NewDeliveryRepository(db),
		store,
		nil,
	)
	return svc, store, db, client, product
}

func seedDeliverableSerial(t *testing.T, db *gorm.DB, client models.Client, product models.Product, value uint64, maxDeliveries int) (models.Serial, models.Request) {
	t.Helper()

	request := mustCreateRequest(t, db, "CIDLV0001")
	serial := mustCreateSerial(t, db, client, product, value)
	if err := db.Model(&models.Serial{}).
		Where("id = ?", serial.ID).
		Updates(map[string]interface{}{
			"request_id":     request.ID,
			"max_deliveries": maxDeliveries,
			"status":         models.SerialStatusDistribution,
		}).Error; err != nil {
		t.Fatalf("prepare deliverable serial failed: %v", err)
	}
	serial.RequestID = &request.ID
	serial.MaxDeliveries = maxDeliveries
	return serial, request
}

func TestQuotaForSerial_ReportsUsage(t *testing.T) {
	svc, _, db, client, product := newDeliveryServiceForTest(t)
	seedDeliverableSerial(t, db, client, product, 100000001, 3)

	_, quota, err := svc.QuotaForSerial("100000001")
	if err != nil {
		t.Fatalf("quota lookup failed: %v", err)
	}
	if quota.Used != 0 || quota.Max != 3 || quota.Remaining != 3 {
		t.Fatalf("unexpected quota: %+v", quota)
	}

	payload := testImagePayload(t)
	if _, err := svc.SubmitDelivery(context.Background(), SubmitDeliveryInput{
		SerialCode:   "100000001",
		ReceiverName: "Maria Lopez",
		Photo:        payload,
		Signature:    payload,
	}); err != nil {
		t.Fatalf("submit delivery failed: %v", err)
	}

	_, quota, err = svc.QuotaForSerial("100000001")
	if err != nil {
		t.Fatalf("quota lookup failed: %v", err)
	}
	if quota.Used != 1 || quota.Remaining != 2 {
		t.Fatalf("unexpected quota after submit: %+v", quota)
	}
}

func TestSubmitDelivery_RecordsEvidence(t *testing.T) {
	svc, store, db, client, product := newDeliveryServiceForTest(t)
	_, request := seedDeliverableSerial(t, db, client, product, 100000001, 2)

	payload := testImagePayload(t)
	delivery, err := svc.SubmitDelivery(context.Background(), SubmitDeliveryInput{
		SerialCode:    "100000001",
		ReceiverName:  "Maria Lopez",
		ReceiverEmail: "maria@example.test",
		Photo:         payload,
		Signature:     payload,
	})
	if err != nil {
		t.Fatalf("submit delivery failed: %v", err)
	}

	if delivery.RequestID != request.ID {
		t.Fatalf("expected request id %d, got %d", request.ID, delivery.RequestID)
	}
	if delivery.DeliveredAt.IsZero() {
		t.Fatal("expected delivered_at to be stamped")
	}
	if !strings.HasPrefix(delivery.PhotoPath, "entregas/fotos/") {
		t.Fatalf("unexpected photo key: %s", delivery.PhotoPath)
	}
	if !strings.HasPrefix(delivery.SignaturePath, "entregas/firmas/") {
		t.Fatalf("unexpected signature key: %s", delivery.SignaturePath)
	}
	if !store.has(delivery.PhotoPath) || !store.has(delivery.SignaturePath) {
		t.Fatal("expected evidence objects to be stored")
	}
}

func TestSubmitDelivery_QuotaExhausted(t *testing.T) {
	svc, _, db, client, product := newDeliveryServiceForTest(t)
	serial, _ := seedDeliverableSerial(t, db, client, product, 100000001, 1)

	payload := testImagePayload(t)
	input := SubmitDeliveryInput{
		SerialCode:   "100000001",
		ReceiverName: "Maria Lopez",
		Photo:        payload,
		Signature:    payload,
	}
	if _, err := svc.SubmitDelivery(context.Background(), input); err != nil {
		t.Fatalf("first submit failed: %v", err)
	}
	if _, err := svc.SubmitDelivery(context.Background(), input); !errors.Is(err, ErrDeliveryQuotaExhausted) {
		t.Fatalf("expected ErrDeliveryQuotaExhausted, got %v", err)
	}

	var count int64
	if err := db.Model(&models.Delivery{}).Where("serial_id = ?", serial.ID).Count(&count).Error; err != nil {
		t.Fatalf("count deliveries failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 delivery, got %d", count)
	}
}

func TestSubmitDelivery_RequiresAssociation(t *testing.T) {
	svc, _, db, client, product := newDeliveryServiceForTest(t)
	mustCreateSerial(t, db, client, product, 100000002)

	payload := testImagePayload(t)
	_, err := svc.SubmitDelivery(context.Background(), SubmitDeliveryInput{
		SerialCode:   "100000002",
		ReceiverName: "Maria Lopez",
		Photo:        payload,
		Signature:    payload,
	})
	if !errors.Is(err, ErrDeliveryNotAllowed) {
		t.Fatalf("expected ErrDeliveryNotAllowed, got %v", err)
	}
}

func TestSubmitDelivery_UnknownSerial(t *testing.T) {
	svc, _, _, _, _ := newDeliveryServiceForTest(t)

	payload := testImagePayload(t)
	_, err := svc.SubmitDelivery(context.Background(), SubmitDeliveryInput{
		SerialCode:   "999999999",
		ReceiverName: "Maria Lopez",
		Photo:        payload,
		Signature:    payload,
	})
	if !errors.Is(err, ErrSerialNotFound) {
		t.Fatalf("expected ErrSerialNotFound, got %v", err)
	}
}

func TestSubmitDelivery_StorageFailureAbortsSubmission(t *testing.T) {
	svc, store, db, client, product := newDeliveryServiceForTest(t)
	serial, _ := seedDeliverableSerial(t, db, client, product, 100000001, 2)
	store.failSave = true

	payload := testImagePayload(t)
	_, err := svc.SubmitDelivery(context.Background(), SubmitDeliveryInput{
		SerialCode:   "100000001",
		ReceiverName: "Maria Lopez",
		Photo:        payload,
		Signature:    payload,
	})
	if err == nil {
		t.Fatal("expected submission to fail when storage is down")
	}

	var count int64
	if err := db.Model(&models.Delivery{}).Where("serial_id = ?", serial.ID).Count(&count).Error; err != nil {
		t.Fatalf("count deliveries failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no delivery rows, got %d", count)
	}
	if store.count() != 0 {
		t.Fatalf("expected no stored objects, got %d", store.count())
	}
}

func TestSubmitDelivery_MissingEvidenceRecordedWithoutAssets(t *testing.T) {
	svc, store, db, client, product := newDeliveryServiceForTest(t)
	seedDeliverableSerial(t, db, client, product, 100000001, 2)

	delivery, err := svc.SubmitDelivery(context.Background(), SubmitDeliveryInput{
		SerialCode:   "100000001",
		ReceiverName: "Maria Lopez",
		Photo:        "",
		Signature:    testImagePayload(t),
	})
	if err != nil {
		t.Fatalf("submit delivery failed: %v", err)
	}
	if delivery.PhotoPath != "" {
		t.Fatalf("expected empty photo path, got %s", delivery.PhotoPath)
	}
	if delivery.SignaturePath == "" || !store.has(delivery.SignaturePath) {
		t.Fatalf("expected signature to be stored, got %q", delivery.SignaturePath)
	}
	if store.count() != 1 {
		t.Fatalf("expected exactly the signature object, got %d", store.count())
	}
}

func TestSubmitDelivery_UndecodableEvidenceRecordedWithoutAssets(t *testing.T) {
	svc, store, db, client, product := newDeliveryServiceForTest(t)
	seedDeliverableSerial(t, db, client, product, 100000001, 2)

	delivery, err := svc.SubmitDelivery(context.Background(), SubmitDeliveryInput{
		SerialCode:   "100000001",
		ReceiverName: "Maria Lopez",
		Photo:        base64.StdEncoding.EncodeToString([]byte("not an image")),
		Signature:    "%%%not-base64%%%",
	})
	if err != nil {
		t.Fatalf("submit delivery failed: %v", err)
	}
	if delivery.PhotoPath != "" || delivery.SignaturePath != "" {
		t.Fatalf("expected no evidence paths, got photo=%q signature=%q", delivery.PhotoPath, delivery.SignaturePath)
	}
	if store.count() != 0 {
		t.Fatalf("expected no stored objects, got %d", store.count())
	}
}

func TestSubmitDelivery_ConcurrentSubmitsHonorQuota(t *testing.T) {
	svc, _, db, client, product := newDeliveryServiceForTest(t)
	serial, _ := seedDeliverableSerial(t, db, client, product, 100000001, 1)

	payload := testImagePayload(t)
	input := SubmitDeliveryInput{
		SerialCode:   "100000001",
		ReceiverName: "Maria Lopez",
		Photo:        payload,
		Signature:    payload,
	}

	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.SubmitDelivery(context.Background(), input)
		}(i)
	}
	close(start)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded != 1 {
		t.Fatalf("expected exactly one submit to succeed, got %d (errors: %v, %v)", succeeded, errs[0], errs[1])
	}

	var count int64
	if err := db.Model(&models.Delivery{}).Where("serial_id = ?", serial.ID).Count(&count).Error; err != nil {
		t.Fatalf("count deliveries failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one delivery row, got %d", count)
	}
}
