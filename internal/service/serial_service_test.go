package service

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/etiquetas-qr/internal/config"
	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var serviceTestDBSeq int64

// newServiceTestDB opens an isolated in-memory database, migrates the
// schema and points the package-level handle at it for transaction
// helpers.
func newServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", atomic.AddInt64(&serviceTestDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Admin{},
		&models.Client{},
		&models.LabelTemplate{},
		&models.Product{},
		&models.Serial{},
		&models.Request{},
		&models.Location{},
		&models.Delivery{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db
	return db
}

func seedClientAndProduct(t *testing.T, db *gorm.DB) (models.Client, models.Product) {
	t.Helper()

	client := models.Client{Name: "Industrias Prueba", Slug: "industrias-prueba", ClientCode: "IP01"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	product := models.Product{
		ClientID:    client.ID,
		Name:        "Etiqueta industrial",
		ProductCode: "ETQ-1",
		FieldName1:  "Lote",
		FieldName2:  "Referencia",
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return client, product
}

func mustCreateSerial(t *testing.T, db *gorm.DB, client models.Client, product models.Product, value uint64) models.Serial {
	t.Helper()

	code, err := models.NewSerialCode(value)
	if err != nil {
		t.Fatalf("new serial code failed: %v", err)
	}
	serial := models.Serial{
		Code:          code.String(),
		ClientID:      client.ID,
		ProductID:     product.ID,
		URL:           fmt.Sprintf("https://qr.example.test/%s/qr/?qr=%s", client.Slug, code.Display()),
		Status:        models.SerialStatusScheduled,
		MaxDeliveries: 2,
	}
	if err := db.Create(&serial).Error; err != nil {
		t.Fatalf("create serial %d failed: %v", value, err)
	}
	return serial
}

func newSerialServiceForTest(t *testing.T) (*SerialService, *gorm.DB, models.Client, models.Product) {
	t.Helper()

	db := newServiceTestDB(t)
	client, product := seedClientAndProduct(t, db)

	cfg := &config.Config{}
	cfg.Serial.Floor = 100000000
	cfg.Serial.BaseURL = "https://qr.example.test"
	cfg.Serial.MaxDeliveries = 2

	svc := NewSerialService(cfg,
		repository.NewSerialRepository(db),
		repository.NewClientRepository(db),
		repository.NewProductRepository(db),
	)
	return svc, db, client, product
}

func TestAllocateSerials_StartsJustAboveFloor(t *testing.T) {
	svc, _, client, product := newSerialServiceForTest(t)

	result, err := svc.AllocateSerials(AllocateSerialsInput{ClientID: client.ID, ProductID: product.ID, Count: 3})
	if err != nil {
		t.Fatalf("allocate serials failed: %v", err)
	}
	if result.Created != 3 {
		t.Fatalf("expected 3 created, got %d", result.Created)
	}
	if result.Warning != "" {
		t.Fatalf("expected no warning, got %q", result.Warning)
	}
	if result.From != "000100000001" {
		t.Fatalf("expected first code 000100000001, got %s", result.From)
	}
	if result.To != "000100000003" {
		t.Fatalf("expected last code 000100000003, got %s", result.To)
	}
}

func TestAllocateSerials_ContinuesAfterHighestCode(t *testing.T) {
	svc, db, client, product := newSerialServiceForTest(t)
	mustCreateSerial(t, db, client, product, 100000049)

	result, err := svc.AllocateSerials(AllocateSerialsInput{ClientID: client.ID, ProductID: product.ID, Count: 2})
	if err != nil {
		t.Fatalf("allocate serials failed: %v", err)
	}
	if result.From != "000100000050" {
		t.Fatalf("expected allocation to resume at 000100000050, got %s", result.From)
	}
	if result.To != "000100000051" {
		t.Fatalf("expected last code 000100000051, got %s", result.To)
	}
}

func TestAllocateSerials_FloorAppliesOverLowerExistingCodes(t *testing.T) {
	svc, db, client, product := newSerialServiceForTest(t)
	mustCreateSerial(t, db, client, product, 5000)

	result, err := svc.AllocateSerials(AllocateSerialsInput{ClientID: client.ID, ProductID: product.ID, Count: 1})
	if err != nil {
		t.Fatalf("allocate serials failed: %v", err)
	}
	if result.From != "000100000001" {
		t.Fatalf("expected first code above the floor 000100000001, got %s", result.From)
	}
}

func TestAllocateSerials_PartialSuccessKeepsRowsAndWarns(t *testing.T) {
	svc, db, client, product := newSerialServiceForTest(t)

	// A soft-deleted serial still occupies the unique code index but is
	// invisible to the candidate scan, so its code collides on insert.
	residue := mustCreateSerial(t, db, client, product, 100000001)
	if err := db.Delete(&residue).Error; err != nil {
		t.Fatalf("soft delete serial failed: %v", err)
	}

	result, err := svc.AllocateSerials(AllocateSerialsInput{ClientID: client.ID, ProductID: product.ID, Count: 2})
	if err != nil {
		t.Fatalf("allocate serials failed: %v", err)
	}
	if result.Requested != 2 {
		t.Fatalf("expected requested 2, got %d", result.Requested)
	}
	if result.Created != 1 {
		t.Fatalf("expected 1 created, got %d", result.Created)
	}
	if result.Warning == "" {
		t.Fatal("expected a partial-allocation warning")
	}

	var count int64
	if err := db.Model(&models.Serial{}).Where("code = ?", "000100000002").Count(&count).Error; err != nil {
		t.Fatalf("count created serials failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected the non-conflicting serial to be kept, got %d rows", count)
	}
}

func TestAllocateSerials_BuildsLandingURL(t *testing.T) {
	svc, db, client, product := newSerialServiceForTest(t)

	result, err := svc.AllocateSerials(AllocateSerialsInput{ClientID: client.ID, ProductID: product.ID, Count: 1})
	if err != nil {
		t.Fatalf("allocate serials failed: %v", err)
	}
	var serial models.Serial
	if err := db.Where("code = ?", result.From).First(&serial).Error; err != nil {
		t.Fatalf("load created serial failed: %v", err)
	}
	want := "https://qr.example.test/industrias-prueba/qr/?qr=100000001"
	if serial.URL != want {
		t.Fatalf("expected url %s, got %s", want, serial.URL)
	}
}

func TestAllocateSerials_RejectsNonPositiveCount(t *testing.T) {
	svc, _, client, product := newSerialServiceForTest(t)

	if _, err := svc.AllocateSerials(AllocateSerialsInput{ClientID: client.ID, ProductID: product.ID, Count: 0}); !errors.Is(err, ErrInvalidSerialCount) {
		t.Fatalf("expected ErrInvalidSerialCount, got %v", err)
	}
}

func TestAllocateSerials_UnknownClient(t *testing.T) {
	svc, _, _, product := newSerialServiceForTest(t)

	if _, err := svc.AllocateSerials(AllocateSerialsInput{ClientID: 9999, ProductID: product.ID, Count: 1}); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("expected ErrClientNotFound, got %v", err)
	}
}

func TestAllocateSerials_ProductOfAnotherClient(t *testing.T) {
	svc, db, client, _ := newSerialServiceForTest(t)

	other := models.Client{Name: "Otro Cliente", Slug: "otro-cliente"}
	if err := db.Create(&other).Error; err != nil {
		t.Fatalf("create other client failed: %v", err)
	}
	foreign := models.Product{ClientID: other.ID, Name: "Etiqueta ajena"}
	if err := db.Create(&foreign).Error; err != nil {
		t.Fatalf("create foreign product failed: %v", err)
	}

	if _, err := svc.AllocateSerials(AllocateSerialsInput{ClientID: client.ID, ProductID: foreign.ID, Count: 1}); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestGetSerialByCode_NormalizesInput(t *testing.T) {
	svc, db, client, product := newSerialServiceForTest(t)
	created := mustCreateSerial(t, db, client, product, 100000007)

	serial, err := svc.GetSerialByCode("100000007")
	if err != nil {
		t.Fatalf("get serial by code failed: %v", err)
	}
	if serial.ID != created.ID {
		t.Fatalf("expected serial id %d, got %d", created.ID, serial.ID)
	}

	if _, err := svc.GetSerialByCode("999999999"); !errors.Is(err, ErrSerialNotFound) {
		t.Fatalf("expected ErrSerialNotFound, got %v", err)
	}
}

func TestUpdateSerial_ValidatesStatus(t *testing.T) {
	svc, db, client, product := newSerialServiceForTest(t)
	created := mustCreateSerial(t, db, client, product, 100000010)

	bad := "lost"
	if _, err := svc.UpdateSerial(created.ID, UpdateSerialInput{Status: &bad}); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	status := models.SerialStatusDispatched
	field1 := "L-2024-05"
	updated, err := svc.UpdateSerial(created.ID, UpdateSerialInput{Status: &status, Field1: &field1})
	if err != nil {
		t.Fatalf("update serial failed: %v", err)
	}
	if updated.Status != models.SerialStatusDispatched || updated.Field1 != "L-2024-05" {
		t.Fatalf("unexpected serial after update: status=%s field1=%s", updated.Status, updated.Field1)
	}
}

func TestSerialsForExport_RejectsInvertedRange(t *testing.T) {
	svc, _, _, _ := newSerialServiceForTest(t)

	if _, err := svc.SerialsForExport("100000010", "100000001"); !errors.Is(err, ErrRangeInverted) {
		t.Fatalf("expected ErrRangeInverted, got %v", err)
	}
}

func TestSerialsForExport_ReturnsRangeInOrder(t *testing.T) {
	svc, db, client, product := newSerialServiceForTest(t)
	for v := uint64(100000001); v <= 100000005; v++ {
		mustCreateSerial(t, db, client, product, v)
	}

	items, err := svc.SerialsForExport("100000002", "100000004")
	if err != nil {
		t.Fatalf("serials for export failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 serials, got %d", len(items))
	}
	if items[0].Code != "000100000002" || items[2].Code != "000100000004" {
		t.Fatalf("unexpected export order: %s .. %s", items[0].Code, items[len(items)-1].Code)
	}
	if items[0].Client.Name == "" || items[0].Product.Name == "" {
		t.Fatal("expected client and product relations to be loaded for export")
	}
}
