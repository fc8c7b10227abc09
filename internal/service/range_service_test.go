package service

import (
	"errors"
	"testing"

	"github.com/etiquetas-qr/internal/models"
	"github.com/etiquetas-qr/internal/repository"
	"gorm.io/gorm"
)

func newRangeServiceForTest(t *testing.T) (*RangeService, *gorm.DB, models.Client, models.Product) {
	t.Helper()

	db := newServiceTestDB(t)
	client, product := seedClientAndProduct(t, db)
	svc := NewRangeService(
		repository.NewSerialRepository(db),
		repository.NewRequestRepository(db),
	)
	return svc, db, client, product
}

func seedRangeSerials(t *testing.T, db *gorm.DB, client models.Client, product models.Product, from, to uint64) {
	t.Helper()
	for v := from; v <= to; v++ {
		mustCreateSerial(t, db, client, product, v)
	}
}

func mustCreateRequest(t *testing.T, db *gorm.DB, code string) models.Request {
	t.Helper()
	request := models.Request{Code: code, CompanyName: "Empresa " + code}
	if err := db.Create(&request).Error; err != nil {
		t.Fatalf("create request %s failed: %v", code, err)
	}
	return request
}

func linkSerialsToRequest(t *testing.T, db *gorm.DB, requestID uint, from, to string) {
	t.Helper()
	if err := db.Model(&models.Serial{}).
		Where("code BETWEEN ? AND ?", from, to).
		Update("request_id", requestID).Error; err != nil {
		t.Fatalf("link serials to request %d failed: %v", requestID, err)
	}
}

func TestValidateRange_AcceptsCompleteRange(t *testing.T) {
	svc, db, client, product := newRangeServiceForTest(t)
	seedRangeSerials(t, db, client, product, 100000001, 100000010)

	from, to, err := svc.ValidateRange("100000001", "100000010")
	if err != nil {
		t.Fatalf("validate range failed: %v", err)
	}
	if from.String() != "000100000001" || to.String() != "000100000010" {
		t.Fatalf("unexpected bounds: %s .. %s", from, to)
	}
}

func TestValidateRange_CountMismatch(t *testing.T) {
	svc, db, client, product := newRangeServiceForTest(t)
	seedRangeSerials(t, db, client, product, 100000001, 100000005)

	_, _, err := svc.ValidateRange("100000001", "100000010")
	if !errors.Is(err, ErrRangeCountMismatch) {
		t.Fatalf("expected ErrRangeCountMismatch, got %v", err)
	}
}

func TestValidateRange_RejectsInvertedBounds(t *testing.T) {
	svc, _, _, _ := newRangeServiceForTest(t)

	if _, _, err := svc.ValidateRange("100000010", "100000001"); !errors.Is(err, ErrRangeInverted) {
		t.Fatalf("expected ErrRangeInverted, got %v", err)
	}
}

func TestResolveRange_NoLinkedRequests(t *testing.T) {
	svc, db, client, product := newRangeServiceForTest(t)
	seedRangeSerials(t, db, client, product, 100000001, 100000005)

	result, err := svc.ResolveRange("100000001", "100000005")
	if err != nil {
		t.Fatalf("resolve range failed: %v", err)
	}
	if result.RequestCount != 0 || result.Request != nil || result.Warning != "" {
		t.Fatalf("expected empty resolution, got %+v", result)
	}
}

func TestResolveRange_SingleRequestSelected(t *testing.T) {
	svc, db, client, product := newRangeServiceForTest(t)
	seedRangeSerials(t, db, client, product, 100000001, 100000005)
	request := mustCreateRequest(t, db, "CITEST0001")
	linkSerialsToRequest(t, db, request.ID, "000100000001", "000100000003")

	result, err := svc.ResolveRange("100000001", "100000005")
	if err != nil {
		t.Fatalf("resolve range failed: %v", err)
	}
	if result.RequestCount != 1 {
		t.Fatalf("expected 1 request, got %d", result.RequestCount)
	}
	if result.Request == nil || result.Request.ID != request.ID {
		t.Fatalf("expected request %d selected, got %+v", request.ID, result.Request)
	}
}

func TestResolveRange_AmbiguousYieldsWarning(t *testing.T) {
	svc, db, client, product := newRangeServiceForTest(t)
	seedRangeSerials(t, db, client, product, 100000001, 100000006)
	first := mustCreateRequest(t, db, "CITEST0001")
	second := mustCreateRequest(t, db, "CITEST0002")
	linkSerialsToRequest(t, db, first.ID, "000100000001", "000100000003")
	linkSerialsToRequest(t, db, second.ID, "000100000004", "000100000006")

	result, err := svc.ResolveRange("100000001", "100000006")
	if err != nil {
		t.Fatalf("resolve range failed: %v", err)
	}
	if result.RequestCount != 2 {
		t.Fatalf("expected 2 requests, got %d", result.RequestCount)
	}
	if result.Request != nil {
		t.Fatal("expected no selection for an ambiguous range")
	}
	if result.Warning == "" {
		t.Fatal("expected ambiguity warning")
	}
}

func TestRangeFields_UsesFirstSerial(t *testing.T) {
	svc, db, client, product := newRangeServiceForTest(t)
	seedRangeSerials(t, db, client, product, 100000001, 100000003)
	if err := db.Model(&models.Serial{}).
		Where("code = ?", "000100000001").
		Updates(map[string]interface{}{"field1": "L-2024-01", "status": models.SerialStatusDistribution}).Error; err != nil {
		t.Fatalf("seed field values failed: %v", err)
	}

	result, err := svc.RangeFields("100000001", "100000003")
	if err != nil {
		t.Fatalf("range fields failed: %v", err)
	}
	if result.FieldNames[0] != "Lote" || result.FieldNames[1] != "Referencia" {
		t.Fatalf("unexpected field names: %v", result.FieldNames)
	}
	if result.Values[0] != "L-2024-01" {
		t.Fatalf("expected field1 L-2024-01, got %s", result.Values[0])
	}
	if result.Status != models.SerialStatusDistribution {
		t.Fatalf("expected status distribution, got %s", result.Status)
	}
}

func TestRangeFields_EmptyRangeFallsBackToDefaults(t *testing.T) {
	svc, _, _, _ := newRangeServiceForTest(t)

	result, err := svc.RangeFields("100000900", "100000905")
	if err != nil {
		t.Fatalf("range fields failed: %v", err)
	}
	if result.FieldNames[0] != models.DefaultFieldName1 {
		t.Fatalf("expected default field name, got %s", result.FieldNames[0])
	}
	if result.Status != models.SerialStatusScheduled {
		t.Fatalf("expected scheduled status, got %s", result.Status)
	}
}

func TestAssociateRange_LinksAndOverwrites(t *testing.T) {
	svc, db, client, product := newRangeServiceForTest(t)
	seedRangeSerials(t, db, client, product, 100000001, 100000005)
	request := mustCreateRequest(t, db, "CITEST0001")

	input := AssociateRangeInput{
		From:      "100000001",
		To:        "100000005",
		RequestID: request.ID,
		Field1:    "L-2024-01",
		Field2:    "REF-88",
		Status:    models.SerialStatusDistribution,
	}
	result, err := svc.AssociateRange(input)
	if err != nil {
		t.Fatalf("associate range failed: %v", err)
	}
	if result.Updated != 5 {
		t.Fatalf("expected 5 updated, got %d", result.Updated)
	}
	if result.ReassignedCount != 0 || result.Warning != "" {
		t.Fatalf("expected clean association, got %+v", result)
	}

	var serials []models.Serial
	if err := db.Where("code BETWEEN ? AND ?", "000100000001", "000100000005").Find(&serials).Error; err != nil {
		t.Fatalf("load serials failed: %v", err)
	}
	for _, s := range serials {
		if s.RequestID == nil || *s.RequestID != request.ID {
			t.Fatalf("serial %s not linked to request", s.Code)
		}
		if s.Field1 != "L-2024-01" || s.Field2 != "REF-88" || s.Status != models.SerialStatusDistribution {
			t.Fatalf("serial %s fields not overwritten: %+v", s.Code, s)
		}
	}
}

func TestAssociateRange_RepeatedCallIsStable(t *testing.T) {
	svc, db, client, product := newRangeServiceForTest(t)
	seedRangeSerials(t, db, client, product, 100000001, 100000003)
	request := mustCreateRequest(t, db, "CITEST0001")

	input := AssociateRangeInput{
		From:      "100000001",
		To:        "100000003",
		RequestID: request.ID,
		Status:    models.SerialStatusDistribution,
	}
	if _, err := svc.AssociateRange(input); err != nil {
		t.Fatalf("first association failed: %v", err)
	}
	result, err := svc.AssociateRange(input)
	if err != nil {
		t.Fatalf("second association failed: %v", err)
	}
	if result.Updated != 3 || result.ReassignedCount != 0 || result.Warning != "" {
		t.Fatalf("expected stable re-association, got %+v", result)
	}
}

func TestAssociateRange_CountsReassignedSerials(t *testing.T) {
	svc, db, client, product := newRangeServiceForTest(t)
	seedRangeSerials(t, db, client, product, 100000001, 100000005)
	previous := mustCreateRequest(t, db, "CITEST0001")
	next := mustCreateRequest(t, db, "CITEST0002")
	linkSerialsToRequest(t, db, previous.ID, "000100000001", "000100000003")

	result, err := svc.AssociateRange(AssociateRangeInput{
		From:      "100000001",
		To:        "100000005",
		RequestID: next.ID,
		Status:    models.SerialStatusDistribution,
	})
	if err != nil {
		t.Fatalf("associate range failed: %v", err)
	}
	if result.ReassignedCount != 3 {
		t.Fatalf("expected 3 reassigned, got %d", result.ReassignedCount)
	}
	if result.Warning == "" {
		t.Fatal("expected reassignment warning")
	}
	if result.Updated != 5 {
		t.Fatalf("expected 5 updated, got %d", result.Updated)
	}
}

func TestAssociateRange_EmptyRangeIsNothingToDo(t *testing.T) {
	svc, db, _, _ := newRangeServiceForTest(t)
	request := mustCreateRequest(t, db, "CITEST0001")

	result, err := svc.AssociateRange(AssociateRangeInput{
		From:      "100000900",
		To:        "100000905",
		RequestID: request.ID,
		Status:    models.SerialStatusScheduled,
	})
	if err != nil {
		t.Fatalf("associate range failed: %v", err)
	}
	if !result.NothingToDo || result.Updated != 0 {
		t.Fatalf("expected nothing-to-do result, got %+v", result)
	}
}

func TestAssociateRange_RejectsInvalidStatus(t *testing.T) {
	svc, db, _, _ := newRangeServiceForTest(t)
	request := mustCreateRequest(t, db, "CITEST0001")

	_, err := svc.AssociateRange(AssociateRangeInput{
		From:      "100000001",
		To:        "100000002",
		RequestID: request.ID,
		Status:    "lost",
	})
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestAssociateRange_UnknownRequest(t *testing.T) {
	svc, _, _, _ := newRangeServiceForTest(t)

	_, err := svc.AssociateRange(AssociateRangeInput{
		From:      "100000001",
		To:        "100000002",
		RequestID: 9999,
		Status:    models.SerialStatusScheduled,
	})
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("expected ErrRequestNotFound, got %v", err)
	}
}
