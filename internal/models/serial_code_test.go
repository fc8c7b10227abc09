package models

import "testing"

func TestNewSerialCode_PadsToWidth(t *testing.T) {
	code, err := NewSerialCode(100000001)
	if err != nil {
		t.Fatalf("new serial code failed: %v", err)
	}
	if got := code.String(); got != "000100000001" {
		t.Fatalf("expected 000100000001, got %s", got)
	}
	if len(code.String()) != SerialCodeWidth {
		t.Fatalf("expected width %d, got %d", SerialCodeWidth, len(code.String()))
	}
}

func TestNewSerialCode_RejectsZero(t *testing.T) {
	if _, err := NewSerialCode(0); err == nil {
		t.Fatal("expected error for zero serial code")
	}
}

func TestNewSerialCode_RejectsOverflow(t *testing.T) {
	if _, err := NewSerialCode(1000000000000); err == nil {
		t.Fatal("expected error for code wider than the stored width")
	}
}

func TestParseSerialCode_AcceptsPaddedAndUnpadded(t *testing.T) {
	padded, err := ParseSerialCode("000100000001")
	if err != nil {
		t.Fatalf("parse padded code failed: %v", err)
	}
	unpadded, err := ParseSerialCode("100000001")
	if err != nil {
		t.Fatalf("parse unpadded code failed: %v", err)
	}
	if padded != unpadded {
		t.Fatalf("expected %s == %s", padded, unpadded)
	}
}

func TestParseSerialCode_RejectsBadInput(t *testing.T) {
	cases := []string{"", "  ", "12a34", "-5", "1.5"}
	for _, raw := range cases {
		if _, err := ParseSerialCode(raw); err == nil {
			t.Fatalf("expected error for input %q", raw)
		}
	}
}

func TestSerialCode_Display(t *testing.T) {
	code, err := NewSerialCode(100000042)
	if err != nil {
		t.Fatalf("new serial code failed: %v", err)
	}
	if got := code.Display(); got != "100000042" {
		t.Fatalf("expected 100000042, got %s", got)
	}
}

func TestSerialCode_Next(t *testing.T) {
	code, err := NewSerialCode(100000001)
	if err != nil {
		t.Fatalf("new serial code failed: %v", err)
	}
	next, err := code.Next()
	if err != nil {
		t.Fatalf("next code failed: %v", err)
	}
	if next.Uint64() != 100000002 {
		t.Fatalf("expected 100000002, got %d", next.Uint64())
	}
}

func TestSerialCode_OrderMatchesNumericOrder(t *testing.T) {
	low, _ := NewSerialCode(99999999)
	high, _ := NewSerialCode(100000000)
	if !(low.String() < high.String()) {
		t.Fatalf("expected %s < %s lexicographically", low, high)
	}
}
