package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/etiquetas-qr/internal/config"
)

func TestSendCustomEmail_Disabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false})
	if err := svc.SendCustomEmail("dest@example.test", "asunto", "cuerpo"); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("expected ErrEmailServiceDisabled, got %v", err)
	}
}

func TestSendCustomEmail_NotConfigured(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true})
	if err := svc.SendCustomEmail("dest@example.test", "asunto", "cuerpo"); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("expected ErrEmailServiceNotConfigured, got %v", err)
	}
}

func TestSendCustomEmail_InvalidRecipient(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{
		Enabled: true,
		Host:    "smtp.example.test",
		Port:    587,
		From:    "noreply@example.test",
	})
	if err := svc.SendCustomEmail("no-es-un-correo", "asunto", "cuerpo"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func TestBuildMultipartMessage(t *testing.T) {
	msg := buildMultipartMessage(
		"noreply@example.test",
		[]string{"dueno@example.test", "receptor@example.test"},
		"notificacion prueba de entrega 100000001",
		"Se adjunta la prueba de entrega.",
		[]EmailAttachment{{
			Filename:    "prueba_entrega_100000001.pdf",
			ContentType: "application/pdf",
			Data:        []byte(strings.Repeat("x", 200)),
		}},
	)

	if !strings.Contains(msg, "To: dueno@example.test\r\n") {
		t.Fatal("expected first recipient in To header")
	}
	if !strings.Contains(msg, "Cc: receptor@example.test\r\n") {
		t.Fatal("expected second recipient in Cc header")
	}
	if !strings.Contains(msg, "multipart/mixed") {
		t.Fatal("expected multipart content type")
	}
	if !strings.Contains(msg, `Content-Disposition: attachment; filename="prueba_entrega_100000001.pdf"`) {
		t.Fatal("expected attachment disposition header")
	}
	if !strings.Contains(msg, "Content-Transfer-Encoding: base64") {
		t.Fatal("expected base64 transfer encoding")
	}

	inBody := false
	for _, line := range strings.Split(msg, "\r\n") {
		if strings.HasPrefix(line, "--") {
			inBody = true
			continue
		}
		if inBody && len(line) > 76 {
			t.Fatalf("base64 line exceeds 76 columns: %d", len(line))
		}
	}
}

func TestBuildFromAddress(t *testing.T) {
	if got := buildFromAddress("noreply@example.test", ""); got != "noreply@example.test" {
		t.Fatalf("expected bare address, got %s", got)
	}
	withName := buildFromAddress("noreply@example.test", "Etiquetas QR")
	if !strings.Contains(withName, "noreply@example.test") || !strings.Contains(withName, "Etiquetas QR") {
		t.Fatalf("expected display name and address, got %s", withName)
	}
}

func TestIsEmailRecipientRejected(t *testing.T) {
	cases := []struct {
		message string
		want    bool
	}{
		{"550 5.1.1 no such user here", true},
		{"recipient address rejected: access denied", true},
		{"550 mailbox unavailable", true},
		{"connection refused", false},
		{"454 tls not available", false},
		{"", false},
	}
	for _, tc := range cases {
		var err error
		if tc.message != "" {
			err = errors.New(tc.message)
		}
		if got := isEmailRecipientRejected(err); got != tc.want {
			t.Fatalf("isEmailRecipientRejected(%q) = %v, want %v", tc.message, got, tc.want)
		}
	}
}
