package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/etiquetas-qr/internal/config"
)

func newLocalForTest(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocal(config.LocalStorageConfig{BaseDir: dir, BaseURL: "/uploads"})
	if err != nil {
		t.Fatalf("new local storage failed: %v", err)
	}
	return store, dir
}

func TestLocalStorage_SaveGetDelete(t *testing.T) {
	store, _ := newLocalForTest(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "entregas/fotos/100000001_abcd1234.jpg", []byte("foto"), "image/jpeg")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if key != "entregas/fotos/100000001_abcd1234.jpg" {
		t.Fatalf("unexpected key: %s", key)
	}

	data, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !bytes.Equal(data, []byte("foto")) {
		t.Fatalf("unexpected data: %q", data)
	}

	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := store.Get(ctx, key); err == nil {
		t.Fatal("expected get after delete to fail")
	}
	if err := store.Delete(ctx, key); err != nil {
		t.Fatalf("expected deleting a missing object to succeed, got %v", err)
	}
}

func TestLocalStorage_URL(t *testing.T) {
	store, _ := newLocalForTest(t)
	if got := store.URL("logos_empresas/logo_abcd1234.png"); got != "/uploads/logos_empresas/logo_abcd1234.png" {
		t.Fatalf("unexpected url: %s", got)
	}
}

func TestLocalStorage_KeyTraversalStaysUnderBaseDir(t *testing.T) {
	store, dir := newLocalForTest(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, "../../escape.txt", []byte("x"), "text/plain"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.txt")); err == nil {
		t.Fatal("expected traversal key to stay under the base directory")
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.txt")); err != nil {
		t.Fatalf("expected file under base directory: %v", err)
	}
}

func TestObjectName(t *testing.T) {
	name := ObjectName("entregas/fotos", "100000001", "jpg")
	if !strings.HasPrefix(name, "entregas/fotos/100000001_") {
		t.Fatalf("unexpected object name: %s", name)
	}
	if !strings.HasSuffix(name, ".jpg") {
		t.Fatalf("expected .jpg suffix, got %s", name)
	}
	if other := ObjectName("entregas/fotos", "100000001", "jpg"); other == name {
		t.Fatal("expected distinct names for repeated uploads")
	}
}

func TestObjectName_SanitizesBase(t *testing.T) {
	name := ObjectName("logos_empresas", "logo empresa/uno?.png", "png")
	if strings.Contains(name, "?") || strings.Contains(name, " ") {
		t.Fatalf("expected sanitized base, got %s", name)
	}
	if !strings.HasPrefix(name, "logos_empresas/logo_empresauno.png_") {
		t.Fatalf("unexpected sanitized name: %s", name)
	}
	empty := ObjectName("logos_empresas", "", "png")
	if !strings.HasPrefix(empty, "logos_empresas/file_") {
		t.Fatalf("expected file fallback, got %s", empty)
	}
}
