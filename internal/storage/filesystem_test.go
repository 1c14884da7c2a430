package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFromURL(t *testing.T) {
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer src.Close()

	dir := t.TempDir()
	store, err := NewFileStore(dir, "https://cdn.example.com/static/")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	url, err := store.CopyFromURL(context.Background(), src.URL, "orders/o1/linkedin/0.png")
	if err != nil {
		t.Fatalf("CopyFromURL returned error: %v", err)
	}
	want := "https://cdn.example.com/static/orders/o1/linkedin/0.png"
	if url != want {
		t.Fatalf("url = %q, want %q", url, want)
	}

	data, err := os.ReadFile(filepath.Join(dir, "orders", "o1", "linkedin", "0.png"))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("stored bytes = %q", data)
	}
}

func TestCopyFromURLRejectsErrorStatus(t *testing.T) {
	src := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer src.Close()

	store, err := NewFileStore(t.TempDir(), "https://cdn.example.com")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.CopyFromURL(context.Background(), src.URL, "k.png"); err == nil {
		t.Fatal("expected error for non-2xx source response")
	}
}

func TestWriteSanitizesKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), "https://cdn.example.com")
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if _, err := store.Write(context.Background(), "../escape.png", []byte("x")); err == nil {
		t.Fatal("expected traversal key to be rejected")
	}
	key, err := store.Write(context.Background(), "/leading/slash.png", []byte("x"))
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if key != "leading/slash.png" {
		t.Fatalf("key = %q, want leading/slash.png", key)
	}
}

func TestHeadshotKey(t *testing.T) {
	got := HeadshotKey("order-1", "business_formal", 3)
	want := "orders/order-1/business_formal/3.png"
	if got != want {
		t.Fatalf("HeadshotKey = %q, want %q", got, want)
	}
}
