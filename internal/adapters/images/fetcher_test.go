package images

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("image-bytes"))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "cover.jpg")
	f := NewFetcher(srv.Client())
	if err := f.Fetch(context.Background(), srv.URL, dest); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read downloaded file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestFetcher_FetchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "cover.jpg")
	f := NewFetcher(srv.Client())
	if err := f.Fetch(context.Background(), srv.URL, dest); err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatal("expected no file left behind")
	}
}
