package server

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bookwire/bookwire/pkg/cache"
	"github.com/bookwire/bookwire/pkg/codec"
	"github.com/bookwire/bookwire/pkg/store"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Seed(context.Background()); err != nil {
		t.Fatalf("Seed error: %v", err)
	}
	logger := log.New(io.Discard)
	return New(st, cache.NewNullCache(), time.Minute, logger)
}

func TestCatalogEndpointsDecode(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Router())
	defer srv.Close()

	tests := []struct {
		format      string
		contentType string
	}{
		{codec.NameSnapshot, "application/vnd.bookwire.snapshot+json"},
		{codec.NameDocument, "application/vnd.bookwire.document+json"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp, err := srv.Client().Get(srv.URL + "/catalog/" + tt.format)
			if err != nil {
				t.Fatalf("GET error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != 200 {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}

			c, _ := codec.ByName(tt.format)
			g, err := c.Decode(data)
			if err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if len(g.Books) != 4 {
				t.Errorf("decoded books = %d, want 4", len(g.Books))
			}
		})
	}
}

func TestCatalogUnknownFormat(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/catalog/xml")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	srv := httptest.NewServer(newTestServer(t).Router())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}
