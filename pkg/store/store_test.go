package store

import (
	"context"
	"testing"

	"github.com/bookwire/bookwire/pkg/catalog"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSeedAndListBooks(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Seed(ctx); err != nil {
		t.Fatalf("Seed error: %v", err)
	}

	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks error: %v", err)
	}
	if len(books) != 4 {
		t.Fatalf("books = %d, want 4", len(books))
	}

	for _, b := range books {
		if b.Genre == nil {
			t.Errorf("book %q has no genre preloaded", b.Title)
		}
		if len(b.Authors) == 0 {
			t.Errorf("book %q has no authors preloaded", b.Title)
		}
	}

	// Shared entities come out as single instances.
	if books[0].Genre != books[1].Genre {
		t.Error("books sharing a genre got distinct genre instances")
	}
	if books[0].Authors[0] != books[1].Authors[0] {
		t.Error("books sharing an author got distinct author instances")
	}

	// Reverse links are assembled even though no table column carries them.
	if len(books[0].Authors[0].Books) != 2 {
		t.Errorf("author book links = %d, want 2", len(books[0].Authors[0].Books))
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.Seed(ctx); err != nil {
		t.Fatalf("first Seed error: %v", err)
	}
	if err := s.Seed(ctx); err != nil {
		t.Fatalf("second Seed error: %v", err)
	}

	n, err := s.CountBooks(ctx)
	if err != nil {
		t.Fatalf("CountBooks error: %v", err)
	}
	if n != 4 {
		t.Errorf("books after double seed = %d, want 4", n)
	}
}

func TestSaveBooksSuppressesDuplicates(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	books := SampleBooks()
	if err := s.SaveBooks(ctx, books); err != nil {
		t.Fatalf("SaveBooks error: %v", err)
	}
	// Saving the same set again must not duplicate rows or fail on keys.
	if err := s.SaveBooks(ctx, books); err != nil {
		t.Fatalf("second SaveBooks error: %v", err)
	}

	loaded, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks error: %v", err)
	}
	if len(loaded) != len(books) {
		t.Errorf("books = %d, want %d", len(loaded), len(books))
	}
}

func TestListBooksRoundTripsDates(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if err := s.SaveBooks(ctx, SampleBooks()); err != nil {
		t.Fatalf("SaveBooks error: %v", err)
	}
	books, err := s.ListBooks(ctx)
	if err != nil {
		t.Fatalf("ListBooks error: %v", err)
	}

	want := SampleBooks()
	byID := make(map[string]*catalog.Book)
	for _, b := range want {
		byID[catalog.FormatID(b.ID)] = b
	}
	for _, b := range books {
		w := byID[catalog.FormatID(b.ID)]
		if w == nil {
			t.Fatalf("unexpected book %s", catalog.FormatID(b.ID))
		}
		if b.PublishedAt == nil || !b.PublishedAt.Equal(*w.PublishedAt) {
			t.Errorf("book %q published-at = %v, want %v", b.Title, b.PublishedAt, w.PublishedAt)
		}
	}
}
