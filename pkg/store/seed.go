package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookwire/bookwire/pkg/catalog"
)

// Seed installs a small sample catalog when the store is empty. Running it
// against a populated store is a no-op, both through the emptiness check
// and through the idempotent per-key inserts underneath.
func (s *Store) Seed(ctx context.Context) error {
	n, err := s.CountBooks(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.SaveBooks(ctx, SampleBooks())
}

func date(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

// SampleBooks returns a closed sample entity set: every book reachable
// through an author is part of the returned slice.
func SampleBooks() []*catalog.Book {
	scifi := &catalog.Genre{
		ID:          uuid.MustParse("35f0c5de-69a7-426e-ac65-20d1203d6a9f"),
		Title:       "Sci-Fi",
		Description: "Voyages beyond the plausible",
	}
	fantasy := &catalog.Genre{
		ID:          uuid.MustParse("8d2f0f77-6fcb-4be1-87a3-464e3cbf83b4"),
		Title:       "Fantasy",
		Description: "Dragons, quests, and doors in hillsides",
	}

	dune := &catalog.Book{
		ID:          uuid.MustParse("0f7e12de-45f9-45e1-bd36-177b2a5e6a33"),
		Title:       "Dune",
		Description: "A desert planet and the spice that binds it",
		PublishedAt: date(1965, time.August, 1),
	}
	messiah := &catalog.Book{
		ID:          uuid.MustParse("c6f4ea13-0b52-46a4-8207-57f7e95b4fbc"),
		Title:       "Dune Messiah",
		Description: "The emperor of the known universe regrets it",
		PublishedAt: date(1969, time.July, 15),
	}
	earthsea := &catalog.Book{
		ID:          uuid.MustParse("4a3eaa6b-8ba1-4dde-9a56-6f109bcff960"),
		Title:       "A Wizard of Earthsea",
		Description: "A young mage chases his own shadow",
		PublishedAt: date(1968, time.November, 1),
	}
	lathe := &catalog.Book{
		ID:          uuid.MustParse("def3db4c-9a29-42de-a0ba-7a138b6f51a2"),
		Title:       "The Lathe of Heaven",
		Description: "Dreams that rewrite the world",
		PublishedAt: date(1971, time.March, 1),
	}

	herbert := &catalog.Author{
		ID:        uuid.MustParse("e19bd4e0-8f4f-4bd6-a44f-68590ed7c4fc"),
		FirstName: "Frank",
		LastName:  "Herbert",
	}
	leguin := &catalog.Author{
		ID:        uuid.MustParse("76a125fa-01bd-40f1-9d4e-14ee437270b5"),
		FirstName: "Ursula",
		LastName:  "Le Guin",
	}

	catalog.AttachGenre(dune, scifi)
	catalog.AttachGenre(messiah, scifi)
	catalog.AttachGenre(earthsea, fantasy)
	catalog.AttachGenre(lathe, scifi)
	catalog.LinkAuthorship(dune, herbert)
	catalog.LinkAuthorship(messiah, herbert)
	catalog.LinkAuthorship(earthsea, leguin)
	catalog.LinkAuthorship(lathe, leguin)

	return []*catalog.Book{dune, messiah, earthsea, lathe}
}
