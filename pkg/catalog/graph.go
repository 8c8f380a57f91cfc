package catalog

import (
	"slices"

	"github.com/samber/lo"

	"github.com/bookwire/bookwire/pkg/errors"
)

// Graph is the published result of one decode pass: three root sequences in
// first-discovery order, forming one connected, bidirectionally linked
// object graph. A Graph is immutable once published.
type Graph struct {
	Genres  []*Genre
	Books   []*Book
	Authors []*Author
}

// Graph validates the assembled graph and publishes the root sequences.
// It checks two post-conditions that hold whenever the codecs behaved:
//
//   - every book's genre (if set) is one of the registered genres
//   - every authorship link is symmetric: a book lists an author exactly
//     when the author lists the book
//
// A violation is an INTERNAL_CONSISTENCY error and no graph is returned;
// the caller discards the registry and everything in it.
func (r *Registry) Graph() (*Graph, error) {
	for _, b := range r.bookOrder {
		if b.Genre != nil {
			if g, ok := r.genres[b.Genre.ID]; !ok || g != b.Genre {
				return nil, errors.New(errors.ErrCodeInternalConsistency,
					"book %s references genre %s outside the registry", FormatID(b.ID), FormatID(b.Genre.ID))
			}
			if !lo.ContainsBy(b.Genre.Books, func(x *Book) bool { return x == b }) {
				return nil, errors.New(errors.ErrCodeInternalConsistency,
					"genre %s does not list book %s back", FormatID(b.Genre.ID), FormatID(b.ID))
			}
		}
		for _, a := range b.Authors {
			if !lo.ContainsBy(a.Books, func(x *Book) bool { return x == b }) {
				return nil, errors.New(errors.ErrCodeInternalConsistency,
					"author %s does not list book %s back", FormatID(a.ID), FormatID(b.ID))
			}
		}
	}
	for _, a := range r.authorOrder {
		for _, b := range a.Books {
			if !lo.ContainsBy(b.Authors, func(x *Author) bool { return x == a }) {
				return nil, errors.New(errors.ErrCodeInternalConsistency,
					"book %s does not list author %s back", FormatID(b.ID), FormatID(a.ID))
			}
		}
	}
	for _, g := range r.genreOrder {
		for _, b := range g.Books {
			if b.Genre != g {
				return nil, errors.New(errors.ErrCodeInternalConsistency,
					"book %s listed under genre %s without the forward link", FormatID(b.ID), FormatID(g.ID))
			}
		}
	}

	return &Graph{
		Genres:  slices.Clone(r.genreOrder),
		Books:   slices.Clone(r.bookOrder),
		Authors: slices.Clone(r.authorOrder),
	}, nil
}
