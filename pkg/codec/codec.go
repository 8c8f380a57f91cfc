package codec

import (
	"github.com/bookwire/bookwire/pkg/catalog"
	"github.com/bookwire/bookwire/pkg/errors"
)

// Format names accepted by [ByName].
const (
	NameSnapshot = "snapshot"
	NameDocument = "document"
)

// A Codec serializes a set of preloaded books to one wire format and
// reconstructs the full object graph from those bytes. Implementations are
// stateless; every Decode call builds against its own registry.
type Codec interface {
	// Name returns the short format name used in URLs and flags.
	Name() string

	// ContentType returns the media type served for this format.
	ContentType() string

	// Encode serializes books (with genre and authors preloaded) into one
	// self-contained payload. It fails fast before emitting any bytes when
	// a reachable entity is missing a required scalar.
	Encode(books []*catalog.Book) ([]byte, error)

	// Decode parses one payload into a validated, bidirectionally linked
	// graph. On any error no partial graph is returned.
	Decode(data []byte) (*catalog.Graph, error)
}

// ByName returns the codec for a format name, or an INVALID_FORMAT error.
func ByName(name string) (Codec, error) {
	switch name {
	case NameSnapshot:
		return Snapshot{}, nil
	case NameDocument:
		return Document{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want %s or %s)", name, NameSnapshot, NameDocument)
}

// Names lists the supported format names.
func Names() []string {
	return []string{NameSnapshot, NameDocument}
}

// validateBooks checks every entity reachable from books for required
// scalars so encoding fails before a half-written payload exists. Titles
// and author names are required; descriptions and publication dates are
// not. The walk covers books reachable only through an author, since the
// document format emits those too.
func validateBooks(books []*catalog.Book) error {
	seen := make(map[*catalog.Book]bool)
	queue := append([]*catalog.Book(nil), books...)

	for len(queue) > 0 {
		b := queue[0]
		queue = queue[1:]
		if seen[b] {
			continue
		}
		seen[b] = true

		if b.Title == "" {
			return errors.New(errors.ErrCodeIncompleteEntity, "book %s has no title", catalog.FormatID(b.ID))
		}
		if b.Genre != nil && b.Genre.Title == "" {
			return errors.New(errors.ErrCodeIncompleteEntity, "genre %s has no title", catalog.FormatID(b.Genre.ID))
		}
		for _, a := range b.Authors {
			if a.FirstName == "" || a.LastName == "" {
				return errors.New(errors.ErrCodeIncompleteEntity, "author %s has no name", catalog.FormatID(a.ID))
			}
			queue = append(queue, a.Books...)
		}
	}
	return nil
}
