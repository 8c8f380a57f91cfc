package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/bookwire/bookwire/pkg/errors"
)

// =============================================================================
// Entity Types
// =============================================================================

// Type identifies one of the entity kinds carried on the wire.
type Type string

// The closed set of entity kinds. Any other type tag in a compound document
// fails decoding with UNRECOGNIZED_TYPE.
const (
	TypeGenres  Type = "genres"
	TypeBooks   Type = "books"
	TypeAuthors Type = "authors"
)

// KnownType reports whether t is one of the catalog entity kinds.
func KnownType(t Type) bool {
	return t == TypeGenres || t == TypeBooks || t == TypeAuthors
}

// Genre is a category owning zero or more books.
// Books is the reverse link of Book.Genre and is reconstructed during decode,
// never transmitted directly.
type Genre struct {
	ID          uuid.UUID
	Title       string
	Description string
	Books       []*Book
}

// Book is the primary catalog entity. Genre may be nil (the relation is
// nullable) and Authors holds the authorship links in insertion order.
type Book struct {
	ID          uuid.UUID
	Title       string
	Description string
	PublishedAt *time.Time
	Genre       *Genre
	Authors     []*Author
}

// Author writes zero or more books. Books mirrors Book.Authors.
type Author struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Books     []*Book
}

// =============================================================================
// Identifier Text Format
// =============================================================================

// ParseID parses the canonical lowercase hyphenated text form of an entity
// identifier. Uppercase hex, braces, URNs, and unhyphenated forms are all
// rejected with MALFORMED_IDENTIFIER, even though they denote the same
// 128-bit value: the wire formats carry exactly one rendering.
func ParseID(s string) (uuid.UUID, error) {
	if len(s) != 36 || s != strings.ToLower(s) {
		return uuid.Nil, errors.New(errors.ErrCodeMalformedIdentifier, "identifier %q is not in canonical form", s)
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.ErrCodeMalformedIdentifier, err, "identifier %q", s)
	}
	return id, nil
}

// FormatID renders id in the canonical form accepted by [ParseID].
func FormatID(id uuid.UUID) string {
	return id.String()
}

// =============================================================================
// Date Text Format
// =============================================================================

// DateLayout is the fixed textual timestamp pattern for published-at values.
const DateLayout = "2006-01-02 15:04:05"

// ParseDate parses a published-at value. Any text not matching [DateLayout]
// fails with MALFORMED_DATE.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrap(errors.ErrCodeMalformedDate, err, "date %q", s)
	}
	return t, nil
}

// FormatDate renders t in the form accepted by [ParseDate], normalized to UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// =============================================================================
// Relationship Linking
// =============================================================================

// AttachGenre sets the book's genre and records the reverse link on the
// genre's book list. Setting the same genre again is a no-op; within one
// payload a book's genre reference is always identical across occurrences,
// so last-write-wins is acceptable.
func AttachGenre(b *Book, g *Genre) {
	b.Genre = g
	if !lo.ContainsBy(g.Books, func(x *Book) bool { return x.ID == b.ID }) {
		g.Books = append(g.Books, b)
	}
}

// LinkAuthorship links an author and a book symmetrically. Relationship
// lists behave as ordered sets keyed by identifier: re-linking an already
// linked pair is a no-op, insertion order is preserved.
func LinkAuthorship(b *Book, a *Author) {
	if !lo.ContainsBy(b.Authors, func(x *Author) bool { return x.ID == a.ID }) {
		b.Authors = append(b.Authors, a)
	}
	if !lo.ContainsBy(a.Books, func(x *Book) bool { return x.ID == b.ID }) {
		a.Books = append(a.Books, b)
	}
}
