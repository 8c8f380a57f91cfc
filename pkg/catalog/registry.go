package catalog

import (
	"github.com/google/uuid"
)

// Registry guarantees at-most-one instance per (type, id) pair within one
// decode pass. Resolving an unseen identifier creates an attribute-empty
// instance; resolving it again returns the same pointer. First-discovery
// order is preserved per type and becomes the order of the published root
// sequences.
//
// A Registry is not goroutine-safe. Each decode pass gets its own Registry
// and runs to completion before its result is published, so no locking is
// needed; independent decodes share nothing.
type Registry struct {
	genres  map[uuid.UUID]*Genre
	books   map[uuid.UUID]*Book
	authors map[uuid.UUID]*Author

	// Insertion order per type, parallel to the maps above.
	genreOrder  []*Genre
	bookOrder   []*Book
	authorOrder []*Author
}

// NewRegistry creates an empty registry scoped to one decode pass.
func NewRegistry() *Registry {
	return &Registry{
		genres:  make(map[uuid.UUID]*Genre),
		books:   make(map[uuid.UUID]*Book),
		authors: make(map[uuid.UUID]*Author),
	}
}

// Genre resolves-or-creates the genre with the given identifier.
func (r *Registry) Genre(id uuid.UUID) *Genre {
	if g, ok := r.genres[id]; ok {
		return g
	}
	g := &Genre{ID: id}
	r.genres[id] = g
	r.genreOrder = append(r.genreOrder, g)
	return g
}

// Book resolves-or-creates the book with the given identifier.
func (r *Registry) Book(id uuid.UUID) *Book {
	if b, ok := r.books[id]; ok {
		return b
	}
	b := &Book{ID: id}
	r.books[id] = b
	r.bookOrder = append(r.bookOrder, b)
	return b
}

// Author resolves-or-creates the author with the given identifier.
func (r *Registry) Author(id uuid.UUID) *Author {
	if a, ok := r.authors[id]; ok {
		return a
	}
	a := &Author{ID: id}
	r.authors[id] = a
	r.authorOrder = append(r.authorOrder, a)
	return a
}

// LookupGenre returns the genre for id without creating one.
// Formats that require prior definition (the relational snapshot) use the
// lookup variants to turn a dangling reference into a decode error instead
// of a phantom entity.
func (r *Registry) LookupGenre(id uuid.UUID) (*Genre, bool) {
	g, ok := r.genres[id]
	return g, ok
}

// LookupBook returns the book for id without creating one.
func (r *Registry) LookupBook(id uuid.UUID) (*Book, bool) {
	b, ok := r.books[id]
	return b, ok
}

// LookupAuthor returns the author for id without creating one.
func (r *Registry) LookupAuthor(id uuid.UUID) (*Author, bool) {
	a, ok := r.authors[id]
	return a, ok
}
