package codec

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/bookwire/bookwire/pkg/catalog"
	"github.com/bookwire/bookwire/pkg/errors"
)

// Snapshot is the relational wire format: four named tables mirroring
// normalized storage rows, emitted in strict dependency order (genres,
// books, authors, authorships) so every foreign key resolves against rows
// already defined. Unlike the compound document, a reference to an
// undefined row is always a REFERENTIAL_INTEGRITY error.
type Snapshot struct{}

// Name implements [Codec].
func (Snapshot) Name() string { return NameSnapshot }

// ContentType implements [Codec].
func (Snapshot) ContentType() string { return "application/vnd.bookwire.snapshot+json" }

// =============================================================================
// Wire Structs
// =============================================================================

// snapshot is the canonical table layout. Field order matches the column
// order of the storage schema; decoding walks the tables in this fixed
// order regardless of how the bytes arrange the keys.
type snapshot struct {
	Genres      []genreRow      `json:"genres"`
	Books       []bookRow       `json:"books"`
	Authors     []authorRow     `json:"authors"`
	Authorships []authorshipRow `json:"authorships"`
}

type genreRow struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type bookRow struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	PublishedAt *string `json:"published_at"`
	GenreID     *string `json:"genre_id"`
}

type authorRow struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type authorshipRow struct {
	AuthorID string `json:"author_id"`
	BookID   string `json:"book_id"`
}

// =============================================================================
// Encode
// =============================================================================

// Encode implements [Codec]. Genre and author rows reachable through more
// than one book are emitted once; the authorship table carries one row per
// distinct (author, book) pair in book-major discovery order.
func (Snapshot) Encode(books []*catalog.Book) ([]byte, error) {
	if err := validateBooks(books); err != nil {
		return nil, err
	}

	out := snapshot{
		Genres:      []genreRow{},
		Books:       []bookRow{},
		Authors:     []authorRow{},
		Authorships: []authorshipRow{},
	}

	seenGenres := make(map[uuid.UUID]bool)
	seenBooks := make(map[uuid.UUID]bool)
	seenAuthors := make(map[uuid.UUID]bool)

	for _, b := range books {
		if seenBooks[b.ID] {
			continue
		}
		seenBooks[b.ID] = true

		row := bookRow{
			ID:          catalog.FormatID(b.ID),
			Title:       b.Title,
			Description: b.Description,
		}
		if b.PublishedAt != nil {
			date := catalog.FormatDate(*b.PublishedAt)
			row.PublishedAt = &date
		}
		if b.Genre != nil {
			if !seenGenres[b.Genre.ID] {
				seenGenres[b.Genre.ID] = true
				out.Genres = append(out.Genres, genreRow{
					ID:          catalog.FormatID(b.Genre.ID),
					Title:       b.Genre.Title,
					Description: b.Genre.Description,
				})
			}
			genreID := catalog.FormatID(b.Genre.ID)
			row.GenreID = &genreID
		}
		out.Books = append(out.Books, row)

		for _, a := range b.Authors {
			if !seenAuthors[a.ID] {
				seenAuthors[a.ID] = true
				out.Authors = append(out.Authors, authorRow{
					ID:        catalog.FormatID(a.ID),
					FirstName: a.FirstName,
					LastName:  a.LastName,
				})
			}
			out.Authorships = append(out.Authorships, authorshipRow{
				AuthorID: catalog.FormatID(a.ID),
				BookID:   catalog.FormatID(b.ID),
			})
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode snapshot")
	}
	return buf.Bytes(), nil
}

// =============================================================================
// Decode
// =============================================================================

// Decode implements [Codec]. Tables are processed in dependency order so
// each later table's references resolve against already-registered rows; a
// book's genre_id or an authorship's endpoints pointing at an undefined row
// fail with REFERENTIAL_INTEGRITY and no graph is published.
func (Snapshot) Decode(data []byte) (*catalog.Graph, error) {
	var in snapshot
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}

	reg := catalog.NewRegistry()

	for _, row := range in.Genres {
		id, err := catalog.ParseID(row.ID)
		if err != nil {
			return nil, err
		}
		g := reg.Genre(id)
		g.Title = row.Title
		g.Description = row.Description
	}

	for _, row := range in.Books {
		id, err := catalog.ParseID(row.ID)
		if err != nil {
			return nil, err
		}
		b := reg.Book(id)
		b.Title = row.Title
		b.Description = row.Description
		if row.PublishedAt != nil {
			t, err := catalog.ParseDate(*row.PublishedAt)
			if err != nil {
				return nil, err
			}
			b.PublishedAt = &t
		}
		if row.GenreID != nil {
			genreID, err := catalog.ParseID(*row.GenreID)
			if err != nil {
				return nil, err
			}
			g, ok := reg.LookupGenre(genreID)
			if !ok {
				return nil, errors.New(errors.ErrCodeReferentialIntegrity,
					"book %s references undefined genre %s", row.ID, *row.GenreID)
			}
			catalog.AttachGenre(b, g)
		}
	}

	for _, row := range in.Authors {
		id, err := catalog.ParseID(row.ID)
		if err != nil {
			return nil, err
		}
		a := reg.Author(id)
		a.FirstName = row.FirstName
		a.LastName = row.LastName
	}

	for _, row := range in.Authorships {
		authorID, err := catalog.ParseID(row.AuthorID)
		if err != nil {
			return nil, err
		}
		bookID, err := catalog.ParseID(row.BookID)
		if err != nil {
			return nil, err
		}
		a, ok := reg.LookupAuthor(authorID)
		if !ok {
			return nil, errors.New(errors.ErrCodeReferentialIntegrity,
				"authorship references undefined author %s", row.AuthorID)
		}
		b, ok := reg.LookupBook(bookID)
		if !ok {
			return nil, errors.New(errors.ErrCodeReferentialIntegrity,
				"authorship references undefined book %s", row.BookID)
		}
		catalog.LinkAuthorship(b, a)
	}

	return reg.Graph()
}
