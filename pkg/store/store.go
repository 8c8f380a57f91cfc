// Package store is the relational storage boundary for the catalog.
//
// The codecs never touch the database: store materializes fully preloaded
// book entities (genre and authors attached) and hands them over as the
// encoder input. Inserts are idempotent per primary key, so a genre or
// author reachable through many books is stored once no matter how often
// it is written.
package store

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/bookwire/bookwire/pkg/catalog"
	"github.com/bookwire/bookwire/pkg/errors"
)

// Store wraps one sqlite database holding the normalized catalog tables.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if necessary) the sqlite database at path and
// installs the schema. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "open database %s", path)
	}
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS genres (
			id          TEXT PRIMARY KEY,
			title       TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			id           TEXT PRIMARY KEY,
			title        TEXT NOT NULL,
			description  TEXT NOT NULL DEFAULT '',
			published_at TEXT,
			genre_id     TEXT REFERENCES genres(id)
		)`,
		`CREATE TABLE IF NOT EXISTS authors (
			id         TEXT PRIMARY KEY,
			first_name TEXT NOT NULL,
			last_name  TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS authorships (
			author_id TEXT NOT NULL REFERENCES authors(id),
			book_id   TEXT NOT NULL REFERENCES books(id),
			PRIMARY KEY (author_id, book_id)
		)`,
	}
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(errors.ErrCodeStorage, err, "create schema")
		}
	}
	return nil
}

// =============================================================================
// Writes
// =============================================================================

// AddGenre inserts a genre row. Re-inserting the same id is a no-op.
func (s *Store) AddGenre(ctx context.Context, g *catalog.Genre) error {
	_, err := sq.Insert("genres").
		Columns("id", "title", "description").
		Values(catalog.FormatID(g.ID), g.Title, g.Description).
		Suffix("ON CONFLICT (id) DO NOTHING").
		RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "insert genre %s", catalog.FormatID(g.ID))
	}
	return nil
}

// AddBook inserts a book row (scalars and the nullable genre foreign key).
// Re-inserting the same id is a no-op.
func (s *Store) AddBook(ctx context.Context, b *catalog.Book) error {
	var published, genreID any
	if b.PublishedAt != nil {
		published = catalog.FormatDate(*b.PublishedAt)
	}
	if b.Genre != nil {
		genreID = catalog.FormatID(b.Genre.ID)
	}
	_, err := sq.Insert("books").
		Columns("id", "title", "description", "published_at", "genre_id").
		Values(catalog.FormatID(b.ID), b.Title, b.Description, published, genreID).
		Suffix("ON CONFLICT (id) DO NOTHING").
		RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "insert book %s", catalog.FormatID(b.ID))
	}
	return nil
}

// AddAuthor inserts an author row. Re-inserting the same id is a no-op.
func (s *Store) AddAuthor(ctx context.Context, a *catalog.Author) error {
	_, err := sq.Insert("authors").
		Columns("id", "first_name", "last_name").
		Values(catalog.FormatID(a.ID), a.FirstName, a.LastName).
		Suffix("ON CONFLICT (id) DO NOTHING").
		RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "insert author %s", catalog.FormatID(a.ID))
	}
	return nil
}

// AddAuthorship records an (author, book) pair. The pair is the primary
// key, so the same authorship is never duplicated.
func (s *Store) AddAuthorship(ctx context.Context, authorID, bookID uuid.UUID) error {
	_, err := sq.Insert("authorships").
		Columns("author_id", "book_id").
		Values(catalog.FormatID(authorID), catalog.FormatID(bookID)).
		Suffix("ON CONFLICT (author_id, book_id) DO NOTHING").
		RunWith(s.db).ExecContext(ctx)
	if err != nil {
		return errors.Wrap(errors.ErrCodeStorage, err, "insert authorship")
	}
	return nil
}

// SaveBooks persists a set of preloaded books along with every reachable
// genre, author, and authorship, honoring foreign-key dependency order.
func (s *Store) SaveBooks(ctx context.Context, books []*catalog.Book) error {
	for _, b := range books {
		if b.Genre != nil {
			if err := s.AddGenre(ctx, b.Genre); err != nil {
				return err
			}
		}
	}
	for _, b := range books {
		if err := s.AddBook(ctx, b); err != nil {
			return err
		}
	}
	for _, b := range books {
		for _, a := range b.Authors {
			if err := s.AddAuthor(ctx, a); err != nil {
				return err
			}
		}
	}
	for _, b := range books {
		for _, a := range b.Authors {
			if err := s.AddAuthorship(ctx, a.ID, b.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// =============================================================================
// Reads
// =============================================================================

// CountBooks returns the number of stored books.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	var n int
	err := sq.Select("COUNT(*)").From("books").RunWith(s.db).QueryRowContext(ctx).Scan(&n)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeStorage, err, "count books")
	}
	return n, nil
}

// ListBooks materializes every book with its genre and authors preloaded,
// assembled through a fresh registry so shared genres and authors come out
// as single instances. The result is the encoder's input.
func (s *Store) ListBooks(ctx context.Context) ([]*catalog.Book, error) {
	reg := catalog.NewRegistry()

	rows, err := sq.Select("id", "title", "description").From("genres").
		OrderBy("rowid").RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list genres")
	}
	for rows.Next() {
		var rawID, title, description string
		if err := rows.Scan(&rawID, &title, &description); err != nil {
			rows.Close()
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan genre")
		}
		id, err := catalog.ParseID(rawID)
		if err != nil {
			rows.Close()
			return nil, err
		}
		g := reg.Genre(id)
		g.Title = title
		g.Description = description
	}
	if err := rows.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list genres")
	}

	rows, err = sq.Select("id", "title", "description", "published_at", "genre_id").From("books").
		OrderBy("rowid").RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list books")
	}
	for rows.Next() {
		var rawID, title, description string
		var published, genreID sql.NullString
		if err := rows.Scan(&rawID, &title, &description, &published, &genreID); err != nil {
			rows.Close()
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan book")
		}
		id, err := catalog.ParseID(rawID)
		if err != nil {
			rows.Close()
			return nil, err
		}
		b := reg.Book(id)
		b.Title = title
		b.Description = description
		if published.Valid {
			t, err := catalog.ParseDate(published.String)
			if err != nil {
				rows.Close()
				return nil, err
			}
			b.PublishedAt = &t
		}
		if genreID.Valid {
			gid, err := catalog.ParseID(genreID.String)
			if err != nil {
				rows.Close()
				return nil, err
			}
			g, ok := reg.LookupGenre(gid)
			if !ok {
				rows.Close()
				return nil, errors.New(errors.ErrCodeReferentialIntegrity, "book %s references missing genre %s", rawID, genreID.String)
			}
			catalog.AttachGenre(b, g)
		}
	}
	if err := rows.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list books")
	}

	rows, err = sq.Select("id", "first_name", "last_name").From("authors").
		OrderBy("rowid").RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list authors")
	}
	for rows.Next() {
		var rawID, first, last string
		if err := rows.Scan(&rawID, &first, &last); err != nil {
			rows.Close()
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan author")
		}
		id, err := catalog.ParseID(rawID)
		if err != nil {
			rows.Close()
			return nil, err
		}
		a := reg.Author(id)
		a.FirstName = first
		a.LastName = last
	}
	if err := rows.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list authors")
	}

	rows, err = sq.Select("author_id", "book_id").From("authorships").
		OrderBy("rowid").RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list authorships")
	}
	for rows.Next() {
		var rawAuthor, rawBook string
		if err := rows.Scan(&rawAuthor, &rawBook); err != nil {
			rows.Close()
			return nil, errors.Wrap(errors.ErrCodeStorage, err, "scan authorship")
		}
		authorID, err := catalog.ParseID(rawAuthor)
		if err != nil {
			rows.Close()
			return nil, err
		}
		bookID, err := catalog.ParseID(rawBook)
		if err != nil {
			rows.Close()
			return nil, err
		}
		a, ok := reg.LookupAuthor(authorID)
		if !ok {
			rows.Close()
			return nil, errors.New(errors.ErrCodeReferentialIntegrity, "authorship references missing author %s", rawAuthor)
		}
		b, ok := reg.LookupBook(bookID)
		if !ok {
			rows.Close()
			return nil, errors.New(errors.ErrCodeReferentialIntegrity, "authorship references missing book %s", rawBook)
		}
		catalog.LinkAuthorship(b, a)
	}
	if err := rows.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStorage, err, "list authorships")
	}

	g, err := reg.Graph()
	if err != nil {
		return nil, err
	}
	return g.Books, nil
}
