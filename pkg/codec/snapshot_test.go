package codec

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bookwire/bookwire/pkg/catalog"
	"github.com/bookwire/bookwire/pkg/errors"
)

func TestSnapshotRoundTrip(t *testing.T) {
	scifi := &catalog.Genre{ID: mustID(t, idSciFi), Title: "Sci-Fi"}
	dune := &catalog.Book{ID: mustID(t, idDune), Title: "Dune"}
	herbert := &catalog.Author{ID: mustID(t, idHerbert), FirstName: "Frank", LastName: "Herbert"}
	catalog.AttachGenre(dune, scifi)
	catalog.LinkAuthorship(dune, herbert)

	data, err := Snapshot{}.Encode([]*catalog.Book{dune})
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	g, err := Snapshot{}.Decode(data)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if len(g.Genres) != 1 || g.Genres[0].Title != "Sci-Fi" {
		t.Fatalf("Genres = %v, want the one Sci-Fi genre", g.Genres)
	}
	if len(g.Books) != 1 || g.Books[0].Title != "Dune" {
		t.Fatalf("Books = %v, want the one Dune book", g.Books)
	}
	if len(g.Authors) != 1 || g.Authors[0].FirstName != "Frank" || g.Authors[0].LastName != "Herbert" {
		t.Fatalf("Authors = %v, want the one Herbert author", g.Authors)
	}

	b := g.Books[0]
	if b.Genre != g.Genres[0] {
		t.Error("book genre is not the decoded genre instance")
	}
	if len(b.Authors) != 1 || b.Authors[0] != g.Authors[0] {
		t.Error("book authors do not reference the decoded author instance")
	}
	if len(g.Authors[0].Books) != 1 || g.Authors[0].Books[0] != b {
		t.Error("author books do not reference the decoded book instance")
	}
}

func TestSnapshotTableOrder(t *testing.T) {
	data, err := Snapshot{}.Encode(sampleBooks(t))
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	// Tables must appear after every table they depend on.
	order := []string{`"genres"`, `"books"`, `"authors"`, `"authorships"`}
	last := -1
	for _, key := range order {
		ix := bytes.Index(data, []byte(key))
		if ix < 0 {
			t.Fatalf("table %s missing from payload", key)
		}
		if ix < last {
			t.Errorf("table %s emitted before its dependencies", key)
		}
		last = ix
	}
}

func TestSnapshotSuppressesDuplicateRows(t *testing.T) {
	data, err := Snapshot{}.Encode(sampleBooks(t))
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}

	var in snapshot
	if err := json.Unmarshal(data, &in); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// Herbert wrote both books but gets one row; the pair table carries
	// all three distinct authorships.
	if len(in.Authors) != 2 {
		t.Errorf("author rows = %d, want 2", len(in.Authors))
	}
	if len(in.Authorships) != 3 {
		t.Errorf("authorship rows = %d, want 3", len(in.Authorships))
	}
	if len(in.Genres) != 2 {
		t.Errorf("genre rows = %d, want 2", len(in.Genres))
	}
}

func TestSnapshotNullableColumns(t *testing.T) {
	b := &catalog.Book{ID: mustID(t, idDune), Title: "Dune"} // no genre, no date

	data, err := Snapshot{}.Encode([]*catalog.Book{b})
	if err != nil {
		t.Fatalf("encode error: %v", err)
	}
	g, err := Snapshot{}.Decode(data)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if g.Books[0].Genre != nil {
		t.Error("unset genre decoded as non-nil")
	}
	if g.Books[0].PublishedAt != nil {
		t.Error("unset published-at decoded as non-nil")
	}
	if len(g.Genres) != 0 {
		t.Errorf("Genres = %v, want empty", g.Genres)
	}
}

func TestSnapshotDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		code    errors.Code
	}{
		{
			name: "book references undefined genre",
			payload: `{
				"genres": [],
				"books": [{"id": "` + idDune + `", "title": "Dune", "description": "", "published_at": null, "genre_id": "` + idSciFi + `"}],
				"authors": [],
				"authorships": []
			}`,
			code: errors.ErrCodeReferentialIntegrity,
		},
		{
			name: "authorship references undefined author",
			payload: `{
				"genres": [],
				"books": [{"id": "` + idDune + `", "title": "Dune", "description": "", "published_at": null, "genre_id": null}],
				"authors": [],
				"authorships": [{"author_id": "` + idHerbert + `", "book_id": "` + idDune + `"}]
			}`,
			code: errors.ErrCodeReferentialIntegrity,
		},
		{
			name: "authorship references undefined book",
			payload: `{
				"genres": [],
				"books": [],
				"authors": [{"id": "` + idHerbert + `", "first_name": "Frank", "last_name": "Herbert"}],
				"authorships": [{"author_id": "` + idHerbert + `", "book_id": "` + idDune + `"}]
			}`,
			code: errors.ErrCodeReferentialIntegrity,
		},
		{
			name: "malformed identifier",
			payload: `{
				"genres": [{"id": "not-a-uuid", "title": "Sci-Fi", "description": ""}],
				"books": [], "authors": [], "authorships": []
			}`,
			code: errors.ErrCodeMalformedIdentifier,
		},
		{
			name: "uppercase identifier",
			payload: `{
				"genres": [{"id": "6E9BC7C4-31A7-4260-A923-38EEF372F4E1", "title": "Sci-Fi", "description": ""}],
				"books": [], "authors": [], "authorships": []
			}`,
			code: errors.ErrCodeMalformedIdentifier,
		},
		{
			name: "malformed date",
			payload: `{
				"genres": [],
				"books": [{"id": "` + idDune + `", "title": "Dune", "description": "", "published_at": "August 1965", "genre_id": null}],
				"authors": [], "authorships": []
			}`,
			code: errors.ErrCodeMalformedDate,
		},
		{
			name:    "not json",
			payload: `this is not a snapshot`,
			code:    errors.ErrCodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Snapshot{}.Decode([]byte(tt.payload))
			if !errors.Is(err, tt.code) {
				t.Errorf("error code = %v, want %v (err: %v)", errors.GetCode(err), tt.code, err)
			}
			if g != nil {
				t.Error("decode returned a graph alongside an error")
			}
		})
	}
}

func TestSnapshotDuplicateAuthorshipRowIsNoOp(t *testing.T) {
	payload := `{
		"genres": [],
		"books": [{"id": "` + idDune + `", "title": "Dune", "description": "", "published_at": null, "genre_id": null}],
		"authors": [{"id": "` + idHerbert + `", "first_name": "Frank", "last_name": "Herbert"}],
		"authorships": [
			{"author_id": "` + idHerbert + `", "book_id": "` + idDune + `"},
			{"author_id": "` + idHerbert + `", "book_id": "` + idDune + `"}
		]
	}`

	g, err := Snapshot{}.Decode([]byte(payload))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(g.Books[0].Authors) != 1 {
		t.Errorf("book author links = %d, want 1", len(g.Books[0].Authors))
	}
	if len(g.Authors[0].Books) != 1 {
		t.Errorf("author book links = %d, want 1", len(g.Authors[0].Books))
	}
}
