package codec

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/google/uuid"

	"github.com/bookwire/bookwire/pkg/catalog"
	"github.com/bookwire/bookwire/pkg/errors"
)

// Document is the compound wire format: a primary list of book resources
// plus an included list of every distinct related resource. Relationships
// carry (type, id) stubs only; attributes live on the one full occurrence
// of each resource. The decoder tolerates stubs whose full resource never
// appears, leaving those entities attribute-empty instead of failing.
type Document struct{}

// Name implements [Codec].
func (Document) Name() string { return NameDocument }

// ContentType implements [Codec].
func (Document) ContentType() string { return "application/vnd.bookwire.document+json" }

// =============================================================================
// Wire Structs
// =============================================================================

// resourceRef is a relationship stub: type and identifier, nothing else.
type resourceRef struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// resource is one entry of the primary or included list. Attributes and
// Relationships are both optional; a resource carrying neither still
// registers its identity.
type resource struct {
	Type          string                   `json:"type"`
	ID            string                   `json:"id"`
	Attributes    map[string]any           `json:"attributes,omitempty"`
	Relationships map[string][]resourceRef `json:"relationships,omitempty"`
}

type document struct {
	Data     []resource `json:"data"`
	Included []resource `json:"included,omitempty"`
}

// =============================================================================
// Encode
// =============================================================================

// workItem tags one reachable entity awaiting inclusion.
type workItem struct {
	genre  *catalog.Genre
	book   *catalog.Book
	author *catalog.Author
}

// Encode implements [Codec]. The primary list carries the given books; the
// included list carries the closure of related resources (genres, authors,
// and books reachable through those authors), each emitted exactly once.
func (Document) Encode(books []*catalog.Book) ([]byte, error) {
	if err := validateBooks(books); err != nil {
		return nil, err
	}

	out := document{Data: []resource{}}

	seenGenres := make(map[uuid.UUID]bool)
	seenBooks := make(map[uuid.UUID]bool)
	seenAuthors := make(map[uuid.UUID]bool)

	var queue []workItem
	enqueueRelated := func(b *catalog.Book) {
		if b.Genre != nil {
			queue = append(queue, workItem{genre: b.Genre})
		}
		for _, a := range b.Authors {
			queue = append(queue, workItem{author: a})
		}
	}

	for _, b := range books {
		if seenBooks[b.ID] {
			continue
		}
		seenBooks[b.ID] = true
		out.Data = append(out.Data, bookResource(b))
		enqueueRelated(b)
	}

	// Work through the reachable closure. Authors pull in their other books
	// so reverse traversal stays complete on the receiving side, and those
	// books pull in their own genres and authors in turn.
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		switch {
		case item.genre != nil:
			if !seenGenres[item.genre.ID] {
				seenGenres[item.genre.ID] = true
				out.Included = append(out.Included, genreResource(item.genre))
			}
		case item.author != nil:
			if !seenAuthors[item.author.ID] {
				seenAuthors[item.author.ID] = true
				out.Included = append(out.Included, authorResource(item.author))
				for _, b := range item.author.Books {
					queue = append(queue, workItem{book: b})
				}
			}
		case item.book != nil:
			if !seenBooks[item.book.ID] {
				seenBooks[item.book.ID] = true
				out.Included = append(out.Included, bookResource(item.book))
				enqueueRelated(item.book)
			}
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "encode document")
	}
	return buf.Bytes(), nil
}

func genreResource(g *catalog.Genre) resource {
	return resource{
		Type: string(catalog.TypeGenres),
		ID:   catalog.FormatID(g.ID),
		Attributes: map[string]any{
			"title":       g.Title,
			"description": g.Description,
		},
	}
}

func bookResource(b *catalog.Book) resource {
	res := resource{
		Type: string(catalog.TypeBooks),
		ID:   catalog.FormatID(b.ID),
		Attributes: map[string]any{
			"title":       b.Title,
			"description": b.Description,
		},
	}
	if b.PublishedAt != nil {
		res.Attributes["published_at"] = catalog.FormatDate(*b.PublishedAt)
	}

	rels := map[string][]resourceRef{}
	if b.Genre != nil {
		rels["genre"] = []resourceRef{{Type: string(catalog.TypeGenres), ID: catalog.FormatID(b.Genre.ID)}}
	}
	if len(b.Authors) > 0 {
		refs := make([]resourceRef, 0, len(b.Authors))
		for _, a := range b.Authors {
			refs = append(refs, resourceRef{Type: string(catalog.TypeAuthors), ID: catalog.FormatID(a.ID)})
		}
		rels["authors"] = refs
	}
	if len(rels) > 0 {
		res.Relationships = rels
	}
	return res
}

func authorResource(a *catalog.Author) resource {
	res := resource{
		Type: string(catalog.TypeAuthors),
		ID:   catalog.FormatID(a.ID),
		Attributes: map[string]any{
			"first_name": a.FirstName,
			"last_name":  a.LastName,
		},
	}
	if len(a.Books) > 0 {
		refs := make([]resourceRef, 0, len(a.Books))
		for _, b := range a.Books {
			refs = append(refs, resourceRef{Type: string(catalog.TypeBooks), ID: catalog.FormatID(b.ID)})
		}
		res.Relationships = map[string][]resourceRef{"books": refs}
	}
	return res
}

// =============================================================================
// Decode
// =============================================================================

// Decode implements [Codec]. Primary resources are processed before
// included ones; each resource registers its identity first, merges any
// attributes present (absence never clears an already-set attribute), then
// links every relationship stub bidirectionally. A stub whose full resource
// never appears stays attribute-empty rather than failing; the snapshot
// format is strict here, the document format deliberately is not.
func (Document) Decode(data []byte) (*catalog.Graph, error) {
	var in document
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode document")
	}

	reg := catalog.NewRegistry()

	for _, res := range in.Data {
		if err := resolveResource(reg, res); err != nil {
			return nil, err
		}
	}
	for _, res := range in.Included {
		if err := resolveResource(reg, res); err != nil {
			return nil, err
		}
	}

	return reg.Graph()
}

// resolveResource registers one resource and everything it references.
// Stubs resolve registry-first, so a resource reachable through several
// relationship paths still materializes exactly once.
func resolveResource(reg *catalog.Registry, res resource) error {
	t := catalog.Type(res.Type)
	if !catalog.KnownType(t) {
		return errors.New(errors.ErrCodeUnrecognizedType, "resource type %q", res.Type)
	}
	id, err := catalog.ParseID(res.ID)
	if err != nil {
		return err
	}

	switch t {
	case catalog.TypeGenres:
		g := reg.Genre(id)
		if err := mergeString(res.Attributes, "title", &g.Title); err != nil {
			return err
		}
		if err := mergeString(res.Attributes, "description", &g.Description); err != nil {
			return err
		}
	case catalog.TypeBooks:
		b := reg.Book(id)
		if err := mergeString(res.Attributes, "title", &b.Title); err != nil {
			return err
		}
		if err := mergeString(res.Attributes, "description", &b.Description); err != nil {
			return err
		}
		if raw, ok, err := stringAttr(res.Attributes, "published_at"); err != nil {
			return err
		} else if ok {
			date, err := catalog.ParseDate(raw)
			if err != nil {
				return err
			}
			b.PublishedAt = &date
		}
	case catalog.TypeAuthors:
		a := reg.Author(id)
		if err := mergeString(res.Attributes, "first_name", &a.FirstName); err != nil {
			return err
		}
		if err := mergeString(res.Attributes, "last_name", &a.LastName); err != nil {
			return err
		}
	}

	return resolveRelationships(reg, t, id, res.Relationships)
}

// resolveRelationships links every stub of a resource. Relation names are
// walked in sorted order so list insertion order is deterministic; the link
// kind is dispatched on the (holder, stub) type pair. A pair outside the
// schema's relation set is UNRECOGNIZED_TYPE.
func resolveRelationships(reg *catalog.Registry, holder catalog.Type, holderID uuid.UUID, rels map[string][]resourceRef) error {
	names := make([]string, 0, len(rels))
	for name := range rels {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, ref := range rels[name] {
			rt := catalog.Type(ref.Type)
			if !catalog.KnownType(rt) {
				return errors.New(errors.ErrCodeUnrecognizedType, "relationship %q stub type %q", name, ref.Type)
			}
			refID, err := catalog.ParseID(ref.ID)
			if err != nil {
				return err
			}

			switch {
			case holder == catalog.TypeBooks && rt == catalog.TypeGenres:
				catalog.AttachGenre(reg.Book(holderID), reg.Genre(refID))
			case holder == catalog.TypeBooks && rt == catalog.TypeAuthors:
				catalog.LinkAuthorship(reg.Book(holderID), reg.Author(refID))
			case holder == catalog.TypeAuthors && rt == catalog.TypeBooks:
				catalog.LinkAuthorship(reg.Book(refID), reg.Author(holderID))
			case holder == catalog.TypeGenres && rt == catalog.TypeBooks:
				catalog.AttachGenre(reg.Book(refID), reg.Genre(holderID))
			default:
				return errors.New(errors.ErrCodeUnrecognizedType,
					"no relation between %s and %s", holder, rt)
			}
		}
	}
	return nil
}

// mergeString sets *dst from attrs[key] when the key is present with a
// string value. Absent or null keys leave *dst untouched, which is what
// makes partial resources mergeable.
func mergeString(attrs map[string]any, key string, dst *string) error {
	s, ok, err := stringAttr(attrs, key)
	if err != nil {
		return err
	}
	if ok {
		*dst = s
	}
	return nil
}

func stringAttr(attrs map[string]any, key string) (string, bool, error) {
	v, ok := attrs[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, errors.New(errors.ErrCodeInvalidFormat, "attribute %q: expected string, got %T", key, v)
	}
	return s, true, nil
}
