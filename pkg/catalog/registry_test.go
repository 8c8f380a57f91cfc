package catalog

import (
	"testing"

	"github.com/google/uuid"
)

func TestRegistryResolveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	first := r.Book(id)
	second := r.Book(id)

	if first != second {
		t.Error("resolving the same book id twice created two instances")
	}
	if len(r.bookOrder) != 1 {
		t.Errorf("bookOrder length = %d, want 1", len(r.bookOrder))
	}
}

func TestRegistryPreservesDiscoveryOrder(t *testing.T) {
	r := NewRegistry()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	for _, id := range ids {
		r.Author(id)
	}
	r.Author(ids[0]) // re-resolution must not reorder

	g, err := r.Graph()
	if err != nil {
		t.Fatalf("Graph error: %v", err)
	}
	if len(g.Authors) != 3 {
		t.Fatalf("Authors length = %d, want 3", len(g.Authors))
	}
	for i, id := range ids {
		if g.Authors[i].ID != id {
			t.Errorf("Authors[%d].ID = %s, want %s", i, g.Authors[i].ID, id)
		}
	}
}

func TestRegistryLookupDoesNotCreate(t *testing.T) {
	r := NewRegistry()
	id := uuid.New()

	if _, ok := r.LookupGenre(id); ok {
		t.Error("LookupGenre found a genre in an empty registry")
	}
	if len(r.genreOrder) != 0 {
		t.Error("LookupGenre created an instance")
	}

	r.Genre(id)
	if g, ok := r.LookupGenre(id); !ok || g.ID != id {
		t.Errorf("LookupGenre = (%v, %v), want the registered genre", g, ok)
	}
}

func TestRegistriesAreIndependent(t *testing.T) {
	id := uuid.New()

	a := NewRegistry().Book(id)
	b := NewRegistry().Book(id)

	if a == b {
		t.Error("separate registries shared a book instance")
	}
}
