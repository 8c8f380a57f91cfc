// Package catalog defines the bookwire domain model: genres, books, authors,
// and the many-to-many authorship relation between books and authors.
//
// # Overview
//
// The catalog is a small relational object graph. A Book belongs to at most
// one Genre and is written by zero or more Authors; Genre and Author carry
// the reverse links, so the in-memory graph is circular and bidirectional
// even though the wire formats only transmit one direction per relation.
//
// # Identity
//
// Every entity is named by a 128-bit identifier. The only accepted text form
// is the canonical lowercase hyphenated one (see [ParseID]); any other
// rendering fails with a MALFORMED_IDENTIFIER error.
//
// # Registry
//
// A [Registry] owns one decode pass. It guarantees at-most-one instance per
// (type, id) pair: resolving the same identifier twice yields the same
// pointer with first-discovery order preserved. When the pass completes,
// [Registry.Graph] validates the assembled graph and publishes the root
// sequences; on failure nothing partial is ever handed out.
//
// # Example
//
//	reg := catalog.NewRegistry()
//	b := reg.Book(bookID)
//	a := reg.Author(authorID)
//	catalog.LinkAuthorship(b, a)
//	g, err := reg.Graph()
package catalog
