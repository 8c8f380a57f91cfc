// Package codec implements the two wire representations of a catalog
// transfer: the relational snapshot and the compound document.
//
// # Overview
//
// Both codecs serialize the same input (a set of books with genre and
// authors preloaded) and both decode back to an observably identical
// [catalog.Graph]: same identifiers, same attributes, same relationship
// sets in both directions. Only the bytes differ.
//
// The relational snapshot ([Snapshot]) mirrors normalized storage: four
// named tables in strict dependency order, every scalar inline, no nesting.
// References must point at rows already defined by an earlier table, so a
// dangling foreign key is a REFERENTIAL_INTEGRITY error.
//
// The compound document ([Document]) is reference-based: a primary list of
// book resources plus an included list of every distinct related resource.
// Relationships carry (type, id) stubs only; the receiver resolves them
// against primary+included. The document decoder tolerates partial
// resources: a stub may gain its attributes later in the payload, or never
// at all, in which case the entity stays attribute-empty.
//
// # Decoding
//
// Each Decode call runs against a fresh [catalog.Registry], so the same
// identifier always materializes as one instance no matter how many times
// the bytes mention it. A decode either publishes a validated graph or
// fails with a coded error; nothing partial escapes.
//
// # Example
//
//	c, _ := codec.ByName(codec.NameSnapshot)
//	data, err := c.Encode(books)
//	...
//	graph, err := c.Decode(data)
package codec
