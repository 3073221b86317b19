package store

import (
	"github.com/aleksaelezovic/triq/pkg/rdf"
)

// EncodedTermSize is the width of an encoded term: one type byte followed by
// 16 bytes of hash or inline data.
const EncodedTermSize = 17

// EncodedTerm represents a term encoded as a type byte followed by up to 16 bytes of data
type EncodedTerm [EncodedTermSize]byte

// TermEncoder handles encoding of RDF terms into a compact binary format
type TermEncoder interface {
	// EncodeTerm encodes an RDF term into a fixed-size byte array
	// Returns the encoded term and optionally a string to store in id2str table
	EncodeTerm(term rdf.Term) (EncodedTerm, *string, error)

	// EncodeKey concatenates encoded terms into an index key
	EncodeKey(terms ...EncodedTerm) []byte
}

// TermDecoder handles decoding of RDF terms from binary format
type TermDecoder interface {
	// DecodeTerm decodes an encoded term back to an rdf.Term
	// For terms that require string lookup, stringValue should be provided
	DecodeTerm(encoded EncodedTerm, stringValue *string) (rdf.Term, error)
}

// NeedsStringLookup reports whether decoding the term requires the id2str table.
func (e EncodedTerm) NeedsStringLookup() bool {
	switch rdf.TermType(e[0]) {
	case rdf.TermTypeNamedNode, rdf.TermTypeLangStringLiteral, rdf.TermTypeTypedLiteral:
		return true
	case rdf.TermTypeStringLiteral:
		// Hashed strings carry a marker in the last byte, inline strings their length
		return e[EncodedTermSize-1] == 0xFF
	default:
		return false
	}
}
