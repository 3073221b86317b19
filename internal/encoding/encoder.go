package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/aleksaelezovic/triq/pkg/rdf"
	"github.com/aleksaelezovic/triq/pkg/store"
	"github.com/zeebo/xxh3"
)

const (
	// Maximum size for inline strings; the last data byte holds the length
	MaxInlineStringSize = 15

	// hashedMarker in the last byte flags a string literal stored in id2str
	hashedMarker = 0xFF

	// typedSeparator joins a typed literal's lexical form and datatype IRI in id2str
	typedSeparator = "\x00"
)

// TermEncoder handles encoding of RDF terms
type TermEncoder struct{}

func NewTermEncoder() *TermEncoder {
	return &TermEncoder{}
}

// Hash128 computes a 128-bit xxhash3 hash of the input string
func (e *TermEncoder) Hash128(s string) [16]byte {
	hash := xxh3.HashString128(s)
	var result [16]byte
	binary.BigEndian.PutUint64(result[0:8], hash.Hi)
	binary.BigEndian.PutUint64(result[8:16], hash.Lo)
	return result
}

// EncodeTerm encodes an RDF term into a fixed-size byte array
// Returns the encoded term and optionally a string to store in id2str table
func (e *TermEncoder) EncodeTerm(term rdf.Term) (store.EncodedTerm, *string, error) {
	var encoded store.EncodedTerm

	switch t := term.(type) {
	case *rdf.NamedNode:
		return e.encodeNamedNode(t)
	case *rdf.Literal:
		return e.encodeLiteral(t)
	default:
		return encoded, nil, fmt.Errorf("unknown term type: %T", term)
	}
}

func (e *TermEncoder) encodeNamedNode(node *rdf.NamedNode) (store.EncodedTerm, *string, error) {
	var encoded store.EncodedTerm
	encoded[0] = byte(rdf.TermTypeNamedNode)

	// Always hash IRIs (using 128-bit xxhash3)
	hash := e.Hash128(node.IRI)
	copy(encoded[1:], hash[:])

	iri := node.IRI
	return encoded, &iri, nil
}

func (e *TermEncoder) encodeLiteral(lit *rdf.Literal) (store.EncodedTerm, *string, error) {
	if lit.Language != "" {
		return e.encodeLangStringLiteral(lit)
	}
	if lit.IsPlain() {
		return e.encodeStringLiteral(lit)
	}

	// Only canonical lexical forms are stored inline so decoding reproduces
	// the exact literal that was inserted
	switch lit.Datatype.IRI {
	case rdf.XSDInteger.IRI:
		if v, err := strconv.ParseInt(lit.Value, 10, 64); err == nil && strconv.FormatInt(v, 10) == lit.Value {
			return e.encodeInteger(v), nil, nil
		}
	case rdf.XSDDouble.IRI:
		if v, err := strconv.ParseFloat(lit.Value, 64); err == nil && strconv.FormatFloat(v, 'g', -1, 64) == lit.Value {
			return e.encodeDouble(v), nil, nil
		}
	case rdf.XSDBoolean.IRI:
		if lit.Value == "true" || lit.Value == "false" {
			return e.encodeBoolean(lit.Value == "true"), nil, nil
		}
	}

	return e.encodeTypedLiteral(lit)
}

func (e *TermEncoder) encodeStringLiteral(lit *rdf.Literal) (store.EncodedTerm, *string, error) {
	var encoded store.EncodedTerm
	encoded[0] = byte(rdf.TermTypeStringLiteral)

	if len(lit.Value) <= MaxInlineStringSize {
		// Inline small strings
		copy(encoded[1:], lit.Value)
		encoded[store.EncodedTermSize-1] = byte(len(lit.Value))
		return encoded, nil, nil
	}

	// Hash large strings
	hash := e.Hash128(lit.Value)
	copy(encoded[1:store.EncodedTermSize-1], hash[:])
	encoded[store.EncodedTermSize-1] = hashedMarker

	value := lit.Value
	return encoded, &value, nil
}

func (e *TermEncoder) encodeLangStringLiteral(lit *rdf.Literal) (store.EncodedTerm, *string, error) {
	var encoded store.EncodedTerm
	encoded[0] = byte(rdf.TermTypeLangStringLiteral)

	// Combine value and language tag for hashing; tags are case-insensitive
	combined := lit.Value + "@" + strings.ToLower(lit.Language)
	hash := e.Hash128(combined)
	copy(encoded[1:], hash[:])

	return encoded, &combined, nil
}

func (e *TermEncoder) encodeTypedLiteral(lit *rdf.Literal) (store.EncodedTerm, *string, error) {
	var encoded store.EncodedTerm
	encoded[0] = byte(rdf.TermTypeTypedLiteral)

	combined := lit.Value + typedSeparator + lit.Datatype.IRI
	hash := e.Hash128(combined)
	copy(encoded[1:], hash[:])

	return encoded, &combined, nil
}

func (e *TermEncoder) encodeInteger(value int64) store.EncodedTerm {
	var encoded store.EncodedTerm
	encoded[0] = byte(rdf.TermTypeIntegerLiteral)

	// Store as big endian signed integer
	binary.BigEndian.PutUint64(encoded[1:9], uint64(value)) // #nosec G115 - intentional bit-pattern conversion for binary encoding
	return encoded
}

func (e *TermEncoder) encodeDouble(value float64) store.EncodedTerm {
	var encoded store.EncodedTerm
	encoded[0] = byte(rdf.TermTypeDoubleLiteral)
	binary.BigEndian.PutUint64(encoded[1:9], math.Float64bits(value))
	return encoded
}

func (e *TermEncoder) encodeBoolean(value bool) store.EncodedTerm {
	var encoded store.EncodedTerm
	encoded[0] = byte(rdf.TermTypeBooleanLiteral)
	if value {
		encoded[1] = 1
	}
	return encoded
}

// EncodeKey encodes an index key for one of the triple indexes
// Returns a big-endian byte array for lexicographic sorting
func (e *TermEncoder) EncodeKey(terms ...store.EncodedTerm) []byte {
	result := make([]byte, 0, len(terms)*store.EncodedTermSize)
	for _, term := range terms {
		result = append(result, term[:]...)
	}
	return result
}

// GetTermType extracts the type from an encoded term
func GetTermType(encoded store.EncodedTerm) rdf.TermType {
	return rdf.TermType(encoded[0])
}
