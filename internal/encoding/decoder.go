package encoding

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/aleksaelezovic/triq/pkg/rdf"
	"github.com/aleksaelezovic/triq/pkg/store"
)

// TermDecoder handles decoding of RDF terms
type TermDecoder struct{}

// NewTermDecoder creates a new term decoder
func NewTermDecoder() *TermDecoder {
	return &TermDecoder{}
}

// DecodeTerm decodes an encoded term back to an rdf.Term
// For terms that require string lookup, stringValue should be provided
func (d *TermDecoder) DecodeTerm(encoded store.EncodedTerm, stringValue *string) (rdf.Term, error) {
	termType := GetTermType(encoded)

	switch termType {
	case rdf.TermTypeNamedNode:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for named node")
		}
		return rdf.NewNamedNode(*stringValue), nil

	case rdf.TermTypeStringLiteral:
		if encoded.NeedsStringLookup() {
			if stringValue == nil {
				return nil, fmt.Errorf("string value required for long string literal")
			}
			return rdf.NewLiteral(*stringValue), nil
		}
		n := int(encoded[store.EncodedTermSize-1])
		if n > MaxInlineStringSize {
			return nil, fmt.Errorf("invalid inline string length: %d", n)
		}
		return rdf.NewLiteral(string(encoded[1 : 1+n])), nil

	case rdf.TermTypeLangStringLiteral:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for language-tagged literal")
		}
		// Split value@language
		idx := strings.LastIndex(*stringValue, "@")
		if idx < 0 {
			return rdf.NewLiteral(*stringValue), nil
		}
		return rdf.NewLiteralWithLanguage((*stringValue)[:idx], (*stringValue)[idx+1:]), nil

	case rdf.TermTypeTypedLiteral:
		if stringValue == nil {
			return nil, fmt.Errorf("string value required for typed literal")
		}
		idx := strings.LastIndex(*stringValue, typedSeparator)
		if idx < 0 {
			return nil, fmt.Errorf("malformed typed literal entry")
		}
		datatype := rdf.NewNamedNode((*stringValue)[idx+len(typedSeparator):])
		return rdf.NewLiteralWithDatatype((*stringValue)[:idx], datatype), nil

	case rdf.TermTypeIntegerLiteral:
		value := int64(binary.BigEndian.Uint64(encoded[1:9])) // #nosec G115 - intentional bit-pattern conversion for binary decoding
		return rdf.NewIntegerLiteral(value), nil

	case rdf.TermTypeDoubleLiteral:
		bits := binary.BigEndian.Uint64(encoded[1:9])
		return rdf.NewDoubleLiteral(math.Float64frombits(bits)), nil

	case rdf.TermTypeBooleanLiteral:
		return rdf.NewBooleanLiteral(encoded[1] != 0), nil

	default:
		return nil, fmt.Errorf("unknown term type: %d", termType)
	}
}
