package rdf

import (
	"fmt"
	"strconv"
	"strings"
)

// TermType represents the type of an RDF term
type TermType byte

const (
	// Core RDF types
	TermTypeNamedNode TermType = iota + 1
	TermTypeLiteral

	// Literal subtypes, used by the storage encoding
	TermTypeStringLiteral
	TermTypeLangStringLiteral
	TermTypeIntegerLiteral
	TermTypeDoubleLiteral
	TermTypeBooleanLiteral
	TermTypeTypedLiteral
)

// Term represents an RDF term (IRI or literal)
type Term interface {
	Type() TermType
	String() string
	Equals(other Term) bool
}

// NamedNode represents an IRI
type NamedNode struct {
	IRI string
}

func NewNamedNode(iri string) *NamedNode {
	return &NamedNode{IRI: iri}
}

func (n *NamedNode) Type() TermType {
	return TermTypeNamedNode
}

func (n *NamedNode) String() string {
	return fmt.Sprintf("<%s>", n.IRI)
}

func (n *NamedNode) Equals(other Term) bool {
	if on, ok := other.(*NamedNode); ok {
		return n.IRI == on.IRI
	}
	return false
}

// Literal represents an RDF literal
type Literal struct {
	Value    string
	Language string     // for language-tagged strings
	Datatype *NamedNode // for typed literals
}

func NewLiteral(value string) *Literal {
	return &Literal{Value: value}
}

func NewLiteralWithLanguage(value, language string) *Literal {
	return &Literal{Value: value, Language: strings.ToLower(language)}
}

func NewLiteralWithDatatype(value string, datatype *NamedNode) *Literal {
	return &Literal{Value: value, Datatype: datatype}
}

func (l *Literal) Type() TermType {
	return TermTypeLiteral
}

func (l *Literal) String() string {
	result := `"` + EscapeString(l.Value) + `"`
	if l.Language != "" {
		result += "@" + strings.ToLower(l.Language)
	} else if !l.IsPlain() {
		result += "^^" + l.Datatype.String()
	}
	return result
}

// IsPlain reports whether the literal is a simple string: no language tag and
// either no datatype or xsd:string.
func (l *Literal) IsPlain() bool {
	return l.Language == "" && (l.Datatype == nil || l.Datatype.IRI == XSDString.IRI)
}

func (l *Literal) Equals(other Term) bool {
	ol, ok := other.(*Literal)
	if !ok {
		return false
	}
	// Language tags compare case-insensitively
	if l.Value != ol.Value || !strings.EqualFold(l.Language, ol.Language) {
		return false
	}
	if l.Language != "" {
		return true
	}
	if l.IsPlain() || ol.IsPlain() {
		return l.IsPlain() && ol.IsPlain()
	}
	return l.Datatype.Equals(ol.Datatype)
}

// Triple represents an RDF triple (subject, predicate, object)
type Triple struct {
	Subject   Term
	Predicate Term
	Object    Term
}

func NewTriple(subject, predicate, object Term) *Triple {
	return &Triple{
		Subject:   subject,
		Predicate: predicate,
		Object:    object,
	}
}

func (t *Triple) String() string {
	return fmt.Sprintf("%s %s %s .", t.Subject, t.Predicate, t.Object)
}

// Equals reports component-wise value equality.
func (t *Triple) Equals(other *Triple) bool {
	if other == nil {
		return false
	}
	return t.Subject.Equals(other.Subject) &&
		t.Predicate.Equals(other.Predicate) &&
		t.Object.Equals(other.Object)
}

// Validate checks the positional constraints of RDF: the subject and predicate
// must be IRIs and the object must be present.
func (t *Triple) Validate() error {
	if _, ok := t.Subject.(*NamedNode); !ok {
		return fmt.Errorf("subject must be an IRI, got %T", t.Subject)
	}
	if _, ok := t.Predicate.(*NamedNode); !ok {
		return fmt.Errorf("predicate must be an IRI, got %T", t.Predicate)
	}
	switch t.Object.(type) {
	case *NamedNode, *Literal:
		return nil
	default:
		return fmt.Errorf("object must be an IRI or literal, got %T", t.Object)
	}
}

// Helper functions for common XSD datatypes
var (
	XSDString  = NewNamedNode("http://www.w3.org/2001/XMLSchema#string")
	XSDInteger = NewNamedNode("http://www.w3.org/2001/XMLSchema#integer")
	XSDDecimal = NewNamedNode("http://www.w3.org/2001/XMLSchema#decimal")
	XSDDouble  = NewNamedNode("http://www.w3.org/2001/XMLSchema#double")
	XSDBoolean = NewNamedNode("http://www.w3.org/2001/XMLSchema#boolean")
	XSDDate    = NewNamedNode("http://www.w3.org/2001/XMLSchema#date")
)

func NewIntegerLiteral(value int64) *Literal {
	return NewLiteralWithDatatype(strconv.FormatInt(value, 10), XSDInteger)
}

func NewDoubleLiteral(value float64) *Literal {
	return NewLiteralWithDatatype(strconv.FormatFloat(value, 'g', -1, 64), XSDDouble)
}

func NewBooleanLiteral(value bool) *Literal {
	return NewLiteralWithDatatype(strconv.FormatBool(value), XSDBoolean)
}

// EscapeString escapes a lexical form for N-Triples output
func EscapeString(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\r")
	s = strings.ReplaceAll(s, "\t", "\\t")
	return s
}
