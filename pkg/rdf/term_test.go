package rdf

import (
	"strings"
	"testing"
)

// ===== NamedNode Tests =====

func TestNamedNode_Type(t *testing.T) {
	node := NewNamedNode("http://users.jyu.fi/~tanibir/Book1")
	if node.Type() != TermTypeNamedNode {
		t.Errorf("Expected TermTypeNamedNode, got %v", node.Type())
	}
}

func TestNamedNode_String(t *testing.T) {
	node := NewNamedNode("http://users.jyu.fi/~tanibir/Book1")
	expected := "<http://users.jyu.fi/~tanibir/Book1>"
	if node.String() != expected {
		t.Errorf("Expected %s, got %s", expected, node.String())
	}
}

func TestNamedNode_Equals(t *testing.T) {
	node1 := NewNamedNode("http://users.jyu.fi/~tanibir/Book1")
	node2 := NewNamedNode("http://users.jyu.fi/~tanibir/Book1")
	node3 := NewNamedNode("http://users.jyu.fi/~tanibir/Book2")

	if !node1.Equals(node2) {
		t.Error("Expected equal NamedNodes to be equal")
	}

	if node1.Equals(node3) {
		t.Error("Expected different NamedNodes to not be equal")
	}

	literal := NewLiteral("http://users.jyu.fi/~tanibir/Book1")
	if node1.Equals(literal) {
		t.Error("NamedNode should not equal Literal")
	}
}

// ===== Literal Tests =====

func TestLiteral_String(t *testing.T) {
	tests := []struct {
		name     string
		literal  *Literal
		expected string
	}{
		{
			name:     "plain literal",
			literal:  NewLiteral("Dune"),
			expected: "\"Dune\"",
		},
		{
			name:     "literal with language",
			literal:  NewLiteralWithLanguage("Dune", "EN"),
			expected: "\"Dune\"@en",
		},
		{
			name:     "literal with datatype",
			literal:  NewLiteralWithDatatype("42", XSDInteger),
			expected: "\"42\"^^<http://www.w3.org/2001/XMLSchema#integer>",
		},
		{
			name:     "xsd:string prints as plain",
			literal:  NewLiteralWithDatatype("123", XSDString),
			expected: "\"123\"",
		},
		{
			name:     "escaped characters",
			literal:  NewLiteral("say \"hi\"\n"),
			expected: "\"say \\\"hi\\\"\\n\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.literal.String()
			if result != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, result)
			}
		})
	}
}

func TestLiteral_Equals(t *testing.T) {
	lit1 := NewLiteral("123")
	lit2 := NewLiteral("123")
	lit3 := NewLiteral("456")

	if !lit1.Equals(lit2) {
		t.Error("Expected equal plain literals to be equal")
	}
	if lit1.Equals(lit3) {
		t.Error("Expected different plain literals to not be equal")
	}

	// A plain literal and an explicit xsd:string are the same term
	if !lit1.Equals(NewLiteralWithDatatype("123", XSDString)) {
		t.Error("Expected plain literal to equal xsd:string literal")
	}

	litLang1 := NewLiteralWithLanguage("Dune", "en")
	litLang2 := NewLiteralWithLanguage("Dune", "en")
	litLang3 := NewLiteralWithLanguage("Dune", "fi")

	if !litLang1.Equals(litLang2) {
		t.Error("Expected equal language-tagged literals to be equal")
	}
	if litLang1.Equals(litLang3) {
		t.Error("Expected literals with different languages to not be equal")
	}
	if !litLang1.Equals(&Literal{Value: "Dune", Language: "EN"}) {
		t.Error("Expected language tags to compare case-insensitively")
	}
	if litLang1.Equals(NewLiteral("Dune")) {
		t.Error("Language-tagged literal should not equal plain literal")
	}

	litType1 := NewLiteralWithDatatype("123", XSDInteger)
	litType2 := NewLiteralWithDatatype("123", XSDInteger)

	if !litType1.Equals(litType2) {
		t.Error("Expected equal typed literals to be equal")
	}
	if litType1.Equals(lit1) {
		t.Error("Expected integer literal to differ from plain literal")
	}
	if litType1.Equals(NewLiteralWithDatatype("123", XSDDecimal)) {
		t.Error("Expected literals with different datatypes to not be equal")
	}

	if lit1.Equals(NewNamedNode("123")) {
		t.Error("Literal should not equal NamedNode")
	}
}

// ===== Triple Tests =====

func TestTriple_String(t *testing.T) {
	triple := NewTriple(
		NewNamedNode("http://users.jyu.fi/~tanibir/Book1"),
		NewNamedNode("http://users.jyu.fi/~tanibir/hasTitle"),
		NewLiteral("Dune"),
	)
	expected := "<http://users.jyu.fi/~tanibir/Book1> <http://users.jyu.fi/~tanibir/hasTitle> \"Dune\" ."

	if triple.String() != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, triple.String())
	}
}

func TestTriple_Equals(t *testing.T) {
	book := NewNamedNode("http://users.jyu.fi/~tanibir/Book1")
	title := NewNamedNode("http://users.jyu.fi/~tanibir/hasTitle")

	a := NewTriple(book, title, NewLiteral("Dune"))
	b := NewTriple(NewNamedNode(book.IRI), NewNamedNode(title.IRI), NewLiteral("Dune"))
	c := NewTriple(book, title, NewLiteral("Emma"))

	if !a.Equals(b) {
		t.Error("Expected value-equal triples to be equal")
	}
	if a.Equals(c) {
		t.Error("Expected triples with different objects to differ")
	}
	if a.Equals(nil) {
		t.Error("Triple should not equal nil")
	}
}

func TestTriple_Validate(t *testing.T) {
	book := NewNamedNode("http://users.jyu.fi/~tanibir/Book1")
	title := NewNamedNode("http://users.jyu.fi/~tanibir/hasTitle")

	tests := []struct {
		name    string
		triple  *Triple
		wantErr string
	}{
		{name: "valid", triple: NewTriple(book, title, NewLiteral("Dune"))},
		{name: "iri object", triple: NewTriple(book, title, book)},
		{name: "literal subject", triple: NewTriple(NewLiteral("x"), title, book), wantErr: "subject"},
		{name: "literal predicate", triple: NewTriple(book, NewLiteral("x"), book), wantErr: "predicate"},
		{name: "missing object", triple: NewTriple(book, title, nil), wantErr: "object"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.triple.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %q, got %v", tt.wantErr, err)
			}
		})
	}
}

// ===== Typed Literal Constructor Tests =====

func TestNewIntegerLiteral(t *testing.T) {
	lit := NewIntegerLiteral(42)

	if lit.Value != "42" {
		t.Errorf("Expected value '42', got '%s'", lit.Value)
	}
	if lit.Datatype == nil || lit.Datatype.IRI != XSDInteger.IRI {
		t.Errorf("Expected datatype %s", XSDInteger.IRI)
	}
}

func TestNewDoubleLiteral(t *testing.T) {
	lit := NewDoubleLiteral(3.14)

	if lit.Value != "3.14" {
		t.Errorf("Expected value '3.14', got '%s'", lit.Value)
	}
	if lit.Datatype == nil || lit.Datatype.IRI != XSDDouble.IRI {
		t.Errorf("Expected datatype %s", XSDDouble.IRI)
	}
}

func TestNewBooleanLiteral(t *testing.T) {
	litTrue := NewBooleanLiteral(true)
	litFalse := NewBooleanLiteral(false)

	if litTrue.Value != "true" {
		t.Errorf("Expected value 'true', got '%s'", litTrue.Value)
	}
	if litFalse.Value != "false" {
		t.Errorf("Expected value 'false', got '%s'", litFalse.Value)
	}
	if litTrue.Datatype == nil || litTrue.Datatype.IRI != XSDBoolean.IRI {
		t.Errorf("Expected datatype %s", XSDBoolean.IRI)
	}
}

// ===== Edge Case Tests =====

func TestLiteral_EmptyString(t *testing.T) {
	lit := NewLiteral("")
	if lit.String() != "\"\"" {
		t.Errorf("Expected \"\", got %s", lit.String())
	}
}

func TestNamedNode_EmptyIRI(t *testing.T) {
	node := NewNamedNode("")
	if node.String() != "<>" {
		t.Errorf("Expected <>, got %s", node.String())
	}
}
