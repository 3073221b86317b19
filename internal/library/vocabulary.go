// Package library holds the library-catalogue vocabulary, a sample dataset
// and the queries run against it.
package library

import "github.com/aleksaelezovic/triq/pkg/rdf"

// Namespace is the base IRI of the library vocabulary and its resources
const Namespace = "http://users.jyu.fi/~tanibir/"

// RDFType is rdf:type
var RDFType = rdf.NewNamedNode("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")

// Classes
var (
	Member = IRI("Member")
	Loan   = IRI("Loan")
	Book   = IRI("Book")
	Genre  = IRI("Genre")
)

// Properties
var (
	MemberID   = IRI("memberID")
	BorrowedBy = IRI("borrowedBy")
	Borrows    = IRI("borrows")
	LoanDate   = IRI("loanDate")
	HasGenre   = IRI("hasGenre")
	HasTitle   = IRI("hasTitle")
	HasAuthor  = IRI("hasAuthor")
	Includes   = IRI("includes")
	Title      = IRI("title")
	Name       = IRI("name")
)

// IRI returns the named node for a local name in the library namespace
func IRI(local string) *rdf.NamedNode {
	return rdf.NewNamedNode(Namespace + local)
}
