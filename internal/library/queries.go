package library

import (
	"fmt"
	"sort"

	"github.com/aleksaelezovic/triq/pkg/rdf"
	"github.com/aleksaelezovic/triq/pkg/sparql/query"
)

// DefaultMemberID is the member checked by the catalogue's ASK query
const DefaultMemberID = "123"

// DefaultBook is the resource described by the catalogue's DESCRIBE query
var DefaultBook = IRI("Book1")

// MultipleLoansQuery asks whether the member with the given id has two distinct loans:
//
//	ASK { ?m ex:memberID "id" . ?loan1 ex:borrowedBy ?m . ?loan2 ex:borrowedBy ?m .
//	      FILTER(?loan1 != ?loan2) }
func MultipleLoansQuery(memberID string) *query.Query {
	where := query.NewGraphPattern(
		query.NewTriplePattern(query.Var("m"), query.Fixed(MemberID), query.Fixed(rdf.NewLiteral(memberID))),
		query.NewTriplePattern(query.Var("loan1"), query.Fixed(BorrowedBy), query.Var("m")),
		query.NewTriplePattern(query.Var("loan2"), query.Fixed(BorrowedBy), query.Var("m")),
	).WithFilter(query.NotEqual(query.VarExpr("loan1"), query.VarExpr("loan2")))

	return query.NewAsk(where)
}

// GenreCatalogQuery groups books under their genres:
//
//	CONSTRUCT { ?genre ex:includes ?book . ?book ex:title ?title }
//	WHERE { ?book ex:hasGenre ?genre . ?book ex:hasTitle ?title }
func GenreCatalogQuery() *query.Query {
	template := []*query.TriplePattern{
		query.NewTriplePattern(query.Var("genre"), query.Fixed(Includes), query.Var("book")),
		query.NewTriplePattern(query.Var("book"), query.Fixed(Title), query.Var("title")),
	}
	where := query.NewGraphPattern(
		query.NewTriplePattern(query.Var("book"), query.Fixed(HasGenre), query.Var("genre")),
		query.NewTriplePattern(query.Var("book"), query.Fixed(HasTitle), query.Var("title")),
	)
	return query.NewConstruct(template, where)
}

// DescribeBookQuery describes the given resources: DESCRIBE <iri> ...
func DescribeBookQuery(iris ...*rdf.NamedNode) *query.Query {
	terms := make([]rdf.Term, len(iris))
	for i, iri := range iris {
		terms[i] = iri
	}
	return query.NewDescribe(terms...)
}

// BorrowedBooksQuery describes every book borrowed by the member with the given id:
//
//	DESCRIBE ?book WHERE { ?m ex:memberID "id" . ?loan ex:borrowedBy ?m . ?loan ex:borrows ?book }
func BorrowedBooksQuery(memberID string) *query.Query {
	where := query.NewGraphPattern(
		query.NewTriplePattern(query.Var("m"), query.Fixed(MemberID), query.Fixed(rdf.NewLiteral(memberID))),
		query.NewTriplePattern(query.Var("loan"), query.Fixed(BorrowedBy), query.Var("m")),
		query.NewTriplePattern(query.Var("loan"), query.Fixed(Borrows), query.Var("book")),
	)
	return query.NewDescribeWhere([]query.TermOrVariable{query.Var("book")}, where)
}

// Entry is a named query of the catalogue
type Entry struct {
	Name        string
	Description string
	Query       *query.Query
}

// Catalog returns the named queries, sorted by name
func Catalog() []Entry {
	entries := []Entry{
		{
			Name:        "multiple-loans",
			Description: fmt.Sprintf("ASK whether member %q has at least two distinct loans", DefaultMemberID),
			Query:       MultipleLoansQuery(DefaultMemberID),
		},
		{
			Name:        "genre-catalog",
			Description: "CONSTRUCT genre membership and titles of every book",
			Query:       GenreCatalogQuery(),
		},
		{
			Name:        "describe-book",
			Description: "DESCRIBE " + DefaultBook.String(),
			Query:       DescribeBookQuery(DefaultBook),
		},
		{
			Name:        "borrowed-books",
			Description: fmt.Sprintf("DESCRIBE every book borrowed by member %q", DefaultMemberID),
			Query:       BorrowedBooksQuery(DefaultMemberID),
		},
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// Lookup returns the catalogue entry with the given name
func Lookup(name string) (Entry, bool) {
	for _, e := range Catalog() {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}
