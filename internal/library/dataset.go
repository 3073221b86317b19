package library

import "github.com/aleksaelezovic/triq/pkg/rdf"

// SampleDataset returns a small catalogue: two members, three loans and
// three books in two genres. Member "123" holds two loans, member "456" one.
func SampleDataset() []*rdf.Triple {
	t := rdf.NewTriple
	lit := rdf.NewLiteral
	date := func(v string) rdf.Term { return rdf.NewLiteralWithDatatype(v, rdf.XSDDate) }

	return []*rdf.Triple{
		// Members
		t(IRI("Member1"), RDFType, Member),
		t(IRI("Member1"), MemberID, lit("123")),
		t(IRI("Member1"), Name, lit("Aino Virtanen")),
		t(IRI("Member2"), RDFType, Member),
		t(IRI("Member2"), MemberID, lit("456")),
		t(IRI("Member2"), Name, lit("Matti Korhonen")),

		// Genres
		t(IRI("Genre1"), RDFType, Genre),
		t(IRI("Genre1"), Name, lit("Science Fiction")),
		t(IRI("Genre2"), RDFType, Genre),
		t(IRI("Genre2"), Name, lit("Fantasy")),

		// Books
		t(IRI("Book1"), RDFType, Book),
		t(IRI("Book1"), HasTitle, lit("Dune")),
		t(IRI("Book1"), HasAuthor, lit("Frank Herbert")),
		t(IRI("Book1"), HasGenre, IRI("Genre1")),
		t(IRI("Book2"), RDFType, Book),
		t(IRI("Book2"), HasTitle, lit("Foundation")),
		t(IRI("Book2"), HasAuthor, lit("Isaac Asimov")),
		t(IRI("Book2"), HasGenre, IRI("Genre1")),
		t(IRI("Book3"), RDFType, Book),
		t(IRI("Book3"), HasTitle, rdf.NewLiteralWithLanguage("Taru sormusten herrasta", "fi")),
		t(IRI("Book3"), HasAuthor, lit("J. R. R. Tolkien")),
		t(IRI("Book3"), HasGenre, IRI("Genre2")),

		// Loans
		t(IRI("Loan1"), RDFType, Loan),
		t(IRI("Loan1"), BorrowedBy, IRI("Member1")),
		t(IRI("Loan1"), Borrows, IRI("Book1")),
		t(IRI("Loan1"), LoanDate, date("2024-03-01")),
		t(IRI("Loan2"), RDFType, Loan),
		t(IRI("Loan2"), BorrowedBy, IRI("Member1")),
		t(IRI("Loan2"), Borrows, IRI("Book3")),
		t(IRI("Loan2"), LoanDate, date("2024-03-15")),
		t(IRI("Loan3"), RDFType, Loan),
		t(IRI("Loan3"), BorrowedBy, IRI("Member2")),
		t(IRI("Loan3"), Borrows, IRI("Book1")),
		t(IRI("Loan3"), LoanDate, date("2024-04-02")),
	}
}
