package library

import (
	"testing"

	"github.com/aleksaelezovic/triq/pkg/sparql/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleDatasetValid(t *testing.T) {
	seen := map[string]bool{}
	for _, triple := range SampleDataset() {
		require.NoError(t, triple.Validate(), triple.String())
		assert.False(t, seen[triple.String()], "duplicate %s", triple)
		seen[triple.String()] = true
	}
}

func TestCatalogQueriesValidate(t *testing.T) {
	entries := Catalog()
	require.NotEmpty(t, entries)

	for i, e := range entries {
		t.Run(e.Name, func(t *testing.T) {
			assert.NoError(t, e.Query.Validate())
			assert.NotEmpty(t, e.Description)
			if i > 0 {
				assert.Less(t, entries[i-1].Name, e.Name)
			}

			found, ok := Lookup(e.Name)
			require.True(t, ok)
			assert.Equal(t, e.Name, found.Name)
		})
	}

	_, ok := Lookup("no-such-query")
	assert.False(t, ok)
}

func TestMultipleLoansQueryShape(t *testing.T) {
	q := MultipleLoansQuery("456")
	require.Equal(t, query.FormAsk, q.Form)
	require.Len(t, q.Ask.Where.Patterns, 3)
	require.Len(t, q.Ask.Where.Filters, 1)

	assert.Equal(t, `"456"`, q.Ask.Where.Patterns[0].Object.Term.String())
	assert.Equal(t, "(?loan1 != ?loan2)", q.Ask.Where.Filters[0].Expression.String())
}

func TestDescribeBookQuery(t *testing.T) {
	q := DescribeBookQuery(IRI("Book1"), IRI("Book2"))
	require.Equal(t, query.FormDescribe, q.Form)
	assert.Len(t, q.Describe.Resources, 2)
	assert.Nil(t, q.Describe.Where)
	assert.Equal(t, "DESCRIBE <"+Namespace+"Book1> <"+Namespace+"Book2>", q.String())
}

func TestIRI(t *testing.T) {
	assert.Equal(t, "http://users.jyu.fi/~tanibir/borrowedBy", BorrowedBy.IRI)
}
