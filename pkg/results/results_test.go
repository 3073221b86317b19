package results_test

import (
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleksaelezovic/triq/internal/library"
	"github.com/aleksaelezovic/triq/pkg/rdf"
	"github.com/aleksaelezovic/triq/pkg/results"
	"github.com/aleksaelezovic/triq/pkg/sparql/executor"
)

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func genreCatalog() *executor.GraphResult {
	book := library.IRI
	return &executor.GraphResult{Triples: []*rdf.Triple{
		rdf.NewTriple(book("Genre2"), library.Includes, book("Book3")),
		rdf.NewTriple(book("Book3"), library.Title, rdf.NewLiteralWithLanguage("Taru sormusten herrasta", "fi")),
		rdf.NewTriple(book("Genre1"), library.Includes, book("Book1")),
		rdf.NewTriple(book("Book1"), library.Title, rdf.NewLiteral("Dune")),
		rdf.NewTriple(book("Genre1"), library.Includes, book("Book2")),
		rdf.NewTriple(book("Book2"), library.Title, rdf.NewLiteral("Foundation")),
	}}
}

func TestFormatAsk(t *testing.T) {
	g := newGolden(t)

	for _, format := range results.AskFormats {
		t.Run(format, func(t *testing.T) {
			data, err := results.FormatAsk(&executor.AskResult{Result: true}, format)
			require.NoError(t, err)
			g.Assert(t, "ask_true."+format, data)
		})
	}
}

func TestFormatAskFalse(t *testing.T) {
	tests := map[string]string{
		results.FormatJSON: "{\"head\":{\"vars\":[]},\"boolean\":false}\n",
		results.FormatCSV:  "result\r\nfalse\r\n",
		results.FormatTSV:  "?result\nfalse\n",
		results.FormatText: "false\n",
	}

	for format, want := range tests {
		t.Run(format, func(t *testing.T) {
			data, err := results.FormatAsk(&executor.AskResult{Result: false}, format)
			require.NoError(t, err)
			assert.Equal(t, want, string(data))
		})
	}
}

func TestFormatGraphNTriples(t *testing.T) {
	data, err := results.FormatGraph(genreCatalog(), results.FormatNTriples)
	require.NoError(t, err)
	newGolden(t).Assert(t, "genre_catalog.ntriples", data)
}

func TestFormatGraphNTriplesEscapes(t *testing.T) {
	result := &executor.GraphResult{Triples: []*rdf.Triple{
		rdf.NewTriple(library.IRI("Book1"), library.HasTitle, rdf.NewLiteral("say \"hi\"\n")),
		rdf.NewTriple(library.IRI("Book1"), library.IRI("pages"), rdf.NewIntegerLiteral(412)),
	}}

	data, err := results.FormatGraph(result, results.FormatNTriples)
	require.NoError(t, err)
	assert.Equal(t,
		"<http://users.jyu.fi/~tanibir/Book1> <http://users.jyu.fi/~tanibir/hasTitle> \"say \\\"hi\\\"\\n\" .\n"+
			"<http://users.jyu.fi/~tanibir/Book1> <http://users.jyu.fi/~tanibir/pages> \"412\"^^<http://www.w3.org/2001/XMLSchema#integer> .\n",
		string(data))
}

func TestFormatGraphEmpty(t *testing.T) {
	data, err := results.FormatGraph(&executor.GraphResult{Triples: []*rdf.Triple{}}, results.FormatNTriples)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFormatGraphJSONLDGolden(t *testing.T) {
	data, err := results.FormatGraph(genreCatalog(), results.FormatJSONLD)
	require.NoError(t, err)
	newGolden(t).Assert(t, "genre_catalog.jsonld", data)
}

func TestFormatGraphJSONLD(t *testing.T) {
	data, err := results.FormatGraph(genreCatalog(), results.FormatJSONLD)
	require.NoError(t, err)

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	nodes := map[string]map[string]any{}
	for _, node := range doc {
		id, ok := node["@id"].(string)
		require.True(t, ok)
		nodes[id] = node
	}
	require.Len(t, nodes, 5)

	titles, ok := nodes[library.Namespace+"Book3"][library.Title.IRI].([]any)
	require.True(t, ok)
	require.Len(t, titles, 1)
	assert.Equal(t, map[string]any{"@value": "Taru sormusten herrasta", "@language": "fi"}, titles[0])

	includes, ok := nodes[library.Namespace+"Genre1"][library.Includes.IRI].([]any)
	require.True(t, ok)
	assert.ElementsMatch(t, []any{
		map[string]any{"@id": library.Namespace + "Book1"},
		map[string]any{"@id": library.Namespace + "Book2"},
	}, includes)

	dune := nodes[library.Namespace+"Book1"][library.Title.IRI].([]any)
	assert.Equal(t, map[string]any{"@value": "Dune"}, dune[0])
}

func TestFormatGraphJSONLDTypedLiteral(t *testing.T) {
	result := &executor.GraphResult{Triples: []*rdf.Triple{
		rdf.NewTriple(library.IRI("Book1"), library.IRI("pages"), rdf.NewIntegerLiteral(412)),
	}}

	data, err := results.FormatGraph(result, results.FormatJSONLD)
	require.NoError(t, err)

	var doc []map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc, 1)
	assert.Equal(t, []any{map[string]any{"@value": "412", "@type": rdf.XSDInteger.IRI}},
		doc[0][library.Namespace+"pages"])
}

func TestFormatGraphJSONLDEmpty(t *testing.T) {
	data, err := results.FormatGraph(&executor.GraphResult{Triples: []*rdf.Triple{}}, results.FormatJSONLD)
	require.NoError(t, err)

	var doc []any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Empty(t, doc)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := results.FormatAsk(&executor.AskResult{Result: true}, results.FormatNTriples)
	var unsupported *results.UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, `unsupported format "ntriples" (supported: json, xml, csv, tsv, text)`, err.Error())

	_, err = results.FormatGraph(genreCatalog(), "turtle")
	require.ErrorAs(t, err, &unsupported)
	assert.Equal(t, results.GraphFormats, unsupported.Supported)
}

func TestFormatDispatch(t *testing.T) {
	ask := &executor.AskResult{Result: true}
	graph := genreCatalog()

	data, err := results.Format(ask, results.FormatText)
	require.NoError(t, err)
	assert.Equal(t, "true\n", string(data))

	_, err = results.Format(graph, results.FormatNTriples)
	require.NoError(t, err)

	assert.True(t, results.SupportsFormat(ask, results.FormatCSV))
	assert.False(t, results.SupportsFormat(ask, results.FormatJSONLD))
	assert.True(t, results.SupportsFormat(graph, results.FormatJSONLD))
	assert.False(t, results.SupportsFormat(graph, results.FormatJSON))
}

func TestNilResult(t *testing.T) {
	_, err := results.FormatAsk(nil, results.FormatJSON)
	assert.Error(t, err)
	_, err = results.FormatGraph(nil, results.FormatNTriples)
	assert.Error(t, err)
}
