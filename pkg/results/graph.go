package results

import (
	"sort"
	"strings"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"

	"github.com/aleksaelezovic/triq/pkg/rdf"
	"github.com/aleksaelezovic/triq/pkg/sparql/executor"
)

const (
	defaultGraph  = "@default"
	nquadsFormat  = "application/n-quads"
	rdfLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// FormatGraph converts a CONSTRUCT or DESCRIBE result to the named format
func FormatGraph(result *executor.GraphResult, format string) ([]byte, error) {
	if result == nil {
		return nil, errors.New("nil graph result")
	}

	switch format {
	case FormatNTriples:
		return formatNTriples(result.Triples), nil
	case FormatJSONLD:
		return formatJSONLD(result.Triples)
	default:
		return nil, &UnsupportedFormatError{Format: format, Supported: GraphFormats}
	}
}

// N-Triples
// https://www.w3.org/TR/n-triples/
// Lines are sorted so the same graph always serializes the same way.
func formatNTriples(triples []*rdf.Triple) []byte {
	lines := make([]string, len(triples))
	for i, triple := range triples {
		lines[i] = triple.String()
	}
	sort.Strings(lines)

	var builder strings.Builder
	for _, line := range lines {
		builder.WriteString(line)
		builder.WriteByte('\n')
	}
	return []byte(builder.String())
}

// JSON-LD 1.1, expanded document form
// https://www.w3.org/TR/json-ld11/
func formatJSONLD(triples []*rdf.Triple) ([]byte, error) {
	dataset, err := toDataset(triples)
	if err != nil {
		return nil, err
	}

	// FromRDF looks up a serializer by Format; the N-Quads one passes
	// an *ld.RDFDataset through unchanged.
	opts := ld.NewJsonLdOptions("")
	opts.Format = nquadsFormat

	proc := ld.NewJsonLdProcessor()
	doc, err := proc.FromRDF(dataset, opts)
	if err != nil {
		return nil, errors.Wrap(err, "convert graph to JSON-LD")
	}

	data, err := json.Marshal(doc, json.Deterministic(true), jsontext.WithIndent("  "))
	if err != nil {
		return nil, errors.Wrap(err, "marshal JSON-LD document")
	}
	return append(data, '\n'), nil
}

func toDataset(triples []*rdf.Triple) (*ld.RDFDataset, error) {
	dataset := ld.NewRDFDataset()
	quads := make([]*ld.Quad, 0, len(triples))

	for i, triple := range triples {
		subject, err := toNode(triple.Subject)
		if err != nil {
			return nil, errors.Wrapf(err, "triple %d subject", i)
		}
		predicate, err := toNode(triple.Predicate)
		if err != nil {
			return nil, errors.Wrapf(err, "triple %d predicate", i)
		}
		object, err := toNode(triple.Object)
		if err != nil {
			return nil, errors.Wrapf(err, "triple %d object", i)
		}
		quads = append(quads, ld.NewQuad(subject, predicate, object, defaultGraph))
	}

	dataset.Graphs[defaultGraph] = quads
	return dataset, nil
}

func toNode(term rdf.Term) (ld.Node, error) {
	switch t := term.(type) {
	case *rdf.NamedNode:
		return ld.NewIRI(t.IRI), nil
	case *rdf.Literal:
		switch {
		case t.Language != "":
			return ld.NewLiteral(t.Value, rdfLangString, t.Language), nil
		case t.IsPlain():
			return ld.NewLiteral(t.Value, rdf.XSDString.IRI, ""), nil
		default:
			return ld.NewLiteral(t.Value, t.Datatype.IRI, ""), nil
		}
	default:
		return nil, errors.Errorf("unsupported term %T", term)
	}
}
