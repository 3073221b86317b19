package results

import (
	"fmt"
	"strings"

	"github.com/aleksaelezovic/triq/pkg/sparql/executor"
)

// Output formats
const (
	FormatJSON     = "json"
	FormatXML      = "xml"
	FormatCSV      = "csv"
	FormatTSV      = "tsv"
	FormatText     = "text"
	FormatNTriples = "ntriples"
	FormatJSONLD   = "jsonld"
)

var (
	// AskFormats are the formats accepted by FormatAsk
	AskFormats = []string{FormatJSON, FormatXML, FormatCSV, FormatTSV, FormatText}
	// GraphFormats are the formats accepted by FormatGraph
	GraphFormats = []string{FormatNTriples, FormatJSONLD}
)

// UnsupportedFormatError is returned for a format the result kind cannot be written in
type UnsupportedFormatError struct {
	Format    string
	Supported []string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format %q (supported: %s)", e.Format, strings.Join(e.Supported, ", "))
}

// Format serializes any query result, dispatching on its kind
func Format(result executor.QueryResult, format string) ([]byte, error) {
	switch r := result.(type) {
	case *executor.AskResult:
		return FormatAsk(r, format)
	case *executor.GraphResult:
		return FormatGraph(r, format)
	default:
		return nil, fmt.Errorf("unsupported result type %T", result)
	}
}

// SupportsFormat reports whether results of the given kind can be written in format
func SupportsFormat(result executor.QueryResult, format string) bool {
	var formats []string
	switch result.(type) {
	case *executor.AskResult:
		formats = AskFormats
	case *executor.GraphResult:
		formats = GraphFormats
	}
	for _, f := range formats {
		if f == format {
			return true
		}
	}
	return false
}
