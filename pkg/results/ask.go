package results

import (
	"fmt"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/pkg/errors"

	"github.com/aleksaelezovic/triq/pkg/sparql/executor"
)

// SPARQL 1.1 Query Results formats for boolean results
// https://www.w3.org/TR/sparql11-results-json/
// https://www.w3.org/TR/rdf-sparql-XMLres/
// https://www.w3.org/TR/sparql11-results-csv-tsv/

type askJSON struct {
	Head    askHead `json:"head"`
	Boolean bool    `json:"boolean"`
}

type askHead struct {
	Vars []string `json:"vars"`
}

const askXMLTemplate = `<?xml version="1.0"?>
<sparql xmlns="http://www.w3.org/2005/sparql-results#">
  <head/>
  <boolean>%s</boolean>
</sparql>
`

// FormatAsk converts an ASK result to the named format
func FormatAsk(result *executor.AskResult, format string) ([]byte, error) {
	if result == nil {
		return nil, errors.New("nil ask result")
	}
	value := strconv.FormatBool(result.Result)

	switch format {
	case FormatJSON:
		data, err := json.Marshal(askJSON{Head: askHead{Vars: []string{}}, Boolean: result.Result})
		if err != nil {
			return nil, errors.Wrap(err, "marshal ask result")
		}
		return append(data, '\n'), nil
	case FormatXML:
		return []byte(fmt.Sprintf(askXMLTemplate, value)), nil
	case FormatCSV:
		return []byte("result\r\n" + value + "\r\n"), nil
	case FormatTSV:
		return []byte("?result\n" + value + "\n"), nil
	case FormatText:
		return []byte(value + "\n"), nil
	default:
		return nil, &UnsupportedFormatError{Format: format, Supported: AskFormats}
	}
}
