package cli

import (
	"fmt"

	"github.com/go-kit/log/level"

	"github.com/aleksaelezovic/triq/pkg/results"
	"github.com/aleksaelezovic/triq/pkg/sparql/executor"
	"github.com/aleksaelezovic/triq/pkg/sparql/query"
)

// runQuery executes q and writes its result. When strict is false an explicit
// --format that does not fit the result kind falls back to the configured one.
func (e *env) runQuery(q *query.Query, strict bool) error {
	level.Debug(e.logger).Log("msg", "running query", "query", q.String())

	result, err := e.executor.Execute(q)
	if err != nil {
		return WrapExitError(ExitFailure, "query failed", err)
	}

	format, err := e.formatFor(result, strict)
	if err != nil {
		return err
	}

	data, err := results.Format(result, format)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to format result", err)
	}
	if _, err := e.out.Write(data); err != nil {
		return WrapExitError(ExitFailure, "failed to write result", err)
	}
	return nil
}

func (e *env) formatFor(result executor.QueryResult, strict bool) (string, error) {
	configured := e.opts.config.Output.GraphFormat
	if _, ok := result.(*executor.AskResult); ok {
		configured = e.opts.config.Output.AskFormat
	}

	requested := e.opts.Format
	switch {
	case requested == "":
		return configured, nil
	case results.SupportsFormat(result, requested):
		return requested, nil
	case strict:
		return "", NewExitError(ExitCommandError,
			fmt.Sprintf("format %q does not apply to this query", requested))
	default:
		level.Warn(e.logger).Log("msg", "format does not apply, using configured format",
			"format", requested, "using", configured)
		return configured, nil
	}
}
