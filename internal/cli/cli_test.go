package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func newGolden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "triq", cmd.Use)

	for _, name := range []string{"list", "ask", "construct", "describe", "run", "demo"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"config", "format", "log-level", "stats"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
	assert.Equal(t, "c", cmd.PersistentFlags().Lookup("config").Shorthand)
	assert.Equal(t, "false", cmd.PersistentFlags().Lookup("stats").DefValue)
}

func TestAsk(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "default member", args: []string{"ask"}, want: "true\n"},
		{name: "member with one loan", args: []string{"ask", "456"}, want: "false\n"},
		{name: "unknown member", args: []string{"ask", "999"}, want: "false\n"},
		{name: "json", args: []string{"ask", "--format", "json"}, want: "{\"head\":{\"vars\":[]},\"boolean\":true}\n"},
		{name: "tsv", args: []string{"ask", "-f", "tsv", "456"}, want: "?result\nfalse\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConstruct(t *testing.T) {
	out, err := execute(t, "construct")
	require.NoError(t, err)
	newGolden(t).Assert(t, "construct", []byte(out))
}

func TestConstructJSONLD(t *testing.T) {
	out, err := execute(t, "construct", "--format", "jsonld")
	require.NoError(t, err)

	var doc []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc, 5)
	// Node objects come out sorted by @id
	assert.Equal(t, "http://users.jyu.fi/~tanibir/Book1", doc[0]["@id"])
	assert.Equal(t, "http://users.jyu.fi/~tanibir/Genre2", doc[4]["@id"])
	assert.Len(t, doc[3]["http://users.jyu.fi/~tanibir/includes"], 2)

	path := filepath.Join(t.TempDir(), "triq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  graph_format: jsonld\n"), 0o644))

	fromConfig, err := execute(t, "--config", path, "describe", "Book2")
	require.NoError(t, err)
	assert.Contains(t, fromConfig, `"@id": "http://users.jyu.fi/~tanibir/Book2"`)
	assert.Contains(t, fromConfig, `"@value": "Isaac Asimov"`)
}

func TestDescribe(t *testing.T) {
	out, err := execute(t, "describe", "Book2")
	require.NoError(t, err)
	newGolden(t).Assert(t, "describe_book2", []byte(out))

	full, err := execute(t, "describe", "<http://users.jyu.fi/~tanibir/Book2>")
	require.NoError(t, err)
	assert.Equal(t, out, full)
}

func TestDescribeDefaultAndMember(t *testing.T) {
	byDefault, err := execute(t, "describe")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(byDefault), "\n"), 6)

	// Member 456 borrowed only Book1, the default resource
	byMember, err := execute(t, "describe", "--member", "456")
	require.NoError(t, err)
	assert.Equal(t, byDefault, byMember)

	_, err = execute(t, "describe", "--member", "456", "Book2")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestDescribeUnknownResource(t *testing.T) {
	out, err := execute(t, "describe", "Nobody")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRun(t *testing.T) {
	out, err := execute(t, "run", "multiple-loans")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	_, err = execute(t, "run", "no-such-query")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no-such-query")
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	for _, name := range []string{"borrowed-books", "describe-book", "genre-catalog", "multiple-loans"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "ASK {")
}

func TestDemo(t *testing.T) {
	out, err := execute(t, "demo")
	require.NoError(t, err)
	assert.Contains(t, out, "# multiple-loans:")
	assert.Contains(t, out, "# genre-catalog:")
	assert.Contains(t, out, "\ntrue\n")

	// A format that fits only ASK results falls back for graph results
	out, err = execute(t, "demo", "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"boolean":true`)
	assert.Contains(t, out, "<http://users.jyu.fi/~tanibir/includes>")
}

func TestFormatMismatch(t *testing.T) {
	_, err := execute(t, "ask", "--format", "ntriples")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "construct", "--format", "xml")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestStats(t *testing.T) {
	out, err := execute(t, "--stats", "ask")
	require.NoError(t, err)
	assert.Contains(t, out, "# stats\n")
	assert.Contains(t, out, "triq_queries_total form=ask status=ok 1\n")
	assert.Contains(t, out, "triq_rows_scanned_total ")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "triq.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  ask_format: csv\nmetrics:\n  enabled: false\n"), 0o644))

	out, err := execute(t, "--config", path, "ask")
	require.NoError(t, err)
	assert.Equal(t, "result\r\ntrue\r\n", out)

	// Flag wins over the file
	out, err = execute(t, "--config", path, "--format", "text", "ask")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	// Metrics disabled: --stats prints nothing
	out, err = execute(t, "--config", path, "--stats", "ask")
	require.NoError(t, err)
	assert.NotContains(t, out, "# stats")
}

func TestConfigErrors(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "ask")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = execute(t, "--log-level", "trace", "ask")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "log.level")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, GetExitCode(nil))
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))

	wrapped := WrapExitError(ExitFailure, "query failed", assert.AnError)
	assert.ErrorIs(t, wrapped, assert.AnError)
	assert.Equal(t, "query failed: "+assert.AnError.Error(), wrapped.Error())
}

func TestDebugLogging(t *testing.T) {
	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs([]string{"--log-level", "debug", "ask"})
	require.NoError(t, cmd.Execute())

	logs := stderr.String()
	assert.Contains(t, logs, "level=debug")
	assert.Contains(t, logs, `msg="query executed"`)
	assert.Contains(t, logs, "caller=")
}
