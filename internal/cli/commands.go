package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aleksaelezovic/triq/internal/library"
	"github.com/aleksaelezovic/triq/pkg/rdf"
)

// NewListCommand prints the query catalogue.
func NewListCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the named queries of the catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, entry := range library.Catalog() {
				fmt.Fprintf(out, "%-16s %s\n", entry.Name, entry.Description)
				fmt.Fprintf(out, "%-16s %s\n", "", entry.Query.String())
			}
			return nil
		},
	}
}

// NewAskCommand asks whether a member has more than one loan.
func NewAskCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [member-id]",
		Short: "Ask whether a member has at least two distinct loans",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID := library.DefaultMemberID
			if len(args) == 1 {
				memberID = args[0]
			}
			return runEnv(cmd, opts, func(e *env) error {
				return e.runQuery(library.MultipleLoansQuery(memberID), true)
			})
		},
	}
}

// NewConstructCommand builds the genre catalogue graph.
func NewConstructCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "construct",
		Short: "Construct genre membership and titles of every book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv(cmd, opts, func(e *env) error {
				return e.runQuery(library.GenreCatalogQuery(), true)
			})
		},
	}
}

// NewDescribeCommand describes resources by IRI or by local name.
func NewDescribeCommand(opts *RootOptions) *cobra.Command {
	var member string

	cmd := &cobra.Command{
		Use:   "describe [iri...]",
		Short: "Describe resources, or every book borrowed by --member",
		Long: "Describe prints every triple touching the given resources. Arguments are\n" +
			"absolute IRIs or local names in the library namespace (e.g. Book1).",
		RunE: func(cmd *cobra.Command, args []string) error {
			if member != "" && len(args) > 0 {
				return NewExitError(ExitCommandError, "--member cannot be combined with resource arguments")
			}

			q := library.DescribeBookQuery(library.DefaultBook)
			switch {
			case member != "":
				q = library.BorrowedBooksQuery(member)
			case len(args) > 0:
				q = library.DescribeBookQuery(resolveIRIs(args)...)
			}
			return runEnv(cmd, opts, func(e *env) error {
				return e.runQuery(q, true)
			})
		},
	}

	cmd.Flags().StringVarP(&member, "member", "m", "", "describe the books borrowed by this member id")
	return cmd
}

// NewRunCommand runs a catalogue query by name.
func NewRunCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run <name>",
		Short: "Run a named query from the catalogue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, ok := library.Lookup(args[0])
			if !ok {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("unknown query %q (see 'triq list')", args[0]))
			}
			return runEnv(cmd, opts, func(e *env) error {
				return e.runQuery(entry.Query, true)
			})
		},
	}
}

// NewDemoCommand runs every catalogue query in turn.
func NewDemoCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run every query of the catalogue against the sample dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEnv(cmd, opts, func(e *env) error {
				for i, entry := range library.Catalog() {
					if i > 0 {
						fmt.Fprintln(e.out)
					}
					fmt.Fprintf(e.out, "# %s: %s\n", entry.Name, entry.Description)
					if err := e.runQuery(entry.Query, false); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func resolveIRIs(args []string) []*rdf.NamedNode {
	iris := make([]*rdf.NamedNode, len(args))
	for i, arg := range args {
		arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<"), ">")
		if strings.Contains(arg, "://") {
			iris[i] = rdf.NewNamedNode(arg)
		} else {
			iris[i] = library.IRI(arg)
		}
	}
	return iris
}
