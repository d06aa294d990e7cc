package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/quadmap/internal/query"
	"github.com/roach88/quadmap/internal/store"
)

// ExistsResult is the JSON payload of the exists command.
type ExistsResult struct {
	ID     string `json:"id"`
	Exists bool   `json:"exists"`
}

// NewDescribeCommand creates the describe command.
func NewDescribeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <entity> <id>",
		Short: "Print every statement about an entity",
		Long: `Print every statement whose subject is the given entity, as N-Quads.

The entity name selects the mapping; named-graph policies apply when the
store supports them.

Example:
  quadmap describe person http://example.org/people/alice`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			e, err := openEnv(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer e.Close()

			obj, err := newResource(args[1])
			if err != nil {
				return failOperation(f, err)
			}

			g, err := e.session.Describe(commandContext(cmd), e.store, obj)
			if err != nil {
				return failOperation(f, err)
			}

			lines, err := g.NQuads()
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeGeneric, err)
			}
			return f.Lines(lines, lines)
		},
	}
}

// NewExistsCommand creates the exists command.
func NewExistsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <entity> <id>",
		Short: "Report whether the store holds an entity",
		Long: `Report whether any statement has the given entity as its subject.

Example:
  quadmap exists person http://example.org/people/alice`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			e, err := openEnv(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer e.Close()

			obj, err := newResource(args[1])
			if err != nil {
				return failOperation(f, err)
			}

			found, err := e.session.Exists(commandContext(cmd), e.store, obj)
			if err != nil {
				return failOperation(f, err)
			}

			if f.Format == "json" {
				return f.Success(ExistsResult{ID: obj.RDFID().String(), Exists: found})
			}
			return f.Success(found)
		},
	}
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <entity>",
		Short: "List every stored instance of an entity",
		Long: `List the identifiers of every resource typed with the entity's class.

Example:
  quadmap list person --mappings ./mappings`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			e, err := openEnv(rootOpts, f, args[0])
			if err != nil {
				return err
			}
			defer e.Close()

			all, err := query.All[*resource](commandContext(cmd), e.session, store.NewManager(e.store, nil))
			if err != nil {
				return failOperation(f, err)
			}

			ids := make([]string, 0, len(all))
			for _, r := range all {
				ids = append(ids, r.RDFID().String())
			}
			f.VerboseLog("%d instance(s) of %s", len(ids), e.metadata.Class)
			return f.Lines(ids, ids)
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
