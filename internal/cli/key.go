package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/quadmap/internal/rdfid"
)

// KeyResult is the JSON payload of the key command.
type KeyResult struct {
	Input string `json:"input"`
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Term  string `json:"term"`
}

// NewKeyCommand creates the key command.
func NewKeyCommand(rootOpts *RootOptions) *cobra.Command {
	var urn bool

	cmd := &cobra.Command{
		Use:   "key [value]",
		Short: "Classify a primary key as a URI or blank node",
		Long: `Classify a primary key the way entity lookups do.

An absolute URI is normalised to ASCII. A short label becomes a blank node.
Anything else is rejected as an invalid key.

Example:
  quadmap key http://example.org/people/alice
  quadmap key b1
  quadmap key --urn`,
		Args:          cobra.RangeArgs(0, 1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			var id rdfid.ID
			var input string
			switch {
			case urn:
				id = rdfid.NewURN()
			case len(args) == 1:
				input = args[0]
				var err error
				id, err = rdfid.AsPrimaryKey(input)
				if err == nil {
					id, err = rdfid.Resolve(id)
				}
				if err != nil {
					return f.Fail(ExitFailure, ErrCodeInvalidKey, err)
				}
			default:
				return f.Fail(ExitCommandError, ErrCodeGeneric, fmt.Errorf("key requires a value or --urn"))
			}

			res := KeyResult{Input: input, Kind: id.Kind().String(), ID: id.String(), Term: id.Term()}
			if f.Format == "json" {
				return f.Success(res)
			}
			return f.Success(fmt.Sprintf("%s %s", res.Kind, res.Term))
		},
	}

	cmd.Flags().BoolVar(&urn, "urn", false, "mint a new time-ordered urn:uuid identifier")

	return cmd
}
