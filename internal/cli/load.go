package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// LoadResult is the JSON payload of the load command.
type LoadResult struct {
	Files    int   `json:"files"`
	Read     int64 `json:"read"`
	Inserted int64 `json:"inserted"`
	Total    int64 `json:"total"`
}

// NewLoadCommand creates the load command.
func NewLoadCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <file.nq>...",
		Short: "Import N-Quads into the quad store",
		Long: `Import N-Quads files into the local quad store. Use - for stdin.

Statements already present are skipped.

Example:
  quadmap load --db ./quadmap.db people.nq
  cat people.nq | quadmap load -`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runLoad(opts *RootOptions, files []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	ctx := commandContext(cmd)

	st, err := openStore(opts)
	if err != nil {
		return f.Fail(ExitCommandError, ErrCodeStoreFailed, err)
	}
	defer st.Close()

	var res LoadResult
	for _, path := range files {
		read, inserted, err := loadFile(ctx, cmd.InOrStdin(), path, st.Load)
		if err != nil {
			return f.Fail(ExitFailure, ErrCodeStoreFailed, fmt.Errorf("%s: %w", path, err))
		}
		f.VerboseLog("%s: read %d, inserted %d", path, read, inserted)
		res.Files++
		res.Read += read
		res.Inserted += inserted
	}

	res.Total, err = st.Count(ctx)
	if err != nil {
		return f.Fail(ExitFailure, ErrCodeStoreFailed, err)
	}

	if f.Format == "json" {
		return f.Success(res)
	}
	return f.Success(fmt.Sprintf("loaded %d statement(s) from %d file(s), %d new, %d total",
		res.Read, res.Files, res.Inserted, res.Total))
}

type loader func(ctx context.Context, r io.Reader) (read, inserted int64, err error)

func loadFile(ctx context.Context, stdin io.Reader, path string, load loader) (int64, int64, error) {
	if path == "-" {
		return load(ctx, stdin)
	}
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()
	return load(ctx, file)
}
