package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/engine"
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
)

func newDocsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "List indexed documents and index statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := engine.Load(opts.cfg.IndexPath(), opts.cfg, opts.engineOptions()...)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			for _, d := range e.Documents() {
				fmt.Fprintf(out, "%4d  %4d pages  %s\n", d.ID, d.PageCount, d.Path)
			}
			st := e.Stats()
			fmt.Fprintf(out, "\n%d documents, %d words, %d occurrences\n", st.Documents, st.Terms, st.Occurrences)
			return nil
		},
	}
}

func newSnippetCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "snippet <doc_id> <page> <byte_offset>",
		Short: "Print the text around one recorded occurrence",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums := make([]int64, len(args))
			for i, a := range args {
				n, err := strconv.ParseInt(a, 10, 64)
				if err != nil {
					return apperrors.Newf(apperrors.ErrInvalidInput, 0, "argument %d: %v", i+1, err)
				}
				nums[i] = n
			}
			e, err := engine.Load(opts.cfg.IndexPath(), opts.cfg, opts.engineOptions()...)
			if err != nil {
				return err
			}
			defer e.Close()

			text, err := e.Snippet(int(nums[0]), int(nums[1]), nums[2])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
