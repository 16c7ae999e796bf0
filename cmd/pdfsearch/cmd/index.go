package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/crawler"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/engine"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/indexer"
)

func newIndexCmd(opts *globalOptions) *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "index <directory>",
		Short: "Crawl a directory, index every PDF, and save the index",
		Long: `Crawl a directory recursively for PDF files, extract and index
their text, and write the index snapshot to the data directory.

Any existing index is replaced atomically once the new one is complete.

Examples:
  pdfsearch index ~/papers
  pdfsearch index ./docs --data-dir /tmp/pdfindex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if quiet {
				out = io.Discard
			}
			e, report, err := buildIndex(opts, args[0], out)
			if err != nil {
				return err
			}
			defer e.Close()
			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print each discovered file")
	return cmd
}

// buildIndex creates a fresh engine over root, indexes it, and saves it.
func buildIndex(opts *globalOptions, root string, out io.Writer) (*engine.Engine, indexer.Report, error) {
	progress := func(p indexer.Progress) {
		if p.Err != nil {
			fmt.Fprintf(out, "Indexing [%d/%d]: %s (failed: %v)\n", p.Position, p.Total, p.Path, p.Err)
			return
		}
		fmt.Fprintf(out, "Indexing [%d/%d]: %s\n", p.Position, p.Total, p.Path)
	}
	e := engine.New(opts.cfg, opts.engineOptions(engine.WithProgress(progress))...)

	found := crawler.ObserverFunc(func(path string) {
		fmt.Fprintf(out, "Found PDF: %s\n", path)
	})
	if _, err := e.Crawl(root, found); err != nil {
		e.Close()
		return nil, indexer.Report{}, err
	}
	report, err := e.IndexAll()
	if err != nil {
		e.Close()
		return nil, indexer.Report{}, err
	}
	if err := e.Save(opts.cfg.IndexPath()); err != nil {
		e.Close()
		return nil, indexer.Report{}, err
	}
	return e, report, nil
}

func printReport(w io.Writer, r indexer.Report) {
	fmt.Fprintf(w, "Indexed %d of %d documents (%d failed), %d pages, %d occurrences in %s\n",
		r.Succeeded, r.Attempted, r.Failed, r.Pages, r.Occurrences, r.Duration.Round(time.Millisecond))
	for _, f := range r.Failures {
		fmt.Fprintf(w, "  failed: %s: %v\n", f.Path, f.Err)
	}
}
