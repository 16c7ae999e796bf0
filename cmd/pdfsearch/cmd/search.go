package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/engine"
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
)

type searchOptions struct {
	limit     int
	format    string
	dir       string
	reindex   bool
	noSnippet bool
}

type searchHit struct {
	DocID      int    `json:"doc_id"`
	Path       string `json:"path"`
	PageNum    int    `json:"page_num"`
	ByteOffset int64  `json:"byte_offset"`
	Snippet    string `json:"snippet,omitempty"`
	Stale      bool   `json:"stale,omitempty"`
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var so searchOptions

	cmd := &cobra.Command{
		Use:   "search <word>",
		Short: "Search the index for an exact word",
		Long: `Look up a single word (case-insensitive, exact match) and print
every occurrence with its document, page, and surrounding text.

If no usable index exists and --dir is given, the directory is indexed
first. --reindex forces a fresh index even when one exists.

Examples:
  pdfsearch search acme
  pdfsearch search contract --dir ~/papers --limit 5
  pdfsearch search invoice --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd.OutOrStdout(), opts, so, args[0])
		},
	}

	cmd.Flags().IntVarP(&so.limit, "limit", "n", 0, "Maximum number of occurrences to print (0 = all)")
	cmd.Flags().StringVarP(&so.format, "format", "f", "text", "Output format: text, json")
	cmd.Flags().StringVarP(&so.dir, "dir", "d", "", "Directory to index when no usable index exists")
	cmd.Flags().BoolVar(&so.reindex, "reindex", false, "Rebuild the index from --dir before searching")
	cmd.Flags().BoolVar(&so.noSnippet, "no-snippet", false, "Skip snippet extraction")

	return cmd
}

func runSearch(out io.Writer, opts *globalOptions, so searchOptions, word string) error {
	if so.format != "text" && so.format != "json" {
		return apperrors.Newf(apperrors.ErrInvalidInput, 0, "unknown format %q", so.format)
	}
	e, err := openEngine(opts, so)
	if err != nil {
		return err
	}
	defer e.Close()

	results := e.Search(word)
	if so.limit > 0 && len(results) > so.limit {
		results = results[:so.limit]
	}

	hits := make([]searchHit, 0, len(results))
	for _, r := range results {
		path, err := e.ResolveDocumentPath(r.DocID)
		if err != nil {
			return err
		}
		hit := searchHit{DocID: r.DocID, Path: path, PageNum: r.PageNum, ByteOffset: r.ByteOffset}
		if !so.noSnippet {
			snip, err := e.Snippet(r.DocID, r.PageNum, r.ByteOffset)
			switch {
			case err == nil:
				hit.Snippet = snip
			case errors.Is(err, apperrors.ErrStaleOffset):
				hit.Stale = true
			default:
				slog.Warn("snippet unavailable", "path", path, "error", err)
			}
		}
		hits = append(hits, hit)
	}

	if so.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(hits)
	}
	printHits(out, hits)
	return nil
}

// openEngine loads the saved index, falling back to indexing so.dir when the
// index is missing, corrupt, or a rebuild was requested.
func openEngine(opts *globalOptions, so searchOptions) (*engine.Engine, error) {
	if !so.reindex {
		e, err := engine.Load(opts.cfg.IndexPath(), opts.cfg, opts.engineOptions()...)
		if err == nil {
			return e, nil
		}
		if so.dir == "" {
			if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrFormat) {
				return nil, fmt.Errorf("%w (run 'pdfsearch index <directory>' or pass --dir)", err)
			}
			return nil, err
		}
		slog.Warn("no usable index, rebuilding", "path", opts.cfg.IndexPath(), "error", err)
	} else if so.dir == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, 0, "--reindex requires --dir")
	}
	e, report, err := buildIndex(opts, so.dir, io.Discard)
	if err != nil {
		return nil, err
	}
	slog.Info("index rebuilt", "succeeded", report.Succeeded, "failed", report.Failed)
	return e, nil
}

func printHits(w io.Writer, hits []searchHit) {
	if len(hits) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}
	plural := "s"
	if len(hits) == 1 {
		plural = ""
	}
	fmt.Fprintf(w, "Found %d occurrence%s:\n\n", len(hits), plural)
	for i, h := range hits {
		fmt.Fprintf(w, "%d. %s - Page %d\n", i+1, filepath.Base(h.Path), h.PageNum+1)
		switch {
		case h.Stale:
			fmt.Fprintln(w, "    (source changed since indexing)")
		case h.Snippet != "":
			fmt.Fprintf(w, "    ...%s...\n", h.Snippet)
		}
		fmt.Fprintln(w)
	}
}
