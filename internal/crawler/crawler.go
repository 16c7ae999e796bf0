// Package crawler discovers PDF files under a root directory and registers
// them with the document registry in discovery order.
package crawler

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/registry"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/metrics"
)

// Observer is told about each discovered file, synchronously, before the
// walk continues. Implementations must not block indefinitely.
type Observer interface {
	OnDiscover(path string)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(path string)

func (f ObserverFunc) OnDiscover(path string) { f(path) }

type Crawler struct {
	reg     *registry.Registry
	cfg     config.CrawlerConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func New(reg *registry.Registry, cfg config.CrawlerConfig, m *metrics.Metrics) *Crawler {
	return &Crawler{
		reg:     reg,
		cfg:     cfg,
		metrics: m,
		logger:  logger.WithComponent("crawler"),
	}
}

// Crawl walks root recursively and registers every regular file with a
// case-insensitive .pdf extension. It returns the number of documents
// discovered by this call. Unreadable subdirectories are skipped with a
// warning; a missing or non-directory root fails with ErrInvalidRoot.
func (c *Crawler) Crawl(root string, obs Observer) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, apperrors.Newf(apperrors.ErrInvalidRoot, 0, "%s: %v", root, err)
	}
	if !info.IsDir() {
		return 0, apperrors.Newf(apperrors.ErrInvalidRoot, 0, "%s is not a directory", root)
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return 0, apperrors.Newf(apperrors.ErrInvalidRoot, 0, "reading %s: %v", root, err)
	}

	w := &walk{
		c:       c,
		root:    root,
		obs:     obs,
		visited: make(map[string]struct{}),
	}
	if real, err := filepath.EvalSymlinks(root); err == nil {
		w.visited[real] = struct{}{}
	}
	w.visitEntries(root, entries)

	c.logger.Info("crawl complete",
		"root", root,
		"documents", w.found,
		"skipped_dirs", w.skipped,
	)
	return w.found, nil
}

type walk struct {
	c       *Crawler
	root    string
	obs     Observer
	visited map[string]struct{}
	found   int
	skipped int
}

func (w *walk) visitDir(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.skipped++
		w.c.logger.Warn("skipping unreadable directory", "path", dir, "error", err)
		return
	}
	w.visitEntries(dir, entries)
}

func (w *walk) visitEntries(dir string, entries []fs.DirEntry) {
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if w.excluded(path) {
			w.c.logger.Debug("excluded by pattern", "path", path)
			continue
		}
		mode := entry.Type()
		if mode&fs.ModeSymlink != 0 {
			if !w.c.cfg.FollowSymlinks {
				continue
			}
			target, err := os.Stat(path)
			if err != nil {
				w.c.logger.Warn("skipping broken symlink", "path", path, "error", err)
				continue
			}
			mode = target.Mode().Type()
		}

		switch {
		case mode.IsDir():
			if w.seen(path) {
				continue
			}
			w.visitDir(path)
		case mode.IsRegular():
			if isPDFName(entry.Name()) {
				w.discover(path)
			}
		}
	}
}

func (w *walk) discover(path string) {
	id := w.c.reg.Register(path)
	w.found++
	w.c.metrics.DocumentDiscovered()
	w.c.logger.Debug("document discovered", "doc_id", id, "path", path)
	if w.obs != nil {
		w.obs.OnDiscover(path)
	}
}

// seen guards against directory cycles introduced by followed symlinks.
func (w *walk) seen(dir string) bool {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		real = dir
	}
	if _, ok := w.visited[real]; ok {
		return true
	}
	w.visited[real] = struct{}{}
	return false
}

func (w *walk) excluded(path string) bool {
	if len(w.c.cfg.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.c.cfg.Exclude {
		if matched, err := doublestar.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}

// isPDFName reports whether name ends in .pdf, ignoring case. A name whose
// only dot is the leading one (".pdf") is a hidden file, not a document.
func isPDFName(name string) bool {
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 {
		return false
	}
	return strings.EqualFold(name[dot+1:], "pdf")
}
