// Package cmd provides the CLI commands for pdfsearch.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/engine"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/internal/snapshot"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/pdf-search-engine/pkg/metrics"
)

type globalOptions struct {
	configPath string
	dataDir    string
	logLevel   string

	cfg             *config.Config
	metrics         *metrics.Metrics
	metricsShutdown func(context.Context) error
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return apperrors.ExitCode(err)
	}
	return apperrors.ExitOK
}

// NewRootCmd creates the root command for the pdfsearch CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "pdfsearch",
		Short: "Full-text search over a directory of PDF files",
		Long: `pdfsearch crawls a directory for PDF files, builds a word-level
inverted index with page and byte-offset precision, saves it to disk,
and answers exact-word queries with surrounding context.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return opts.teardown()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Directory holding the index (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	cmd.AddCommand(newIndexCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newSnippetCmd(opts))
	cmd.AddCommand(newDocsCmd(opts))

	return cmd
}

func (o *globalOptions) setup() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return apperrors.Newf(apperrors.ErrInvalidInput, apperrors.ExitUsage, "%v", err)
	}
	if o.dataDir != "" {
		cfg.Engine.DataDir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	o.cfg = cfg

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr)
	if cfg.Metrics.Enabled {
		o.metrics = metrics.New(nil)
		checker := health.NewChecker(0)
		checker.Register("index", indexCheck(cfg.IndexPath()))
		o.metricsShutdown = metrics.StartServer(cfg.Metrics.Port, checker.Handler())
	}
	return nil
}

func indexCheck(path string) health.Check {
	return func(context.Context) (string, error) {
		h, err := snapshot.ReadHeader(path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d documents, %d words", h.DocCount, h.TermCount), nil
	}
}

func (o *globalOptions) teardown() error {
	if o.metricsShutdown == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.metricsShutdown(ctx); err != nil {
		slog.Error("metrics server shutdown", "error", err)
	}
	return nil
}

func (o *globalOptions) engineOptions(extra ...engine.Option) []engine.Option {
	opts := []engine.Option{engine.WithMetrics(o.metrics)}
	return append(opts, extra...)
}
