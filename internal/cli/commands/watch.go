package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/schemagen/internal/cli/ui"
	"github.com/conduit-lang/schemagen/internal/compiler/cache"
	"github.com/conduit-lang/schemagen/internal/compiler/pipeline"
	"github.com/conduit-lang/schemagen/internal/watch"
)

// NewWatchCommand creates the watch command, which regenerates the output
// file every time the schema changes
func NewWatchCommand(global *globalFlags) *cobra.Command {
	gen := &generateFlags{}
	var delay time.Duration

	cmd := &cobra.Command{
		Use:   "watch <schema>",
		Short: "Regenerate the output whenever the schema changes",
		Long: `Generate once, then keep regenerating the --out file each time the
schema is saved. A failed run is reported and leaves the last good
output in place. Stop with Ctrl+C.`,
		Example: `  schemagen watch player.json --out player.ts`,
		Args:    exactArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, gen)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg, global)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			s := &watchSession{
				opts:    pipelineOptions(args[0], cfg, logger),
				out:     gen.out,
				stdout:  cmd.OutOrStdout(),
				stderr:  cmd.ErrOrStderr(),
				noColor: global.noColor,
				logger:  logger,
				seen:    cache.NewTracker(),
			}
			return s.run(ctx, delay)
		},
	}

	addGenerateFlags(cmd, gen)
	cmd.Flags().StringVarP(&gen.out, "out", "o", "", "File to keep up to date")
	cmd.Flags().DurationVar(&delay, "delay", watch.DefaultDelay, "How long to wait for writes to settle")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// watchSession owns one watch loop; regenerations never overlap
type watchSession struct {
	opts    pipeline.Options
	out     string
	stdout  io.Writer
	stderr  io.Writer
	noColor bool
	logger  *zap.Logger
	seen    *cache.Tracker

	mu   sync.Mutex
	runs int
}

// run generates once, then on every change until ctx is done
func (s *watchSession) run(ctx context.Context, delay time.Duration) error {
	s.regenerate()

	watcher, err := watch.NewFileWatcher([]string{s.opts.Path}, delay, s.logger, func([]string) {
		s.regenerate()
	})
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		watcher.Stop()
		return err
	}
	s.logger.Info("watching", zap.String("schema", s.opts.Path), zap.String("out", s.out))

	<-ctx.Done()
	return watcher.Stop()
}

// regenerate runs the pipeline and replaces the output file. It reports
// whether the output was written; a schema identical to the last good one
// is skipped.
func (s *watchSession) regenerate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.opts.Path)
	if err != nil {
		report(s.stderr, fmt.Errorf("failed to read schema: %w", err), s.noColor)
		return false
	}
	if s.seen.Unchanged(s.opts.Path, raw) {
		s.logger.Debug("schema unchanged", zap.String("schema", s.opts.Path))
		return false
	}
	s.runs++

	res, err := pipeline.Generate(s.opts.Path, raw, s.opts)
	if err != nil {
		s.seen.Forget(s.opts.Path)
		report(s.stderr, err, s.noColor)
		return false
	}
	if err := writeOutput(s.out, res.Lines); err != nil {
		s.seen.Forget(s.opts.Path)
		report(s.stderr, err, s.noColor)
		return false
	}
	s.seen.Record(s.opts.Path, raw)
	ui.WriteSuccess(s.stdout, fmt.Sprintf("Wrote %s (run %d)", s.out, s.runs), s.noColor)
	return true
}
