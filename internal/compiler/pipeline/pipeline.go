// Package pipeline runs one generation: parse and build the type graph with
// the extension's producers, combine, then render with its hooks.
package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/conduit-lang/schemagen/internal/compiler/codegen"
	"github.com/conduit-lang/schemagen/internal/compiler/extension"
	"github.com/conduit-lang/schemagen/internal/compiler/typegraph"
)

// Options configures a run.
type Options struct {
	// Path is the schema document Run reads
	Path string
	// TopLevel names the root type; empty derives it from the document name
	TopLevel       string
	Extension      extension.Options
	ValidateSchema bool
	Indent         int
	Logger         *zap.Logger
}

// Result is the outcome of a successful run
type Result struct {
	Lines []string
	Graph *typegraph.Graph
	// Names maps every class and enum to its declared name
	Names     map[*typegraph.Node]string
	Extension *extension.Extension
}

// Run reads opts.Path and generates code for it
func Run(opts Options) (*Result, error) {
	raw, err := os.ReadFile(opts.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}
	return Generate(opts.Path, raw, opts)
}

// Generate runs the pipeline on an in-memory document. Any error aborts the
// run; there is no partial result.
func Generate(name string, raw []byte, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("source", name))

	ext := extension.New(opts.Extension)
	topLevel := opts.TopLevel
	if topLevel == "" {
		topLevel = typegraph.TopLevelName(name)
	}

	start := time.Now()
	builder := typegraph.NewBuilder(typegraph.Options{
		ValidateSchema: opts.ValidateSchema,
		Logger:         logger,
	})
	if err := builder.AddNamedSource(topLevel, name, raw, ext.Producers()...); err != nil {
		return nil, err
	}
	logger.Debug("type graph built", zap.Duration("elapsed", time.Since(start)))

	graph, err := builder.Finish()
	if err != nil {
		return nil, err
	}
	classes, enums := 0, 0
	graph.Walk(func(n *typegraph.Node) {
		switch n.Kind {
		case typegraph.KindClass:
			classes++
		case typegraph.KindEnum:
			enums++
		}
	})
	logger.Debug("type graph combined", zap.Int("classes", classes), zap.Int("enums", enums))

	gen := codegen.NewGenerator(codegen.Options{
		Indent:   opts.Indent,
		Hooks:    ext.Hooks(),
		Reserved: ext.Reserved(),
	})
	lines, err := gen.Generate(graph)
	if err != nil {
		return nil, err
	}

	logger.Info("generation complete",
		zap.String("top_level", topLevel),
		zap.Int("lines", len(lines)),
		zap.Duration("elapsed", time.Since(start)))
	return &Result{Lines: lines, Graph: graph, Names: gen.Names(), Extension: ext}, nil
}
