package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/schemagen/internal/cli/config"
	"github.com/conduit-lang/schemagen/internal/cli/logging"
	"github.com/conduit-lang/schemagen/internal/cli/ui"
	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
	"github.com/conduit-lang/schemagen/internal/compiler/extension"
	"github.com/conduit-lang/schemagen/internal/compiler/pipeline"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// Exit statuses
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// errReported marks an error whose message was already written
var errReported = errors.New("error already reported")

// configError wraps configuration problems so they render as such
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// globalFlags are shared by every command
type globalFlags struct {
	verbose bool
	noColor bool
}

// generateFlags override configuration values for one run
type generateFlags struct {
	out        string
	topLevel   string
	supertype  string
	noValidate bool
}

// NewRootCommand creates the root command. Given one schema path it prints
// the generated TypeScript.
func NewRootCommand() *cobra.Command {
	global := &globalFlags{}
	gen := &generateFlags{}

	rootCmd := &cobra.Command{
		Use:   "schemagen <schema>",
		Short: "Generate TypeScript classes from a JSON Schema",
		Long: color.CyanString(`schemagen - JSON Schema to TypeScript

Reads one JSON Schema document (JSON or YAML) and prints TypeScript
declarations for it, one line at a time.

Schema extensions:
  • "gameObject": true   the class extends GameObject
  • "default": <value>   the property is initialized to the value`),
		Args:          exactArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], global, gen)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "Log at debug level")
	rootCmd.PersistentFlags().BoolVar(&global.noColor, "no-color", false, "Disable colored output")
	addGenerateFlags(rootCmd, gen)
	rootCmd.Flags().StringVarP(&gen.out, "out", "o", "", "Write the output to a file instead of stdout")

	rootCmd.AddCommand(NewVersionCommand(global))
	rootCmd.AddCommand(NewInspectCommand(global))
	rootCmd.AddCommand(NewInitCommand(global))
	rootCmd.AddCommand(NewWatchCommand(global))

	return rootCmd
}

func addGenerateFlags(cmd *cobra.Command, gen *generateFlags) {
	cmd.Flags().StringVar(&gen.topLevel, "top-level", "", "Name of the root type (default: schema file name)")
	cmd.Flags().StringVar(&gen.supertype, "supertype", "", "Class that marked classes extend")
	cmd.Flags().BoolVar(&gen.noValidate, "no-validate", false, "Skip meta-schema validation")
}

// exactArgs requires the single schema argument
func exactArgs(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return cerrors.NewUsageError(cmd.UseLine(), len(args))
	}
	return nil
}

func runGenerate(cmd *cobra.Command, path string, global *globalFlags, gen *generateFlags) error {
	cfg, err := loadConfig(cmd, gen)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg, global)
	if err != nil {
		return err
	}
	defer logger.Sync()

	res, err := pipeline.Run(pipelineOptions(path, cfg, logger))
	if err != nil {
		return err
	}

	if gen.out != "" {
		if err := writeOutput(gen.out, res.Lines); err != nil {
			return err
		}
		logger.Info("output written", zap.String("path", gen.out))
		return nil
	}

	w := cmd.OutOrStdout()
	for _, line := range res.Lines {
		fmt.Fprintln(w, line)
	}
	return nil
}

// writeOutput writes lines to path, each terminated by a newline
func writeOutput(path string, lines []string) error {
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// loadConfig reads schemagen.yml and applies command line overrides
func loadConfig(cmd *cobra.Command, gen *generateFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, &configError{err: err}
	}
	if cmd.Flags().Changed("top-level") {
		cfg.TopLevel = gen.topLevel
	}
	if cmd.Flags().Changed("supertype") {
		cfg.Supertype = gen.supertype
	}
	if gen.noValidate {
		cfg.ValidateSchema = false
	}
	if err := config.Validate(cfg); err != nil {
		return nil, &configError{err: err}
	}
	return cfg, nil
}

func newLogger(cmd *cobra.Command, cfg *config.Config, global *globalFlags) (*zap.Logger, error) {
	level := cfg.LogLevel
	if global.verbose {
		level = "debug"
	}
	logger, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return nil, &configError{err: err}
	}
	return logger, nil
}

func pipelineOptions(path string, cfg *config.Config, logger *zap.Logger) pipeline.Options {
	return pipeline.Options{
		Path:     path,
		TopLevel: cfg.TopLevel,
		Extension: extension.Options{
			MarkerKey:  cfg.MarkerKey,
			DefaultKey: cfg.DefaultKey,
			Supertype:  cfg.Supertype,
		},
		ValidateSchema: cfg.ValidateSchema,
		Indent:         cfg.Indent,
		Logger:         logger,
	}
}

// NewVersionCommand creates the version command
func NewVersionCommand(global *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the schemagen version, Git commit, build date, and Go version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			// Set GoVersion to actual runtime if not set at build time
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), global.noColor)
			kv.AddRow("schemagen version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.Render()
		},
	}
}

// Run executes the command line with args and returns the exit status.
// Errors are reported on stderr; stdout only ever receives generated output.
func Run(args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if err == nil {
		return ExitOK
	}
	noColor, _ := rootCmd.PersistentFlags().GetBool("no-color")
	report(stderr, err, noColor)
	return ExitCode(err)
}

// Execute runs the root command against the process arguments
func Execute() int {
	return Run(os.Args[1:], os.Stdout, os.Stderr)
}

// ExitCode maps an error to the process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case cerrors.HasCode(err, cerrors.ErrUsage):
		return ExitUsage
	default:
		return ExitError
	}
}

func report(w io.Writer, err error, noColor bool) {
	var cfgErr *configError
	switch {
	case errors.Is(err, errReported):
	case cerrors.HasCode(err, cerrors.ErrUsage):
		ce, _ := cerrors.As(err)
		fmt.Fprintln(w, ce.Message)
	case errors.As(err, &cfgErr):
		fmt.Fprint(w, ui.ConfigError(cfgErr.Error(), noColor))
	default:
		if _, ok := cerrors.As(err); ok {
			fmt.Fprint(w, ui.GenerationError(err, noColor))
			return
		}
		errorColor := color.New(color.FgRed, color.Bold)
		if noColor {
			errorColor.DisableColor()
		}
		errorColor.Fprintf(w, "Error: %v\n", err)
	}
}
