package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	cerrors "github.com/conduit-lang/schemagen/internal/compiler/errors"
)

// ErrorLevel represents the severity of an error message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Location     string
	Details      []string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError creates a standardized error message
//
// Example output:
//
//	❌ SCHEMA EXTENSION TYPE [ATR200]: Extension property "gameObject" at player.json#/properties/a must be a boolean
//	   --> player.json#/properties/a
//
//	   expected: boolean
//	   actual:   string
//
//	   → Set "gameObject" to a boolean value or remove it
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string
	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	}
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)
	if opts.NoColor {
		for _, c := range []*color.Color{headerColor, bodyColor, cyan, yellow} {
			c.DisableColor()
		}
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}
	if opts.Location != "" {
		cyan.Fprintf(&b, "   --> %s\n", opts.Location)
	}

	if len(opts.Details) > 0 {
		b.WriteString("\n")
		for _, d := range opts.Details {
			bodyColor.Fprintf(&b, "   %s\n", d)
		}
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// GenerationError renders a pipeline failure. Compiler errors show their
// code, location and suggestion; other errors are shown as is.
func GenerationError(err error, noColor bool) string {
	ce, ok := cerrors.As(err)
	if !ok {
		return FormatError(ErrorOptions{
			Level:   ErrorLevelError,
			Context: "GENERATION FAILED",
			Problem: err.Error(),
			NoColor: noColor,
		})
	}

	opts := ErrorOptions{
		Level:    levelOf(ce.Severity),
		Context:  strings.ReplaceAll(ce.Type, "_", " ") + " [" + string(ce.Code) + "]",
		Problem:  ce.Message,
		Location: ce.Reference,
		NoColor:  noColor,
	}
	if ce.Expected != "" {
		opts.Details = append(opts.Details, "expected: "+ce.Expected)
	}
	if ce.Actual != "" {
		opts.Details = append(opts.Details, "actual:   "+ce.Actual)
	}
	if ce.Cause != nil {
		opts.Details = append(opts.Details, "cause:    "+ce.Cause.Error())
	}
	if ce.Suggestion != "" {
		opts.HelpCommands = append(opts.HelpCommands, ce.Suggestion)
	}
	return FormatError(opts)
}

// TypeNotFoundError reports an unknown generated type name
func TypeNotFoundError(name string, known []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "TYPE NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find type '%s'.", name),
		Suggestions: FindSimilar(name, known, nil),
		HelpCommands: []string{
			"See all types: schemagen inspect <schema>",
		},
		NoColor: noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONFIGURATION ERROR",
		Problem: message,
		HelpCommands: []string{
			"View config: cat schemagen.yml",
			"Recreate it: schemagen init --force",
		},
		NoColor: noColor,
	})
}

func levelOf(s cerrors.ErrorSeverity) ErrorLevel {
	switch s {
	case cerrors.SeverityWarning:
		return ErrorLevelWarning
	case cerrors.SeverityInfo:
		return ErrorLevelInfo
	}
	return ErrorLevelError
}
