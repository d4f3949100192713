package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ercasta/hielements/internal/wiring"
	"github.com/ercasta/hielements/parser"
	"github.com/ercasta/hielements/reporter"
)

var checkFormat string

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a Hielements specification (syntax and semantic checks only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(args[0], checkFormat)
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "human", "output format (human, json)")
}

func runCheck(file, format string) error {
	source, err := os.ReadFile(file)
	if err != nil {
		return fail(2, "failed to read file %q: %w", file, err)
	}

	program, parseDiags := parser.Parse(string(source), file)
	in, err := wiring.New(".", logger)
	if err != nil {
		return fail(2, "failed to initialize interpreter: %w", err)
	}
	diags := in.Validate(program, parseDiags, file)

	switch format {
	case "json":
		out := reporter.NewOutput(diags)
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(data))
	default:
		printDiagnosticsHuman(diags)
		if diags.HasErrors() {
			errCount := len(diags.Errors())
			warnCount := len(diags.Warnings())
			suffix := ""
			if warnCount > 0 {
				suffix = fmt.Sprintf("; %d warning(s) emitted", warnCount)
			}
			plural := "s"
			if errCount == 1 {
				plural = ""
			}
			fmt.Fprintf(os.Stderr, "%s: could not validate `%s` due to %d previous error%s%s\n",
				color.RedString("error"), file, errCount, plural, suffix)
		} else if program != nil {
			warnCount := len(diags.Warnings())
			if warnCount > 0 {
				fmt.Printf("%s `%s` validated with %d warning(s)\n", color.GreenString("Finished"), file, warnCount)
			} else {
				fmt.Printf("%s `%s` validated successfully\n", color.GreenString("Finished"), file)
			}
		}
	}

	if diags.HasErrors() {
		return fail(1, "validation failed")
	}
	return nil
}

func printDiagnosticsHuman(diags *reporter.Diagnostics) {
	for _, diag := range diags.All() {
		var severityStr string
		switch diag.Severity {
		case reporter.SeverityError:
			severityStr = color.New(color.FgRed, color.Bold).Sprint("error")
		case reporter.SeverityWarning:
			severityStr = color.New(color.FgYellow, color.Bold).Sprint("warning")
		default:
			severityStr = color.New(color.FgBlue, color.Bold).Sprint("info")
		}

		fmt.Printf("%s%s: %s\n", severityStr, color.New(color.Faint).Sprintf("[%s]", diag.Code), diag.Message)
		fmt.Printf("  %s %s:%d:%d\n", color.BlueString("-->"), diag.File, diag.Span.Start.Line, diag.Span.Start.Column)

		if diag.Context != "" {
			fmt.Printf("   %s\n", color.BlueString("|"))
			fmt.Printf("%3d %s %s\n", diag.Span.Start.Line, color.BlueString("|"), diag.Context)
			fmt.Printf("   %s\n", color.BlueString("|"))
		}
		if diag.Help != "" {
			fmt.Printf("   %s %s: %s\n", color.BlueString("="), "help", diag.Help)
		}
		fmt.Println()
	}
}
