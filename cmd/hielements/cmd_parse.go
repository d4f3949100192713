package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ercasta/hielements/internal/wiring"
	"github.com/ercasta/hielements/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a file and print the AST (for debugging)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runParse(args[0])
	},
}

func runParse(file string) error {
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

	if diags.HasErrors() {
		for _, d := range diags.Errors() {
			fmt.Fprintf(os.Stderr, "%s: %s\n", color.RedString("error"), d.Message)
		}
		return fail(1, "parse failed")
	}

	if program != nil {
		data, err := json.MarshalIndent(program, "", "  ")
		if err != nil {
			return fail(2, "failed to serialize program: %w", err)
		}
		fmt.Println(string(data))
	}
	return nil
}
