package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ercasta/hielements/ast"
	"github.com/ercasta/hielements/interpreter"
	"github.com/ercasta/hielements/internal/wiring"
	"github.com/ercasta/hielements/library"
	"github.com/ercasta/hielements/parser"
	"github.com/ercasta/hielements/reporter"
)

var (
	runWorkspace string
	runFormat    string
	runDryRun    bool
	runVerbose   bool
	runFilter    string
	runLimit     int
)

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run checks defined in a Hielements specification",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRun(args[0])
	},
}

func init() {
	runCmd.Flags().StringVarP(&runWorkspace, "workspace", "w", "", "workspace directory (defaults to the file's directory)")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "human", "output format (human, json)")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "show what would be checked without running")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "show progress as each check runs")
	runCmd.Flags().StringVar(&runFilter, "filter", "", "filter checks by element path substring")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "limit the number of checks run (0 means unlimited)")
}

func runRun(file string) error {
	source, err := os.ReadFile(file)
	if err != nil {
		return fail(2, "failed to read file %q: %w", file, err)
	}

	workspaceDir := runWorkspace
	if workspaceDir == "" {
		if dir := filepath.Dir(file); dir != "" && dir != "." {
			workspaceDir = dir
		} else {
			workspaceDir = "."
		}
	}

	if runVerbose {
		fmt.Fprintf(os.Stderr, "[verbose] Workspace directory: %s\n", workspaceDir)
		if runFilter != "" {
			fmt.Fprintf(os.Stderr, "[verbose] Filter: %s\n", runFilter)
		}
		if runLimit > 0 {
			fmt.Fprintf(os.Stderr, "[verbose] Limit: %d checks\n", runLimit)
		}
	}

	program, parseDiags := parser.Parse(string(source), file)
	in, err := wiring.New(workspaceDir, logger)
	if err != nil {
		return fail(2, "failed to initialize interpreter: %w", err)
	}
	diags := in.Validate(program, parseDiags, file)

	if diags.HasErrors() {
		if runFormat == "json" {
			data, _ := json.MarshalIndent(reporter.NewOutput(diags), "", "  ")
			fmt.Println(string(data))
		} else {
			for _, d := range diags.Errors() {
				fmt.Fprintf(os.Stderr, "%s[%s]: %s\n", color.RedString("error"), d.Code, d.Message)
				fmt.Fprintf(os.Stderr, "  %s %s:%d:%d\n", color.BlueString("-->"), d.File, d.Span.Start.Line, d.Span.Start.Column)
			}
		}
		return fail(1, "validation failed")
	}

	if program == nil {
		return fail(1, "failed to parse file")
	}

	if runDryRun {
		fmt.Printf("%s Dry run - showing checks that would be executed:\n\n", color.BlueString("Info"))
		for _, elem := range program.Elements {
			printElementChecksDryRun(elem, 0)
		}
		return nil
	}

	opts := interpreter.RunOptions{Filter: runFilter, Limit: runLimit, Verbose: runVerbose}
	output := in.RunWithOptions(program, opts)

	switch runFormat {
	case "json":
		printRunJSON(file, output)
	default:
		printRunHuman(file, output)
	}

	if output.Failed > 0 || output.Errors > 0 {
		return fail(1, "checks failed")
	}
	return nil
}

func printElementChecksDryRun(elem ast.Element, indent int) {
	prefix := strings.Repeat("  ", indent)
	fmt.Printf("%selement %s:\n", prefix, color.CyanString(elem.Name.Name))
	for _, s := range elem.Scopes {
		fmt.Printf("%s  scope %s = ...\n", prefix, color.BlueString(s.Name.Name))
	}
	for _, r := range elem.Refs {
		fmt.Printf("%s  ref %s%s = ...\n", prefix, color.MagentaString(r.Name.Name), color.YellowString(": "+r.TypeAnnotation.Name))
	}
	for _, u := range elem.Uses {
		target := make([]string, len(u.Target))
		for i, id := range u.Target {
			target[i] = id.Name
		}
		fmt.Printf("%s  %s uses %s\n", prefix, color.BlueString(u.Source.Name), color.CyanString(strings.Join(target, ".")))
	}
	for range elem.Checks {
		fmt.Printf("%s  %s check ...\n", prefix, color.GreenString("->"))
	}
	for _, child := range elem.Children {
		printElementChecksDryRun(child, indent+1)
	}
}

func printRunJSON(file string, output *interpreter.CheckOutput) {
	status := "ok"
	if output.Failed != 0 || output.Errors != 0 {
		status = "error"
	}
	type result struct {
		Element string  `json:"element"`
		Check   string  `json:"check"`
		Status  string  `json:"status"`
		Message *string `json:"message"`
	}
	results := make([]result, len(output.Results))
	for i, r := range output.Results {
		var msg *string
		if r.Status != library.StatusPass {
			m := r.Message
			msg = &m
		}
		results[i] = result{Element: r.ElementPath, Check: r.CheckExpr, Status: r.Status.String(), Message: msg}
	}
	payload := struct {
		Version string `json:"version"`
		Status  string `json:"status"`
		Summary struct {
			Total  int `json:"total"`
			Passed int `json:"passed"`
			Failed int `json:"failed"`
			Errors int `json:"errors"`
		} `json:"summary"`
		Results []result `json:"results"`
	}{Version: "1.0", Status: status}
	payload.Summary.Total = output.Total
	payload.Summary.Passed = output.Passed
	payload.Summary.Failed = output.Failed
	payload.Summary.Errors = output.Errors
	payload.Results = results

	data, _ := json.MarshalIndent(payload, "", "  ")
	fmt.Println(string(data))
}

func printRunHuman(file string, output *interpreter.CheckOutput) {
	fmt.Printf("%s Running checks in `%s`...\n\n", color.GreenString("Starting"), file)

	for _, r := range output.Results {
		var status string
		switch r.Status {
		case library.StatusPass:
			status = color.New(color.FgGreen, color.Bold).Sprint("PASS")
		case library.StatusFail:
			status = color.New(color.FgRed, color.Bold).Sprint("FAIL")
		default:
			status = color.New(color.FgYellow, color.Bold).Sprint("ERROR")
		}
		fmt.Printf("  %s %s :: %s\n", status, color.New(color.Faint).Sprint(r.ElementPath), r.CheckExpr)
		switch r.Status {
		case library.StatusFail:
			fmt.Printf("        %s %s\n", color.RedString("-->"), r.Message)
		case library.StatusError:
			fmt.Printf("        %s %s\n", color.YellowString("-->"), r.Message)
		}
	}

	fmt.Println()
	skippedStr := ""
	if output.Skipped > 0 {
		skippedStr = fmt.Sprintf(", %d skipped", output.Skipped)
	}
	fmt.Printf("%s: %d total, %s passed, %s failed, %s errors%s\n",
		color.New(color.Bold).Sprint("Summary"),
		output.Total,
		color.GreenString("%d", output.Passed),
		failedColor(output.Failed),
		errorsColor(output.Errors),
		skippedStr)
}

func failedColor(n int) string {
	if n > 0 {
		return color.RedString("%d", n)
	}
	return fmt.Sprintf("%d", n)
}

func errorsColor(n int) string {
	if n > 0 {
		return color.YellowString("%d", n)
	}
	return fmt.Sprintf("%d", n)
}
