package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/ercasta/hielements/internal/doccat"
)

var (
	docWorkspace string
	docFormat    string
	docOutput    string
	docLibrary   string
)

var docCmd = &cobra.Command{
	Use:   "doc",
	Short: "Generate documentation for available libraries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoc()
	},
}

func init() {
	docCmd.Flags().StringVarP(&docWorkspace, "workspace", "w", "", "workspace directory (defaults to current directory)")
	docCmd.Flags().StringVarP(&docFormat, "format", "f", "markdown", "output format (markdown, json)")
	docCmd.Flags().StringVarP(&docOutput, "output", "o", "", "output file (defaults to stdout)")
	docCmd.Flags().StringVarP(&docLibrary, "library", "l", "", "filter to specific libraries (comma-separated)")
}

func runDoc() error {
	// docWorkspace is accepted for interface parity with run/check but
	// unused: external/WASM libraries don't expose a doc query, so only
	// the built-in catalog can be generated today.
	catalog := doccat.BuiltinCatalog()

	if docLibrary != "" {
		var wanted []string
		for _, name := range strings.Split(docLibrary, ",") {
			wanted = append(wanted, strings.TrimSpace(name))
		}
		filtered := catalog.Libraries[:0]
		for _, lib := range catalog.Libraries {
			if slices.Contains(wanted, lib.Name) {
				filtered = append(filtered, lib)
			}
		}
		catalog.Libraries = filtered
	}

	slices.SortFunc(catalog.Libraries, func(a, b doccat.LibraryDoc) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})

	var content string
	switch docFormat {
	case "json":
		data, err := catalog.ToJSON()
		if err != nil {
			return fail(2, "failed to render documentation: %w", err)
		}
		content = data
	default:
		content = catalog.ToMarkdown()
	}

	if docOutput != "" {
		if filepath.IsAbs(docOutput) {
			return fail(2, "absolute paths are not allowed for output files, use a relative path")
		}
		for _, part := range strings.Split(filepath.ToSlash(docOutput), "/") {
			if part == ".." {
				return fail(2, "output path cannot contain parent directory references (..)")
			}
		}
		if err := os.WriteFile(docOutput, []byte(content), 0o644); err != nil {
			return fail(2, "failed to write to %q: %w", docOutput, err)
		}
		fmt.Printf("%s Documentation written to '%s'\n", color.GreenString("Success"), docOutput)
	} else {
		fmt.Println(content)
	}
	return nil
}
