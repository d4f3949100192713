// Package doccat builds a documentation catalog describing the built-in
// libraries' selectors and checks, rendered as JSON (for
// tooling) or Markdown (for humans), grounded on
// original_source/crates/hielements-core/src/doc.rs.
package doccat

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParameterDoc documents one function parameter.
type ParameterDoc struct {
	Name        string `json:"name"`
	ParamType   string `json:"param_type"`
	Description string `json:"description"`
}

// FunctionDoc documents one selector or check function.
type FunctionDoc struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  []ParameterDoc  `json:"parameters"`
	ReturnType  string          `json:"return_type"`
	Example     string          `json:"example,omitempty"`
}

func NewFunction(name, description string) FunctionDoc {
	return FunctionDoc{Name: name, Description: description}
}

func (f FunctionDoc) WithParam(name, paramType, description string) FunctionDoc {
	f.Parameters = append(f.Parameters, ParameterDoc{Name: name, ParamType: paramType, Description: description})
	return f
}

func (f FunctionDoc) WithReturnType(returnType string) FunctionDoc {
	f.ReturnType = returnType
	return f
}

func (f FunctionDoc) WithExample(example string) FunctionDoc {
	f.Example = example
	return f
}

// LibraryDoc documents one library's full surface.
type LibraryDoc struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Version     string        `json:"version"`
	Functions   []FunctionDoc `json:"functions"`
	Checks      []FunctionDoc `json:"checks"`
}

func NewLibrary(name string) LibraryDoc {
	return LibraryDoc{Name: name, Version: "0.1.0"}
}

func (l LibraryDoc) WithDescription(d string) LibraryDoc { l.Description = d; return l }
func (l LibraryDoc) WithVersion(v string) LibraryDoc     { l.Version = v; return l }

func (l LibraryDoc) WithFunction(f FunctionDoc) LibraryDoc {
	l.Functions = append(l.Functions, f)
	return l
}

func (l LibraryDoc) WithCheck(c FunctionDoc) LibraryDoc {
	l.Checks = append(l.Checks, c)
	return l
}

// Catalog is the full documentation set, one LibraryDoc per registered
// library.
type Catalog struct {
	Version   string       `json:"version"`
	Libraries []LibraryDoc `json:"libraries"`
}

func NewCatalog() *Catalog {
	return &Catalog{Version: "1.0"}
}

func (c *Catalog) AddLibrary(lib LibraryDoc) {
	c.Libraries = append(c.Libraries, lib)
}

// ToJSON renders the catalog as indented JSON.
func (c *Catalog) ToJSON() (string, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToMarkdown renders the catalog as a single Markdown document with a
// table of contents followed by one section per library.
func (c *Catalog) ToMarkdown() string {
	var b strings.Builder
	b.WriteString("# Hielements Library Documentation\n\n")
	b.WriteString("This catalog documents all available Hielements libraries, their selectors, and checks.\n\n")
	b.WriteString("---\n\n")

	b.WriteString("## Table of Contents\n\n")
	for _, lib := range c.Libraries {
		anchor := strings.ReplaceAll(strings.ToLower(lib.Name), " ", "-")
		fmt.Fprintf(&b, "- [%s](#%s)\n", lib.Name, anchor)
	}
	b.WriteString("\n---\n\n")

	for _, lib := range c.Libraries {
		writeLibraryMarkdown(&b, lib)
	}
	return b.String()
}

func writeLibraryMarkdown(b *strings.Builder, lib LibraryDoc) {
	fmt.Fprintf(b, "## %s\n\n", lib.Name)
	if lib.Description != "" {
		fmt.Fprintf(b, "%s\n\n", lib.Description)
	}
	if lib.Version != "" {
		fmt.Fprintf(b, "**Version:** %s\n\n", lib.Version)
	}
	if len(lib.Functions) > 0 {
		b.WriteString("### Selectors\n\n")
		for _, fn := range lib.Functions {
			writeFunctionMarkdown(b, fn, lib.Name)
		}
	}
	if len(lib.Checks) > 0 {
		b.WriteString("### Checks\n\n")
		for _, fn := range lib.Checks {
			writeFunctionMarkdown(b, fn, lib.Name)
		}
	}
	b.WriteString("---\n\n")
}

func writeFunctionMarkdown(b *strings.Builder, fn FunctionDoc, libName string) {
	params := make([]string, len(fn.Parameters))
	for i, p := range fn.Parameters {
		params[i] = fmt.Sprintf("%s: %s", p.Name, p.ParamType)
	}
	returnType := ""
	if fn.ReturnType != "" {
		returnType = " -> " + fn.ReturnType
	}
	fmt.Fprintf(b, "#### `%s.%s(%s)%s`\n\n", libName, fn.Name, strings.Join(params, ", "), returnType)

	if fn.Description != "" {
		fmt.Fprintf(b, "%s\n\n", fn.Description)
	}
	if len(fn.Parameters) > 0 {
		b.WriteString("**Parameters:**\n\n")
		for _, p := range fn.Parameters {
			fmt.Fprintf(b, "- `%s` (%s): %s\n", p.Name, p.ParamType, p.Description)
		}
		b.WriteString("\n")
	}
	if fn.Example != "" {
		b.WriteString("**Example:**\n\n")
		b.WriteString("```hielements\n")
		b.WriteString(fn.Example)
		if !strings.HasSuffix(fn.Example, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("```\n\n")
	}
}

// BuiltinCatalog documents the files and rust built-in libraries.
// External and WASM libraries configured in hielements.toml do not appear
// in it.
func BuiltinCatalog() *Catalog {
	catalog := NewCatalog()

	files := NewLibrary("files").WithDescription("Selectors and checks over files and folders in the workspace.")
	files = files.WithFunction(NewFunction("file_selector", "Select a single file by path.").
		WithParam("path", "string", "Path relative to the workspace root.").
		WithReturnType("Scope").
		WithExample("scope main = files.file_selector(\"src/main.rs\")"))
	files = files.WithFunction(NewFunction("folder_selector", "Select every file under a folder.").
		WithParam("path", "string", "Path relative to the workspace root.").
		WithReturnType("Scope").
		WithExample("scope src = files.folder_selector(\"src\")"))
	files = files.WithFunction(NewFunction("glob_selector", "Select files matching a glob pattern.").
		WithParam("pattern", "string", "A doublestar glob pattern, e.g. \"**/*.go\".").
		WithReturnType("Scope").
		WithExample("scope tests = files.glob_selector(\"**/*_test.go\")"))
	files = files.WithCheck(NewFunction("exists", "Check that a named file exists within a scope."))
	files = files.WithCheck(NewFunction("contains", "Check that a scope contains a given file."))
	files = files.WithCheck(NewFunction("no_files_matching", "Check that no file in a scope matches a glob pattern."))
	files = files.WithCheck(NewFunction("max_size", "Check that every file in a scope is under a byte limit."))
	catalog.AddLibrary(files)

	rust := NewLibrary("rust").WithDescription("Selectors and checks over Rust source trees.")
	rust = rust.WithFunction(NewFunction("crate_selector", "Select every file belonging to a named crate."))
	rust = rust.WithFunction(NewFunction("module_selector", "Select the file(s) implementing a module path."))
	rust = rust.WithFunction(NewFunction("struct_selector", "Select every file declaring a named struct."))
	rust = rust.WithFunction(NewFunction("function_selector", "Select every file declaring a named function."))
	rust = rust.WithCheck(NewFunction("struct_exists", "Check that a named struct is declared somewhere in the workspace."))
	rust = rust.WithCheck(NewFunction("function_exists", "Check that a named function is declared somewhere in the workspace."))
	rust = rust.WithCheck(NewFunction("has_derive", "Check that a scope's files derive a given trait."))
	rust = rust.WithCheck(NewFunction("has_docs", "Check that a scope's files carry doc comments."))
	rust = rust.WithCheck(NewFunction("has_tests", "Check that a scope's files contain tests."))
	rust = rust.WithCheck(NewFunction("depends_on", "Check that one scope's files reference another scope's module."))
	rust = rust.WithCheck(NewFunction("no_dependency", "Check that one scope's files do not reference another scope's module."))
	catalog.AddLibrary(rust)

	return catalog
}
