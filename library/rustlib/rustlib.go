// Package rustlib implements the built-in "rust" library: a trimmed set of
// selectors and checks for Rust source trees, grounded on
// original_source/crates/hielements-core/src/stdlib/rust.rs. Parsing is
// deliberately shallow (string/regexp matching, not a real Rust parser),
// matching the original's own approach.
package rustlib

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ercasta/hielements/library"
)

var excludedDirs = map[string]bool{
	"target": true, ".git": true, "node_modules": true, ".cargo": true, "vendor": true,
}

// Library is the built-in rust library.
type Library struct {
	workspace string
}

// New creates a rust library rooted at workspace.
func New(workspace string) *Library {
	return &Library{workspace: workspace}
}

func (l *Library) Name() string { return "rust" }

func (l *Library) Call(function string, args []library.Value) (library.Value, error) {
	switch function {
	case "crate_selector":
		name, ok := stringArg(args, 0)
		if !ok {
			return library.Value{}, fmt.Errorf("E100: crate_selector requires a crate name argument")
		}
		return l.crateSelector(name), nil
	case "module_selector":
		path, ok := stringArg(args, 0)
		if !ok {
			return library.Value{}, fmt.Errorf("E101: module_selector requires a module path argument")
		}
		return l.moduleSelector(path), nil
	case "struct_selector":
		name, ok := stringArg(args, 0)
		if !ok {
			return library.Value{}, fmt.Errorf("E102: struct_selector requires a struct name argument")
		}
		return l.structSelector(name), nil
	case "function_selector":
		name, ok := stringArg(args, 0)
		if !ok {
			return library.Value{}, fmt.Errorf("E103: function_selector requires a function name argument")
		}
		return l.functionSelector(name), nil
	default:
		return library.Value{}, fmt.Errorf("E199: unknown function: rust.%s", function)
	}
}

func (l *Library) Check(function string, args []library.Value) (library.CheckResult, error) {
	switch function {
	case "struct_exists":
		name, ok := stringArg(args, 0)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E110: struct_exists requires a struct name argument")
		}
		scope := l.structSelector(name)
		return existsResult(scope.Scope, "struct", name), nil
	case "function_exists":
		name, ok := stringArg(args, 0)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E111: function_exists requires a function name argument")
		}
		scope := l.functionSelector(name)
		return existsResult(scope.Scope, "function", name), nil
	case "has_derive":
		scope, name, err := scopeAndStringArgs(args, "E112", "E113")
		if err != nil {
			return library.CheckResult{}, err
		}
		return l.checkHasDerive(scope, name), nil
	case "has_docs":
		scope, ok := scopeArg(args, 0)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E114: has_docs requires a scope argument")
		}
		return l.checkHasDocs(scope), nil
	case "has_tests":
		scope, ok := scopeArg(args, 0)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E115: has_tests requires a scope argument")
		}
		return l.checkHasTests(scope), nil
	case "depends_on":
		scopeA, ok := scopeArg(args, 0)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E116: depends_on requires two scope arguments")
		}
		scopeB, ok := scopeArg(args, 1)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E116: depends_on requires two scope arguments")
		}
		return l.checkDependsOn(scopeA, scopeB), nil
	case "no_dependency":
		scopeA, ok := scopeArg(args, 0)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E117: no_dependency requires two scope arguments")
		}
		scopeB, ok := scopeArg(args, 1)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E117: no_dependency requires two scope arguments")
		}
		result := l.checkDependsOn(scopeA, scopeB)
		return invert(result), nil
	default:
		return library.CheckResult{}, fmt.Errorf("E199: unknown check function: rust.%s", function)
	}
}

// findRustFiles walks the workspace collecting *.rs files, skipping
// excludedDirs entirely rather than filtering their contents afterward.
func findRustFiles(root string) []string {
	var files []string
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if excludedDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) == ".rs" {
			files = append(files, p)
		}
		return nil
	})
	return files
}

func (l *Library) crateSelector(crateName string) library.Value {
	candidates := []string{
		filepath.Join(l.workspace, "Cargo.toml"),
		filepath.Join(l.workspace, "crates", crateName, "Cargo.toml"),
		filepath.Join(l.workspace, crateName, "Cargo.toml"),
	}
	var cratePath string
	for _, candidate := range candidates {
		if containsCrateName(candidate, crateName) {
			cratePath = filepath.Dir(candidate)
			break
		}
	}
	if cratePath == "" {
		matches, _ := filepath.Glob(filepath.Join(l.workspace, "crates", "*", "Cargo.toml"))
		for _, m := range matches {
			if containsCrateName(m, crateName) {
				cratePath = filepath.Dir(m)
				break
			}
		}
	}
	var paths []string
	if cratePath != "" {
		for _, f := range findRustFiles(cratePath) {
			paths = append(paths, f)
		}
	}
	return library.FromScope(&library.Scope{Kind: library.ScopeFolder, Selector: crateName, Paths: paths})
}

func containsCrateName(cargoToml, crateName string) bool {
	data, err := os.ReadFile(cargoToml)
	if err != nil {
		return false
	}
	return strings.Contains(string(data), fmt.Sprintf(`name = "%s"`, crateName))
}

func (l *Library) moduleSelector(modulePath string) library.Value {
	parts := strings.Split(modulePath, "::")
	last := parts[len(parts)-1]
	var found []string
	for _, path := range findRustFiles(l.workspace) {
		stem := strings.TrimSuffix(filepath.Base(path), ".rs")
		if stem == last || (stem == "mod" && strings.Contains(path, last)) {
			found = append(found, path)
		}
	}
	sort.Strings(found)
	found = dedupe(found)
	return library.FromScope(&library.Scope{Kind: library.ScopeFile, Selector: modulePath, Paths: found})
}

func (l *Library) structSelector(structName string) library.Value {
	pattern := regexp.MustCompile(`(pub\s+)?struct\s+` + regexp.QuoteMeta(structName) + `(\s*[<{(;]|\s)`)
	var found []string
	for _, path := range findRustFiles(l.workspace) {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if pattern.Match(content) {
			found = append(found, path)
		}
	}
	return library.FromScope(&library.Scope{Kind: library.ScopeFile, Selector: "struct:" + structName, Paths: found})
}

func (l *Library) functionSelector(funcName string) library.Value {
	var found []string
	needles := []string{"fn " + funcName, "fn " + funcName + "(", "fn " + funcName + "<"}
	for _, path := range findRustFiles(l.workspace) {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		text := string(content)
		for _, n := range needles {
			if strings.Contains(text, n) {
				found = append(found, path)
				break
			}
		}
	}
	return library.FromScope(&library.Scope{Kind: library.ScopeFile, Selector: "fn:" + funcName, Paths: found})
}

func (l *Library) checkHasDerive(scope *library.Scope, deriveName string) library.CheckResult {
	for _, path := range scope.Paths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		text := string(content)
		if strings.Contains(text, "#[derive(") && strings.Contains(text, deriveName) {
			return pass()
		}
	}
	return fail("no #[derive(%s)] found", deriveName)
}

func (l *Library) checkHasDocs(scope *library.Scope) library.CheckResult {
	for _, path := range scope.Paths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		text := string(content)
		if strings.Contains(text, "//!") || strings.Contains(text, "///") {
			return pass()
		}
	}
	return fail("no documentation comments found")
}

func (l *Library) checkHasTests(scope *library.Scope) library.CheckResult {
	for _, path := range scope.Paths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		text := string(content)
		if strings.Contains(text, "#[test]") || strings.Contains(text, "#[cfg(test)]") {
			return pass()
		}
	}
	return fail("no tests found")
}

// extractModuleName returns "lexer" from ".../lexer.rs", or the parent
// folder name for a "mod.rs" file.
func extractModuleName(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), ".rs")
	if stem == "mod" {
		return filepath.Base(filepath.Dir(path))
	}
	return stem
}

func (l *Library) checkDependsOn(scopeA, scopeB *library.Scope) library.CheckResult {
	targetSet := map[string]bool{}
	var targets []string
	addTarget := func(name string) {
		if name != "" && !targetSet[name] {
			targetSet[name] = true
			targets = append(targets, name)
		}
	}
	for _, p := range scopeB.Paths {
		addTarget(extractModuleName(p))
	}
	if parts := strings.Split(scopeB.Selector, "::"); len(parts) > 0 {
		addTarget(parts[len(parts)-1])
	}
	if len(targets) == 0 {
		return library.CheckResult{Status: library.StatusError, Message: "could not determine target module names"}
	}
	if len(scopeA.Paths) == 0 {
		return library.CheckResult{Status: library.StatusError, Message: "source scope has no paths"}
	}

	for _, pathA := range scopeA.Paths {
		content, err := os.ReadFile(pathA)
		if err != nil {
			return library.CheckResult{Status: library.StatusError, Message: fmt.Sprintf("could not read file: %s", pathA)}
		}
		text := string(content)
		for _, target := range targets {
			patterns := []string{
				"use crate::" + target,
				"use super::" + target,
				"mod " + target + ";",
				target + "::",
				"crate::" + target + "::",
				"super::" + target + "::",
				"use " + target + "::",
			}
			for _, pattern := range patterns {
				if strings.Contains(text, pattern) {
					return pass()
				}
			}
		}
	}
	return fail("no dependency found: source does not use %s", strings.Join(targets, ", "))
}

func invert(r library.CheckResult) library.CheckResult {
	switch r.Status {
	case library.StatusPass:
		return library.CheckResult{Status: library.StatusFail, Message: "dependency exists, expected none"}
	case library.StatusFail:
		return pass()
	default:
		return r
	}
}

func existsResult(scope *library.Scope, kind, name string) library.CheckResult {
	if len(scope.Paths) > 0 {
		return pass()
	}
	return fail("%s %q not found", kind, name)
}

func dedupe(sorted []string) []string {
	out := sorted[:0]
	var prev string
	for i, s := range sorted {
		if i == 0 || s != prev {
			out = append(out, s)
		}
		prev = s
	}
	return out
}

func pass() library.CheckResult { return library.CheckResult{Status: library.StatusPass} }

func fail(format string, args ...interface{}) library.CheckResult {
	return library.CheckResult{Status: library.StatusFail, Message: fmt.Sprintf(format, args...)}
}

func stringArg(args []library.Value, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	return args[i].AsString()
}

func scopeArg(args []library.Value, i int) (*library.Scope, bool) {
	if i >= len(args) {
		return nil, false
	}
	return args[i].AsScope()
}

func scopeAndStringArgs(args []library.Value, scopeErr, strErr string) (*library.Scope, string, error) {
	scope, ok := scopeArg(args, 0)
	if !ok {
		return nil, "", fmt.Errorf("%s: requires a scope as first argument", scopeErr)
	}
	name, ok := stringArg(args, 1)
	if !ok {
		return nil, "", fmt.Errorf("%s: requires a string as second argument", strErr)
	}
	return scope, name, nil
}
