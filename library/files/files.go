// Package files implements the built-in "files" library: selectors that
// turn a path or glob pattern into a library.Scope, and checks over the
// files a Scope resolved to, grounded on
// original_source/crates/hielements-core/src/stdlib/files.rs.
package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/ercasta/hielements/library"
)

// Library is the built-in files library. It is safe for concurrent use:
// every selector/check resolves paths against the workspace root it was
// constructed with and keeps no other state.
type Library struct {
	workspace string
}

// New creates a files library rooted at workspace.
func New(workspace string) *Library {
	return &Library{workspace: workspace}
}

func (l *Library) Name() string { return "files" }

func (l *Library) Call(function string, args []library.Value) (library.Value, error) {
	switch function {
	case "file_selector":
		path, ok := stringArg(args, 0)
		if !ok {
			return library.Value{}, fmt.Errorf("E100: file_selector requires a string path argument")
		}
		return l.fileSelector(path), nil
	case "folder_selector":
		path, ok := stringArg(args, 0)
		if !ok {
			return library.Value{}, fmt.Errorf("E101: folder_selector requires a string path argument")
		}
		return l.folderSelector(path), nil
	case "glob_selector":
		pattern, ok := stringArg(args, 0)
		if !ok {
			return library.Value{}, fmt.Errorf("E102: glob_selector requires a string pattern argument")
		}
		return l.globSelector(pattern), nil
	default:
		return library.Value{}, fmt.Errorf("E199: unknown function: files.%s", function)
	}
}

func (l *Library) Check(function string, args []library.Value) (library.CheckResult, error) {
	switch function {
	case "exists":
		scope, filename, err := scopeAndFilenameArgs(args, "E110", "E111")
		if err != nil {
			return library.CheckResult{}, err
		}
		return l.checkExists(scope, filename), nil
	case "contains":
		scope, filename, err := scopeAndFilenameArgs(args, "E112", "E113")
		if err != nil {
			return library.CheckResult{}, err
		}
		return l.checkContains(scope, filename), nil
	case "no_files_matching":
		scope, pattern, err := scopeAndFilenameArgs(args, "E114", "E115")
		if err != nil {
			return library.CheckResult{}, err
		}
		return l.checkNoFilesMatching(scope, pattern), nil
	case "max_size":
		scope, ok := scopeArg(args, 0)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E116: max_size requires a scope as first argument")
		}
		maxBytes, ok := intArg(args, 1)
		if !ok {
			return library.CheckResult{}, fmt.Errorf("E117: max_size requires a number as second argument")
		}
		return l.checkMaxSize(scope, maxBytes), nil
	default:
		return library.CheckResult{}, fmt.Errorf("E199: unknown check function: files.%s", function)
	}
}

func (l *Library) fileSelector(path string) library.Value {
	full := filepath.Join(l.workspace, path)
	info, err := os.Stat(full)
	var paths []string
	if err == nil && !info.IsDir() {
		paths = []string{full}
	}
	return library.FromScope(&library.Scope{Kind: library.ScopeFile, Selector: path, Paths: paths})
}

func (l *Library) folderSelector(path string) library.Value {
	full := filepath.Join(l.workspace, path)
	info, err := os.Stat(full)
	var paths []string
	if err == nil && info.IsDir() {
		_ = filepath.WalkDir(full, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				paths = append(paths, p)
			}
			return nil
		})
	}
	return library.FromScope(&library.Scope{Kind: library.ScopeFolder, Selector: path, Paths: paths})
}

func (l *Library) globSelector(pattern string) library.Value {
	fullPattern := filepath.ToSlash(filepath.Join(l.workspace, pattern))
	matches, _ := doublestar.FilepathGlob(fullPattern)
	var paths []string
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && !info.IsDir() {
			paths = append(paths, m)
		}
	}
	return library.FromScope(&library.Scope{Kind: library.ScopeGlob, Selector: pattern, Paths: paths})
}

func (l *Library) checkExists(scope *library.Scope, filename string) library.CheckResult {
	switch scope.Kind {
	case library.ScopeFile:
		if pathExists(filepath.Join(l.workspace, scope.Selector)) {
			return pass()
		}
		return fail("file %q does not exist", scope.Selector)
	case library.ScopeFolder:
		if pathExists(filepath.Join(l.workspace, scope.Selector, filename)) {
			return pass()
		}
		return fail("file %q does not exist in folder %q", filename, scope.Selector)
	case library.ScopeGlob:
		for _, p := range scope.Paths {
			if filepath.Base(p) == filename {
				return pass()
			}
		}
		return fail("no file named %q found in scope", filename)
	default:
		return fail("unsupported scope kind")
	}
}

func (l *Library) checkContains(scope *library.Scope, filename string) library.CheckResult {
	if scope.Kind == library.ScopeFolder {
		if pathExists(filepath.Join(l.workspace, scope.Selector, filename)) {
			return pass()
		}
		return fail("folder %q does not contain %q", scope.Selector, filename)
	}
	for _, p := range scope.Paths {
		if filepath.Base(p) == filename || hasSuffix(p, filename) {
			return pass()
		}
	}
	return fail("scope does not contain %q", filename)
}

func (l *Library) checkNoFilesMatching(scope *library.Scope, pattern string) library.CheckResult {
	scopePath := l.workspace
	switch scope.Kind {
	case library.ScopeFolder:
		scopePath = filepath.Join(l.workspace, scope.Selector)
	case library.ScopeFile:
		scopePath = filepath.Dir(filepath.Join(l.workspace, scope.Selector))
	}
	fullPattern := filepath.ToSlash(filepath.Join(scopePath, pattern))
	matches, err := doublestar.FilepathGlob(fullPattern)
	if err != nil {
		return library.CheckResult{Status: library.StatusError, Message: fmt.Sprintf("invalid glob pattern: %s", pattern)}
	}
	if len(matches) == 0 {
		return pass()
	}
	shown := matches
	if len(shown) > 5 {
		shown = shown[:5]
	}
	return fail("found %d files matching pattern %q: %v", len(matches), pattern, shown)
}

func (l *Library) checkMaxSize(scope *library.Scope, maxBytes int64) library.CheckResult {
	for _, p := range scope.Paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if info.Size() > maxBytes {
			return fail("file %q exceeds maximum size (%d > %d bytes)", p, info.Size(), maxBytes)
		}
	}
	return pass()
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
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

func intArg(args []library.Value, i int) (int64, bool) {
	if i >= len(args) {
		return 0, false
	}
	return args[i].AsInt()
}

func scopeArg(args []library.Value, i int) (*library.Scope, bool) {
	if i >= len(args) {
		return nil, false
	}
	return args[i].AsScope()
}

func scopeAndFilenameArgs(args []library.Value, scopeErr, nameErr string) (*library.Scope, string, error) {
	scope, ok := scopeArg(args, 0)
	if !ok {
		return nil, "", fmt.Errorf("%s: requires a scope as first argument", scopeErr)
	}
	name, ok := stringArg(args, 1)
	if !ok {
		return nil, "", fmt.Errorf("%s: requires a filename/pattern as second argument", nameErr)
	}
	return scope, name, nil
}
