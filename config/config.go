// Package config decodes hielements.toml, the project file that registers
// external libraries (subprocess or WASM) alongside the built-ins, grounded on
// original_source/crates/hielements-core/src/stdlib/external.rs's
// HielementsConfig.
package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// LibraryType distinguishes how an external library entry is hosted.
type LibraryType string

const (
	LibraryExternal LibraryType = "external"
	LibraryWasm     LibraryType = "wasm"
)

// LibraryEntry is one `[libraries.NAME]` table in hielements.toml.
type LibraryEntry struct {
	Type       string   `toml:"type"`
	Executable string   `toml:"executable"`
	Path       string   `toml:"path"`
	Args       []string `toml:"args"`
}

// InferType resolves which transport an entry uses, the same precedence
// original_source's infer_type follows: explicit type, then a ".wasm" path
// extension, then presence of executable/path.
func (e LibraryEntry) InferType() (LibraryType, error) {
	switch strings.ToLower(e.Type) {
	case string(LibraryExternal):
		return LibraryExternal, nil
	case string(LibraryWasm):
		return LibraryWasm, nil
	}
	if strings.HasSuffix(e.Path, ".wasm") {
		return LibraryWasm, nil
	}
	if e.Executable != "" {
		return LibraryExternal, nil
	}
	if e.Path != "" {
		return LibraryExternal, nil
	}
	return "", fmt.Errorf("E512: cannot infer library type: specify 'type', 'executable', or 'path' with .wasm extension")
}

// ExecutablePath returns the command to run for an external-process entry.
func (e LibraryEntry) ExecutablePath() (string, error) {
	if e.Executable != "" {
		return e.Executable, nil
	}
	if e.Path != "" {
		return e.Path, nil
	}
	return "", fmt.Errorf("E513: no executable or path specified")
}

// WasmPath returns the module path for a wasm-hosted entry.
func (e LibraryEntry) WasmPath() (string, error) {
	if e.Path == "" {
		return "", fmt.Errorf("E514: no path specified for WASM library")
	}
	return e.Path, nil
}

// Config is the decoded form of hielements.toml.
type Config struct {
	Libraries map[string]LibraryEntry `toml:"libraries"`
}

// Load decodes the TOML file at path, returning an error for any decode
// failure including a missing file. Callers that want "no config is fine"
// semantics, like internal/wiring.New, check for that themselves.
func Load(path string) (Config, error) {
	var cfg Config
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}
