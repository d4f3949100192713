// Package wiring constructs an interpreter.Interpreter with the built-in
// libraries and any libraries configured in hielements.toml registered,
// the shared setup every CLI command that evaluates a program needs.
package wiring

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ercasta/hielements/config"
	"github.com/ercasta/hielements/interpreter"
	"github.com/ercasta/hielements/library/files"
	"github.com/ercasta/hielements/library/rustlib"
	"github.com/ercasta/hielements/transport/subprocess"
	"github.com/ercasta/hielements/transport/wasm"
)

// New builds an Interpreter rooted at workspace with the files and rust
// built-ins registered, plus every library declared in
// workspace/hielements.toml. A missing config file is not an error: it
// means no external libraries are configured. A present-but-malformed
// file is.
func New(workspace string, logger *zap.Logger) (*interpreter.Interpreter, error) {
	in := interpreter.New(workspace, logger)
	in.RegisterLibrary(files.New(workspace))
	in.RegisterLibrary(rustlib.New(workspace))

	configPath := filepath.Join(workspace, "hielements.toml")
	cfg, err := config.Load(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return in, nil
		}
		return nil, fmt.Errorf("loading %s: %w", configPath, err)
	}

	for name, entry := range cfg.Libraries {
		libType, err := entry.InferType()
		if err != nil {
			return nil, fmt.Errorf("library %q: %w", name, err)
		}
		switch libType {
		case config.LibraryExternal:
			exe, err := entry.ExecutablePath()
			if err != nil {
				return nil, fmt.Errorf("library %q: %w", name, err)
			}
			in.RegisterLibrary(subprocess.New(name, exe, entry.Args))
		case config.LibraryWasm:
			path, err := entry.WasmPath()
			if err != nil {
				return nil, fmt.Errorf("library %q: %w", name, err)
			}
			lib, err := wasm.Load(context.Background(), name, path, workspace, wasm.DefaultCapabilities())
			if err != nil {
				return nil, fmt.Errorf("library %q: %w", name, err)
			}
			in.RegisterLibrary(lib)
		}
	}
	return in, nil
}
