// Package wasm hosts library.Library implementations compiled to
// WebAssembly, sandboxed with wazero, grounded on
// original_source/crates/hielements-core/src/stdlib/wasm.rs. The wire
// shape mirrors that file's SerializableValue/SerializableCheckResult:
// JSON passed through a guest-allocated buffer, addressed by the
// (ptr, len) pair a library_call/library_check export returns.
package wasm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	"github.com/ercasta/hielements/library"
)

// Capabilities records the file_read, file_write and network flags from
// original_source's WasmCapabilitiesConfig. None of them is enforced: no
// host function consults them, and the guest module gets no filesystem or
// network access whatever they say.
type Capabilities struct {
	FileRead  bool
	FileWrite bool
	Network   bool
}

// DefaultCapabilities matches original_source's WasmCapabilities::default.
func DefaultCapabilities() Capabilities {
	return Capabilities{FileRead: true}
}

// Library runs one compiled WASM module in its own wazero runtime.
type Library struct {
	name         string
	workspace    string
	capabilities Capabilities

	mu       sync.Mutex
	ctx      context.Context
	runtime  wazero.Runtime
	instance api.Module
}

type serializableCallParams struct {
	Function  string              `json:"function"`
	Args      []serializableValue `json:"args"`
	Workspace string              `json:"workspace"`
}

type serializableValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

type serializableScope struct {
	Kind     serializableScopeKind `json:"kind"`
	Paths    []string              `json:"paths"`
	Resolved bool                  `json:"resolved"`
}

type serializableScopeKind struct {
	File   *string `json:"File,omitempty"`
	Folder *string `json:"Folder,omitempty"`
	Glob   *string `json:"Glob,omitempty"`
}

type serializableCheckResult struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// Load compiles and instantiates the WASM module at path, matching
// WasmLibrary::load's E600-E603 failure modes.
func Load(ctx context.Context, name, path, workspace string, caps Capabilities) (*Library, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("E600: WASM module not found: %s", path)
	}
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("E601: failed to read WASM module: %w", err)
	}

	runtime := wazero.NewRuntime(ctx)
	if _, err := wasi_snapshot_preview1.Instantiate(ctx, runtime); err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("E602: failed to initialize WASI: %w", err)
	}

	compiled, err := runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("E602: failed to compile WASM module: %w", err)
	}

	instance, err := runtime.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName(name))
	if err != nil {
		runtime.Close(ctx)
		return nil, fmt.Errorf("E603: failed to instantiate WASM module: %w", err)
	}

	return &Library{
		name:         name,
		workspace:    workspace,
		capabilities: caps,
		ctx:          ctx,
		runtime:      runtime,
		instance:     instance,
	}, nil
}

func (l *Library) Name() string { return l.name }

// Close releases the wazero runtime and everything it compiled.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.runtime.Close(l.ctx)
}

// callWasmFunction serializes args to JSON, asks the guest's "alloc"
// export for a buffer, writes the JSON into guest memory, then invokes
// exportName with (ptr, len) and returns the (ptr, len) it answers with -
// mirroring call_wasm_function/read_wasm_string in original_source.
func (l *Library) callWasmFunction(exportName, function string, args []library.Value) (uint32, uint32, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	payload := serializableCallParams{
		Function:  function,
		Args:      make([]serializableValue, len(args)),
		Workspace: l.workspace,
	}
	for i, a := range args {
		sv, err := valueToSerializable(a)
		if err != nil {
			return 0, 0, err
		}
		payload.Args[i] = sv
	}
	argsJSON, err := json.Marshal(payload)
	if err != nil {
		return 0, 0, fmt.Errorf("E604: failed to serialize arguments: %w", err)
	}

	allocFn := l.instance.ExportedFunction("alloc")
	if allocFn == nil {
		return 0, 0, fmt.Errorf("E606: WASM alloc function not found")
	}
	allocResult, err := allocFn.Call(l.ctx, uint64(len(argsJSON)))
	if err != nil || len(allocResult) == 0 {
		return 0, 0, fmt.Errorf("E607: failed to allocate WASM memory: %w", err)
	}
	ptr := uint32(allocResult[0])

	mem := l.instance.Memory()
	if mem == nil || !mem.Write(ptr, argsJSON) {
		return 0, 0, fmt.Errorf("E610: failed to write to WASM memory")
	}

	fn := l.instance.ExportedFunction(exportName)
	if fn == nil {
		return 0, 0, fmt.Errorf("E605: WASM function %q not found", exportName)
	}
	result, err := fn.Call(l.ctx, uint64(ptr), uint64(len(argsJSON)))
	if err != nil {
		return 0, 0, fmt.Errorf("E611: WASM function call failed: %w", err)
	}
	if len(result) != 1 {
		return 0, 0, fmt.Errorf("E615: invalid result from WASM function")
	}
	// A single i64 packs (ptr << 32 | len), the same convention
	// exports written for this transport use to avoid a second
	// host/guest roundtrip.
	packed := result[0]
	return uint32(packed >> 32), uint32(packed), nil
}

func (l *Library) readResult(ptr, size uint32) ([]byte, error) {
	mem := l.instance.Memory()
	if mem == nil {
		return nil, fmt.Errorf("E612: WASM memory not found")
	}
	data, ok := mem.Read(ptr, size)
	if !ok {
		return nil, fmt.Errorf("E613: failed to read from WASM memory")
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (l *Library) Call(function string, args []library.Value) (library.Value, error) {
	ptr, size, err := l.callWasmFunction("library_call", function, args)
	if err != nil {
		return library.Value{}, err
	}
	data, err := l.readResult(ptr, size)
	if err != nil {
		return library.Value{}, err
	}
	var sv serializableValue
	if err := json.Unmarshal(data, &sv); err != nil {
		return library.Value{}, fmt.Errorf("E617: failed to parse WASM result: %w", err)
	}
	return serializableToValue(sv)
}

func (l *Library) Check(function string, args []library.Value) (library.CheckResult, error) {
	ptr, size, err := l.callWasmFunction("library_check", function, args)
	if err != nil {
		return library.CheckResult{}, err
	}
	data, err := l.readResult(ptr, size)
	if err != nil {
		return library.CheckResult{}, err
	}
	var scr serializableCheckResult
	if err := json.Unmarshal(data, &scr); err != nil {
		return library.CheckResult{}, fmt.Errorf("E620: failed to parse WASM check result: %w", err)
	}
	switch scr.Type {
	case "Pass":
		return library.CheckResult{Status: library.StatusPass}, nil
	case "Fail":
		return library.CheckResult{Status: library.StatusFail, Message: scr.Message}, nil
	case "Error":
		return library.CheckResult{Status: library.StatusError, Message: scr.Message}, nil
	default:
		return library.CheckResult{}, fmt.Errorf("E620: unknown check result type: %s", scr.Type)
	}
}

func valueToSerializable(v library.Value) (serializableValue, error) {
	switch v.Kind {
	case library.ValueNull:
		return serializableValue{Type: "Null"}, nil
	case library.ValueBool:
		raw, _ := json.Marshal(v.Bool)
		return serializableValue{Type: "Bool", Value: raw}, nil
	case library.ValueInt:
		raw, _ := json.Marshal(v.Int)
		return serializableValue{Type: "Int", Value: raw}, nil
	case library.ValueFloat:
		raw, _ := json.Marshal(v.Float)
		return serializableValue{Type: "Float", Value: raw}, nil
	case library.ValueString:
		raw, _ := json.Marshal(v.String)
		return serializableValue{Type: "String", Value: raw}, nil
	case library.ValueList:
		items := make([]serializableValue, len(v.List))
		for i, item := range v.List {
			sv, err := valueToSerializable(item)
			if err != nil {
				return serializableValue{}, err
			}
			items[i] = sv
		}
		raw, _ := json.Marshal(items)
		return serializableValue{Type: "List", Value: raw}, nil
	case library.ValueScope:
		kind := serializableScopeKind{}
		switch v.Scope.Kind {
		case library.ScopeFile:
			kind.File = &v.Scope.Selector
		case library.ScopeFolder:
			kind.Folder = &v.Scope.Selector
		case library.ScopeGlob:
			kind.Glob = &v.Scope.Selector
		}
		raw, _ := json.Marshal(serializableScope{Kind: kind, Paths: v.Scope.Paths, Resolved: true})
		return serializableValue{Type: "Scope", Value: raw}, nil
	default:
		return serializableValue{Type: "Null"}, nil
	}
}

func serializableToValue(sv serializableValue) (library.Value, error) {
	switch sv.Type {
	case "Null":
		return library.Null(), nil
	case "Bool":
		var b bool
		_ = json.Unmarshal(sv.Value, &b)
		return library.Bool(b), nil
	case "Int":
		var i int64
		_ = json.Unmarshal(sv.Value, &i)
		return library.Int(i), nil
	case "Float":
		var f float64
		_ = json.Unmarshal(sv.Value, &f)
		return library.Float(f), nil
	case "String":
		var s string
		_ = json.Unmarshal(sv.Value, &s)
		return library.Str(s), nil
	case "List":
		var items []serializableValue
		if err := json.Unmarshal(sv.Value, &items); err != nil {
			return library.Value{}, err
		}
		values := make([]library.Value, 0, len(items))
		for _, item := range items {
			v, err := serializableToValue(item)
			if err != nil {
				return library.Value{}, err
			}
			values = append(values, v)
		}
		return library.List(values), nil
	case "Scope":
		var scope serializableScope
		if err := json.Unmarshal(sv.Value, &scope); err != nil {
			return library.Value{}, err
		}
		kind := library.ScopeFile
		selector := ""
		switch {
		case scope.Kind.File != nil:
			kind, selector = library.ScopeFile, *scope.Kind.File
		case scope.Kind.Folder != nil:
			kind, selector = library.ScopeFolder, *scope.Kind.Folder
		case scope.Kind.Glob != nil:
			kind, selector = library.ScopeGlob, *scope.Kind.Glob
		}
		return library.FromScope(&library.Scope{Kind: kind, Selector: selector, Paths: scope.Paths}), nil
	default:
		return library.Value{}, fmt.Errorf("E617: unknown serialized value type: %s", sv.Type)
	}
}
