// Package subprocess implements an external library transport over
// JSON-RPC 2.0/stdio: one long-lived child process per configured library,
// spawned lazily on first use, grounded on
// original_source/crates/hielements-core/src/stdlib/external.rs.
package subprocess

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/ercasta/hielements/library"
)

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      string      `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error"`
	ID      string          `json:"id"`
}

// Library is an external library hosted in its own process, addressed over
// stdio with line-delimited JSON-RPC 2.0. The process is spawned on first
// call and torn down by Close; a correlation id (google/uuid, not a
// monotonic counter) is attached to every request so responses can be
// matched even if a future version of this transport pipelines requests.
type Library struct {
	name       string
	executable string
	args       []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// New creates a subprocess-backed library. The process is not started until
// the first Call or Check.
func New(name, executable string, args []string) *Library {
	return &Library{name: name, executable: executable, args: args}
}

func (l *Library) Name() string { return l.name }

func (l *Library) ensureProcess() error {
	if l.cmd != nil {
		return nil
	}
	cmd := exec.Command(l.executable, l.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("E500: failed to start external library %q: %w", l.name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("E500: failed to start external library %q: %w", l.name, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("E500: failed to start external library %q: %w", l.name, err)
	}
	l.cmd = cmd
	l.stdin = stdin
	l.stdout = bufio.NewReader(stdout)
	return nil
}

// Close closes the child process's stdin, if one was started, and waits for
// it to exit. A child that keeps running after its stdin closes is not
// killed, so Close then blocks.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cmd == nil {
		return nil
	}
	_ = l.stdin.Close()
	err := l.cmd.Wait()
	l.cmd = nil
	return err
}

func (l *Library) sendRequest(method string, params interface{}) (json.RawMessage, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.ensureProcess(); err != nil {
		return nil, err
	}

	req := rpcRequest{JSONRPC: "2.0", Method: method, Params: params, ID: uuid.NewString()}
	line, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("E501: failed to serialize request: %w", err)
	}
	if _, err := l.stdin.Write(append(line, '\n')); err != nil {
		return nil, fmt.Errorf("E503: failed to write to external process: %w", err)
	}

	responseLine, err := l.stdout.ReadString('\n')
	if err != nil && responseLine == "" {
		return nil, fmt.Errorf("E505: failed to read from external process: %w", err)
	}

	var resp rpcResponse
	if err := json.Unmarshal([]byte(responseLine), &resp); err != nil {
		return nil, fmt.Errorf("E506: failed to parse response: %w (response was: %s)", err, responseLine)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("E%d: %s", resp.Error.Code, resp.Error.Message)
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("E507: external process returned empty result")
	}
	return resp.Result, nil
}

func (l *Library) Call(function string, args []library.Value) (library.Value, error) {
	params := map[string]interface{}{"function": function, "args": valuesToJSON(args)}
	result, err := l.sendRequest("library.call", params)
	if err != nil {
		return library.Value{}, err
	}
	var raw interface{}
	if err := json.Unmarshal(result, &raw); err != nil {
		return library.Value{}, fmt.Errorf("E508: cannot convert JSON to value: %w", err)
	}
	return jsonToValue(raw)
}

func (l *Library) Check(function string, args []library.Value) (library.CheckResult, error) {
	params := map[string]interface{}{"function": function, "args": valuesToJSON(args)}
	result, err := l.sendRequest("library.check", params)
	if err != nil {
		return library.CheckResult{}, err
	}
	var raw interface{}
	if err := json.Unmarshal(result, &raw); err != nil {
		return library.CheckResult{}, fmt.Errorf("E509: cannot convert JSON to check result: %w", err)
	}
	return jsonToCheckResult(raw)
}

// valuesToJSON mirrors ExternalLibrary::value_to_json's tagged-union wire
// shape: every non-null, non-bool scalar is wrapped as
// {"Int": ...}, {"Float": ...}, etc., so the receiving process can tell
// Int from Float without relying on JSON's single number type.
func valuesToJSON(values []library.Value) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = valueToJSON(v)
	}
	return out
}

func valueToJSON(v library.Value) interface{} {
	switch v.Kind {
	case library.ValueNull:
		return nil
	case library.ValueBool:
		return v.Bool
	case library.ValueInt:
		return map[string]interface{}{"Int": v.Int}
	case library.ValueFloat:
		return map[string]interface{}{"Float": v.Float}
	case library.ValueString:
		return map[string]interface{}{"String": v.String}
	case library.ValueList:
		items := make([]interface{}, len(v.List))
		for i, item := range v.List {
			items[i] = valueToJSON(item)
		}
		return map[string]interface{}{"List": items}
	case library.ValueScope:
		return map[string]interface{}{"Scope": map[string]interface{}{
			"kind":     scopeKindName(v.Scope.Kind),
			"selector": v.Scope.Selector,
			"paths":    v.Scope.Paths,
		}}
	default:
		return nil
	}
}

func scopeKindName(k library.ScopeKind) string {
	switch k {
	case library.ScopeFile:
		return "File"
	case library.ScopeFolder:
		return "Folder"
	case library.ScopeGlob:
		return "Glob"
	default:
		return "File"
	}
}

// jsonToValue permissively decodes a JSON response into a Value, accepting
// both bare JSON primitives and the {"Kind": ...} tagged-union shape, since
// external processes written against different client libraries drift in
// how strictly they follow the wire format.
func jsonToValue(raw interface{}) (library.Value, error) {
	switch v := raw.(type) {
	case nil:
		return library.Null(), nil
	case bool:
		return library.Bool(v), nil
	case float64:
		if v == float64(int64(v)) {
			return library.Int(int64(v)), nil
		}
		return library.Float(v), nil
	case string:
		return library.Str(v), nil
	case []interface{}:
		values := make([]library.Value, 0, len(v))
		for _, item := range v {
			val, err := jsonToValue(item)
			if err != nil {
				return library.Value{}, err
			}
			values = append(values, val)
		}
		return library.List(values), nil
	case map[string]interface{}:
		if s, ok := v["String"]; ok {
			return library.Str(fmt.Sprint(s)), nil
		}
		if i, ok := v["Int"].(float64); ok {
			return library.Int(int64(i)), nil
		}
		if f, ok := v["Float"].(float64); ok {
			return library.Float(f), nil
		}
		if b, ok := v["Bool"].(bool); ok {
			return library.Bool(b), nil
		}
		if list, ok := v["List"].([]interface{}); ok {
			return jsonToValue(list)
		}
		if scopeObj, ok := v["Scope"].(map[string]interface{}); ok {
			return jsonToScope(scopeObj)
		}
	}
	return library.Value{}, fmt.Errorf("E508: cannot convert JSON to value: %v", raw)
}

func jsonToScope(obj map[string]interface{}) (library.Value, error) {
	kind := library.ScopeFile
	switch fmt.Sprint(obj["kind"]) {
	case "Folder":
		kind = library.ScopeFolder
	case "Glob":
		kind = library.ScopeGlob
	}
	var paths []string
	if arr, ok := obj["paths"].([]interface{}); ok {
		for _, p := range arr {
			if s, ok := p.(string); ok {
				paths = append(paths, s)
			}
		}
	}
	selector, _ := obj["selector"].(string)
	return library.FromScope(&library.Scope{Kind: kind, Selector: selector, Paths: paths}), nil
}

// jsonToCheckResult permissively decodes a check response the same way
// json_to_check_result does: a tagged object, a `{"result": "pass"|...}`
// shape, or a bare string.
func jsonToCheckResult(raw interface{}) (library.CheckResult, error) {
	switch v := raw.(type) {
	case string:
		switch lower(v) {
		case "pass", "ok", "true":
			return library.CheckResult{Status: library.StatusPass}, nil
		case "fail", "false":
			return library.CheckResult{Status: library.StatusFail, Message: "check failed"}, nil
		default:
			return library.CheckResult{Status: library.StatusFail, Message: v}, nil
		}
	case map[string]interface{}:
		if _, ok := v["Pass"]; ok {
			return library.CheckResult{Status: library.StatusPass}, nil
		}
		if msg, ok := v["Fail"].(string); ok {
			return library.CheckResult{Status: library.StatusFail, Message: msg}, nil
		}
		if msg, ok := v["Error"].(string); ok {
			return library.CheckResult{Status: library.StatusError, Message: msg}, nil
		}
		if result, ok := v["result"].(string); ok {
			switch lower(result) {
			case "pass":
				return library.CheckResult{Status: library.StatusPass}, nil
			case "fail":
				return library.CheckResult{Status: library.StatusFail, Message: stringOr(v["message"], "check failed")}, nil
			case "error":
				return library.CheckResult{Status: library.StatusError, Message: stringOr(v["message"], "check error")}, nil
			}
		}
	}
	return library.CheckResult{}, fmt.Errorf("E509: cannot convert JSON to check result: %v", raw)
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fallback
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
