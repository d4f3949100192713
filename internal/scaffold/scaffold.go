// Package scaffold generates the starter files for a new Hielements
// project, grounded on cmd_init in
// original_source/crates/hielements-cli/src/main.rs.
package scaffold

import "fmt"

// ProjectFiles is the generated content for a new project, keyed by the
// name each file is written under.
type ProjectFiles struct {
	HieFileName string
	HieContent  string
	ConfigName  string
	ConfigContent string
	GuideName   string
	GuideContent string
}

// Generate builds the starter .hie file, hielements.toml, and usage guide
// for a project named projectName.
func Generate(projectName string) ProjectFiles {
	return ProjectFiles{
		HieFileName:   projectName + ".hie",
		HieContent:    hieTemplate(projectName),
		ConfigName:    "hielements.toml",
		ConfigContent: configTemplate,
		GuideName:     "USAGE_GUIDE.md",
		GuideContent:  guideTemplate,
	}
}

func hieTemplate(projectName string) string {
	return fmt.Sprintf(`# %s Architecture Specification
#
# This file describes the structure of the %s project using Hielements.
#
# For AI agents and quick reference:
# - See USAGE_GUIDE.md for language syntax and available commands
# - Run 'hielements check %s.hie' to validate this specification
# - Run 'hielements run %s.hie' to execute checks

import files

## The %s project
element %s {
    # Define the root scope
    scope root = files.folder_selector('.')

    # Basic checks
    check files.exists(root, 'README.md')

    # Add more elements, scopes, and checks here to describe your architecture
}
`, projectName, projectName, projectName, projectName, projectName, projectName)
}

const configTemplate = `# Hielements Configuration File
#
# This file configures external library plugins for the Hielements interpreter.
# Place this file in your project root (next to your .hie files).
#
# Supports two types of plugins:
#   1. External process plugins (JSON-RPC over stdio)
#   2. WASM plugins (sandboxed)
#
# Format:
#   [libraries]
#   library_name = { executable = "path/to/executable", args = ["arg1"] }
#   library_name = { type = "wasm", path = "path/to/plugin.wasm" }
#
# Example:
#   [libraries]
#   mylib = { executable = "python3", args = ["scripts/mylib_plugin.py"] }

[libraries]
# Add your custom libraries here
`

const guideTemplate = `# Hielements Quick Reference

This guide provides a brief introduction to using Hielements in your project.

## Commands

### Check syntax and semantics
` + "```bash\nhielements check <file>.hie\n```" + `
Validates the syntax and semantics of your specification without running checks.

### Run checks
` + "```bash\nhielements run <file>.hie\n```" + `
Executes all checks against your actual codebase.

Options:
- --verbose - show progress as each check runs
- --filter <pattern> - run only checks of elements whose path contains the pattern
- --limit <n> - limit the number of checks to run
- --dry-run - show what would be checked without actually running

### Generate documentation
` + "```bash\nhielements doc --output library_docs.md\n```" + `

## Language basics

### Elements
` + "```hielements\nelement my_component {\n    # element content\n}\n```" + `

### Scopes
` + "```hielements\nscope src = files.folder_selector('src/')\nscope config = files.file_selector('config.yaml')\n```" + `

### Checks
` + "```hielements\ncheck files.exists(src, 'main.py')\ncheck files.no_files_matching(src, '*.pyc')\n```" + `

### Hierarchical elements
` + "```hielements\nelement parent {\n    element child {\n        scope src = files.folder_selector('child/src')\n    }\n}\n```" + `

### Connection points (refs)
` + "```hielements\nref api: HttpHandler = rust.struct_selector('Handler')\nref config: Config = files.file_selector('config.yaml')\n```" + `

### Templates
` + "```hielements\ntemplate microservice {\n    element api {\n        scope module<rust>\n    }\n    element database {\n        ref connection: DatabaseConnection\n    }\n}\n\nelement orders_service implements microservice {\n    # bind template to actual implementation\n}\n```" + `

## Built-in libraries

### files
- files.folder_selector(path) - select a folder
- files.file_selector(path) - select a file
- files.glob_selector(pattern) - select files matching a glob
- files.exists(scope, name) - check if file exists
- files.no_files_matching(scope, pattern) - check no files match pattern

### rust
- rust.module_selector(name) - select a Rust module
- rust.crate_selector(name) - select a Rust crate
- rust.struct_exists(name) - check if struct exists
- rust.function_exists(name) - check if function exists

## Custom libraries

Extend Hielements with custom libraries written in any language, configured
in hielements.toml:

` + "```toml\n[libraries]\nmylib = { executable = \"python3\", args = [\"scripts/mylib_plugin.py\"] }\n```" + `

Then import and use it in your .hie files:

` + "```hielements\nimport mylib\n\nelement my_component {\n    scope src = mylib.my_selector('src/')\n    check mylib.my_check(src)\n}\n```" + `
`
