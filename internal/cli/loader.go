package cli

import (
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/tlower/internal/bufferize"
	"github.com/roach88/tlower/internal/compiler"
	"github.com/roach88/tlower/internal/ir"
)

// LoadError represents an error that occurred during module loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadModule reads a CUE file and compiles its top-level module into IR.
func LoadModule(path string) (*ir.Operation, error) {
	src, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("module file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading module file: %v", err)}
	}

	ctx := cuecontext.New()
	v := ctx.CompileString(string(src), cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	moduleVal := v.LookupPath(cue.ParsePath("module"))
	if !moduleVal.Exists() {
		return nil, &LoadError{Code: ErrCodeNoModule, Message: fmt.Sprintf("no top-level module found in %s", path), Pos: v.Pos()}
	}

	m, err := compiler.CompileModule(moduleVal)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return m, nil
}

// LoadOptions reads analysis options from a YAML file. Missing keys keep
// their defaults.
func LoadOptions(path string) (bufferize.Options, error) {
	opts := bufferize.DefaultOptions()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return opts, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("options file not found: %s", path)}
	}
	if err != nil {
		return opts, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error reading options file: %v", err)}
	}

	if err := yaml.Unmarshal(data, &opts); err != nil {
		return opts, &LoadError{Code: ErrCodeBadOptions, Message: fmt.Sprintf("parsing options file: %v", err)}
	}
	return opts, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) error {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    ErrCodeCompileFailed,
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric       = "E001" // Generic/unknown error
	ErrCodeNotFound      = "E002" // Path not found
	ErrCodeBuildFailed   = "E003" // CUE build failed
	ErrCodeNoModule      = "E004" // No top-level module in the file
	ErrCodeCompileFailed = "E005" // Compilation to IR failed
	ErrCodeBadOptions    = "E006" // Options file invalid
	ErrCodeWriteFailed   = "E007" // File write error
	ErrCodeInvalidIR     = "E008" // Structural validation failed
	ErrCodeAnalysis      = "E009" // Conflict analysis failed
	ErrCodeResolve       = "E010" // Conflict resolution failed
	ErrCodeStore         = "E011" // Run store error
)
