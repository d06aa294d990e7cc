package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/quadmap/internal/entity"
)

// LoadError represents an error that occurred during mapping loading.
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

// LoadMappings loads CUE entity mappings from a directory.
// Every failure is reported as a *LoadError.
func LoadMappings(dir string) (*entity.Mappings, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("mappings directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing mappings directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(files) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	m, err := entity.LoadMappings(dir)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return m, nil
}

// FindCUEFiles returns the .cue files directly inside dir.
func FindCUEFiles(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "*.cue"))
}

// convertCompileError converts a mapping error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *entity.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: err.Error(),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeConfig      = "E002" // Invalid configuration
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeStoreFailed = "E007" // Store open/read/write error

	// Mapping errors
	ErrCodeMappingClass     = "E101" // Missing or empty class
	ErrCodeMappingGraph     = "E102" // Invalid named_graph declaration
	ErrCodeMappingNamespace = "E103" // Namespace is not an absolute URI
	ErrCodeMappingEntity    = "E104" // No entities, or unknown entity name

	// Operation errors
	ErrCodeInvalidKey  = "E201" // Identifier cannot be classified
	ErrCodeQueryFailed = "E202" // Query construction or execution failed
	ErrCodeCastFailed  = "E203" // Result row has the wrong type

	// Scenario errors
	ErrCodeTestFailed = "E301" // One or more scenarios failed
)

// MapFieldToErrorCode maps a mapping compile error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "class":
		return ErrCodeMappingClass
	case strings.HasPrefix(field, "named_graph"):
		return ErrCodeMappingGraph
	case strings.HasPrefix(field, "namespace"):
		return ErrCodeMappingNamespace
	case field == "entity":
		return ErrCodeMappingEntity
	case field == "cue":
		return ErrCodeBuildFailed
	default:
		return ErrCodeGeneric
	}
}
