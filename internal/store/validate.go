package store

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tailscale/hujson"

	"github.com/nibzard/tasklink/internal/task"
	"github.com/nibzard/tasklink/internal/utils"
)

//go:embed tasks.schema.json
var schemaJSON []byte

const schemaURL = "https://tasklink.local/tasks.schema.json"

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
	Tasks    int
}

// Schema returns the compiled task list schema.
func Schema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true
	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// Validate checks the file on disk against the task list schema and reports
// duplicate descriptions and IDs as warnings. A missing file is an error.
func (s *Store) Validate() (*ValidationResult, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	return ValidateBytes(data)
}

// ValidateBytes validates a task list document.
func ValidateBytes(data []byte) (*ValidationResult, error) {
	result := &ValidationResult{
		Valid:    true,
		Errors:   make([]error, 0),
		Warnings: make([]string, 0),
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Warnings = append(result.Warnings, "task file is empty")
		return result, nil
	}

	std, err := hujson.Standardize(bytes.Clone(data))
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result, nil
	}

	var doc any
	if err := json.Unmarshal(std, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result, nil
	}

	schema, err := Schema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
		return result, nil
	}

	tasks, err := decode(std)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: err})
		return result, nil
	}
	result.Tasks = len(tasks)
	checkDuplicates(result, tasks)

	return result, nil
}

func appendSchemaErrors(result *ValidationResult, err error) {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: utils.JSONPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}
	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

func checkDuplicates(result *ValidationResult, tasks []task.Task) {
	seenDesc := make(map[string]int, len(tasks))
	seenID := make(map[string]int, len(tasks))
	for i, t := range tasks {
		if first, ok := seenDesc[t.Description]; ok {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("[%d] duplicate description %q (lookups resolve to [%d])", i, t.Description, first))
		} else {
			seenDesc[t.Description] = i
		}
		if t.ID == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("[%d] missing id (assigned on next save)", i))
			continue
		}
		if first, ok := seenID[t.ID]; ok {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %q (first used by [%d])", t.ID, first),
			})
		} else {
			seenID[t.ID] = i
		}
	}
}
