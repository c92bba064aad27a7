// Package validation provides schema-based input validation.
//
// SYSTEM ARCHITECTURE ROLE:
// User input reaches forge through the CLI, the HTTP API, the TUI dialogs and
// drag payloads. Before it is turned into catalog entries or AI requests it is
// checked against a named Schema and converted to typed values.
//
// INTEGRATION POINTS:
// - internal/catalog/builder.go: the custom_command schema guards new catalog entries
// - internal/dragdrop/payload.go: the drag_payload schema guards dropped items
// - internal/api/server.go: generate_script and suggest_script guard AI endpoints
// - internal/errors/errors.go: ValidationResult.ToAppError() converts failures
package validation

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
)

// Schema names registered by NewValidator
const (
	SchemaCustomCommand = "custom_command"
	SchemaDragPayload   = "drag_payload"
	SchemaGenerate      = "generate_script"
	SchemaSuggest       = "suggest_script"
)

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)
	parameterPattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	scriptTypeOptions = []string{"add", "launch", "remove"}
)

// FieldValidator provides validation rules for individual fields
type FieldValidator struct {
	Required  bool
	Type      string
	MinLength int
	MaxLength int
	Pattern   *regexp.Regexp
	Options   []string
	Custom    func(interface{}) error
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	Valid  bool                   `json:"valid"`
	Errors []ValidationError      `json:"errors,omitempty"`
	Data   map[string]interface{} `json:"data,omitempty"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Schema represents a validation schema
type Schema struct {
	Name   string
	Fields map[string]FieldValidator
	Rules  []func(map[string]interface{}) error
}

// Validator provides centralized validation functionality
type Validator struct {
	schemas map[string]*Schema
}

// NewValidator creates a validator with the built-in schemas registered
func NewValidator() *Validator {
	v := &Validator{
		schemas: make(map[string]*Schema),
	}
	v.registerBuiltinSchemas()
	return v
}

// RegisterSchema registers a validation schema
func (v *Validator) RegisterSchema(schema *Schema) {
	v.schemas[schema.Name] = schema
}

// Validate validates data against a schema. Fields are checked in name
// order so the first reported error is stable.
func (v *Validator) Validate(schemaName string, data map[string]interface{}) *ValidationResult {
	schema, exists := v.schemas[schemaName]
	if !exists {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "schema",
				Code:    "SCHEMA_NOT_FOUND",
				Message: fmt.Sprintf("Validation schema '%s' not found", schemaName),
			}},
		}
	}

	result := &ValidationResult{
		Valid: true,
		Data:  make(map[string]interface{}),
	}

	names := make([]string, 0, len(schema.Fields))
	for name := range schema.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v.validateField(name, schema.Fields[name], data, result)
	}

	for _, rule := range schema.Rules {
		if err := rule(data); err != nil {
			result.fail("schema", "SCHEMA_RULE_VIOLATION", err.Error(), nil)
		}
	}

	return result
}

func (r *ValidationResult) fail(field, code, message string, value interface{}) {
	r.Valid = false
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: message, Value: value})
}

func (v *Validator) validateField(fieldName string, validator FieldValidator, data map[string]interface{}, result *ValidationResult) {
	value, exists := data[fieldName]

	if validator.Required && isBlank(value, exists) {
		result.fail(fieldName, "REQUIRED_FIELD_MISSING", fmt.Sprintf("Field '%s' is required", fieldName), nil)
		return
	}
	if !exists || value == nil {
		return
	}

	converted, err := convertType(fieldName, validator.Type, value)
	if err != nil {
		result.fail(fieldName, "INVALID_TYPE", err.Error(), value)
		return
	}
	result.Data[fieldName] = converted

	if str, ok := converted.(string); ok && validator.Type == "string" {
		switch {
		case validator.MinLength > 0 && len(str) < validator.MinLength:
			result.fail(fieldName, "MIN_LENGTH_VIOLATION",
				fmt.Sprintf("Field '%s' must be at least %d characters long", fieldName, validator.MinLength), str)
		case validator.MaxLength > 0 && len(str) > validator.MaxLength:
			result.fail(fieldName, "MAX_LENGTH_VIOLATION",
				fmt.Sprintf("Field '%s' must be at most %d characters long", fieldName, validator.MaxLength), str)
		}

		if str != "" && validator.Pattern != nil && !validator.Pattern.MatchString(str) {
			result.fail(fieldName, "PATTERN_MISMATCH",
				fmt.Sprintf("Field '%s' does not match required pattern", fieldName), str)
		}

		if str != "" && len(validator.Options) > 0 && !containsString(validator.Options, str) {
			result.fail(fieldName, "INVALID_OPTION",
				fmt.Sprintf("Field '%s' must be one of: %s", fieldName, strings.Join(validator.Options, ", ")), str)
		}
	}

	if validator.Custom != nil {
		if err := validator.Custom(converted); err != nil {
			result.fail(fieldName, "CUSTOM_VALIDATION_FAILED",
				fmt.Sprintf("Field '%s': %s", fieldName, err.Error()), converted)
		}
	}
}

func isBlank(value interface{}, exists bool) bool {
	if !exists || value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func convertType(fieldName, expectedType string, value interface{}) (interface{}, error) {
	switch expectedType {
	case "string":
		if str, ok := value.(string); ok {
			return str, nil
		}
		return nil, fmt.Errorf("field '%s' must be a string", fieldName)

	case "bool":
		switch val := value.(type) {
		case bool:
			return val, nil
		case string:
			if b, err := strconv.ParseBool(val); err == nil {
				return b, nil
			}
		}
		return nil, fmt.Errorf("field '%s' must be a boolean", fieldName)

	case "array":
		switch val := value.(type) {
		case []string:
			return val, nil
		case []interface{}:
			out := make([]string, len(val))
			for i, item := range val {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("field '%s' item %d must be a string", fieldName, i)
				}
				out[i] = s
			}
			return out, nil
		}
		return nil, fmt.Errorf("field '%s' must be an array", fieldName)

	default:
		return value, nil
	}
}

func containsString(options []string, s string) bool {
	for _, o := range options {
		if o == s {
			return true
		}
	}
	return false
}

func (v *Validator) registerBuiltinSchemas() {
	v.RegisterSchema(&Schema{
		Name: SchemaCustomCommand,
		Fields: map[string]FieldValidator{
			"id":          {Type: "string", MaxLength: 128, Pattern: identifierPattern},
			"name":        {Type: "string", Required: true, MaxLength: 128},
			"description": {Type: "string", MaxLength: 2000},
			"category":    {Type: "string", MaxLength: 64},
			"parameters": {
				Type: "array",
				Custom: func(value interface{}) error {
					for i, name := range value.([]string) {
						if !parameterPattern.MatchString(name) {
							return fmt.Errorf("parameter %d (%q) must start with a letter and contain only letters, digits or underscores", i+1, name)
						}
					}
					return nil
				},
			},
		},
	})

	v.RegisterSchema(&Schema{
		Name: SchemaDragPayload,
		Fields: map[string]FieldValidator{
			"commandId": {Type: "string", Required: true, MaxLength: 128},
			"target":    {Type: "string", Options: scriptTypeOptions},
		},
	})

	v.RegisterSchema(&Schema{
		Name: SchemaGenerate,
		Fields: map[string]FieldValidator{
			"type":        {Type: "string", Required: true, Options: scriptTypeOptions},
			"description": {Type: "string", MaxLength: 8000},
		},
	})

	v.RegisterSchema(&Schema{
		Name: SchemaSuggest,
		Fields: map[string]FieldValidator{
			"type": {Type: "string", Required: true, Options: scriptTypeOptions},
		},
	})
}

// ToAppError converts validation result to AppError
func (r *ValidationResult) ToAppError() *errors.AppError {
	if r.Valid {
		return nil
	}
	if len(r.Errors) == 0 {
		return errors.ValidationError("Validation failed")
	}

	appErr := errors.ValidationError(r.Errors[0].Message)

	var details []string
	for _, e := range r.Errors {
		details = append(details, fmt.Sprintf("%s: %s", e.Field, e.Message))
	}
	appErr.WithDetails(strings.Join(details, "; "))
	appErr.WithContext("validation_errors", r.Errors)

	return appErr
}

// FirstError returns the first failure for field, if any
func (r *ValidationResult) FirstError(field string) (ValidationError, bool) {
	for _, e := range r.Errors {
		if e.Field == field {
			return e, true
		}
	}
	return ValidationError{}, false
}
