package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
)

func TestCustomCommandSchema(t *testing.T) {
	v := NewValidator()

	result := v.Validate(SchemaCustomCommand, map[string]interface{}{
		"id":         "install-widget",
		"name":       "Install-Widget",
		"category":   "Install",
		"parameters": []string{"Path", "Force"},
	})
	require.True(t, result.Valid, "%+v", result.Errors)
	assert.Equal(t, []string{"Path", "Force"}, result.Data["parameters"])
}

func TestCustomCommandSchemaRejectsBlankName(t *testing.T) {
	v := NewValidator()

	result := v.Validate(SchemaCustomCommand, map[string]interface{}{"name": "   "})
	require.False(t, result.Valid)

	e, ok := result.FirstError("name")
	require.True(t, ok)
	assert.Equal(t, "REQUIRED_FIELD_MISSING", e.Code)
}

func TestCustomCommandSchemaRejectsBadParameter(t *testing.T) {
	v := NewValidator()

	result := v.Validate(SchemaCustomCommand, map[string]interface{}{
		"name":       "Get-Thing",
		"parameters": []interface{}{"Path", "has space"},
	})
	require.False(t, result.Valid)

	e, ok := result.FirstError("parameters")
	require.True(t, ok)
	assert.Equal(t, "CUSTOM_VALIDATION_FAILED", e.Code)
}

func TestDragPayloadSchemaOptions(t *testing.T) {
	v := NewValidator()

	assert.True(t, v.Validate(SchemaDragPayload, map[string]interface{}{"commandId": "x", "target": "launch"}).Valid)
	assert.False(t, v.Validate(SchemaDragPayload, map[string]interface{}{"commandId": "x", "target": "build"}).Valid)
	assert.False(t, v.Validate(SchemaDragPayload, map[string]interface{}{"commandId": 42}).Valid)
}

func TestUnknownSchema(t *testing.T) {
	result := NewValidator().Validate("nope", nil)
	assert.False(t, result.Valid)
	assert.Equal(t, "SCHEMA_NOT_FOUND", result.Errors[0].Code)
}

func TestToAppError(t *testing.T) {
	result := NewValidator().Validate(SchemaGenerate, map[string]interface{}{"type": "build"})
	appErr := result.ToAppError()

	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeValidation, appErr.Code)
	assert.Contains(t, appErr.Details, "type")
	assert.Nil(t, NewValidator().Validate(SchemaSuggest, map[string]interface{}{"type": "add"}).ToAppError())
}
