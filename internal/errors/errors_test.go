package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategorization(t *testing.T) {
	cases := []struct {
		code     ErrorCode
		category ErrorCategory
	}{
		{ErrCodeEmptyName, CategoryValidation},
		{ErrCodeDuplicateID, CategoryValidation},
		{ErrCodeDuplicateParameter, CategoryValidation},
		{ErrCodeEmptyDescription, CategoryValidation},
		{ErrCodeMalformedBundle, CategoryImport},
		{ErrCodeDragPayload, CategoryImport},
		{ErrCodeExternalService, CategoryExternal},
		{ErrCodeStaleResult, CategoryConcurrency},
		{ErrorCode("SOMETHING_ELSE"), CategorySystem},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			assert.Equal(t, tc.category, NewAppError(tc.code, "x").Category)
		})
	}
}

func TestHasCodeThroughWrapping(t *testing.T) {
	base := MalformedBundleError("missing key remove")
	wrapped := fmt.Errorf("import failed: %w", base)

	assert.True(t, HasCode(wrapped, ErrCodeMalformedBundle))
	assert.False(t, HasCode(wrapped, ErrCodeDragPayload))
	assert.False(t, HasCode(stderrors.New("plain"), ErrCodeMalformedBundle))
	assert.True(t, IsCategory(wrapped, CategoryImport))
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(EmptyNameError()))
	assert.True(t, IsValidation(DuplicateParameterError("X")))
	assert.False(t, IsValidation(ExternalServiceError("generate", stderrors.New("boom"))))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ExternalServiceError("suggest", cause)

	assert.ErrorIs(t, err, cause)
	assert.True(t, err.IsRetryable())
	assert.Contains(t, err.Error(), string(ErrCodeExternalService))
}

func TestGetAppErrorConvertsForeignErrors(t *testing.T) {
	appErr := GetAppError(stderrors.New("boom"))
	assert.Equal(t, ErrCodeInternalError, appErr.Code)
	assert.Equal(t, SeverityCritical, appErr.Severity)
}

func TestWriteHTTPError(t *testing.T) {
	h := NewHTTPErrorHandler(true, nil)
	rec := httptest.NewRecorder()

	h.WriteHTTPError(rec, MalformedBundleError("value for add is not a string"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"code":"MALFORMED_BUNDLE"`)
	assert.Contains(t, rec.Body.String(), "value for add is not a string")
}

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusConflict, StatusCode(DuplicateIDError("x")))
	assert.Equal(t, http.StatusBadGateway, StatusCode(ExternalServiceError("generate", nil)))
	assert.Equal(t, http.StatusNotFound, StatusCode(NotFoundError("command")))
}

func TestCLIFormat(t *testing.T) {
	h := NewCLIErrorHandler(false, nil)
	assert.Equal(t, "WARNING: Command name is required", h.FormatError(EmptyNameError()))
	assert.Nil(t, h.HandleError(nil))
}
