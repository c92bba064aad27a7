package catalog

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

func TestSubmitValidCommand(t *testing.T) {
	c := New(nil)
	b := NewBuilder(c)

	tmpl, err := b.Submit(CustomCommandRequest{
		Name:       "Install-Widget",
		Category:   "Install",
		Parameters: []string{"Path", "-Force"},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(tmpl.ID, "custom-"))
	assert.Equal(t, []string{"Path", "Force"}, tmpl.ParameterNames())

	got, ok := c.Lookup(tmpl.ID)
	require.True(t, ok)
	assert.Equal(t, tmpl, got)
}

func TestSubmitKeepsExplicitID(t *testing.T) {
	c := New(nil)
	tmpl, err := NewBuilder(c).Submit(CustomCommandRequest{ID: "widget", Name: "Install-Widget"})
	require.NoError(t, err)
	assert.Equal(t, "widget", tmpl.ID)

	_, err = NewBuilder(c).Submit(CustomCommandRequest{ID: "widget", Name: "Again"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeDuplicateID))
}

func TestSubmitPersistedFailureLeavesCatalog(t *testing.T) {
	c := New(nil)
	b := NewBuilder(c)
	req := CustomCommandRequest{ID: "widget", Name: "Install-Widget"}

	_, err := b.SubmitPersisted(req, func(models.CommandTemplate) error {
		return errors.StorageError("write custom commands", stderrors.New("disk full"))
	})
	assert.True(t, errors.HasCode(err, errors.ErrCodeStorageFailure))
	_, ok := c.Lookup("widget")
	assert.False(t, ok)

	var persisted []string
	_, err = b.SubmitPersisted(req, func(tmpl models.CommandTemplate) error {
		persisted = append(persisted, tmpl.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"widget"}, persisted)

	_, err = b.SubmitPersisted(req, func(models.CommandTemplate) error {
		t.Error("persist called for a duplicate id")
		return nil
	})
	assert.True(t, errors.HasCode(err, errors.ErrCodeDuplicateID))
}

func TestSubmitEmptyNameIsValidationError(t *testing.T) {
	c := New(nil)
	_, err := NewBuilder(c).Submit(CustomCommandRequest{Name: ""})

	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyName))
	assert.Equal(t, 0, c.Len())
}

func TestSubmitCaseInsensitiveDuplicateParameters(t *testing.T) {
	c := New(nil)
	_, err := NewBuilder(c).Submit(CustomCommandRequest{Name: "Get-Thing", Parameters: []string{"X", "x"}})

	assert.True(t, errors.HasCode(err, errors.ErrCodeDuplicateParameter))
	assert.Equal(t, 0, c.Len())
}

func TestSubmitRejectsInvalidParameterName(t *testing.T) {
	_, err := NewBuilder(New(nil)).Submit(CustomCommandRequest{Name: "Get-Thing", Parameters: []string{"1st"}})
	assert.True(t, errors.IsValidation(err))
}

func TestParseParameterList(t *testing.T) {
	assert.Equal(t, []string{"Path", "Force", "Name"}, ParseParameterList(" -Path, Force ;Name,,"))
	assert.Empty(t, ParseParameterList("   "))
}
