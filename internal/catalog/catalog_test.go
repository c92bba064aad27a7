package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

func params(names ...string) []models.CommandParameter {
	out := make([]models.CommandParameter, len(names))
	for i, n := range names {
		out[i] = models.CommandParameter{Name: n}
	}
	return out
}

func TestBuiltinsDecode(t *testing.T) {
	builtins, err := Builtins()
	require.NoError(t, err)
	require.NotEmpty(t, builtins)

	for _, b := range builtins {
		assert.NoError(t, ValidateTemplate(b), b.ID)
	}

	c, err := NewWithBuiltins()
	require.NoError(t, err)
	sp, ok := c.Lookup("start-process")
	require.True(t, ok)
	assert.Equal(t, "Start-Process", sp.Name)
	assert.Equal(t, []string{"FilePath", "ArgumentList", "WorkingDirectory"}, sp.ParameterNames())
}

func TestAddAndLookup(t *testing.T) {
	c := New(nil)
	tmpl := models.CommandTemplate{ID: "a", Name: "Get-A", Parameters: params("Path")}

	require.NoError(t, c.Add(tmpl))

	got, ok := c.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, tmpl, got)
	assert.Equal(t, 1, c.Len())
}

func TestAddRejectsDuplicateID(t *testing.T) {
	c := New([]models.CommandTemplate{{ID: "a", Name: "Get-A"}})

	err := c.Add(models.CommandTemplate{ID: "a", Name: "Other"})
	assert.True(t, errors.HasCode(err, errors.ErrCodeDuplicateID))
	assert.Equal(t, 1, c.Len())
}

func TestAddRejectsBlankName(t *testing.T) {
	err := New(nil).Add(models.CommandTemplate{ID: "a", Name: "  "})
	assert.True(t, errors.HasCode(err, errors.ErrCodeEmptyName))
	assert.True(t, errors.IsValidation(err))
}

func TestAddRejectsCaseInsensitiveParameterCollision(t *testing.T) {
	c := New(nil)
	err := c.Add(models.CommandTemplate{ID: "a", Name: "Get-A", Parameters: params("X", "x")})
	assert.True(t, errors.HasCode(err, errors.ErrCodeDuplicateParameter))

	_, ok := c.Lookup("a")
	assert.False(t, ok)
}

func TestListIsOrderedAndDetached(t *testing.T) {
	c := New([]models.CommandTemplate{
		{ID: "b", Name: "B", Parameters: params("P")},
		{ID: "a", Name: "A"},
	})
	require.NoError(t, c.Add(models.CommandTemplate{ID: "c", Name: "C"}))

	list := c.List()
	require.Len(t, list, 3)
	assert.Equal(t, "b", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
	assert.Equal(t, "c", list[2].ID)

	list[0].Parameters[0].Name = "Mutated"
	again, _ := c.Lookup("b")
	assert.Equal(t, "P", again.Parameters[0].Name)
}

func TestLookupByNameIgnoresCase(t *testing.T) {
	c := New([]models.CommandTemplate{{ID: "sp", Name: "Start-Process"}})

	got, ok := c.LookupByName("start-process")
	require.True(t, ok)
	assert.Equal(t, "sp", got.ID)

	_, ok = c.LookupByName("Stop-Process")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	c, err := NewWithBuiltins()
	require.NoError(t, err)

	results := c.Search("start-proc")
	require.NotEmpty(t, results)
	assert.Equal(t, "Start-Process", results[0].Name)

	assert.Len(t, c.Search(""), c.Len())
}

func TestCategories(t *testing.T) {
	c := New([]models.CommandTemplate{
		{ID: "1", Name: "A", Category: "Install"},
		{ID: "2", Name: "B", Category: "Process"},
		{ID: "3", Name: "C", Category: "Install"},
		{ID: "4", Name: "D"},
	})
	assert.Equal(t, []string{"Install", "Process"}, c.Categories())
	assert.Len(t, c.ByCategory("install"), 2)
}
