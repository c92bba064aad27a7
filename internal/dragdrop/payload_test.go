package dragdrop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/catalog"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]models.CommandTemplate{
		{ID: "stop-process", Name: "Stop-Process", Parameters: []models.CommandParameter{{Name: "Name"}}},
	})
}

func TestDecode(t *testing.T) {
	drop, err := Decode([]byte(`{"commandId":"stop-process","target":"remove"}`), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, "Stop-Process", drop.Template.Name)
	assert.Equal(t, models.ScriptRemove, drop.Target)

	drop, err = Decode([]byte(`{"commandId":"stop-process"}`), testCatalog())
	require.NoError(t, err)
	assert.Equal(t, models.ScriptType(""), drop.Target)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	c := testCatalog()
	tmpl, _ := c.Lookup("stop-process")

	raw, err := Encode(tmpl, models.ScriptLaunch)
	require.NoError(t, err)

	drop, err := Decode(raw, c)
	require.NoError(t, err)
	assert.Equal(t, tmpl, drop.Template)
	assert.Equal(t, models.ScriptLaunch, drop.Target)
}

func TestDecodeRejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ``},
		{"plain text", `Stop-Process`},
		{"array", `["stop-process"]`},
		{"null", `null`},
		{"missing id", `{"target":"add"}`},
		{"blank id", `{"commandId":"  "}`},
		{"numeric id", `{"commandId":42}`},
		{"bad target", `{"commandId":"stop-process","target":"update"}`},
		{"unknown command", `{"commandId":"format-disk"}`},
		{"trailing data", `{"commandId":"stop-process"} {"commandId":"x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw), testCatalog())
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeDragPayload), err.Error())
		})
	}
}
