package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

func TestScriptFileName(t *testing.T) {
	assert.Equal(t, "add_script.ps1", ScriptFileName(models.ScriptAdd))
	assert.Equal(t, "launch_script.ps1", ScriptFileName(models.ScriptLaunch))
	assert.Equal(t, "remove_script.ps1", ScriptFileName(models.ScriptRemove))
}

func TestScriptRoundTripIsVerbatim(t *testing.T) {
	text := "Start-Process -FilePath \"a.exe\"\r\n\n  # trailing spaces  \n"
	assert.Equal(t, text, ImportScript(ExportScript(text)))
}

func TestBundleRoundTrip(t *testing.T) {
	in := Bundle{Add: "A", Launch: "L", Remove: "R"}

	data, err := ExportBundle(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"add":"A","launch":"L","remove":"R"}`, string(data))
	assert.Contains(t, string(data), "\n  \"add\"")

	out, err := DecodeBundle(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, "L", out.Get(models.ScriptLaunch))
}

func TestBundleRoundTripPreservesSpecialCharacters(t *testing.T) {
	in := Bundle{Add: "line1\nline2 \"quoted\" `tick`", Launch: "", Remove: "ünïcode\t"}

	data, err := ExportBundle(in)
	require.NoError(t, err)
	out, err := DecodeBundle(data)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestExportBundleDoesNotEscapeOperators(t *testing.T) {
	in := Bundle{Add: "Stop-Process -Name <value>", Launch: "a && b", Remove: "if ($x > $y) {}"}

	data, err := ExportBundle(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"add": "Stop-Process -Name <value>"`)
	assert.Contains(t, string(data), `"launch": "a && b"`)
	assert.Contains(t, string(data), `($x > $y)`)
	assert.NotContains(t, string(data), `\u003c`)
	assert.False(t, strings.HasSuffix(string(data), "\n"))
}

func TestDecodeBundleRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `add: x`},
		{"array", `["A","L","R"]`},
		{"null", `null`},
		{"missing remove", `{"add":"A","launch":"L"}`},
		{"number", `{"add":1,"launch":"L","remove":"R"}`},
		{"null value", `{"add":null,"launch":"L","remove":"R"}`},
		{"array value", `{"add":["Stop-Process"],"launch":"L","remove":"R"}`},
		{"extra key", `{"add":"A","launch":"L","remove":"R","update":"U"}`},
		{"wrong case", `{"Add":"A","launch":"L","remove":"R"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeBundle([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.ErrCodeMalformedBundle), err.Error())
		})
	}
}

func TestBundleTexts(t *testing.T) {
	b := BundleFromTexts(map[models.ScriptType]string{models.ScriptAdd: "a"})
	assert.Equal(t, Bundle{Add: "a"}, b)
	assert.Len(t, b.Texts(), 3)
}
