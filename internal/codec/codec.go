// Package codec converts scripts to and from their file representations: a
// plain text file per script and a JSON bundle holding all three.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

// BundleFileName is the suggested file name for an exported bundle
const BundleFileName = "powershell_forge_scripts.json"

// ScriptFileName returns the suggested file name for an exported script,
// e.g. "add_script.ps1"
func ScriptFileName(t models.ScriptType) string {
	return fmt.Sprintf("%s_script.ps1", t)
}

// Bundle holds the text of all three scripts
type Bundle struct {
	Add    string `json:"add"`
	Launch string `json:"launch"`
	Remove string `json:"remove"`
}

// BundleFromTexts builds a bundle from per-type texts; missing types are empty
func BundleFromTexts(texts map[models.ScriptType]string) Bundle {
	return Bundle{
		Add:    texts[models.ScriptAdd],
		Launch: texts[models.ScriptLaunch],
		Remove: texts[models.ScriptRemove],
	}
}

// Texts returns the bundle as a per-type map
func (b Bundle) Texts() map[models.ScriptType]string {
	return map[models.ScriptType]string{
		models.ScriptAdd:    b.Add,
		models.ScriptLaunch: b.Launch,
		models.ScriptRemove: b.Remove,
	}
}

// Get returns the text for t
func (b Bundle) Get(t models.ScriptType) string {
	return b.Texts()[t]
}

// ExportScript returns the file content for a single script. The text is
// written verbatim.
func ExportScript(text string) []byte {
	return []byte(text)
}

// ImportScript returns the buffer content for a single script file. The
// content replaces the buffer verbatim; no parsing is attempted.
func ImportScript(data []byte) string {
	return string(data)
}

// ExportBundle serialises all three scripts as an indented JSON object with
// exactly the keys add, launch and remove. Characters such as < > and & are
// written as-is.
func ExportBundle(b Bundle) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(b); err != nil {
		return nil, errors.InternalError("Failed to encode scripts bundle").WithDetails(err.Error())
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// DecodeBundle parses a bundle. The document must be a JSON object whose
// add, launch and remove members are all strings; anything else yields a
// MALFORMED_BUNDLE error. Unknown members are rejected as well.
func DecodeBundle(data []byte) (Bundle, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Bundle{}, errors.MalformedBundleError("not a JSON object: " + err.Error())
	}
	if raw == nil {
		return Bundle{}, errors.MalformedBundleError("not a JSON object")
	}

	var unknown []string
	for key := range raw {
		if !models.ScriptType(key).Valid() {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Bundle{}, errors.MalformedBundleError("unexpected keys: " + strings.Join(unknown, ", "))
	}

	texts := make(map[models.ScriptType]string, len(models.ScriptTypes))
	for _, t := range models.ScriptTypes {
		value, ok := raw[string(t)]
		if !ok {
			return Bundle{}, errors.MalformedBundleError(fmt.Sprintf("missing key %q", t))
		}
		value = bytes.TrimSpace(value)
		if len(value) == 0 || value[0] != '"' {
			return Bundle{}, errors.MalformedBundleError(fmt.Sprintf("key %q must be a string", t))
		}
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return Bundle{}, errors.MalformedBundleError(fmt.Sprintf("key %q: %v", t, err))
		}
		texts[t] = text
	}

	return BundleFromTexts(texts), nil
}
