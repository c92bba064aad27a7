// Package dragdrop decodes the payload carried by a catalog item dropped onto
// a script. Payloads come from outside the process and are untrusted.
package dragdrop

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/validation"
)

const maxPayloadSize = 16 << 10

// Lookup resolves a command id
type Lookup interface {
	Lookup(id string) (models.CommandTemplate, bool)
}

// Payload is the wire form of a dragged catalog item
type Payload struct {
	CommandID string `json:"commandId"`
	Target    string `json:"target,omitempty"`
}

// Drop is a validated payload resolved against the catalog
type Drop struct {
	Template models.CommandTemplate
	// Target is empty when the payload did not name a script
	Target models.ScriptType
}

// Encode builds the payload for tmpl
func Encode(tmpl models.CommandTemplate, target models.ScriptType) ([]byte, error) {
	return json.Marshal(Payload{CommandID: tmpl.ID, Target: string(target)})
}

// Decode parses raw, validates its shape and resolves the command
func Decode(raw []byte, catalog Lookup) (Drop, error) {
	if len(raw) > maxPayloadSize {
		return Drop{}, errors.DragPayloadError("payload too large", nil)
	}

	var data map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&data); err != nil {
		return Drop{}, errors.DragPayloadError("not a JSON object", err)
	}
	if data == nil {
		return Drop{}, errors.DragPayloadError("not a JSON object", nil)
	}
	if dec.More() {
		return Drop{}, errors.DragPayloadError("trailing data after payload", stderrors.New("unexpected content"))
	}

	result := validation.NewValidator().Validate(validation.SchemaDragPayload, data)
	if !result.Valid {
		return Drop{}, errors.DragPayloadError(result.Errors[0].Message, result.ToAppError())
	}

	id := result.Data["commandId"].(string)
	tmpl, ok := catalog.Lookup(id)
	if !ok {
		return Drop{}, errors.DragPayloadError(fmt.Sprintf("unknown command %q", id), nil)
	}

	drop := Drop{Template: tmpl}
	if target, ok := result.Data["target"].(string); ok {
		drop.Target = models.ScriptType(target)
	}
	return drop, nil
}
