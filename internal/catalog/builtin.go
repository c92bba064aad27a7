package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

//go:embed builtin.yaml
var builtinYAML []byte

// Builtins decodes the embedded built-in command set
func Builtins() ([]models.CommandTemplate, error) {
	return decodeTemplates(builtinYAML)
}

func decodeTemplates(data []byte) ([]models.CommandTemplate, error) {
	var templates []models.CommandTemplate
	if err := yaml.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to decode command catalog: %w", err)
	}
	return templates, nil
}

// NewWithBuiltins returns a catalog seeded with the built-in command set
func NewWithBuiltins() (*Catalog, error) {
	builtins, err := Builtins()
	if err != nil {
		return nil, err
	}
	return New(builtins), nil
}
