package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/validation"
)

// CustomCommandRequest is the user-submitted form for a new catalog command
type CustomCommandRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Parameters  []string `json:"parameters,omitempty"`
}

// Builder validates custom commands and appends them to a catalog
type Builder struct {
	catalog   *Catalog
	validator *validation.Validator
	newID     func() string
}

// NewBuilder creates a builder for c
func NewBuilder(c *Catalog) *Builder {
	return &Builder{
		catalog:   c,
		validator: validation.NewValidator(),
		newID:     func() string { return "custom-" + uuid.NewString() },
	}
}

// Build validates req and returns the template it describes without adding
// it to the catalog
func (b *Builder) Build(req CustomCommandRequest) (models.CommandTemplate, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.CommandTemplate{}, errors.EmptyNameError()
	}

	params := normalizeParameters(req.Parameters)
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		key := strings.ToLower(p)
		if _, dup := seen[key]; dup {
			return models.CommandTemplate{}, errors.DuplicateParameterError(p)
		}
		seen[key] = struct{}{}
	}

	result := b.validator.Validate(validation.SchemaCustomCommand, map[string]interface{}{
		"id":          strings.TrimSpace(req.ID),
		"name":        name,
		"description": strings.TrimSpace(req.Description),
		"category":    strings.TrimSpace(req.Category),
		"parameters":  params,
	})
	if !result.Valid {
		return models.CommandTemplate{}, result.ToAppError()
	}

	id := strings.TrimSpace(req.ID)
	if id == "" {
		id = b.newID()
	}

	tmpl := models.CommandTemplate{
		ID:       id,
		Name:     name,
		Summary:  strings.TrimSpace(req.Description),
		Category: strings.TrimSpace(req.Category),
	}
	for _, p := range params {
		tmpl.Parameters = append(tmpl.Parameters, models.CommandParameter{Name: p})
	}
	return tmpl, nil
}

// Submit builds the template and appends it to the catalog
func (b *Builder) Submit(req CustomCommandRequest) (models.CommandTemplate, error) {
	return b.SubmitPersisted(req, nil)
}

// SubmitPersisted builds the template, hands it to persist and appends it to
// the catalog only once persist succeeds
func (b *Builder) SubmitPersisted(req CustomCommandRequest, persist func(models.CommandTemplate) error) (models.CommandTemplate, error) {
	tmpl, err := b.Build(req)
	if err != nil {
		return models.CommandTemplate{}, err
	}
	if err := b.catalog.AddPersisted(tmpl, persist); err != nil {
		return models.CommandTemplate{}, err
	}
	return tmpl, nil
}

// ParseParameterList splits a comma or whitespace separated parameter list as
// typed into a form field
func ParseParameterList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n'
	})
	return normalizeParameters(fields)
}

// normalizeParameters trims names, drops a leading dash and skips blanks
func normalizeParameters(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimLeft(strings.TrimSpace(n), "-")
		if n == "" {
			continue
		}
		out = append(out, n)
	}
	return out
}
