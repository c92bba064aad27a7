// Package catalog holds the registry of command templates that can be
// inserted into scripts. The registry is append-only for the lifetime of a
// session.
package catalog

import (
	"fmt"
	"strings"
	"sync"

	"github.com/sahilm/fuzzy"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

// Catalog is an ordered, append-only set of command templates
type Catalog struct {
	mu        sync.RWMutex
	templates []models.CommandTemplate
	byID      map[string]int
}

// New creates a catalog holding builtins in the given order. Built-in
// entries are trusted; a later entry with a repeated id is ignored.
func New(builtins []models.CommandTemplate) *Catalog {
	c := &Catalog{byID: make(map[string]int, len(builtins))}
	for _, t := range builtins {
		if _, exists := c.byID[t.ID]; exists {
			continue
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t.Clone())
	}
	return c
}

// Lookup returns the template with the given id
func (c *Catalog) Lookup(id string) (models.CommandTemplate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.byID[id]
	if !ok {
		return models.CommandTemplate{}, false
	}
	return c.templates[i].Clone(), true
}

// LookupByName returns the first template whose command name matches name,
// ignoring case
func (c *Catalog) LookupByName(name string) (models.CommandTemplate, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, t := range c.templates {
		if strings.EqualFold(t.Name, name) {
			return t.Clone(), true
		}
	}
	return models.CommandTemplate{}, false
}

// List returns every template in insertion order
func (c *Catalog) List() []models.CommandTemplate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.CommandTemplate, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.Clone()
	}
	return out
}

// Len returns the number of templates
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.templates)
}

// Add validates t and appends it
func (c *Catalog) Add(t models.CommandTemplate) error {
	return c.AddPersisted(t, nil)
}

// AddPersisted appends t like Add, calling persist once t has passed every
// check. The catalog is left unchanged when persist fails.
func (c *Catalog) AddPersisted(t models.CommandTemplate, persist func(models.CommandTemplate) error) error {
	if err := ValidateTemplate(t); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.byID[t.ID]; exists {
		return errors.DuplicateIDError(t.ID)
	}
	if persist != nil {
		if err := persist(t); err != nil {
			return err
		}
	}
	c.byID[t.ID] = len(c.templates)
	c.templates = append(c.templates, t.Clone())
	return nil
}

// ValidateTemplate checks the structural rules every catalog entry must
// satisfy: an id, a non-blank name and unique, non-blank parameter names
// (compared case-insensitively).
func ValidateTemplate(t models.CommandTemplate) error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.NewAppError(errors.ErrCodeMissingField, "Command id is required")
	}
	if strings.TrimSpace(t.Name) == "" {
		return errors.EmptyNameError()
	}

	seen := make(map[string]struct{}, len(t.Parameters))
	for i, p := range t.Parameters {
		if strings.TrimSpace(p.Name) == "" {
			return errors.ValidationError(fmt.Sprintf("Parameter %d has no name", i+1))
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			return errors.DuplicateParameterError(p.Name)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Search fuzzy-matches query against name, category and description. An
// empty query returns the whole catalog.
func (c *Catalog) Search(query string) []models.CommandTemplate {
	templates := c.List()
	query = strings.TrimSpace(query)
	if query == "" {
		return templates
	}

	searchStrings := make([]string, len(templates))
	for i, t := range templates {
		searchStrings[i] = fmt.Sprintf("%s %s %s", t.Name, t.Category, t.Summary)
	}

	matches := fuzzy.Find(query, searchStrings)
	results := make([]models.CommandTemplate, 0, len(matches))
	for _, match := range matches {
		results = append(results, templates[match.Index])
	}
	return results
}

// Categories returns the distinct categories in first-seen order
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, t := range c.templates {
		if t.Category == "" || seen[t.Category] {
			continue
		}
		seen[t.Category] = true
		categories = append(categories, t.Category)
	}
	return categories
}

// ByCategory returns the templates filed under category
func (c *Catalog) ByCategory(category string) []models.CommandTemplate {
	var out []models.CommandTemplate
	for _, t := range c.List() {
		if strings.EqualFold(t.Category, category) {
			out = append(out, t)
		}
	}
	return out
}
