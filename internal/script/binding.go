package script

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/errors"
	"github.com/VibeCoder01/PowerShell-Forge-sub000/internal/models"
)

// Resolver finds the catalog command a script line starts with
type Resolver interface {
	LookupByName(name string) (models.CommandTemplate, bool)
}

// Bind sets a parameter value on p. Names are matched case-sensitively; a
// name tmpl does not declare is stored as given and has no effect on the
// flattened text.
func Bind(tmpl models.CommandTemplate, p *models.PlacedCommand, name, value string) {
	if p.Values == nil {
		p.Values = make(map[string]string)
	}
	p.Values[name] = value
}

// boundValue returns the trimmed value for name when it counts as set
func boundValue(p *models.PlacedCommand, name string) (string, bool) {
	v := strings.TrimSpace(p.Value(name))
	if v == "" || v == Placeholder {
		return "", false
	}
	return v, true
}

// Flatten renders p as script text: the command name followed by
// -Name "value" for every declared parameter with a non-blank value, in
// declaration order
func Flatten(tmpl models.CommandTemplate, p *models.PlacedCommand) string {
	var b strings.Builder
	b.WriteString(tmpl.Name)
	for _, param := range tmpl.Parameters {
		v, ok := boundValue(p, param.Name)
		if !ok {
			continue
		}
		b.WriteString(" -")
		b.WriteString(param.Name)
		b.WriteString(" ")
		b.WriteString(QuoteValue(v))
	}
	return b.String()
}

// HasUnsetParameters reports whether tmpl declares parameters and none of
// them has a value on p. Interfaces use it to highlight commands that still
// need attention.
func HasUnsetParameters(tmpl models.CommandTemplate, p *models.PlacedCommand) bool {
	if len(tmpl.Parameters) == 0 {
		return false
	}
	return len(UnsetParameters(tmpl, p)) == len(tmpl.Parameters)
}

// UnsetParameters lists the declared parameters that have no value
func UnsetParameters(tmpl models.CommandTemplate, p *models.PlacedCommand) []string {
	var unset []string
	for _, param := range tmpl.Parameters {
		if _, ok := boundValue(p, param.Name); !ok {
			unset = append(unset, param.Name)
		}
	}
	return unset
}

// QuoteValue wraps v in double quotes, escaping backticks and embedded
// quotes with the PowerShell escape character
func QuoteValue(v string) string {
	v = strings.ReplaceAll(v, "`", "``")
	v = strings.ReplaceAll(v, `"`, "`\"")
	return `"` + v + `"`
}

// ParsedLine is a script line recognised as a catalog command
type ParsedLine struct {
	Indent   string
	Template models.CommandTemplate
	Command  *models.PlacedCommand
	// Extra holds tokens that do not bind to a declared parameter, exactly as
	// written, so they survive a rewrite of the line.
	Extra []string
}

// Render flattens the line back into text
func (l *ParsedLine) Render() string {
	text := l.Indent + Flatten(l.Template, l.Command)
	if len(l.Extra) > 0 {
		text += " " + strings.Join(l.Extra, " ")
	}
	return text
}

// ParseLine recovers a placed command from a line of script text. The first
// token must name a catalog command. Each -Name value pair is bound; the
// placeholder and a missing value both count as unset.
func ParseLine(line string, r Resolver) (*ParsedLine, error) {
	line = strings.TrimSuffix(line, "\r")
	body := strings.TrimLeft(line, " \t")
	tokens := tokenize(body)
	if len(tokens) == 0 {
		return nil, errors.ValidationError("The line is empty")
	}

	tmpl, ok := r.LookupByName(tokens[0].value)
	if !ok {
		return nil, errors.NotFoundError(fmt.Sprintf("Catalog command '%s'", tokens[0].value))
	}

	parsed := &ParsedLine{
		Indent:   line[:len(line)-len(body)],
		Template: tmpl,
		Command:  models.NewPlacedCommand(tmpl),
	}

	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		if !tok.isParameter() {
			parsed.Extra = append(parsed.Extra, tok.raw)
			continue
		}

		name := tok.raw[1:]
		raw := tok.raw
		value := ""
		if i+1 < len(tokens) && !tokens[i+1].isParameter() {
			i++
			value = tokens[i].value
			raw += " " + tokens[i].raw
		}

		if !tmpl.HasParameter(name) {
			parsed.Extra = append(parsed.Extra, raw)
		}
		if strings.TrimSpace(value) == Placeholder {
			value = ""
		}
		Bind(tmpl, parsed.Command, name, value)
	}

	return parsed, nil
}

type token struct {
	raw    string
	value  string
	quoted bool
}

// isParameter reports whether the token reads as -Name
func (t token) isParameter() bool {
	if t.quoted || len(t.raw) < 2 || t.raw[0] != '-' {
		return false
	}
	r := rune(t.raw[1])
	return unicode.IsLetter(r) || r == '_'
}

// tokenize splits a command line on whitespace. Quoted sections may contain
// whitespace; inside double quotes and in bare words a backtick escapes the
// next character.
func tokenize(line string) []token {
	runes := []rune(line)
	var tokens []token

	i := 0
	for i < len(runes) {
		if unicode.IsSpace(runes[i]) {
			i++
			continue
		}

		start := i
		quoted := false
		var value strings.Builder
		for i < len(runes) && !unicode.IsSpace(runes[i]) {
			c := runes[i]
			switch {
			case c == '"' || c == '\'':
				quoted = true
				i++
				for i < len(runes) && runes[i] != c {
					if c == '"' && runes[i] == '`' && i+1 < len(runes) {
						i++
					}
					value.WriteRune(runes[i])
					i++
				}
				if i < len(runes) {
					i++
				}
			case c == '`' && i+1 < len(runes):
				value.WriteRune(runes[i+1])
				i += 2
			default:
				value.WriteRune(c)
				i++
			}
		}

		tokens = append(tokens, token{raw: string(runes[start:i]), value: value.String(), quoted: quoted})
	}
	return tokens
}
