package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"goerp/internal/domain"
)

// Include resolution stops descending after this many levels so a partial
// that includes itself cannot loop.
const maxIncludeDepth = 3

var (
	placeholderPattern = regexp.MustCompile(`\{\{([a-zA-Z0-9_.-]+)\}\}`)
	includePattern     = regexp.MustCompile(`@include\s*\(\s*['"]([^'"]+)['"](?:\s*,\s*(\[[^\]]*\]))?\s*\)`)
)

// Substitute replaces every {{key}} token in text with the string form of the
// matching value from data. Keys may contain ASCII letters, digits,
// underscores, dots, and hyphens; a {{...}} sequence with any other character
// (spaces included) is not a token and passes through unchanged, as do tokens
// without a matching key. The text is scanned exactly once, so a value that
// itself contains a {{...}} token is inserted as-is and never re-expanded.
func Substitute(text string, data map[string]any) string {
	if len(data) == 0 || !strings.Contains(text, "{{") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := match[2 : len(match)-2]
		value, ok := data[key]
		if !ok {
			return match
		}
		return stringify(value)
	})
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprintf("%v", t)
	}
}

// PartialStore resolves a slash-separated include path (e.g. "minty/button")
// to raw partial markup.
type PartialStore interface {
	Partial(path string) (string, error)
}

// RenderedEmail is the output of rendering a template against a context.
type RenderedEmail struct {
	Subject string
	Body    string
}

// Renderer renders an EmailTemplate's subject and content against a variable
// context and resolves @include directives against a partial store.
type Renderer struct {
	partials PartialStore
}

// NewRenderer creates a Renderer backed by the given partial store.
func NewRenderer(partials PartialStore) *Renderer {
	return &Renderer{partials: partials}
}

// Render substitutes variables into the template's subject and content, then
// resolves include directives in the body. A missing partial degrades to an
// inline HTML comment; a malformed inline-data literal is fatal and returns an
// error satisfying errors.Is(err, domain.ErrRenderFailed). An empty content
// yields an empty body without error.
func (r *Renderer) Render(tmpl *domain.EmailTemplate, data map[string]any) (*RenderedEmail, error) {
	subject := Substitute(tmpl.Subject, data)
	if tmpl.Content == "" {
		return &RenderedEmail{Subject: subject}, nil
	}
	body := Substitute(tmpl.Content, data)
	body, err := r.resolveIncludes(body, tmpl.TemplateType, data, 0)
	if err != nil {
		return nil, errors.Join(domain.ErrRenderFailed, err)
	}
	return &RenderedEmail{Subject: subject, Body: body}, nil
}

func (r *Renderer) resolveIncludes(body string, skin domain.TemplateType, data map[string]any, depth int) (string, error) {
	if depth >= maxIncludeDepth || !strings.Contains(body, "@include") {
		return body, nil
	}
	var firstErr error
	out := includePattern.ReplaceAllStringFunc(body, func(match string) string {
		groups := includePattern.FindStringSubmatch(match)
		path, literal := groups[1], groups[2]

		merged := data
		if literal != "" {
			inline, err := ParseDataLiteral(literal)
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("include %q: %w", path, err)
				}
				return match
			}
			merged = mergeContext(data, inline)
		}

		raw, err := r.partials.Partial(resolvePartialPath(path, skin))
		if err != nil {
			return fmt.Sprintf("<!-- Error rendering include %q: %v -->", path, err)
		}
		fragment := Substitute(raw, merged)
		fragment, err = r.resolveIncludes(fragment, skin, merged, depth+1)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			return match
		}
		return fragment
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

// resolvePartialPath maps an include directive path to a partial-store path.
// The legacy "beautymail::templates." namespace prefix is dropped, and a bare
// name (no dots) resolves under the template's skin directory.
func resolvePartialPath(path string, skin domain.TemplateType) string {
	path = strings.TrimPrefix(path, "beautymail::templates.")
	if !strings.Contains(path, ".") {
		path = skin.PartialRoot() + "." + path
	}
	return strings.ReplaceAll(path, ".", "/")
}

func mergeContext(base, overrides map[string]any) map[string]any {
	merged := make(map[string]any, len(base)+len(overrides))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}

// ParseDataLiteral parses the inline-data argument of an include directive:
// a flat array literal of the form ['key' => value, ...] where keys are quoted
// strings and values are quoted strings, integers, floats, booleans, or null.
// Nested arrays and any other expression are rejected. This replaces the
// dynamic evaluation the legacy system performed on the same syntax.
func ParseDataLiteral(literal string) (map[string]any, error) {
	s := strings.TrimSpace(literal)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("data literal must be an array literal, got %q", literal)
	}
	p := &literalParser{input: s[1 : len(s)-1]}
	return p.parse()
}

type literalParser struct {
	input string
	pos   int
}

func (p *literalParser) parse() (map[string]any, error) {
	out := make(map[string]any)
	p.skipSpace()
	for p.pos < len(p.input) {
		key, err := p.parseQuotedString()
		if err != nil {
			return nil, fmt.Errorf("data literal key: %w", err)
		}
		p.skipSpace()
		if !strings.HasPrefix(p.input[p.pos:], "=>") {
			return nil, fmt.Errorf("expected \"=>\" after key %q", key)
		}
		p.pos += 2
		p.skipSpace()
		value, err := p.parseValue()
		if err != nil {
			return nil, fmt.Errorf("data literal value for %q: %w", key, err)
		}
		out[key] = value
		p.skipSpace()
		if p.pos >= len(p.input) {
			break
		}
		if p.input[p.pos] != ',' {
			return nil, fmt.Errorf("expected \",\" after value for %q", key)
		}
		p.pos++
		p.skipSpace()
	}
	return out, nil
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t' || p.input[p.pos] == '\n' || p.input[p.pos] == '\r') {
		p.pos++
	}
}

func (p *literalParser) parseQuotedString() (string, error) {
	if p.pos >= len(p.input) {
		return "", fmt.Errorf("unexpected end of input")
	}
	quote := p.input[p.pos]
	if quote != '\'' && quote != '"' {
		return "", fmt.Errorf("expected quoted string at %q", p.input[p.pos:])
	}
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '\\' && p.pos+1 < len(p.input) {
			sb.WriteByte(p.input[p.pos+1])
			p.pos += 2
			continue
		}
		if c == quote {
			p.pos++
			return sb.String(), nil
		}
		sb.WriteByte(c)
		p.pos++
	}
	return "", fmt.Errorf("unterminated string")
}

func (p *literalParser) parseValue() (any, error) {
	if p.pos >= len(p.input) {
		return nil, fmt.Errorf("unexpected end of input")
	}
	c := p.input[p.pos]
	if c == '\'' || c == '"' {
		return p.parseQuotedString()
	}

	start := p.pos
	for p.pos < len(p.input) && p.input[p.pos] != ',' && p.input[p.pos] != ' ' && p.input[p.pos] != '\t' && p.input[p.pos] != '\n' && p.input[p.pos] != '\r' {
		p.pos++
	}
	token := p.input[start:p.pos]
	switch strings.ToLower(token) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "null":
		return nil, nil
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return i, nil
	}
	if f, err := strconv.ParseFloat(token, 64); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("unsupported value %q (only quoted strings, numbers, booleans, and null are allowed)", token)
}
