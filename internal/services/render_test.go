package services

import (
	"fmt"
	"strings"
	"testing"

	"goerp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePartialStore implements PartialStore backed by a map.
type fakePartialStore struct {
	partials map[string]string
}

func (f *fakePartialStore) Partial(path string) (string, error) {
	if raw, ok := f.partials[path]; ok {
		return raw, nil
	}
	return "", fmt.Errorf("partial %q not found", path)
}

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name string
		text string
		data map[string]any
		want string
	}{
		{
			name: "no tokens returns text unchanged",
			text: "plain text, nothing to do",
			data: map[string]any{"a": "X"},
			want: "plain text, nothing to do",
		},
		{
			name: "all known tokens replaced",
			text: "{{a}}-{{b}}",
			data: map[string]any{"a": "X", "b": "Y"},
			want: "X-Y",
		},
		{
			name: "unknown token left verbatim",
			text: "Hello {{user_name}}, ref {{unknown}}",
			data: map[string]any{"user_name": "Dana"},
			want: "Hello Dana, ref {{unknown}}",
		},
		{
			name: "substituted value is never re-expanded",
			text: "{{a}}",
			data: map[string]any{"a": "{{b}}", "b": "Z"},
			want: "{{b}}",
		},
		{
			name: "repeated token replaced everywhere",
			text: "{{name}} and {{name}}",
			data: map[string]any{"name": "Ada"},
			want: "Ada and Ada",
		},
		{
			name: "nil value renders empty",
			text: "[{{gone}}]",
			data: map[string]any{"gone": nil},
			want: "[]",
		},
		{
			name: "non-string values are formatted",
			text: "{{count}} items, active={{flag}}",
			data: map[string]any{"count": 42, "flag": true},
			want: "42 items, active=true",
		},
		{
			name: "empty data leaves text unchanged",
			text: "{{a}}",
			data: nil,
			want: "{{a}}",
		},
		{
			name: "malformed token ignored",
			text: "{{a b}} {{ok}}",
			data: map[string]any{"a b": "no", "ok": "yes"},
			want: "{{a b}} yes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Substitute(tt.text, tt.data)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSubstituteIsIdempotentWithoutMatches(t *testing.T) {
	text := "Hello {{missing}} world"
	data := map[string]any{"other": "value"}
	once := Substitute(text, data)
	twice := Substitute(once, data)
	assert.Equal(t, once, twice)
}

func TestRendererRender(t *testing.T) {
	store := &fakePartialStore{partials: map[string]string{
		"widgets/articleStart": "<article>",
		"widgets/articleEnd":   "</article>",
		"minty/button":         `<a href="{{link}}">{{text}}</a>`,
	}}
	r := NewRenderer(store)

	t.Run("substitutes subject and body", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{
			Subject:      "Welcome to {{company_name}}!",
			TemplateType: domain.TemplateTypeWidgets,
			Content:      "<p>Hello {{user_name}}</p>",
		}
		out, err := r.Render(tmpl, map[string]any{"company_name": "Acme", "user_name": "Dana"})
		require.NoError(t, err)
		assert.Equal(t, "Welcome to Acme!", out.Subject)
		assert.Equal(t, "<p>Hello Dana</p>", out.Body)
	})

	t.Run("empty content yields empty body without error", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{
			Subject:      "Subject only",
			TemplateType: domain.TemplateTypeWidgets,
		}
		out, err := r.Render(tmpl, nil)
		require.NoError(t, err)
		assert.Equal(t, "Subject only", out.Subject)
		assert.Empty(t, out.Body)
	})

	t.Run("resolves namespaced includes", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{
			Subject:      "s",
			TemplateType: domain.TemplateTypeWidgets,
			Content: "@include('beautymail::templates.widgets.articleStart')\n" +
				"<p>body</p>\n" +
				"@include('beautymail::templates.widgets.articleEnd')",
		}
		out, err := r.Render(tmpl, nil)
		require.NoError(t, err)
		assert.Contains(t, out.Body, "<article>")
		assert.Contains(t, out.Body, "</article>")
		assert.NotContains(t, out.Body, "@include")
	})

	t.Run("bare include name resolves under the template skin", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{
			Subject:      "s",
			TemplateType: domain.TemplateTypeMinty,
			Content:      `@include('button', ['text' => 'Go', 'link' => 'http://x'])`,
		}
		out, err := r.Render(tmpl, nil)
		require.NoError(t, err)
		assert.Equal(t, `<a href="http://x">Go</a>`, out.Body)
	})

	t.Run("inline data overrides the send context", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{
			Subject:      "s",
			TemplateType: domain.TemplateTypeMinty,
			Content:      `@include('minty.button', ['text' => 'Reset'])`,
		}
		out, err := r.Render(tmpl, map[string]any{"text": "Outer", "link": "http://y"})
		require.NoError(t, err)
		assert.Equal(t, `<a href="http://y">Reset</a>`, out.Body)
	})

	t.Run("missing partial degrades to an inline comment", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{
			Subject:      "s",
			TemplateType: domain.TemplateTypeWidgets,
			Content:      "before @include('widgets.nope') after",
		}
		out, err := r.Render(tmpl, nil)
		require.NoError(t, err)
		assert.Contains(t, out.Body, "<!-- Error rendering include")
		assert.Contains(t, out.Body, "widgets.nope")
		assert.True(t, strings.HasPrefix(out.Body, "before "))
		assert.True(t, strings.HasSuffix(out.Body, " after"))
	})

	t.Run("malformed data literal is fatal", func(t *testing.T) {
		tmpl := &domain.EmailTemplate{
			Subject:      "s",
			TemplateType: domain.TemplateTypeMinty,
			Content:      `@include('minty.button', ['text' => env('SECRET')])`,
		}
		_, err := r.Render(tmpl, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrRenderFailed)
	})

	t.Run("nested include resolution stops at the depth limit", func(t *testing.T) {
		loop := &fakePartialStore{partials: map[string]string{
			"ark/self": "level @include('ark.self')",
		}}
		tmpl := &domain.EmailTemplate{
			Subject:      "s",
			TemplateType: domain.TemplateTypeArk,
			Content:      "@include('ark.self')",
		}
		out, err := NewRenderer(loop).Render(tmpl, nil)
		require.NoError(t, err)
		assert.LessOrEqual(t, strings.Count(out.Body, "level"), maxIncludeDepth)
	})
}

func TestResolvePartialPath(t *testing.T) {
	tests := []struct {
		name string
		path string
		skin domain.TemplateType
		want string
	}{
		{"namespaced", "beautymail::templates.minty.button", domain.TemplateTypeArk, "minty/button"},
		{"dotted", "widgets.articleStart", domain.TemplateTypeMinty, "widgets/articleStart"},
		{"bare name uses skin", "button", domain.TemplateTypeMinty, "minty/button"},
		{"deep path", "ark.sections.heading", domain.TemplateTypeArk, "ark/sections/heading"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolvePartialPath(tt.path, tt.skin))
		})
	}
}

func TestParseDataLiteral(t *testing.T) {
	tests := []struct {
		name    string
		literal string
		want    map[string]any
		wantErr bool
	}{
		{
			name:    "strings",
			literal: `['text' => 'Reset Password', 'link' => "http://x"]`,
			want:    map[string]any{"text": "Reset Password", "link": "http://x"},
		},
		{
			name:    "scalar values",
			literal: `['count' => 3, 'ratio' => 1.5, 'on' => true, 'off' => false, 'none' => null]`,
			want:    map[string]any{"count": int64(3), "ratio": 1.5, "on": true, "off": false, "none": nil},
		},
		{
			name:    "empty array",
			literal: `[]`,
			want:    map[string]any{},
		},
		{
			name:    "escaped quote in string",
			literal: `['text' => 'it\'s fine']`,
			want:    map[string]any{"text": "it's fine"},
		},
		{
			name:    "trailing whitespace tolerated",
			literal: "[ 'a' => 'b' ,\n 'c' => 2 ]",
			want:    map[string]any{"a": "b", "c": int64(2)},
		},
		{
			name:    "not an array literal",
			literal: `'text' => 'x'`,
			wantErr: true,
		},
		{
			name:    "unquoted key",
			literal: `[text => 'x']`,
			wantErr: true,
		},
		{
			name:    "missing arrow",
			literal: `['text', 'x']`,
			wantErr: true,
		},
		{
			name:    "function call value rejected",
			literal: `['text' => env('SECRET')]`,
			wantErr: true,
		},
		{
			name:    "bare word value rejected",
			literal: `['text' => something]`,
			wantErr: true,
		},
		{
			name:    "unterminated string",
			literal: `['text' => 'oops]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDataLiteral(tt.literal)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
