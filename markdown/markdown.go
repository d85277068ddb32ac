// Package markdown renders Markdown and MDX post bodies to HTML and exposes
// them as templ components.
package markdown

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Renderer converts Markdown/MDX source to HTML.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithSanitize filters rendered HTML through bluemonday's UGC policy.
func WithSanitize() Option {
	return func(r *Renderer) {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span", "div")
		p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
		r.policy = p
	}
}

// New returns a Renderer with GitHub-flavoured Markdown, heading ids and
// raw HTML passthrough.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRenderer = New()

// Markdown returns a templ.Component that renders md as HTML.
func Markdown(content string) templ.Component {
	return defaultRenderer.Component(content)
}

// Component returns a templ.Component that renders src with r.
func (r *Renderer) Component(src string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var buf bytes.Buffer
		if err := r.Render(&buf, src); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	})
}

// Render writes the HTML representation of src to buf. MDX module
// statements are dropped first.
func (r *Renderer) Render(buf *bytes.Buffer, src string) error {
	if r.policy == nil {
		return r.md.Convert([]byte(StripESM(src)), buf)
	}
	var raw bytes.Buffer
	if err := r.md.Convert([]byte(StripESM(src)), &raw); err != nil {
		return err
	}
	buf.Write(r.policy.SanitizeBytes(raw.Bytes()))
	return nil
}

// StripESM removes MDX import/export statements outside fenced code blocks.
// Multi-line statements are skipped until their braces balance.
func StripESM(src string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, 0, len(lines))
	fence := ""
	depth := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if depth > 0 {
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			continue
		}
		if fence == "" && (strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")) {
			fence = trimmed[:3]
		} else if fence != "" && strings.HasPrefix(trimmed, fence) {
			fence = ""
		} else if fence == "" && isESM(line) {
			depth = strings.Count(line, "{") - strings.Count(line, "}")
			if depth < 0 {
				depth = 0
			}
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// isESM reports whether a top-level line opens an import or export.
func isESM(line string) bool {
	return strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "import{") ||
		strings.HasPrefix(line, "export ")
}

// Excerpt returns up to n runes of the plain text of src, cut at a word
// boundary and suffixed with "…" when truncated.
func Excerpt(src string, n int) string {
	source := []byte(StripESM(src))
	doc := defaultRenderer.md.Parser().Parse(text.NewReader(source))

	var b strings.Builder
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node.Kind() {
		case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock, ast.KindRawHTML:
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			if entering {
				t := node.(*ast.Text)
				b.Write(t.Segment.Value(source))
				if t.SoftLineBreak() || t.HardLineBreak() {
					b.WriteByte(' ')
				}
			}
		case ast.KindString:
			if entering {
				b.Write(node.(*ast.String).Value)
			}
		}
		if !entering && node.Type() == ast.TypeBlock {
			b.WriteByte(' ')
		}
		return ast.WalkContinue, nil
	})

	plain := strings.Join(strings.Fields(b.String()), " ")
	runes := []rune(plain)
	if n <= 0 || len(runes) <= n {
		return plain
	}
	cut := string(runes[:n])
	if runes[n] != ' ' {
		if i := strings.LastIndexByte(cut, ' '); i > 0 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
