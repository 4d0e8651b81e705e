// Package web renders the site's server-side HTML pages from embedded
// templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"time"

	"folio/internal/domain"
	"folio/internal/service"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticHandler serves embedded CSS and assets under the given prefix
func StaticHandler(prefix string) http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// The subtree is compiled in; this cannot fail at runtime.
		panic(err)
	}
	return http.StripPrefix(prefix, http.FileServer(http.FS(sub)))
}

// Renderer holds the parsed template set plus the markdown engine the
// post page uses for content bodies.
type Renderer struct {
	templates *template.Template
	markdown  goldmark.Markdown
	siteURL   string
}

// NewRenderer parses the embedded templates
func NewRenderer(siteURL string) (*Renderer, error) {
	funcs := template.FuncMap{
		"formatDate": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.Format("January 2, 2006")
		},
		"readingTime": service.ReadingTime,
	}

	tmpl, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	return &Renderer{
		templates: tmpl,
		markdown:  md,
		siteURL:   siteURL,
	}, nil
}

// Render executes the named page template into w
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	// Buffer so a mid-render failure never leaves a half-written page.
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// RenderMarkdown converts post markdown to sanitizable HTML. Goldmark
// escapes raw HTML by default, which is the behavior we want for
// author-supplied content.
func (r *Renderer) RenderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// CanonicalURL returns the absolute URL for a post page
func (r *Renderer) CanonicalURL(slug string) string {
	return fmt.Sprintf("%s/blog/%s", r.siteURL, slug)
}

// PostView is the post page's template payload
type PostView struct {
	Post         *domain.Post
	Body         template.HTML
	ReadingTime  int
	CanonicalURL string
}
