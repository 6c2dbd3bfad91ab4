package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"maps"
	"path"
	"strings"
	"sync"
	texttemplate "text/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
)

// Renderer converts markdown templates with YAML frontmatter to HTML.
type Renderer struct {
	fs    fs.FS
	md    goldmark.Markdown // cached markdown processor
	funcs texttemplate.FuncMap

	// Caches (safe: stores parsed structure, not rendered output)
	templateCache map[string]*cachedTemplate
	layoutCache   map[string]*template.Template
	templateDir   string
	layoutDir     string

	mu sync.RWMutex
}

// cachedTemplate holds parsed template data for reuse.
type cachedTemplate struct {
	metadata map[string]any
	tmpl     *texttemplate.Template
	text     *texttemplate.Template // optional plain-text variant, nil when absent
}

// RendererConfig configures the renderer.
type RendererConfig struct {
	Funcs       texttemplate.FuncMap // Extra funcs for markdown and text templates
	TemplateDir string               // Default: "."
	LayoutDir   string               // Default: "layouts"
}

// NewRenderer creates a new renderer with default config.
func NewRenderer(filesystem fs.FS) *Renderer {
	return NewRendererWithConfig(filesystem, RendererConfig{})
}

// NewRendererWithConfig creates a new renderer with custom config.
func NewRendererWithConfig(filesystem fs.FS, opts RendererConfig) *Renderer {
	if opts.TemplateDir == "" {
		opts.TemplateDir = "."
	}
	if opts.LayoutDir == "" {
		opts.LayoutDir = "layouts"
	}

	funcs := maps.Clone(builtinFuncs)
	maps.Copy(funcs, opts.Funcs)

	return &Renderer{
		fs:          filesystem,
		templateDir: opts.TemplateDir,
		layoutDir:   opts.LayoutDir,
		funcs:       funcs,
		md: goldmark.New(
			goldmark.WithExtensions(NewButtonExtension()),
			goldmark.WithParserOptions(parser.WithAttribute()), // heading classes: ## Title {.class}
		),
		templateCache: make(map[string]*cachedTemplate),
		layoutCache:   make(map[string]*template.Template),
	}
}

// RenderResult contains the rendered HTML, plain text, and extracted metadata.
type RenderResult struct {
	Metadata map[string]any
	HTML     string
	Text     string // Plain-text variant, or processed markdown when the template has none
}

// Render processes a markdown template with layout.
// Returns the rendered HTML, plain text, and extracted metadata.
//
// A sibling template with the same base name and a .txt extension
// (welcome.md -> welcome.txt) is used for the plain-text body when present.
func (r *Renderer) Render(layout, templateName string, data any) (*RenderResult, error) {
	// Get cached template (or parse and cache)
	cached, err := r.getTemplate(templateName)
	if err != nil {
		return nil, err
	}

	// Execute template with fresh data
	var processedMarkdown bytes.Buffer
	if err := cached.tmpl.Execute(&processedMarkdown, data); err != nil {
		return nil, fmt.Errorf("%w: failed to execute template: %v", ErrRenderFailed, err)
	}

	plainText := processedMarkdown.String()
	if cached.text != nil {
		var textBody bytes.Buffer
		if err := cached.text.Execute(&textBody, data); err != nil {
			return nil, fmt.Errorf("%w: failed to execute text template: %v", ErrRenderFailed, err)
		}
		plainText = textBody.String()
	}

	// Convert to HTML
	var htmlContent bytes.Buffer
	if err := r.md.Convert(processedMarkdown.Bytes(), &htmlContent); err != nil {
		return nil, fmt.Errorf("%w: failed to convert markdown: %v", ErrRenderFailed, err)
	}

	// Get cached layout (or parse and cache)
	layoutTmpl, err := r.getLayout(layout)
	if err != nil {
		return nil, err
	}

	// Execute layout with fresh content
	var finalHTML bytes.Buffer
	layoutData := map[string]any{
		"Content":  template.HTML(htmlContent.String()),
		"Metadata": cached.metadata,
	}

	if err := layoutTmpl.Execute(&finalHTML, layoutData); err != nil {
		return nil, fmt.Errorf("%w: failed to execute layout: %v", ErrRenderFailed, err)
	}

	return &RenderResult{
		HTML:     finalHTML.String(),
		Text:     plainText,
		Metadata: cached.metadata,
	}, nil
}

// getTemplate returns a cached template or parses and caches it.
func (r *Renderer) getTemplate(name string) (*cachedTemplate, error) {
	r.mu.RLock()
	if cached, ok := r.templateCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	// Parse and cache
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, ok := r.templateCache[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.templateDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, name, err)
	}

	parsed, err := ParseTemplate(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRenderFailed, name, err)
	}

	tmpl, err := texttemplate.New(name).Funcs(r.funcs).Parse(parsed.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse template body: %v", ErrRenderFailed, err)
	}

	text, err := r.parseTextVariant(name)
	if err != nil {
		return nil, err
	}

	cached := &cachedTemplate{metadata: parsed.Metadata, tmpl: tmpl, text: text}
	r.templateCache[name] = cached
	return cached, nil
}

// parseTextVariant loads the optional .txt sibling of a markdown template.
// Caller must hold the write lock.
func (r *Renderer) parseTextVariant(name string) (*texttemplate.Template, error) {
	textName := strings.TrimSuffix(name, path.Ext(name)) + ".txt"
	if textName == name {
		return nil, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.templateDir, textName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateNotFound, textName, err)
	}

	tmpl, err := texttemplate.New(textName).Funcs(r.funcs).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse text template: %v", ErrRenderFailed, err)
	}
	return tmpl, nil
}

// getLayout returns a cached layout template or parses and caches it.
func (r *Renderer) getLayout(name string) (*template.Template, error) {
	r.mu.RLock()
	if cached, ok := r.layoutCache[name]; ok {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	// Parse and cache
	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if cached, ok := r.layoutCache[name]; ok {
		return cached, nil
	}

	content, err := fs.ReadFile(r.fs, path.Join(r.layoutDir, name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLayoutNotFound, name, err)
	}

	layoutTmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse layout: %v", ErrRenderFailed, err)
	}

	r.layoutCache[name] = layoutTmpl
	return layoutTmpl, nil
}
