package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// DefaultButtonClass is the CSS class rendered on button links.
const DefaultButtonClass = "btn"

// buttonPrefix opens the button syntax: [!button|Label](URL).
var buttonPrefix = []byte("[!button|")

// KindButton is the node kind for ButtonNode.
var KindButton = ast.NewNodeKind("Button")

// ButtonNode is a call-to-action link in the AST.
type ButtonNode struct {
	ast.BaseInline
	URL   []byte
	Label []byte
}

// Kind implements ast.Node.
func (n *ButtonNode) Kind() ast.NodeKind {
	return KindButton
}

// Dump implements ast.Node.
func (n *ButtonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"URL":   string(n.URL),
		"Label": string(n.Label),
	}, nil)
}

type buttonParser struct{}

// NewButtonParser returns an inline parser for [!button|Label](URL).
func NewButtonParser() parser.InlineParser {
	return &buttonParser{}
}

func (p *buttonParser) Trigger() []byte {
	return []byte{'['}
}

func (p *buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()

	rest, ok := bytes.CutPrefix(line, buttonPrefix)
	if !ok {
		return nil
	}

	label, rest, ok := bytes.Cut(rest, []byte("]"))
	if !ok {
		return nil
	}

	rest, ok = bytes.CutPrefix(rest, []byte("("))
	if !ok {
		return nil
	}

	url, _, ok := bytes.Cut(rest, []byte(")"))
	if !ok {
		return nil
	}

	block.Advance(len(buttonPrefix) + len(label) + len("](") + len(url) + len(")"))

	return &ButtonNode{URL: url, Label: label}
}

type buttonRenderer struct {
	class string
}

// NewButtonRenderer returns a renderer writing ButtonNode as <a class="...">.
// Links with a scheme other than http, https or mailto are rendered as the
// bare label.
func NewButtonRenderer(class string) renderer.NodeRenderer {
	if class == "" {
		class = DefaultButtonClass
	}
	return &buttonRenderer{class: class}
}

func (r *buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindButton, r.renderButton)
}

func (r *buttonRenderer) renderButton(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	n := node.(*ButtonNode)
	label := util.EscapeHTML(n.Label)

	if !safeButtonURL(n.URL) {
		_, _ = w.Write(label)
		return ast.WalkContinue, nil
	}

	_, _ = w.WriteString(`<a href="`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.URL, false)))
	_, _ = w.WriteString(`" class="`)
	_, _ = w.Write(util.EscapeHTML([]byte(r.class)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(label)
	_, _ = w.WriteString(`</a>`)

	return ast.WalkContinue, nil
}

func safeButtonURL(url []byte) bool {
	scheme, _, ok := bytes.Cut(url, []byte(":"))
	if !ok || bytes.ContainsAny(scheme, "/?#") {
		return true // relative
	}
	switch string(bytes.ToLower(scheme)) {
	case "http", "https", "mailto":
		return true
	}
	return false
}

// ButtonExtension adds [!button|Label](URL) call-to-action links to goldmark.
type ButtonExtension struct {
	Class string
}

// Extend implements goldmark.Extender.
func (e *ButtonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(NewButtonParser(), 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewButtonRenderer(e.Class), 50),
	))
}

// NewButtonExtension returns a ButtonExtension rendering DefaultButtonClass.
func NewButtonExtension() goldmark.Extender {
	return &ButtonExtension{Class: DefaultButtonClass}
}
