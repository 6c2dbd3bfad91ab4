package mailer

import (
	"strings"
	texttemplate "text/template"
)

// builtinFuncs are available in every markdown and plain-text template.
var builtinFuncs = texttemplate.FuncMap{
	"md":    EscapeMarkdown,
	"quote": QuoteMarkdown,
}

// EscapeMarkdown backslash-escapes ASCII punctuation so that user-supplied text
// renders literally instead of being interpreted as markdown or button syntax.
func EscapeMarkdown(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 && isASCIIPunct(byte(r)) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// QuoteMarkdown renders s as a markdown blockquote, escaping each line.
// Blank lines are kept inside the quote.
func QuoteMarkdown(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + EscapeMarkdown(line)
	}
	return strings.Join(lines, "\n")
}

func isASCIIPunct(c byte) bool {
	return (c >= '!' && c <= '/') ||
		(c >= ':' && c <= '@') ||
		(c >= '[' && c <= '`') ||
		(c >= '{' && c <= '~')
}
