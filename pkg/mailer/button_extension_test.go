package mailer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
)

func convertButtons(t *testing.T, ext goldmark.Extender, source string) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, goldmark.New(goldmark.WithExtensions(ext)).Convert([]byte(source), &buf))
	return buf.String()
}

func TestButtonExtension_Render(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		source  string
		want    []string
		notWant []string
	}{
		{
			name:   "accept link",
			source: `[!button|Accept Invitation](https://app.example.com/accept-invitation?code=ABC123)`,
			want:   []string{`<a href="https://app.example.com/accept-invitation?code=ABC123" class="btn">Accept Invitation</a>`},
		},
		{
			name:   "surrounded by markdown",
			source: "# You're invited\n\n[!button|Join](https://example.com/join)\n\nSee you soon",
			want: []string{
				"<h1>You're invited</h1>",
				`<p><a href="https://example.com/join" class="btn">Join</a></p>`,
				"<p>See you soon</p>",
			},
		},
		{
			name:   "query ampersand is escaped",
			source: `[!button|Go](https://example.com/?a=1&b=2)`,
			want:   []string{`href="https://example.com/?a=1&amp;b=2"`},
		},
		{
			name:    "label html is escaped",
			source:  `[!button|<b>Join</b>](https://example.com)`,
			want:    []string{"&lt;b&gt;Join&lt;/b&gt;"},
			notWant: []string{"<b>"},
		},
		{
			name:    "javascript url renders label only",
			source:  `[!button|Click](javascript:alert(1))`,
			want:    []string{"Click"},
			notWant: []string{"<a ", "javascript:"},
		},
		{
			name:   "relative and mailto urls",
			source: "[!button|Home](/home)\n\n[!button|Write](mailto:hi@example.com)",
			want: []string{
				`<a href="/home" class="btn">Home</a>`,
				`<a href="mailto:hi@example.com" class="btn">Write</a>`,
			},
		},
		{
			name:    "regular link is untouched",
			source:  `[Docs](https://example.com/docs)`,
			want:    []string{`<a href="https://example.com/docs">Docs</a>`},
			notWant: []string{`class="btn"`},
		},
		{
			name:    "incomplete syntax stays text",
			source:  `[!button|Join](https://example.com`,
			notWant: []string{"<a "},
		},
		{
			name:    "escaped syntax stays text",
			source:  `\[!button|Join](https://example.com)`,
			notWant: []string{`class="btn"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := convertButtons(t, NewButtonExtension(), tt.source)
			for _, s := range tt.want {
				require.Contains(t, out, s)
			}
			for _, s := range tt.notWant {
				require.NotContains(t, out, s)
			}
		})
	}
}

func TestButtonExtension_CustomClass(t *testing.T) {
	t.Parallel()

	out := convertButtons(t, &ButtonExtension{Class: "cta primary"}, `[!button|Join](https://example.com)`)
	require.Contains(t, out, `class="cta primary"`)

	out = convertButtons(t, &ButtonExtension{}, `[!button|Join](https://example.com)`)
	require.Contains(t, out, `class="btn"`)
}

func TestButtonExtension_MultipleButtons(t *testing.T) {
	t.Parallel()

	out := convertButtons(t, NewButtonExtension(),
		"[!button|Accept](https://example.com/a)\n\n[!button|Decline](https://example.com/d)")

	require.Equal(t, 2, bytes.Count([]byte(out), []byte(`class="btn"`)))
}

func TestButtonNode(t *testing.T) {
	t.Parallel()

	node := &ButtonNode{URL: []byte("https://example.com"), Label: []byte("Join")}

	require.Equal(t, KindButton, node.Kind())
	require.NotPanics(t, func() { node.Dump([]byte("source"), 0) })
	require.Equal(t, []byte{'['}, NewButtonParser().Trigger())
}
