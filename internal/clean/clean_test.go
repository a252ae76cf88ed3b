package clean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestText_StripsScriptAndStyle(t *testing.T) {
	html := `<html><head>
		<style>body { color: red; }</style>
		<script>var secret = "token";</script>
	</head><body>
		<h1>Welcome</h1>
		<noscript>enable js</noscript>
		<p>Hello   world</p>
	</body></html>`

	got := Text(html)
	require.Equal(t, "Welcome Hello world", got)
	require.NotContains(t, got, "secret")
	require.NotContains(t, got, "color: red")
	require.NotContains(t, got, "enable js")
}

func TestText_CapsLength(t *testing.T) {
	html := "<p>" + strings.Repeat("word ", 3000) + "</p>"
	got := Text(html)
	require.LessOrEqual(t, len([]rune(got)), MaxTextLen)
}

func TestText_IdempotentOnCleanText(t *testing.T) {
	first := Text("<p>already   clean\n text</p>")
	second := Text(first)
	require.Equal(t, first, second)
}

func TestText_MalformedMarkup(t *testing.T) {
	got := Text("<div><p>broken <b>markup</div>")
	require.Contains(t, got, "broken")
	require.Contains(t, got, "markup")
}

func TestText_EmptyInput(t *testing.T) {
	require.Equal(t, "", Text(""))
	require.Equal(t, "", Text("<script>only();</script>"))
}
