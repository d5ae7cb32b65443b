package markup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/utilkit/internal/markup"
)

func TestUrlize(testInstance *testing.T) {
	testCases := []struct {
		name     string
		text     string
		options  markup.UrlizeOptions
		expected string
	}{
		{
			name:     "www_host_with_trailing_period",
			text:     "Visit www.example.com.",
			expected: `Visit <a href="http://www.example.com">www.example.com</a>.`,
		},
		{
			name:     "parenthesized_https_link",
			text:     "(see https://go.dev/doc)",
			expected: `(see <a href="https://go.dev/doc">https://go.dev/doc</a>)`,
		},
		{
			name:     "bare_domain",
			text:     "golang.org, then lunch",
			expected: `<a href="http://golang.org">golang.org</a>, then lunch`,
		},
		{
			name:     "email_address",
			text:     "mail admin@example.org",
			expected: `mail <a href="mailto:admin@example.org">admin@example.org</a>`,
		},
		{
			name:     "escapes_markup",
			text:     `a & b <i>"quoted"</i>`,
			expected: `a &amp; b &lt;i&gt;&#34;quoted&#34;&lt;/i&gt;`,
		},
		{
			name:     "nofollow_and_trim",
			text:     "https://example.com/very/long/path",
			options:  markup.UrlizeOptions{TrimLimit: 10, Nofollow: true},
			expected: `<a href="https://example.com/very/long/path" rel="nofollow">https://ex...</a>`,
		},
		{
			name:     "zero_trim_limit_keeps_text",
			text:     "https://example.com/very/long/path",
			options:  markup.UrlizeOptions{TrimLimit: 0},
			expected: `<a href="https://example.com/very/long/path">https://example.com/very/long/path</a>`,
		},
		{
			name:     "preserves_whitespace_runs",
			text:     "one\t two\nthree",
			expected: "one\t two\nthree",
		},
		{
			name:     "ignores_other_domains",
			text:     "example.io",
			expected: "example.io",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			require.Equal(subTest, testCase.expected, markup.Urlize(testCase.text, testCase.options))
		})
	}
}

func TestMinifyCSS(testInstance *testing.T) {
	source := "/* header */\nbody  {\n  color: red;\n  margin : 0 ;\n}\n*:before { content: \"x\"; }\n"

	require.Equal(testInstance, `body{color:red;margin :0}:before{content:"x"}`, markup.MinifyCSS(source))
	require.Equal(testInstance, "", markup.MinifyCSS("  /* only a comment */  "))
}

func TestMinifyHTML(testInstance *testing.T) {
	source := "<ul>\n  <li>One</li>\n  <li>Two</li>\n</ul>\n<!-- note -->\n<p>First</p>\n<p>Second</p>\n<br />\n"

	require.Equal(testInstance, "<ul><li>One<li>Two</ul><p>First<p>Second</p><br>", markup.MinifyHTML(source))
	require.Equal(testInstance, "<table><TR><td>a<td>b</table>", markup.MinifyHTML("<table>\n<TR><td>a</td> <td>b</TD></tr>\n</table>"))
}
