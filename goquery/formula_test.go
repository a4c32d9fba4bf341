package goquery_test

import (
	"strings"
	"testing"

	pgoquery "github.com/PuerkitoBio/goquery"
	"github.com/mbalicki/webclip/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// firstEl parses an HTML fragment and returns the first element matching
// the selector.
func firstEl(t *testing.T, htmlStr, selector string) *pgoquery.Selection {
	t.Helper()
	doc, err := pgoquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	require.NoError(t, err)
	s := doc.Find(selector).First()
	require.Positive(t, s.Length(), "selector %q matched nothing", selector)
	return s
}

func TestIsMathElement(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		html     string
		selector string
		want     bool
	}{
		{"katex span", `<span class="katex"><span class="katex-html">x</span></span>`, "span.katex", true},
		{"katex display wrapper", `<span class="katex-display">x</span>`, "span", true},
		{"mathml element", `<math><mi>x</mi></math>`, "math", true},
		{"mathjax v3 container", `<mjx-container class="MathJax">x</mjx-container>`, "mjx-container", true},
		{"mathjax v2 span", `<span class="MathJax_Preview">x</span>`, "span", true},
		{"mathjax tex script", `<script type="math/tex">x^2</script>`, "script", true},
		{"wikipedia texvc wrapper", `<span class="mwe-math-element">x</span>`, "span", true},
		{"zhihu ztext formula", `<span class="ztext-math" data-tex="x^2">x</span>`, "span", true},
		{"plain span", `<span class="highlight">x</span>`, "span", false},
		{"plain script", `<script type="text/javascript">var x;</script>`, "script", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, goquery.IsMathElement(firstEl(t, tc.html, tc.selector)))
		})
	}
}

func TestRecognizeFormula(t *testing.T) {
	t.Parallel()

	t.Run("katex accessibility annotation", func(t *testing.T) {
		t.Parallel()

		html := `<span class="katex">
			<span class="katex-mathml"><math><semantics><mrow><mi>x</mi></mrow>
				<annotation encoding="application/x-tex">x^2 + y^2</annotation>
			</semantics></math></span>
			<span class="katex-html">x2+y2</span>
		</span>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "span.katex"))
		require.True(t, ok)
		assert.Equal(t, "x^2 + y^2", f.TeX)
		assert.False(t, f.Display)
		assert.Equal(t, goquery.EngineKaTeX, f.Engine)
	})

	t.Run("katex display mode", func(t *testing.T) {
		t.Parallel()

		html := `<span class="katex-display"><span class="katex">
			<annotation encoding="application/x-tex">\int_0^\infty e^{-x} dx</annotation>
		</span></span>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "span.katex-display"))
		require.True(t, ok)
		assert.Equal(t, `\int_0^\infty e^{-x} dx`, f.TeX)
		assert.True(t, f.Display)
	})

	t.Run("mathjax v2 script element", func(t *testing.T) {
		t.Parallel()

		html := `<script type="math/tex; mode=display">\frac{a}{b}</script>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "script"))
		require.True(t, ok)
		assert.Equal(t, `\frac{a}{b}`, f.TeX)
		assert.True(t, f.Display)
		assert.Equal(t, goquery.EngineMathJax, f.Engine)
	})

	t.Run("mathjax v2 preview wrapper finds sibling script", func(t *testing.T) {
		t.Parallel()

		html := `<span class="MathJax_Preview"><script type="math/tex">e^{i\pi}</script></span>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "span.MathJax_Preview"))
		require.True(t, ok)
		assert.Equal(t, `e^{i\pi}`, f.TeX)
		assert.False(t, f.Display)
	})

	t.Run("mathml annotation", func(t *testing.T) {
		t.Parallel()

		html := `<math display="block"><semantics><mrow><mi>a</mi></mrow>
			<annotation encoding="application/x-tex">a \cdot b</annotation>
		</semantics></math>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "math"))
		require.True(t, ok)
		assert.Equal(t, `a \cdot b`, f.TeX)
		assert.True(t, f.Display)
		assert.Equal(t, goquery.EngineMathML, f.Engine)
	})

	t.Run("data-tex attribute", func(t *testing.T) {
		t.Parallel()

		html := `<span class="ztext-math" data-tex="\sum_{i=1}^n i">rendered</span>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "span"))
		require.True(t, ok)
		assert.Equal(t, `\sum_{i=1}^n i`, f.TeX)
		assert.Equal(t, goquery.EngineZtext, f.Engine)
	})

	t.Run("wikipedia fallback image alt", func(t *testing.T) {
		t.Parallel()

		html := `<span class="mwe-math-element">
			<img class="mwe-math-fallback-image-inline" alt="{\displaystyle x={\frac {-b}{2a}}}" src="/api/rest_v1/media/math/render/svg/abc">
		</span>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "span.mwe-math-element"))
		require.True(t, ok)
		assert.Equal(t, `{\displaystyle x={\frac {-b}{2a}}}`, f.TeX)
		assert.Equal(t, goquery.EngineTexvc, f.Engine)
	})

	t.Run("doubled rendered text takes one half", func(t *testing.T) {
		t.Parallel()

		// Engines that duplicate the glyph for accessibility render the
		// same text twice.
		html := `<span class="katex">x2x2</span>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "span"))
		require.True(t, ok)
		assert.Equal(t, "x2", f.TeX)
	})

	t.Run("backslash framing wins over doubling", func(t *testing.T) {
		t.Parallel()

		html := `<span class="MathJax">αβ\alpha\beta</span>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "span"))
		require.True(t, ok)
		assert.Equal(t, `\alpha\beta`, f.TeX)
	})

	t.Run("short symbol passes through", func(t *testing.T) {
		t.Parallel()

		html := `<math><mi>π</mi></math>`

		f, ok := goquery.RecognizeFormula(firstEl(t, html, "math"))
		require.True(t, ok)
		assert.Equal(t, "π", f.TeX)
	})

	t.Run("fails on empty rendering", func(t *testing.T) {
		t.Parallel()

		html := `<span class="katex"><span class="katex-html"></span></span>`

		_, ok := goquery.RecognizeFormula(firstEl(t, html, "span.katex"))
		assert.False(t, ok)
	})

	t.Run("fails on long asymmetric text without structure", func(t *testing.T) {
		t.Parallel()

		html := `<span class="katex">some rendering junk with no recoverable source text</span>`

		_, ok := goquery.RecognizeFormula(firstEl(t, html, "span.katex"))
		assert.False(t, ok)
	})
}
