package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestExtractContentSummary(t *testing.T) {
	p := mustPage(t, `<html><body>
		<nav><a href="/">Home</a><a href="/about">About</a></nav>
		<main>
			<h1>Acme builds developer tools</h1>
			<p>We help engineering teams ship faster with less toil.</p>
			<p>short</p>
			<p>Copyright 2024 Acme, all rights reserved.</p>
		</main>
		<footer>Subscribe to our newsletter</footer>
	</body></html>`)

	c := ExtractContent(p, false)
	assert.Contains(t, c.Summary, "Acme builds developer tools")
	assert.Contains(t, c.Summary, "ship faster")
	assert.NotContains(t, c.Summary, "short")
	assert.NotContains(t, c.Summary, "rights reserved")
	assert.NotContains(t, c.Summary, "Subscribe")
	assert.NotContains(t, c.Summary, "Home")
}

func TestExtractContentSummaryCap(t *testing.T) {
	var b strings.Builder
	b.WriteString(`<html><body><main>`)
	for i := 0; i < 10; i++ {
		b.WriteString(`<p>` + strings.Repeat("lorem ipsum dolor sit amet ", 5) + `</p>`)
	}
	b.WriteString(`</main></body></html>`)

	c := ExtractContent(mustPage(t, b.String()), false)
	assert.LessOrEqual(t, len(c.Summary), summaryMaxChars)
	assert.NotEmpty(t, c.Summary)
}

func TestExtractContentSummaryTruncatesOnRuneBoundary(t *testing.T) {
	p := mustPage(t, `<html><body><main><p>A`+strings.Repeat("世", 300)+`</p></main></body></html>`)

	c := ExtractContent(p, false)
	assert.LessOrEqual(t, len(c.Summary), summaryMaxChars)
	assert.True(t, utf8.ValidString(c.Summary), "truncation must not split a rune")
	assert.True(t, strings.HasPrefix(c.Summary, "A世"))
}

func TestExtractContentNoParentChildDuplication(t *testing.T) {
	p := mustPage(t, `<html><body>
		<div><section><p>Only once in the output.</p></section></div>
	</body></html>`)

	c := ExtractContent(p, false)
	assert.Equal(t, 1, strings.Count(c.Text, "Only once in the output."))
}

func TestExtractContentStripsChrome(t *testing.T) {
	p := mustPage(t, `<html><body>
		<script>var tracked = true;</script>
		<div class="cookie-banner">We use cookies</div>
		<main><p>The actual page content lives here.</p></main>
	</body></html>`)

	c := ExtractContent(p, false)
	assert.Contains(t, c.Text, "actual page content")
	assert.NotContains(t, c.Text, "tracked")
	assert.NotContains(t, c.Text, "We use cookies")
}

func TestExtractContentEmptyPage(t *testing.T) {
	c := ExtractContent(mustPage(t, `<html><body></body></html>`), false)
	assert.Empty(t, c.Summary)
}

func TestExtractContentDoesNotMutateSharedDoc(t *testing.T) {
	p := mustPage(t, `<html><body><nav>Site nav</nav><main><p>Body text paragraph here.</p></main></body></html>`)
	_ = ExtractContent(p, false)

	// The shared document keeps its nav; only the extractor's private copy
	// was stripped.
	assert.Equal(t, 1, p.Doc.Find("nav").Length())
}
