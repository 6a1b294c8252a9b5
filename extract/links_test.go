package extract

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leadlens/leadlens/models"
)

func TestExtractLinksClassification(t *testing.T) {
	p := mustPage(t, `<html><body>
		<a href="/about">About</a>
		<a href="https://www.acme.io/pricing">Pricing</a>
		<a href="https://partner.example.com/">Partner</a>
		<a href="#section">skip anchor</a>
		<a href="javascript:void(0)">skip js</a>
		<a href="mailto:x@acme.io">skip mailto</a>
		<a href="/about">duplicate</a>
	</body></html>`)

	links := ExtractLinks(p)
	require.Len(t, links, 3)

	assert.Equal(t, models.PageLink{Text: "About", URL: "https://acme.io/about", Type: models.LinkInternal}, links[0])
	// www. prefix does not make the host external.
	assert.Equal(t, models.LinkInternal, links[1].Type)
	assert.Equal(t, models.LinkExternal, links[2].Type)
}

func TestExtractLinksCap(t *testing.T) {
	html := `<html><body>`
	for i := 0; i < maxLinks+10; i++ {
		html += fmt.Sprintf(`<a href="/page/%d">Page %d</a>`, i, i)
	}
	html += `</body></html>`

	links := ExtractLinks(mustPage(t, html))
	assert.Len(t, links, maxLinks)
}
