package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageWithHeaders(t *testing.T, html string, headers map[string]string) *Page {
	t.Helper()
	p, err := NewPage(html, headers, "https://acme.io")
	require.NoError(t, err)
	return p
}

func TestExtractTechStackFromHTML(t *testing.T) {
	p := mustPage(t, `<html><head>
		<script src="/wp-content/themes/x/app.js"></script>
		<script src="https://js.stripe.com/v3/"></script>
		<script>window.__NEXT_DATA__ = {}</script>
	</head><body></body></html>`)

	stack := ExtractTechStack(p)
	assert.Contains(t, stack, "WordPress")
	assert.Contains(t, stack, "Stripe")
	assert.Contains(t, stack, "Next.js")
	assert.NotContains(t, stack, "Shopify")
}

func TestExtractTechStackFromHeaders(t *testing.T) {
	p := pageWithHeaders(t, `<html></html>`, map[string]string{
		"cf-ray": "8abc-FRA",
		"server": "nginx/1.25",
	})

	stack := ExtractTechStack(p)
	assert.Contains(t, stack, "Cloudflare")
	assert.Contains(t, stack, "Nginx")
	assert.NotContains(t, stack, "Apache")
}

func TestExtractTechStackOrderAndEmpty(t *testing.T) {
	empty := ExtractTechStack(mustPage(t, `<html><body>plain page</body></html>`))
	assert.Empty(t, empty)

	// Battery order is stable: WordPress is declared before jQuery.
	p := mustPage(t, `<html><script src="jquery.min.js"></script><link href="wp-content/a.css"></html>`)
	stack := ExtractTechStack(p)
	require.Equal(t, []string{"WordPress", "jQuery"}, stack)
}
