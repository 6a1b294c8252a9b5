package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadlens/leadlens/models"
)

func TestExtractSocials(t *testing.T) {
	p := mustPage(t, `<html><body>
		<a href="https://www.linkedin.com/company/acme">LinkedIn</a>
		<a href="https://linkedin.com/company/acme-second">ignored, first wins</a>
		<a href="https://x.com/acmehq">X</a>
		<a href="https://github.com/acme">GitHub</a>
		<a href="https://facebook.com/">bare homepage, skipped</a>
		<a href="https://evil.com/facebook.com/acme">look-alike path, skipped</a>
	</body></html>`)

	socials := ExtractSocials(p)
	assert.Equal(t, map[string]string{
		models.PlatformLinkedIn: "https://www.linkedin.com/company/acme",
		models.PlatformTwitter:  "https://x.com/acmehq",
		models.PlatformGitHub:   "https://github.com/acme",
	}, socials)
}

func TestMatchPlatformSubdomains(t *testing.T) {
	assert.Equal(t, models.PlatformLinkedIn, matchPlatform("https://uk.linkedin.com/in/jane"))
	assert.Equal(t, models.PlatformYouTube, matchPlatform("https://youtu.be/abc123"))
	assert.Equal(t, "", matchPlatform("https://notlinkedin.com/in/jane"))
	assert.Equal(t, "", matchPlatform("https://twitter.com/"))
}
