package extract

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const teamCardsHTML = `<html><body><div class="grid">
	<div class="team-member">
		<img src="/people/jane.jpg" alt="">
		<h3>Jane Doe</h3>
		<p>CEO</p>
		<a href="https://linkedin.com/in/janedoe">in</a>
	</div>
	<div class="team-member">
		<img src="/people/bob.jpg" alt="">
		<h3>Bob Smith</h3>
		<p>CTO</p>
	</div>
</div></body></html>`

func TestExtractTeamFromPatterns(t *testing.T) {
	p := mustPage(t, teamCardsHTML)

	team := ExtractTeam(context.Background(), p, nil)
	require.Len(t, team, 2)

	assert.Equal(t, "Jane Doe", team[0].Name)
	assert.Equal(t, "CEO", team[0].Role)
	assert.Equal(t, "https://acme.io/people/jane.jpg", team[0].Image)
	assert.Equal(t, "https://linkedin.com/in/janedoe", team[0].Socials["linkedin"])

	assert.Equal(t, "Bob Smith", team[1].Name)
	assert.Equal(t, "CTO", team[1].Role)
}

func TestExtractTeamRequiresImage(t *testing.T) {
	p := mustPage(t, `<html><body>
		<div class="team-member"><h3>Jane Doe</h3></div>
		<div class="team-member"><h3>Bob Smith</h3></div>
	</body></html>`)

	assert.Empty(t, ExtractTeam(context.Background(), p, nil))
}

func TestExtractTeamSingleCardRejected(t *testing.T) {
	p := mustPage(t, `<html><body>
		<div class="team-member"><img src="/j.jpg"><h3>Jane Doe</h3></div>
	</body></html>`)

	assert.Empty(t, ExtractTeam(context.Background(), p, nil))
}

func TestExtractTeamKeepsLoneValidCard(t *testing.T) {
	// The pattern matches three cards; only one passes the name+image
	// gate. The pattern is still trusted and the valid member kept.
	p := mustPage(t, `<html><body>
		<div class="team-member"><img src="/p/jane.jpg"><h3>Jane Doe</h3></div>
		<div class="team-member"><h3>No Image Here</h3></div>
		<div class="team-member"><img src="/p/anon.jpg"></div>
	</body></html>`)

	team := ExtractTeam(context.Background(), p, nil)
	require.Len(t, team, 1)
	assert.Equal(t, "Jane Doe", team[0].Name)
}

func TestExtractTeamSecondaryPage(t *testing.T) {
	p := mustPage(t, `<html><body><a href="/team">Meet the team</a></body></html>`)

	fetched := ""
	team := ExtractTeam(context.Background(), p, func(_ context.Context, u string) (string, error) {
		fetched = u
		return teamCardsHTML, nil
	})

	assert.Equal(t, "https://acme.io/team", fetched)
	require.Len(t, team, 2)
	assert.Equal(t, "Jane Doe", team[0].Name)
}

func TestExtractTeamSecondaryFetchFailureFallsBack(t *testing.T) {
	p := mustPage(t, `<html><body>
		<a href="/team">Team</a>
		<div class="person"><img src="/a.jpg"><h3>Ann Lee</h3></div>
		<div class="person"><img src="/b.jpg"><h3>Ben Ray</h3></div>
	</body></html>`)

	team := ExtractTeam(context.Background(), p, func(_ context.Context, _ string) (string, error) {
		return "", errors.New("boom")
	})
	require.Len(t, team, 2)
	assert.Equal(t, "Ann Lee", team[0].Name)
}

func TestExtractTeamSectionsStrategy(t *testing.T) {
	p := mustPage(t, `<html><body><section>
		<h2>Our Team</h2>
		<figure><img src="/p/jane.jpg" alt="Jane Doe"></figure>
		<figure><img src="/p/bob.jpg" alt="Bob Smith"></figure>
		<figure><img src="/p/jane2.jpg" alt="Jane Doe"></figure>
	</section></body></html>`)

	team := ExtractTeam(context.Background(), p, nil)
	require.Len(t, team, 2, "duplicate names collapse")
	assert.Equal(t, "Jane Doe", team[0].Name)
	assert.Equal(t, "Bob Smith", team[1].Name)
	assert.Equal(t, "https://acme.io/p/jane.jpg", team[0].Image)
}

func TestExtractTeamCap(t *testing.T) {
	html := `<html><body>`
	for i := 0; i < maxTeamMembers+5; i++ {
		html += fmt.Sprintf(`<div class="team-member"><img src="/p/%d.jpg"><h3>Person Number%d</h3></div>`, i, i)
	}
	html += `</body></html>`

	team := ExtractTeam(context.Background(), mustPage(t, html), nil)
	assert.Len(t, team, maxTeamMembers)
}

func TestPlausibleName(t *testing.T) {
	assert.True(t, plausibleName("Jane Doe"))
	assert.False(t, plausibleName("Our Team"))
	assert.False(t, plausibleName("Leadership"))
	assert.False(t, plausibleName("J"))
	assert.False(t, plausibleName(""))
}
