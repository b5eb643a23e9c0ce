package emailalert

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeAlertSubject(t *testing.T) {
	assert.True(t, looksLikeAlertSubject("Your job alert for data analyst"))
	assert.True(t, looksLikeAlertSubject("30+ new jobs in London"))
	assert.True(t, looksLikeAlertSubject("Jobs for you: Data Analyst and more"))
	assert.False(t, looksLikeAlertSubject("Your receipt from Acme"))
	assert.False(t, looksLikeAlertSubject(""))
}

const alertHTML = `
<html><body>
  <div>
    <a href="https://www.example.com/jobs/view/4012345678/?trk=alert&refId=x">Senior Data Analyst</a>
    Acme Capital · London, UK
  </div>
  <div>
    <a href="https://www.example.com/jobs/view/4012345678/?trk=dup">Senior Data Analyst</a>
    Acme Capital · London, UK
  </div>
  <div>
    <a href="https://www.example.com/jobs/view/4098765432/">Finance Analyst</a>
    Beta Ltd · Manchester, England
  </div>
  <div><a href="https://www.example.com/comm/unsubscribe">Unsubscribe</a></div>
</body></html>`

func TestParseAlertHTML(t *testing.T) {
	received := time.Date(2025, 6, 12, 8, 0, 0, 0, time.UTC)
	jobs := ParseAlertHTML(alertHTML, received)
	require.Len(t, jobs, 2, "duplicate links and non-job links are skipped")

	j := jobs[0]
	assert.Equal(t, "EmailAlert", j.Source)
	assert.Equal(t, "4012345678", j.ID)
	assert.Equal(t, "Senior Data Analyst", j.Title)
	assert.Equal(t, "Acme Capital", j.Company)
	assert.Equal(t, "London, UK", j.Location)
	assert.Equal(t, "2025-06-12T08:00:00Z", j.Created)
	assert.Equal(t, "https://www.example.com/jobs/view/4012345678/", j.RedirectURL,
		"tracking params stripped from the canonical URL")

	assert.Equal(t, "Beta Ltd", jobs[1].Company)
	assert.Equal(t, "Manchester, England", jobs[1].Location)
}

func TestParseAlertHTML_Empty(t *testing.T) {
	assert.Empty(t, ParseAlertHTML("<html><body>no links here</body></html>", time.Now()))
}

func TestJobIDFromURL(t *testing.T) {
	assert.Equal(t, "4012345678", jobIDFromURL("https://x.com/jobs/view/4012345678/"))
	assert.Equal(t, "123", jobIDFromURL("https://x.com/jobs/view/123"))
	assert.Equal(t, "", jobIDFromURL("https://x.com/feed/"))
}

func TestCanonicalJobURL(t *testing.T) {
	got := canonicalJobURL("https://x.com/jobs/view/1/?a=b#frag")
	assert.Equal(t, "https://x.com/jobs/view/1/", got)
}

func TestExtractHTMLPart_Multipart(t *testing.T) {
	raw := strings.Join([]string{
		"From: LinkedIn Job Alerts <alerts@example.com>",
		"To: me@example.com",
		"Subject: Your job alert",
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="BOUNDARY"`,
		"",
		"--BOUNDARY",
		"Content-Type: text/plain; charset=utf-8",
		"",
		"plain fallback",
		"--BOUNDARY",
		"Content-Type: text/html; charset=utf-8",
		"Content-Transfer-Encoding: quoted-printable",
		"",
		`<div><a href=3D"https://www.example.com/jobs/view/555/">Analyst</a> Acme =C2=B7 London</div>`,
		"--BOUNDARY--",
		"",
	}, "\r\n")

	html := extractHTMLPart([]byte(raw))
	require.NotEmpty(t, html)
	assert.Contains(t, html, `<a href="https://www.example.com/jobs/view/555/">`)
	assert.Contains(t, html, "·", "quoted-printable middle dot decoded")

	jobs := ParseAlertHTML(html, time.Unix(0, 0))
	require.Len(t, jobs, 1)
	assert.Equal(t, "555", jobs[0].ID)
	assert.Equal(t, "Acme", jobs[0].Company)
	assert.Equal(t, "London", jobs[0].Location)
}

func TestExtractHTMLPart_NotHTML(t *testing.T) {
	raw := strings.Join([]string{
		"From: a@b.c",
		"Content-Type: text/plain",
		"",
		"nothing here",
	}, "\r\n")
	assert.Empty(t, extractHTMLPart([]byte(raw)))
}
