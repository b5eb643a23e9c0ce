package emailalert

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/source/srcutil"
)

var alertSubjectMarkers = []string{
	"job alert",
	"jobs for you",
	"new jobs",
	"opportunities",
}

func looksLikeAlertSubject(subject string) bool {
	s := strings.ToLower(subject)
	for _, m := range alertSubjectMarkers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

// extractHTMLPart pulls the text/html part out of a raw RFC822 message,
// decoding quoted-printable or base64 transfer encodings. Returns "" when
// the message has no HTML part.
func extractHTMLPart(raw []byte) string {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return ""
	}
	return htmlFromEntity(msg.Header.Get("Content-Type"), msg.Header.Get("Content-Transfer-Encoding"), msg.Body)
}

func htmlFromEntity(contentType, encoding string, body io.Reader) string {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = "text/plain"
	}

	if strings.HasPrefix(mediaType, "multipart/") {
		mr := multipart.NewReader(body, params["boundary"])
		for {
			part, err := mr.NextPart()
			if err != nil {
				return ""
			}
			if h := htmlFromEntity(part.Header.Get("Content-Type"), part.Header.Get("Content-Transfer-Encoding"), part); h != "" {
				return h
			}
		}
	}

	if mediaType != "text/html" {
		return ""
	}

	var r io.Reader = body
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "quoted-printable":
		r = quotedprintable.NewReader(body)
	case "base64":
		r = base64.NewDecoder(base64.StdEncoding, body)
	}
	b, err := io.ReadAll(io.LimitReader(r, 6<<20))
	if err != nil {
		return ""
	}
	return string(b)
}

// ParseAlertHTML extracts job postings from an alert email body. Alert
// digests link each role with an anchor to a /jobs/view/<id> page; the
// anchor text is the title and the nearest following text nodes usually
// carry "Company · Location".
func ParseAlertHTML(htmlBody string, received time.Time) []domain.JobPosting {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlBody))
	if err != nil {
		return nil
	}

	seen := map[string]bool{}
	var out []domain.JobPosting

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if !strings.Contains(href, "/jobs/view/") {
			return
		}
		canon := canonicalJobURL(href)
		id := jobIDFromURL(canon)
		if id == "" || seen[id] {
			return
		}

		title := srcutil.CleanText(a.Text())
		if title == "" || len(title) > 200 {
			return
		}
		seen[id] = true

		company, location := companyLocationNear(a)

		out = append(out, domain.JobPosting{
			Source:      domain.SourceEmailAlert,
			ID:          id,
			Title:       title,
			Company:     company,
			Location:    location,
			Created:     received.UTC().Format(time.RFC3339),
			RedirectURL: canon,
		})
	})

	return out
}

// canonicalJobURL drops query and fragment so tracking parameters don't
// defeat dedup.
func canonicalJobURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}

func jobIDFromURL(u string) string {
	i := strings.Index(u, "/jobs/view/")
	if i < 0 {
		return ""
	}
	tail := u[i+len("/jobs/view/"):]
	var id strings.Builder
	for _, r := range tail {
		if r < '0' || r > '9' {
			break
		}
		id.WriteRune(r)
	}
	return id.String()
}

// companyLocationNear looks at the anchor's parent block for a
// "Company · Location" line, the usual digest layout.
func companyLocationNear(a *goquery.Selection) (company, location string) {
	block := srcutil.CleanText(a.Parent().Text())
	block = strings.TrimPrefix(block, srcutil.CleanText(a.Text()))
	block = srcutil.CleanText(block)
	if block == "" {
		return "", ""
	}
	for _, sep := range []string{"·", " | ", " - "} {
		if parts := strings.SplitN(block, sep, 2); len(parts) == 2 {
			return srcutil.CleanText(parts[0]), srcutil.CleanText(parts[1])
		}
	}
	return block, ""
}
