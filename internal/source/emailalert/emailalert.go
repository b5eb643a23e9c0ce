// Package emailalert turns job-alert emails (LinkedIn-style digests) into
// postings. It reads a mailbox over IMAP, pulls recent alert messages and
// extracts the advertised roles from their HTML bodies. Off by default;
// registers through the same Fetcher interface as the HTTP sources.
package emailalert

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"

	"jobrank-engine/internal/domain"
	"jobrank-engine/internal/source"
)

type Config struct {
	Host        string
	Port        int // default 993
	Username    string
	Password    string
	Mailbox     string // default INBOX
	MaxMessages int    // default 25
}

type Fetcher struct {
	cfg Config
}

func New(cfg Config) *Fetcher {
	if cfg.Port == 0 {
		cfg.Port = 993
	}
	if cfg.Mailbox == "" {
		cfg.Mailbox = "INBOX"
	}
	if cfg.MaxMessages <= 0 {
		cfg.MaxMessages = 25
	}
	return &Fetcher{cfg: cfg}
}

func (f *Fetcher) Name() string { return "emailalert" }

func (f *Fetcher) Fetch(ctx context.Context, q source.Query) ([]domain.JobPosting, error) {
	if f.cfg.Host == "" || f.cfg.Username == "" || f.cfg.Password == "" {
		log.Printf("[emailalert] imap not configured, skipping")
		return nil, nil
	}

	addr := fmt.Sprintf("%s:%d", f.cfg.Host, f.cfg.Port)
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: f.cfg.Host},
	})
	if err != nil {
		return nil, fmt.Errorf("imap dial tls: %w", err)
	}
	defer func() { _ = c.Close() }()

	// Best-effort close on cancel so a hung server can't outlive the
	// aggregator's timeout.
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(f.cfg.Username, f.cfg.Password).Wait(); err != nil {
		return nil, fmt.Errorf("imap login: %w", err)
	}
	if _, err := c.Select(f.cfg.Mailbox, &imap.SelectOptions{ReadOnly: true}).Wait(); err != nil {
		return nil, fmt.Errorf("imap select %s: %w", f.cfg.Mailbox, err)
	}

	maxAge := q.MaxDaysOld
	if maxAge <= 0 {
		maxAge = 30
	}
	criteria := &imap.SearchCriteria{
		Since: time.Now().AddDate(0, 0, -maxAge),
	}
	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("imap uid search: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	// Newest first.
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > f.cfg.MaxMessages {
		uids = uids[:f.cfg.MaxMessages]
	}

	bodyAll := &imap.FetchItemBodySection{
		Specifier: imap.PartSpecifierNone,
		Peek:      true,
	}
	fetchCmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:          true,
		Envelope:     true,
		InternalDate: true,
		BodySection:  []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = fetchCmd.Close() }()

	var out []domain.JobPosting
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}

		msgData := fetchCmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return out, fmt.Errorf("imap fetch collect: %w", err)
		}

		subject := ""
		received := time.Now().UTC()
		if buf.Envelope != nil {
			subject = buf.Envelope.Subject
			if !buf.Envelope.Date.IsZero() {
				received = buf.Envelope.Date
			}
		}
		if !looksLikeAlertSubject(subject) {
			continue
		}

		raw := buf.FindBodySection(bodyAll)
		if len(raw) == 0 {
			continue
		}
		htmlBody := extractHTMLPart(raw)
		if htmlBody == "" {
			continue
		}

		out = append(out, ParseAlertHTML(htmlBody, received)...)
	}

	if err := fetchCmd.Close(); err != nil {
		return out, fmt.Errorf("imap fetch close: %w", err)
	}

	log.Printf("[emailalert] mailbox=%s messages=%d postings=%d", f.cfg.Mailbox, len(uids), len(out))
	return out, nil
}
