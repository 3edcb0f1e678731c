// Package mail downloads bank statement attachments from an IMAP mailbox.
// It is a thin transport wrapper: messages are classified via the bank
// registry and anything unidentifiable is skipped.
package mail

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/emersion/go-imap"
	"github.com/emersion/go-imap/client"
	gomail "github.com/emersion/go-message/mail"

	"github.com/bankdigest-dev/bankdigest/internal/bankid"
	"github.com/bankdigest-dev/bankdigest/internal/model"
)

// Fetcher connects to an IMAP server and downloads PDF statement
// attachments from recent messages.
type Fetcher struct {
	Server      string
	Port        int
	Username    string
	Password    string
	Mailbox     string
	DownloadDir string
	Banks       *bankid.Registry
	Logger      *log.Logger
}

// FetchCandidates searches the mailbox for statement-like messages received
// within the last windowDays days and saves their PDF attachments to the
// download directory. Messages the bank registry rejects are skipped, as are
// individual messages that fail to parse (logged, not fatal).
func (f *Fetcher) FetchCandidates(windowDays int) ([]model.StatementSource, error) {
	addr := fmt.Sprintf("%s:%d", f.Server, f.Port)
	c, err := client.DialTLS(addr, nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer c.Logout()

	if err := c.Login(f.Username, f.Password); err != nil {
		return nil, fmt.Errorf("imap login for %s: %w", f.Username, err)
	}

	mailbox := f.Mailbox
	if mailbox == "" {
		mailbox = "INBOX"
	}
	if _, err := c.Select(mailbox, true); err != nil {
		return nil, fmt.Errorf("selecting %s: %w", mailbox, err)
	}

	ids, err := f.search(c, windowDays)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	seqset := new(imap.SeqSet)
	seqset.AddNum(ids...)

	section := &imap.BodySectionName{Peek: true}
	messages := make(chan *imap.Message, 10)
	done := make(chan error, 1)
	go func() {
		done <- c.Fetch(seqset, []imap.FetchItem{section.FetchItem(), imap.FetchEnvelope}, messages)
	}()

	var sources []model.StatementSource
	for msg := range messages {
		srcs, err := f.saveAttachments(msg, section)
		if err != nil {
			f.Logger.Warn("skipping message", "err", err)
			continue
		}
		sources = append(sources, srcs...)
	}
	if err := <-done; err != nil {
		return nil, fmt.Errorf("fetching messages: %w", err)
	}
	return sources, nil
}

// search finds messages since the window start whose subject mentions a
// statement or a bank.
func (f *Fetcher) search(c *client.Client, windowDays int) ([]uint32, error) {
	stmt := imap.NewSearchCriteria()
	stmt.Header.Add("Subject", "statement")
	bank := imap.NewSearchCriteria()
	bank.Header.Add("Subject", "bank")

	criteria := imap.NewSearchCriteria()
	criteria.Since = time.Now().AddDate(0, 0, -windowDays)
	criteria.Or = [][2]*imap.SearchCriteria{{stmt, bank}}

	ids, err := c.Search(criteria)
	if err != nil {
		return nil, fmt.Errorf("imap search: %w", err)
	}
	return ids, nil
}

// saveAttachments classifies one message and writes its PDF attachments to
// the download directory.
func (f *Fetcher) saveAttachments(msg *imap.Message, section *imap.BodySectionName) ([]model.StatementSource, error) {
	body := msg.GetBody(section)
	if body == nil {
		return nil, fmt.Errorf("message %d has no body", msg.SeqNum)
	}

	mr, err := gomail.CreateReader(body)
	if err != nil {
		return nil, fmt.Errorf("parsing message %d: %w", msg.SeqNum, err)
	}

	subject, err := mr.Header.Subject()
	if err != nil {
		subject = ""
	}
	sender := senderAddress(mr)

	bank := f.Banks.Identify(subject, sender)
	if bank == "" {
		f.Logger.Debug("message not statement-like, skipping", "subject", subject)
		return nil, nil
	}

	received, err := mr.Header.Date()
	if err != nil && msg.Envelope != nil {
		received = msg.Envelope.Date
	}

	var sources []model.StatementSource
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading parts of message %d: %w", msg.SeqNum, err)
		}

		attachment, ok := part.Header.(*gomail.AttachmentHeader)
		if !ok {
			continue
		}
		filename, err := attachment.Filename()
		if err != nil || !strings.HasSuffix(strings.ToLower(filename), ".pdf") {
			continue
		}

		path, err := f.save(filename, part.Body)
		if err != nil {
			f.Logger.Warn("failed to save attachment", "file", filename, "err", err)
			continue
		}
		f.Logger.Info("downloaded statement", "file", filename, "bank", bank)

		sources = append(sources, model.StatementSource{
			Bank:     bank,
			Subject:  subject,
			Filename: filename,
			Path:     path,
			Received: received,
		})
	}
	return sources, nil
}

func (f *Fetcher) save(filename string, body io.Reader) (string, error) {
	if err := os.MkdirAll(f.DownloadDir, 0o755); err != nil {
		return "", fmt.Errorf("creating download dir: %w", err)
	}

	path := filepath.Join(f.DownloadDir, filepath.Base(filename))
	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, body); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func senderAddress(mr *gomail.Reader) string {
	addrs, err := mr.Header.AddressList("From")
	if err != nil || len(addrs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(addrs))
	for _, a := range addrs {
		parts = append(parts, a.String())
	}
	return strings.Join(parts, ", ")
}
