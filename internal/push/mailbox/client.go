package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
)

// alertTypeHeader is the optional header the platform's mailer sets to
// tag the alert category.
const alertTypeHeader = "X-Alert-Type"

// IMAPClient wraps go-imap v2 for connecting to and querying the
// alerts mailbox.
type IMAPClient struct {
	host     string
	port     string
	username string
	password string
	mailbox  string
	tls      bool
}

// NewIMAPClient creates a new IMAP client configuration.
func NewIMAPClient(
	host, port, username, password, mailbox string, tls bool,
) *IMAPClient {
	if mailbox == "" {
		mailbox = "INBOX"
	}
	return &IMAPClient{
		host:     host,
		port:     port,
		username: username,
		password: password,
		mailbox:  mailbox,
		tls:      tls,
	}
}

// connect establishes a connection to the IMAP server, authenticates,
// and selects the alerts mailbox. The caller is responsible for calling
// Logout on the returned client.
func (c *IMAPClient) connect(
	_ context.Context,
) (*imapclient.Client, error) {
	addr := c.host + ":" + c.port

	var client *imapclient.Client
	var err error

	if c.tls {
		client, err = imapclient.DialTLS(addr, nil)
	} else {
		client, err = imapclient.DialStartTLS(addr, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}

	if err := client.Login(c.username, c.password).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf(
			"authenticating %s against %s: %w", c.username, addr, err,
		)
	}

	if _, err := client.Select(c.mailbox, nil).Wait(); err != nil {
		_ = client.Logout().Wait()
		return nil, fmt.Errorf("selecting %s: %w", c.mailbox, err)
	}

	return client, nil
}

// FetchUnseen connects, fetches every unseen message in the alerts
// mailbox with its body, marks them seen, and returns them oldest
// first so delivery order matches arrival order.
func (c *IMAPClient) FetchUnseen(ctx context.Context) ([]AlertMessage, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = client.Logout().Wait() }()

	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}

	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, fmt.Errorf("searching unseen messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}

	uidSet := imap.UIDSetNum(uids...)

	bodySection := &imap.FetchItemBodySection{
		Peek: true,
	}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(uidSet, fetchOpts)
	defer fetchCmd.Close()

	var alerts []AlertMessage
	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			continue
		}

		alert := alertFromBuffer(buf, bodySection)
		alerts = append(alerts, alert)
	}

	if err := fetchCmd.Close(); err != nil {
		return alerts, fmt.Errorf("fetching alert messages: %w", err)
	}

	// Mark everything we picked up as seen so the next poll skips it.
	storeCmd := client.Store(uidSet, &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	if err := storeCmd.Close(); err != nil {
		return alerts, fmt.Errorf("marking alerts seen: %w", err)
	}

	return alerts, nil
}

// alertFromBuffer extracts an AlertMessage from a fetched message.
func alertFromBuffer(
	buf *imapclient.FetchMessageBuffer,
	bodySection *imap.FetchItemBodySection,
) AlertMessage {
	alert := AlertMessage{
		UID: uint32(buf.UID),
	}

	if buf.Envelope != nil {
		alert.Subject = buf.Envelope.Subject
		alert.Date = buf.Envelope.Date

		if len(buf.Envelope.From) > 0 {
			from := buf.Envelope.From[0]
			if from.Name != "" {
				alert.From = from.Name
			} else {
				alert.From = from.Addr()
			}
		}
	}

	rawBody := buf.FindBodySection(bodySection)
	if rawBody != nil {
		alert.TextBody, alert.AlertType = parseAlertBody(rawBody)
	}

	return alert
}

// parseAlertBody parses a raw RFC 2822 message using go-message and
// extracts the text/plain body plus the alert type header.
func parseAlertBody(raw []byte) (textBody, alertType string) {
	reader := bytes.NewReader(raw)

	mr, err := mail.CreateReader(reader)
	if err != nil {
		// If parsing fails, try treating the whole thing as plain text
		return strings.TrimSpace(string(raw)), ""
	}
	defer mr.Close()

	alertType = mr.Header.Get(alertTypeHeader)

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		h, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue
		}

		contentType, _, _ := h.ContentType()
		if !strings.HasPrefix(contentType, "text/plain") {
			continue
		}

		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}
		textBody = strings.TrimSpace(string(body))
	}

	return textBody, alertType
}
