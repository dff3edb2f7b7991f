// Package mailer sends account notifications over SMTP, DKIM signed when a
// key is configured, and provides a local sink that receives them.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net"
	"strings"
	"time"

	"github.com/Goofygiraffe06/portal/internal/config"
	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/utils"
	smtpcore "github.com/emersion/go-smtp"
	"github.com/google/uuid"
)

// Mailer delivers plain text mail through one relay.
type Mailer struct {
	addr   string
	from   string
	helo   string
	signer *Signer
	now    func() time.Time
}

// New returns a Mailer for the relay at addr. signer may be nil.
func New(addr, from, helo string, signer *Signer) *Mailer {
	return &Mailer{addr: addr, from: from, helo: helo, signer: signer, now: time.Now}
}

// FromConfig builds the Mailer described by the environment. It returns a
// nil Mailer when SMTP_ADDR is unset.
func FromConfig() (*Mailer, error) {
	addr := config.SMTPAddr()
	if addr == "" {
		return nil, nil
	}
	var signer *Signer
	if seed := config.DKIMKeySeed(); seed != "" {
		s, err := NewSigner(config.DKIMDomain(), config.DKIMSelector(), seed)
		if err != nil {
			return nil, err
		}
		signer = s
		logging.InfoLog("DKIM signing enabled, publish TXT at %s", s.DNSName())
	}
	return New(addr, config.SMTPFrom(), config.SMTPHelo(), signer), nil
}

// Send delivers one message to a single recipient.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	toHash := utils.HashEmail(to)
	start := time.Now()

	msg := m.compose(to, subject, body)
	if m.signer != nil {
		signed, err := m.signer.Sign(msg)
		if err != nil {
			return fmt.Errorf("dkim sign: %w", err)
		}
		msg = signed
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		logging.WarnLog("Mail to [%s] failed: dial %s: %v", toHash, m.addr, err)
		return fmt.Errorf("dial %s: %w", m.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	c := smtpcore.NewClient(conn)
	defer c.Close()

	if err := c.Hello(m.helo); err != nil {
		return fmt.Errorf("hello: %w", err)
	}
	if err := c.SendMail(m.from, []string{to}, bytes.NewReader(msg)); err != nil {
		logging.WarnLog("Mail to [%s] failed: %v", toHash, err)
		return err
	}
	if err := c.Quit(); err != nil {
		logging.DebugLog("Mail quit: %v", err)
	}

	logging.InfoLog("Mail to [%s] sent %v", toHash, time.Since(start))
	return nil
}

func (m *Mailer) compose(to, subject, body string) []byte {
	domain := "localhost"
	if i := strings.LastIndex(m.from, "@"); i >= 0 {
		domain = m.from[i+1:]
	}

	var b bytes.Buffer
	header := func(k, v string) { fmt.Fprintf(&b, "%s: %s\r\n", k, v) }
	header("From", m.from)
	header("To", to)
	header("Subject", mime.QEncoding.Encode("utf-8", subject))
	header("Date", m.now().Format(time.RFC1123Z))
	header("Message-ID", "<"+uuid.NewString()+"@"+domain+">")
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=utf-8")
	b.WriteString("\r\n")
	for _, line := range strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n") {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	return b.Bytes()
}

// PasswordChanged tells the account owner their password was reset.
func (m *Mailer) PasswordChanged(ctx context.Context, to, fullName string) error {
	name := fullName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf("Hi %s,\n\nThe password for your account was just changed.\n"+
		"If this was not you, reset it again and review your account.\n", name)
	return m.Send(ctx, to, "Your password was changed", body)
}
