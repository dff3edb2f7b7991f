package mailer

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/utils"
	smtpcore "github.com/emersion/go-smtp"
)

// Message is one mail accepted by a Sink.
type Message struct {
	From string
	To   []string
	Data []byte
	DKIM DKIMResult
}

// Header returns the first value of header key, unfolded.
func (m Message) Header(key string) string {
	head, _, _ := bytes.Cut(m.Data, []byte("\r\n\r\n"))
	prefix := strings.ToLower(key) + ":"
	lines := strings.Split(string(head), "\r\n")
	for i, line := range lines {
		if !strings.HasPrefix(strings.ToLower(line), prefix) {
			continue
		}
		v := line[len(prefix):]
		for _, next := range lines[i+1:] {
			if next == "" || (next[0] != ' ' && next[0] != '\t') {
				break
			}
			v += next
		}
		return strings.TrimSpace(v)
	}
	return ""
}

// Body returns everything after the header block.
func (m Message) Body() string {
	_, body, _ := bytes.Cut(m.Data, []byte("\r\n\r\n"))
	return string(body)
}

type sinkSession struct {
	backend    *sinkBackend
	remoteAddr string
	from       string
	recipients []string
}

func (s *sinkSession) Reset() {
	s.from = ""
	s.recipients = s.recipients[:0]
}

func (s *sinkSession) Logout() error { return nil }

func (s *sinkSession) Mail(from string, _ *smtpcore.MailOptions) error {
	s.from = from
	return nil
}

func (s *sinkSession) Rcpt(to string, _ *smtpcore.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

func (s *sinkSession) Data(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	msg := Message{
		From: s.from,
		To:   append([]string(nil), s.recipients...),
		Data: data,
	}
	msg.DKIM, _ = s.backend.checker.CheckDKIM(data)

	hashed := make([]string, len(msg.To))
	for i, to := range msg.To {
		hashed[i] = utils.HashEmail(to)
	}
	logging.InfoLog("SMTP sink accepted message from=%s rcpt=%v dkim=%s bytes=%d",
		s.remoteAddr, hashed, msg.DKIM, len(data))

	s.backend.deliver(msg)
	s.Reset()
	return nil
}

type sinkBackend struct {
	checker *DKIMChecker
	mu      sync.Mutex
	inbox   []Message
	notify  chan struct{}
}

func (b *sinkBackend) NewSession(c *smtpcore.Conn) (smtpcore.Session, error) {
	ra := ""
	if conn := c.Conn(); conn != nil {
		ra = conn.RemoteAddr().String()
	}
	return &sinkSession{backend: b, remoteAddr: ra}, nil
}

func (b *sinkBackend) deliver(m Message) {
	b.mu.Lock()
	b.inbox = append(b.inbox, m)
	b.mu.Unlock()
	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// Sink is a local SMTP listener that keeps every message it accepts.
type Sink struct {
	*smtpcore.Server
	backend *sinkBackend
	ln      net.Listener
}

// NewSink configures a sink on addr. checker may carry a LookupTXT stub.
func NewSink(addr, domain string, maxMessageBytes int, checker *DKIMChecker) *Sink {
	if checker == nil {
		checker = &DKIMChecker{}
	}
	b := &sinkBackend{checker: checker, notify: make(chan struct{}, 1)}
	s := &Sink{Server: smtpcore.NewServer(b), backend: b}
	s.Server.Addr = addr
	s.Server.Domain = domain
	s.Server.ReadTimeout = 5 * time.Second
	s.Server.WriteTimeout = 5 * time.Second
	s.Server.MaxMessageBytes = int64(maxMessageBytes)
	s.Server.MaxRecipients = 50
	s.Server.AllowInsecureAuth = true
	return s
}

// Start begins listening in a separate goroutine.
func (s *Sink) Start() error {
	ln, err := net.Listen("tcp", s.Server.Addr)
	if err != nil {
		return fmt.Errorf("smtp listen failed: %w", err)
	}
	s.ln = ln
	go func() {
		logging.InfoLog("SMTP sink listening on %s (domain=%s)", ln.Addr(), s.Server.Domain)
		if err := s.Server.Serve(ln); err != nil {
			logging.DebugLog("SMTP sink stopped: %v", err)
		}
	}()
	return nil
}

// ListenAddr is the bound address, useful when Addr asked for port 0.
func (s *Sink) ListenAddr() string {
	if s.ln == nil {
		return s.Server.Addr
	}
	return s.ln.Addr().String()
}

// Stop shuts the listener down.
func (s *Sink) Stop() {
	if s == nil {
		return
	}
	_ = s.Server.Close()
}

// Messages returns a copy of everything received so far.
func (s *Sink) Messages() []Message {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	return append([]Message(nil), s.backend.inbox...)
}

// Wait blocks until at least n messages have arrived or timeout passes.
func (s *Sink) Wait(n int, timeout time.Duration) ([]Message, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		if msgs := s.Messages(); len(msgs) >= n {
			return msgs, true
		}
		select {
		case <-s.backend.notify:
		case <-deadline.C:
			msgs := s.Messages()
			return msgs, len(msgs) >= n
		}
	}
}
