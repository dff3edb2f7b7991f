package mailer

import (
	"context"
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

const testSeed = "9d61b19deffd5a60ba844af492ec2cc44449c5697b326919703bac031cae7f60"

func startSink(t *testing.T, signer *Signer) *Sink {
	t.Helper()
	checker := &DKIMChecker{LookupTXT: func(domain string) ([]string, error) {
		if signer != nil && domain == signer.DNSName() {
			return []string{signer.TXTRecord()}, nil
		}
		return nil, errors.New("no such record")
	}}
	sink := NewSink("127.0.0.1:0", "localhost", 1<<20, checker)
	if err := sink.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(sink.Stop)
	return sink
}

func TestPasswordChangedSignedDelivery(t *testing.T) {
	signer, err := NewSigner("example.com", "portal", testSeed)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	sink := startSink(t, signer)

	m := New(sink.ListenAddr(), "no-reply@example.com", "localhost", signer)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := m.PasswordChanged(ctx, "ada@example.com", "Ada Lovelace"); err != nil {
		t.Fatalf("PasswordChanged: %v", err)
	}

	msgs, ok := sink.Wait(1, 5*time.Second)
	if !ok {
		t.Fatal("no message received")
	}
	got := msgs[0]
	if got.From != "no-reply@example.com" {
		t.Errorf("unexpected envelope sender %q", got.From)
	}
	if len(got.To) != 1 || got.To[0] != "ada@example.com" {
		t.Errorf("unexpected recipients %v", got.To)
	}
	if got.DKIM != DKIMPass {
		t.Errorf("expected DKIM pass, got %s", got.DKIM)
	}
	if got.Header("Subject") != "Your password was changed" {
		t.Errorf("unexpected subject %q", got.Header("Subject"))
	}
	if !strings.Contains(got.Header("DKIM-Signature"), "d=example.com") {
		t.Errorf("missing signature domain: %q", got.Header("DKIM-Signature"))
	}
	if !strings.HasSuffix(got.Header("Message-ID"), "@example.com>") {
		t.Errorf("unexpected message id %q", got.Header("Message-ID"))
	}
	if !strings.Contains(got.Body(), "Hi Ada Lovelace,") {
		t.Errorf("unexpected body %q", got.Body())
	}
}

func TestUnsignedDelivery(t *testing.T) {
	sink := startSink(t, nil)

	m := New(sink.ListenAddr(), "no-reply@example.com", "localhost", nil)
	if err := m.Send(context.Background(), "grace@example.com", "hello", "line one\nline two"); err != nil {
		t.Fatalf("Send: %v", err)
	}

	msgs, ok := sink.Wait(1, 5*time.Second)
	if !ok {
		t.Fatal("no message received")
	}
	if msgs[0].DKIM != DKIMNone {
		t.Errorf("expected no signature, got %s", msgs[0].DKIM)
	}
	if !strings.Contains(msgs[0].Body(), "line one\r\nline two\r\n") {
		t.Errorf("body not CRLF normalized: %q", msgs[0].Body())
	}
}

func TestTamperedMessageFailsDKIM(t *testing.T) {
	signer, err := NewSigner("example.com", "portal", testSeed)
	if err != nil {
		t.Fatalf("NewSigner: %v", err)
	}
	m := New("unused:25", "no-reply@example.com", "localhost", signer)
	signed, err := signer.Sign(m.compose("ada@example.com", "s", "original body"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	tampered := []byte(strings.Replace(string(signed), "original body", "changed body", 1))

	checker := &DKIMChecker{LookupTXT: func(string) ([]string, error) {
		return []string{signer.TXTRecord()}, nil
	}}
	if res, _ := checker.CheckDKIM(signed); res != DKIMPass {
		t.Errorf("expected pass on untouched message, got %s", res)
	}
	if res, _ := checker.CheckDKIM(tampered); res != DKIMFail {
		t.Errorf("expected fail on tampered message, got %s", res)
	}
}

func TestSendDialFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	m := New(addr, "no-reply@example.com", "localhost", nil)
	if err := m.Send(context.Background(), "ada@example.com", "s", "b"); err == nil {
		t.Error("expected dial error")
	}
}

func TestNewSignerRejectsBadSeed(t *testing.T) {
	tests := []struct {
		name, domain, selector, seed string
	}{
		{"not hex", "example.com", "portal", "zz"},
		{"short", "example.com", "portal", "abcd"},
		{"no domain", "", "portal", testSeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSigner(tt.domain, tt.selector, tt.seed); err == nil {
				t.Error("expected error")
			}
		})
	}
}
