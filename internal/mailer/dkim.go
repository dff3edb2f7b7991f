package mailer

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/emersion/go-msgauth/dkim"
)

// Signer adds a DKIM-Signature header to outgoing messages.
type Signer struct {
	opts *dkim.SignOptions
	pub  ed25519.PublicKey
}

// NewSigner builds an Ed25519 signer from a hex encoded 32-byte seed.
func NewSigner(domain, selector, seedHex string) (*Signer, error) {
	if domain == "" || selector == "" {
		return nil, errors.New("dkim domain and selector are required")
	}
	seed, err := hex.DecodeString(strings.TrimSpace(seedHex))
	if err != nil {
		return nil, fmt.Errorf("dkim seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("dkim seed: want %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	key := ed25519.NewKeyFromSeed(seed)
	return &Signer{
		opts: &dkim.SignOptions{
			Domain:   domain,
			Selector: selector,
			Signer:   key,
			HeaderKeys: []string{
				"From", "To", "Subject", "Date", "Message-ID", "MIME-Version", "Content-Type",
			},
		},
		pub: key.Public().(ed25519.PublicKey),
	}, nil
}

// Sign returns msg with a DKIM-Signature header prepended.
func (s *Signer) Sign(msg []byte) ([]byte, error) {
	var out bytes.Buffer
	if err := dkim.Sign(&out, bytes.NewReader(msg), s.opts); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// TXTRecord is the DNS record to publish at <selector>._domainkey.<domain>.
func (s *Signer) TXTRecord() string {
	return "v=DKIM1; k=ed25519; p=" + base64.StdEncoding.EncodeToString(s.pub)
}

// DNSName is where TXTRecord belongs.
func (s *Signer) DNSName() string {
	return s.opts.Selector + "._domainkey." + s.opts.Domain
}

type DKIMResult int

const (
	DKIMNone DKIMResult = iota
	DKIMPass
	DKIMFail
	DKIMTempError
)

func (r DKIMResult) String() string {
	switch r {
	case DKIMNone:
		return "none"
	case DKIMPass:
		return "pass"
	case DKIMFail:
		return "fail"
	case DKIMTempError:
		return "temperror"
	default:
		return "unknown"
	}
}

// DKIMChecker verifies signatures on received messages. A nil LookupTXT
// uses the system resolver.
type DKIMChecker struct {
	LookupTXT func(domain string) ([]string, error)
}

// CheckDKIM passes if at least one signature on messageData verifies.
func (d *DKIMChecker) CheckDKIM(messageData []byte) (DKIMResult, error) {
	verifications, err := dkim.VerifyWithOptions(bytes.NewReader(messageData), &dkim.VerifyOptions{
		LookupTXT: d.LookupTXT,
	})
	if err != nil {
		logging.WarnLog("DKIM check error: %v", err)
		return DKIMTempError, err
	}

	if len(verifications) == 0 {
		logging.DebugLog("DKIM check: no DKIM signatures found")
		return DKIMNone, nil
	}

	var lastErr error
	for _, v := range verifications {
		if v.Err == nil {
			logging.DebugLog("DKIM check: valid signature found for domain=%s", v.Domain)
			return DKIMPass, nil
		}
		lastErr = v.Err
		logging.DebugLog("DKIM check: signature verification failed for domain=%s: %v", v.Domain, v.Err)
	}

	logging.WarnLog("DKIM check: all signatures failed, last error: %v", lastErr)
	return DKIMFail, lastErr
}
