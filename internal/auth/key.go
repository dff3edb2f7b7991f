package auth

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"github.com/Goofygiraffe06/portal/internal/logging"
)

// sessionKey signs and verifies session tokens. Derived keys come from a
// configured seed and stay valid across restarts; ephemeral ones do not.
type sessionKey struct {
	priv    ed25519.PrivateKey
	pub     ed25519.PublicKey
	derived bool
}

var (
	keyMu      sync.RWMutex
	currentKey *sessionKey
)

// LoadSigningKey installs the key used for session tokens. seedHex is a hex
// encoded Ed25519 seed; when it is empty a random key is generated.
func LoadSigningKey(seedHex string) error {
	k, err := newSessionKey(strings.TrimSpace(seedHex))
	if err != nil {
		logging.ErrorLog("Session key rejected: %v", err)
		return err
	}

	keyMu.Lock()
	currentKey = k
	keyMu.Unlock()

	if k.derived {
		logging.InfoLog("Session key loaded from seed (fingerprint %s)", k.fingerprint())
	} else {
		logging.WarnLog("Session key is ephemeral (fingerprint %s); tokens end with the process", k.fingerprint())
	}
	return nil
}

func newSessionKey(seedHex string) (*sessionKey, error) {
	if seedHex == "" {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
		return &sessionKey{priv: priv, pub: pub}, nil
	}

	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, fmt.Errorf("session key seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("session key seed: want %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return &sessionKey{priv: priv, pub: priv.Public().(ed25519.PublicKey), derived: true}, nil
}

// fingerprint is the first bytes of the public key, enough to tell keys
// apart in logs.
func (k *sessionKey) fingerprint() string {
	return hex.EncodeToString(k.pub[:8])
}

func signingKey() *sessionKey {
	keyMu.RLock()
	defer keyMu.RUnlock()
	return currentKey
}
