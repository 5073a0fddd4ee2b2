package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/go-crypt/x/blake2b"
	"github.com/go-crypt/x/pbkdf2"
)

const (
	deriveIterations = 100_000
	deriveKeyLength  = 32
)

// Config holds the process-wide encryption configuration. It is constructed
// once at startup and passed by reference into NewKeyManager; the secret is
// never read from ambient state inside this package.
type Config struct {
	// MasterSecret is the process-wide secret all per-user keys are derived
	// from. It is required; an empty value fails NewKeyManager.
	MasterSecret string
}

// KeyManager derives per-user symmetric keys from the master secret.
// Derivation is deterministic: the same (secret, user id) pair always yields
// the same key, and distinct users yield unrelated keys. Safe for concurrent
// use.
type KeyManager struct {
	secret []byte
}

// NewKeyManager creates a KeyManager from the given configuration.
// Returns ErrMasterSecretRequired if the master secret is empty.
func NewKeyManager(config *Config) (*KeyManager, error) {
	if config == nil || config.MasterSecret == "" {
		return nil, ErrMasterSecretRequired
	}
	return &KeyManager{secret: []byte(config.MasterSecret)}, nil
}

// DeriveKey derives the 32-byte AES key for a user. PBKDF2-HMAC-SHA256 with
// 100,000 iterations and the user id as salt, matching what is stored on
// disk for that user. Derivation is CPU-bound; callers performing many
// operations for one user should derive once and reuse the key.
func (km *KeyManager) DeriveKey(userID string) []byte {
	return pbkdf2.Key(km.secret, []byte(userID), deriveIterations, deriveKeyLength, sha256.New)
}

// Fingerprint returns a short stable identifier of the master secret,
// suitable for logging at startup to confirm which secret is loaded. The
// secret itself cannot be recovered from it.
func (km *KeyManager) Fingerprint() string {
	h, _ := blake2b.New(8, nil)
	h.Write(km.secret)
	return hex.EncodeToString(h.Sum(nil))
}
