package crypto

import "errors"

var (
	// ErrMasterSecretRequired is returned when a KeyManager is constructed
	// without a master secret. This is a startup configuration failure, not
	// a per-request condition.
	ErrMasterSecretRequired = errors.New("master secret required")

	// ErrMalformedCiphertext indicates a blob too short to contain a nonce
	// and authentication tag.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrIntegrity indicates the authentication tag did not verify. The blob
	// was tampered with or encrypted under a different key.
	ErrIntegrity = errors.New("ciphertext integrity check failed")
)
