package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
)

const (
	nonceSize = 12
	tagSize   = 16

	// minBlobSize is the smallest well-formed blob: nonce + tag, no payload.
	minBlobSize = nonceSize + tagSize
)

// Encrypt seals plaintext with AES-256-GCM under the given key, using a
// fresh random 12-byte nonce per call. The returned blob has the layout
// nonce(12) || tag(16) || ciphertext.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	// Seal appends the tag after the ciphertext; reorder into the stored
	// nonce || tag || ciphertext layout.
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	ciphertext := sealed[:len(sealed)-tagSize]
	tag := sealed[len(sealed)-tagSize:]

	blob := make([]byte, 0, minBlobSize+len(ciphertext))
	blob = append(blob, nonce...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)
	return blob, nil
}

// Decrypt opens a blob produced by Encrypt. Returns ErrMalformedCiphertext
// if the blob is shorter than 28 bytes, and ErrIntegrity if the
// authentication tag does not verify under the given key.
func Decrypt(blob, key []byte) ([]byte, error) {
	if len(blob) < minBlobSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedCiphertext, len(blob))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := blob[:nonceSize]
	tag := blob[nonceSize:minBlobSize]
	ciphertext := blob[minBlobSize:]

	sealed := make([]byte, 0, len(ciphertext)+tagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIntegrity, err)
	}
	return plaintext, nil
}
