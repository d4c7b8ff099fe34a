// Field-level encryption for sensitive applicant data (national ID numbers).
//
// Values are sealed with AES-256-GCM and stored as a three-segment envelope:
// base64(nonce):base64(tag):base64(ciphertext). Callers must re-verify the
// actor's identity and privilege before invoking DecryptField; the utility
// itself performs no authorization.
package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"
	"strings"
)

const fieldNonceSize = 16

// EncryptField encrypts a plaintext field value using AES-256-GCM.
// The key must be exactly 32 bytes. Each call uses a fresh random nonce,
// so encrypting the same value twice yields different envelopes.
func EncryptField(plain string, key []byte) (string, error) {
	if key == nil {
		return "", ErrMissingKey
	}
	if len(key) != 32 {
		return "", ErrInvalidKey
	}

	// Key size is already validated, so these cannot fail
	block, _ := aes.NewCipher(key)                       //nolint:errcheck
	gcm, _ := cipher.NewGCMWithNonceSize(block, fieldNonceSize) //nolint:errcheck

	nonce := make([]byte, fieldNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// Seal appends the auth tag to the ciphertext; split it out so the
	// envelope carries the tag as its own segment.
	sealed := gcm.Seal(nil, nonce, []byte(plain), nil)
	tagStart := len(sealed) - gcm.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	enc := base64.StdEncoding
	return enc.EncodeToString(nonce) + ":" + enc.EncodeToString(tag) + ":" + enc.EncodeToString(ciphertext), nil
}

// DecryptField decrypts an envelope produced by EncryptField.
// It fails closed: any malformed envelope, wrong key, or tampered segment
// returns ErrDecryption and no plaintext.
func DecryptField(envelope string, key []byte) (string, error) {
	if key == nil {
		return "", ErrMissingKey
	}
	if len(key) != 32 {
		return "", ErrInvalidKey
	}

	parts := strings.Split(envelope, ":")
	if len(parts) != 3 {
		return "", ErrDecryption
	}

	enc := base64.StdEncoding
	nonce, err := enc.DecodeString(parts[0])
	if err != nil || len(nonce) != fieldNonceSize {
		return "", ErrDecryption
	}
	tag, err := enc.DecodeString(parts[1])
	if err != nil {
		return "", ErrDecryption
	}
	ciphertext, err := enc.DecodeString(parts[2])
	if err != nil {
		return "", ErrDecryption
	}

	block, _ := aes.NewCipher(key)                       //nolint:errcheck
	gcm, _ := cipher.NewGCMWithNonceSize(block, fieldNonceSize) //nolint:errcheck

	if len(tag) != gcm.Overhead() {
		return "", ErrDecryption
	}

	plain, err := gcm.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrDecryption
	}

	return string(plain), nil
}
