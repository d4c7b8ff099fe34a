package storage

import "errors"

var (
	// ErrInvalidKey is returned when an encryption key is not 32 bytes.
	ErrInvalidKey = errors.New("encryption key must be 32 bytes")

	// ErrMissingKey is returned when a field-encryption operation is
	// attempted without a configured key.
	ErrMissingKey = errors.New("field encryption key is not configured")

	// ErrDecryption is returned when an envelope cannot be decrypted:
	// wrong key, tampered data, or a malformed envelope.
	ErrDecryption = errors.New("decryption failed: wrong key or corrupted data")

	// ErrDuplicate is returned when attempting to create a resource that already exists.
	ErrDuplicate = errors.New("resource already exists")

	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("resource not found")
)
