// Movie App Admin - Administrative Console for a Video Streaming Catalog
// Copyright 2026 Rahul O. (rahulonit)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/rahulonit/movie-app-admin

package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Encryption errors
var (
	// ErrDecryptionFailed indicates the decryption operation failed.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidCiphertext indicates the ciphertext is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// encryptionContext is the HKDF info parameter binding derived keys to
// credential encryption. Changing it invalidates every stored ciphertext.
const encryptionContext = "movie-app-admin-credential-encryption-v1"

// Encryptor provides AES-256-GCM encryption for stored credentials.
// The AES key is derived from the configured master key using HKDF-SHA256.
// A nil Encryptor is valid and passes values through unchanged.
type Encryptor struct {
	aead cipher.AEAD
}

// NewEncryptor creates an encryptor from a base64-encoded master key.
// Returns nil when the key is empty (encryption disabled).
func NewEncryptor(masterKeyBase64 string) (*Encryptor, error) {
	if masterKeyBase64 == "" {
		return nil, nil // Encryption disabled
	}

	masterKey, err := base64.StdEncoding.DecodeString(masterKeyBase64)
	if err != nil {
		return nil, fmt.Errorf("decode master key: %w", err)
	}
	if len(masterKey) < 16 {
		return nil, errors.New("master key must be at least 16 bytes")
	}

	derivedKey, err := deriveKey(masterKey, []byte(encryptionContext), 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(derivedKey)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM cipher: %w", err)
	}

	return &Encryptor{aead: aead}, nil
}

// deriveKey derives a key using HKDF-SHA256.
func deriveKey(secret, context []byte, keyLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, context)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// IsEnabled returns true if encryption is enabled.
func (e *Encryptor) IsEnabled() bool {
	return e != nil && e.aead != nil
}

// Encrypt encrypts the plaintext and returns base64-encoded ciphertext.
// The nonce is prepended to the ciphertext. Empty strings are returned as-is.
func (e *Encryptor) Encrypt(plaintext string) (string, error) {
	if !e.IsEnabled() {
		return plaintext, nil
	}
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	ciphertext := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt decrypts base64-encoded ciphertext and returns plaintext.
// Empty strings are returned as-is.
func (e *Encryptor) Decrypt(ciphertext string) (string, error) {
	if !e.IsEnabled() {
		return ciphertext, nil
	}
	if ciphertext == "" {
		return "", nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode failed", ErrInvalidCiphertext)
	}

	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize+1+e.aead.Overhead() {
		return "", fmt.Errorf("%w: data too short", ErrInvalidCiphertext)
	}

	nonce := data[:nonceSize]
	encryptedData := data[nonceSize:]

	plaintext, err := e.aead.Open(nil, nonce, encryptedData, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryptionFailed, err.Error())
	}

	return string(plaintext), nil
}

// GenerateEncryptionKey generates a cryptographically secure master key.
// Returns the key as a base64-encoded string suitable for configuration.
func GenerateEncryptionKey() (string, error) {
	key := make([]byte, 32) // 256 bits
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate random key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// CipherStore wraps a Store with transparent value encryption.
type CipherStore struct {
	inner Store
	enc   *Encryptor
}

// NewCipherStore layers encryption over an existing store. When the
// encryptor is nil or disabled, the inner store is returned unchanged.
func NewCipherStore(inner Store, enc *Encryptor) Store {
	if !enc.IsEnabled() {
		return inner
	}
	return &CipherStore{inner: inner, enc: enc}
}

// Get retrieves and decrypts a value.
func (s *CipherStore) Get(key string) (string, bool, error) {
	ciphertext, found, err := s.inner.Get(key)
	if err != nil || !found {
		return "", found, err
	}

	plaintext, err := s.enc.Decrypt(ciphertext)
	if err != nil {
		return "", false, fmt.Errorf("decrypt %s: %w", key, err)
	}
	return plaintext, true, nil
}

// Set encrypts and stores a value.
func (s *CipherStore) Set(key, value string) error {
	ciphertext, err := s.enc.Encrypt(value)
	if err != nil {
		return fmt.Errorf("encrypt %s: %w", key, err)
	}
	return s.inner.Set(key, ciphertext)
}

// Delete removes a key.
func (s *CipherStore) Delete(key string) error {
	return s.inner.Delete(key)
}

// Close closes the inner store.
func (s *CipherStore) Close() error {
	return s.inner.Close()
}
