// Package security provides symmetric encryption for the durable state
// records, so field images and locations are not readable straight out of
// the local database file.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// Cipher seals and opens state record payloads with AES-GCM, one random
// nonce per record. Sealed format: nonce || ciphertext.
type Cipher struct {
	gcm cipher.AEAD
}

// NewCipher constructs an AES-GCM cipher. Key must be 16, 24, or 32 bytes
// (AES-128/192/256).
func NewCipher(key string) (*Cipher, error) {
	k := []byte(key)
	n := len(k)
	if n != 16 && n != 24 && n != 32 {
		return nil, fmt.Errorf("encryption key must be 16, 24, or 32 bytes; got %d", n)
	}
	block, err := aes.NewCipher(k)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return &Cipher{gcm: gcm}, nil
}

func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, c.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("rand nonce: %w", err)
	}
	return c.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	ns := c.gcm.NonceSize()
	if len(sealed) < ns {
		return nil, fmt.Errorf("sealed record too short")
	}
	plaintext, err := c.gcm.Open(nil, sealed[:ns], sealed[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("gcm open: %w", err)
	}
	return plaintext, nil
}
