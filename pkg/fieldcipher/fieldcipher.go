// Package fieldcipher encrypts and decrypts individual field values with a
// caller-supplied AES key. Ciphertexts are base64(nonce || sealed) strings
// produced by AES-GCM, so they are safe to store in text columns and JSON.
package fieldcipher

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/securex/securex/pkg/models"
)

var _ models.FieldCipher = &Cipher{}

// Encrypt seals value under key. Each call draws a fresh nonce, so encrypting
// the same value twice yields different ciphertexts.
func Encrypt(value, key string) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(value), nil)

	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a ciphertext produced by Encrypt. A wrong key, malformed
// encoding or tampered ciphertext returns a DecryptionError.
func Decrypt(ciphertext, key string) (string, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", models.NewDecryptionError("ciphertext is not valid base64", err)
	}

	if len(raw) < aead.NonceSize()+aead.Overhead() {
		return "", models.NewDecryptionError("ciphertext is too short", nil)
	}

	nonce, sealed := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", models.NewDecryptionError("wrong key or corrupted ciphertext", err)
	}

	return string(plain), nil
}

// ValidateKey checks that key can be used as an AES-128, AES-192 or AES-256 key.
func ValidateKey(key string) error {
	switch len(key) {
	case 16, 24, 32:
		return nil
	default:
		return models.NewValidationError(
			"encryption key must be 16, 24 or 32 bytes, got %d",
			len(key),
		)
	}
}

func newAEAD(key string) (cipher.AEAD, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, models.NewValidationError("invalid encryption key: %s", err)
	}

	return cipher.NewGCM(block)
}

// Cipher binds a validated key. It holds no mutable state and is safe for
// concurrent use.
type Cipher struct {
	key string
}

// New returns a Cipher for key, or a ValidationError if the key length is not
// a valid AES key size.
func New(key string) (*Cipher, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return &Cipher{key: key}, nil
}

func (c *Cipher) Encrypt(value string) (string, error) {
	return Encrypt(value, c.key)
}

func (c *Cipher) Decrypt(ciphertext string) (string, error) {
	return Decrypt(ciphertext, c.key)
}

// Key returns the bound key, for operators that take the key explicitly.
func (c *Cipher) Key() string {
	return c.key
}
