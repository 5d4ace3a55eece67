// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package secret encrypts and decrypts configuration values with a password.
//
// Ciphertexts are base64 encoded and laid out as salt | nonce | sealed data.
// The AES-256 key is derived from the password and salt with scrypt.
package secret

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

const (
	saltSize = 16
	keySize  = 32

	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// ErrEmptyPassword is returned when a [Cipher] is created without a password.
var ErrEmptyPassword = errors.New("secret: empty password")

// DecryptError occurs when a ciphertext is malformed or was sealed
// with a different password.
type DecryptError struct {
	Cause error
}

// Error implements the [builtin.error] interface.
func (e DecryptError) Error() string {
	return fmt.Sprintf("failed to decrypt value: %s", e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e DecryptError) Unwrap() error {
	return e.Cause
}

// Cipher encrypts and decrypts values with a single password.
type Cipher struct {
	password []byte
	rand     io.Reader
}

// Option configures a [Cipher].
type Option func(*Cipher)

// Rand overrides the source of salts and nonces.
func Rand(r io.Reader) Option {
	return func(c *Cipher) {
		c.rand = r
	}
}

// New returns a [Cipher] for password.
func New(password string, opts ...Option) (*Cipher, error) {
	if password == "" {
		return nil, ErrEmptyPassword
	}
	c := &Cipher{
		password: []byte(password),
		rand:     rand.Reader,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Encrypt seals plaintext and returns the encoded ciphertext.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	salt := make([]byte, saltSize)
	_, err := io.ReadFull(c.rand, salt)
	if err != nil {
		return "", err
	}

	aead, err := c.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	_, err = io.ReadFull(c.rand, nonce)
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(plaintext)+aead.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

var errShortCiphertext = errors.New("ciphertext too short")

// Decrypt opens a ciphertext produced by [Cipher.Encrypt].
func (c *Cipher) Decrypt(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", DecryptError{Cause: err}
	}
	if len(raw) < saltSize {
		return "", DecryptError{Cause: errShortCiphertext}
	}

	salt, rest := raw[:saltSize], raw[saltSize:]
	aead, err := c.aead(salt)
	if err != nil {
		return "", DecryptError{Cause: err}
	}
	if len(rest) < aead.NonceSize() {
		return "", DecryptError{Cause: errShortCiphertext}
	}

	nonce, sealed := rest[:aead.NonceSize()], rest[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", DecryptError{Cause: err}
	}
	return string(plain), nil
}

func (c *Cipher) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(c.password, salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
