package credential

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// hkdfInfo binds derived keys to this use.
var hkdfInfo = []byte("coachdesk credential store v1")

var (
	ErrEmptyPassphrase = errors.New("credential passphrase is empty")
	ErrUnsealable      = errors.New("credential value cannot be opened")
)

// Sealer encrypts stored values with NaCl secretbox under a key derived
// from a passphrase with HKDF-SHA256.
type Sealer struct {
	key [keySize]byte
}

// NewSealer derives the sealing key from passphrase.
// PRE: passphrase is non-empty
// POST: Returns a Sealer; the same passphrase always yields the same key
func NewSealer(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, ErrEmptyPassphrase
	}
	s := &Sealer{}
	r := hkdf.New(sha256.New, []byte(passphrase), nil, hkdfInfo)
	if _, err := io.ReadFull(r, s.key[:]); err != nil {
		return nil, fmt.Errorf("derive credential key: %w", err)
	}
	return s, nil
}

// Seal encrypts plaintext and returns base64(nonce || box).
func (s *Sealer) Seal(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(box), nil
}

// Open reverses Seal.
// POST: returns ErrUnsealable for malformed, tampered or foreign-key values
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil || len(raw) < nonceSize+secretbox.Overhead {
		return "", ErrUnsealable
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrUnsealable
	}
	return string(plain), nil
}
