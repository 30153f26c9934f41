package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const minSecretLength = 32

// sealInfo binds derived keys to cookie sealing.
var sealInfo = []byte("servo cookie seal v1")

// Sealer encrypts and authenticates cookie values.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives an AES-256-GCM key from secret.
func NewSealer(secret string) (*Sealer, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	if len(secret) < minSecretLength {
		return nil, ErrBadSecret
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, sealInfo), key); err != nil {
		return nil, errors.Join(ErrBadSecret, err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Sealer{aead: aead}, nil
}

// Seal encrypts value and encodes it for use as a cookie value.
func (s *Sealer) Seal(value string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(value), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Any decoding or authentication failure returns ErrDecrypt.
func (s *Sealer) Open(sealed string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrDecrypt
	}
	if len(data) < s.aead.NonceSize() {
		return "", ErrDecrypt
	}

	nonce, ciphertext := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
