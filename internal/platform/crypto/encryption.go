package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Service seals individual column values with AES-256-GCM. A Service built
// from an empty key is valid and passes values through in plain text.
type Service struct {
	key []byte
}

func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) != 32 {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding, got %d", len(decoded))
	}
	return &Service{key: decoded}, nil
}

func (s *Service) Configured() bool {
	return s != nil && len(s.key) == 32
}

// Seal prepares a text column for storage. With a key configured the plain
// column is written as NULL and the sealed bytes carry the value; without one
// the value stays in the plain column.
func (s *Service) Seal(value string) (plain any, sealed []byte, err error) {
	if value == "" {
		return nil, nil, nil
	}
	if !s.Configured() {
		return value, nil, nil
	}
	sealed, err = s.encrypt([]byte(value))
	if err != nil {
		return nil, nil, err
	}
	return nil, sealed, nil
}

// Open reverses Seal, falling back to the plain column for rows written before
// a key was configured or when the sealed bytes cannot be opened.
func (s *Service) Open(sealed []byte, plain string) string {
	if !s.Configured() || len(sealed) == 0 {
		return plain
	}
	value, err := s.decrypt(sealed)
	if err != nil {
		return plain
	}
	return string(value)
}

func (s *Service) encrypt(plain []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func (s *Service) decrypt(ciphertext []byte) ([]byte, error) {
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, data := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, data, nil)
}

func (s *Service) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	if decoded, err := base64.StdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	if decoded, err := base64.RawStdEncoding.DecodeString(raw); err == nil {
		return decoded
	}
	return []byte(raw)
}
