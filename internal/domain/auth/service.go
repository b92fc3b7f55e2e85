package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Service authenticates the single configured operator account.
type Service struct {
	email        string
	passwordHash string
	secret       string
	ttl          time.Duration
	now          func() time.Time
}

// NewService hashes the operator password once at start-up.
func NewService(email, password, secret string, ttl time.Duration) (*Service, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &Service{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: hash,
		secret:       secret,
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// Login returns a signed token and its expiry for matching credentials.
func (s *Service) Login(email, password string) (string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.email)) == 1
	// The hash is always compared so unknown emails take the same time.
	passwordOK := CheckPassword(s.passwordHash, password) == nil
	if !emailOK || !passwordOK {
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, err := GenerateToken(s.secret, Claims{Email: s.email, Role: RoleOperator}, s.ttl)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, s.now().Add(s.ttl), nil
}

func (s *Service) Secret() string {
	return s.secret
}
