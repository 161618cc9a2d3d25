package service

import (
	"errors"

	"go-vendsync/pkg/jwt"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService is a placeholder login against a single fixed credential
// pair. It is not a real auth mechanism; it exists so the client has a
// login flow and a bearer token to present when enforcement is enabled.
type AuthService interface {
	Login(username, password string) (string, error)
}

type authService struct {
	username     string
	passwordHash []byte
}

func NewAuthService(username, password string) AuthService {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on absurd input lengths; an empty hash just
		// makes every login fail closed.
		hash = nil
	}
	return &authService{username: username, passwordHash: hash}
}

func (s *authService) Login(username, password string) (string, error) {
	if username != s.username {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return jwt.GenerateToken(username)
}
