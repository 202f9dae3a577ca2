package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrAuthInvalidCredentials = errors.New("invalid username or password")

// AdminUsername - единственная учётная запись, которой разрешено менять матчи
const AdminUsername = "admin"

type AuthService interface {
	Login(ctx context.Context, input LoginInput) error
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authService struct {
	passwordHash []byte
}

// NewAuthService принимает bcrypt-хэш пароля администратора. С пустым
// хэшем любой вход отклоняется.
func NewAuthService(passwordHash string) AuthService {
	return &authService{
		passwordHash: []byte(strings.TrimSpace(passwordHash)),
	}
}

func (s *authService) Login(ctx context.Context, input LoginInput) error {
	if len(s.passwordHash) == 0 {
		return fmt.Errorf("%w: admin login is not configured", ErrAuthenticationFailed)
	}
	if input.Username != AdminUsername {
		return ErrAuthInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(input.Password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrAuthInvalidCredentials
		}
		return fmt.Errorf("failed to compare password hash: %w", err)
	}
	return nil
}

const BcryptCost = 12

// HashPassword считает значение для ADMIN_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", fmt.Errorf("ошибка хеширования пароля: %w", err)
	}
	return string(hash), nil
}
