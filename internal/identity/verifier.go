// Package identity проверяет bearer-токены внешнего провайдера.
// Декодирования без проверки подписи здесь нет: если проверка недоступна, запрос отклоняется.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken   = errors.New("invalid identity token")
	ErrNoVerifier     = errors.New("identity verification is not configured")
	ErrMissingSubject = errors.New("identity token has no subject")
)

// Claims - проверенные данные пользователя из токена
type Claims struct {
	Subject       string `json:"sub"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"emailVerified"`
}

// Verifier проверяет токен и возвращает claims
type Verifier interface {
	Verify(ctx context.Context, token string) (*Claims, error)
}

// Config - настройки провайдера
type Config struct {
	Provider   string // firebase, hmac
	ProjectID  string
	CertsURL   string
	HMACSecret string
	HMACIssuer string
}

// NewVerifier создает Verifier по конфигурации.
// Неполная конфигурация - ошибка: сервер не должен стартовать без проверки подписи.
func NewVerifier(cfg Config) (Verifier, error) {
	switch cfg.Provider {
	case "firebase":
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("%w: firebase project id is empty", ErrNoVerifier)
		}
		return NewFirebaseVerifier(cfg.ProjectID, cfg.CertsURL), nil
	case "hmac":
		if cfg.HMACSecret == "" {
			return nil, fmt.Errorf("%w: hmac secret is empty", ErrNoVerifier)
		}
		return NewHMACVerifier([]byte(cfg.HMACSecret), cfg.HMACIssuer), nil
	default:
		return nil, fmt.Errorf("%w: provider %q", ErrNoVerifier, cfg.Provider)
	}
}

// tokenClaims - общий набор claims для обоих провайдеров
type tokenClaims struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	EmailVerified bool   `json:"email_verified"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) toClaims() (*Claims, error) {
	if c.Subject == "" {
		return nil, ErrMissingSubject
	}
	return &Claims{
		Subject:       c.Subject,
		Email:         c.Email,
		Name:          c.Name,
		EmailVerified: c.EmailVerified,
	}, nil
}
