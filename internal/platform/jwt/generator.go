package jwtmw

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// EnvKeyJWTSecret は署名鍵を保持する環境変数名です。未設定の場合、書き込みAPIは保護されません。
	EnvKeyJWTSecret = "JWT_SECRET"
	// EnvKeyJWTTTL はトークン有効期間を保持する環境変数名です。
	EnvKeyJWTTTL = "JWT_TTL"

	// DefaultTTL はJWT_TTL未設定時のトークン有効期間です。
	DefaultTTL = 720 * time.Hour
)

// Config holds the signing secret and token lifetime.
type Config struct {
	Secret string
	TTL    time.Duration
}

// Enabled reports whether write protection is configured.
func (c Config) Enabled() bool { return c.Secret != "" }

// LoadConfig reads JWT_SECRET and JWT_TTL from the environment.
func LoadConfig() (Config, error) {
	cfg := Config{Secret: os.Getenv(EnvKeyJWTSecret), TTL: DefaultTTL}
	if v := os.Getenv(EnvKeyJWTTTL); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s %q: %w", EnvKeyJWTTTL, v, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("invalid %s %q: must be positive", EnvKeyJWTTTL, v)
		}
		cfg.TTL = d
	}
	return cfg, nil
}

// Generator defines the interface for JWT token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given subject.
	GenerateToken(subject string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) Generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

// GenerateToken creates a signed HS256 token with standard claims.
func (g *generator) GenerateToken(subject string) (string, error) {
	if len(g.secret) == 0 {
		return "", fmt.Errorf("failed to sign token: empty secret")
	}
	now := g.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
