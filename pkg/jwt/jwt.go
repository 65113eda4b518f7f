package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config parámetros de firma y validación de tokens.
type Config struct {
	Secret    string
	Algorithm string // HS256, HS384, HS512
	Issuer    string
	TTL       time.Duration
}

// Claims incluye los claims estándar JWT más el rol.
// El subject es el username; el rol es informativo: el middleware vuelve a consultar el usuario.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// ErrInvalidToken cualquier fallo de firma, formato, expiración o subject vacío.
var ErrInvalidToken = errors.New("jwt: token inválido")

func (c Config) method() (jwt.SigningMethod, error) {
	switch c.Algorithm {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("jwt: algoritmo no soportado %q", c.Algorithm)
	}
}

// Generate firma un token con subject=username que vence en now+TTL.
func Generate(cfg Config, subject, role string, now time.Time) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	if subject == "" {
		return "", fmt.Errorf("jwt: subject vacío")
	}
	m, err := cfg.method()
	if err != nil {
		return "", err
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL)),
		},
		Role: role,
	}
	return jwt.NewWithClaims(m, claims).SignedString([]byte(cfg.Secret))
}

// Parse valida firma, algoritmo, expiración (respecto a now) e issuer, y devuelve los claims.
// Todo fallo se reporta como ErrInvalidToken envolviendo la causa.
func Parse(cfg Config, tokenString string, now time.Time) (*Claims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	m, err := cfg.method()
	if err != nil {
		return nil, err
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{m.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
