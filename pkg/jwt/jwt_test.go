package jwt_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pjwt "github.com/jhoicas/paws-pos/pkg/jwt"
)

var cfg = pjwt.Config{Secret: "s3cr3t", Algorithm: "HS256", Issuer: "paws-pos", TTL: 30 * time.Minute}

func TestGenerateParse_RoundTrip(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tok, err := pjwt.Generate(cfg, "cajero1", "cashier", now)
	require.NoError(t, err)

	claims, err := pjwt.Parse(cfg, tok, now.Add(29*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "cajero1", claims.Subject)
	assert.Equal(t, "cashier", claims.Role)
}

func TestParse_Expirado(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	tok, err := pjwt.Generate(cfg, "cajero1", "cashier", now)
	require.NoError(t, err)

	_, err = pjwt.Parse(cfg, tok, now.Add(31*time.Minute))
	assert.ErrorIs(t, err, pjwt.ErrInvalidToken)
}

func TestParse_FirmaOAlgoritmoDistinto(t *testing.T) {
	now := time.Now()
	tok, err := pjwt.Generate(cfg, "admin", "admin", now)
	require.NoError(t, err)

	other := cfg
	other.Secret = "otro"
	_, err = pjwt.Parse(other, tok, now)
	assert.ErrorIs(t, err, pjwt.ErrInvalidToken)

	hs512 := cfg
	hs512.Algorithm = "HS512"
	_, err = pjwt.Parse(hs512, tok, now)
	assert.ErrorIs(t, err, pjwt.ErrInvalidToken)
}

func TestParse_IssuerDistinto(t *testing.T) {
	now := time.Now()
	tok, err := pjwt.Generate(cfg, "admin", "admin", now)
	require.NoError(t, err)

	other := cfg
	other.Issuer = "otra-app"
	_, err = pjwt.Parse(other, tok, now)
	assert.ErrorIs(t, err, pjwt.ErrInvalidToken)
}

func TestParse_Basura(t *testing.T) {
	_, err := pjwt.Parse(cfg, "no.es.jwt", time.Now())
	assert.ErrorIs(t, err, pjwt.ErrInvalidToken)
}

func TestGenerate_SinSecret(t *testing.T) {
	_, err := pjwt.Generate(pjwt.Config{}, "x", "admin", time.Now())
	assert.Error(t, err)
}
