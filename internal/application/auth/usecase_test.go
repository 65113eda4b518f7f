package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/paws-pos/internal/application/auth"
	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/infrastructure/memory"
	"github.com/jhoicas/paws-pos/pkg/clock"
	"github.com/jhoicas/paws-pos/pkg/jwt"
)

type fixture struct {
	uc    *auth.AuthUseCase
	store *memory.Store
	clock *clock.Fixed
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	loc, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)
	clk := clock.NewFixed(time.Date(2026, 4, 2, 9, 0, 0, 0, loc))
	store := memory.NewStore()
	cfg := auth.Config{
		JWT:        jwt.Config{Secret: "test-secret", Algorithm: "HS256", Issuer: "paws-pos", TTL: 30 * time.Minute},
		BcryptCost: bcrypt.MinCost,
	}
	return fixture{
		uc:    auth.NewAuthUseCase(store.Users(), cfg, clk, zerolog.Nop()),
		store: store,
		clock: clk,
	}
}

func register(t *testing.T, f fixture, username, email, password string) *dto.UserResponse {
	t.Helper()
	u, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: email, Username: username, Password: password, FullName: "Usuario " + username,
	})
	require.NoError(t, err)
	return u
}

func TestRegister_RolPorDefectoCashier(t *testing.T) {
	f := newFixture(t)
	u := register(t, f, "cajero1", "Cajero1@Tienda.co", "secreto123")

	assert.Equal(t, entity.RoleCashier, u.Role)
	assert.True(t, u.IsActive)
	assert.Equal(t, "cajero1@tienda.co", u.Email)
	assert.Equal(t, f.clock.Now(), u.CreatedAt)

	stored, err := f.store.Users().GetByUsername(context.Background(), "cajero1")
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", stored.PasswordHash)
}

func TestRegister_ConflictoPorUsernameOEmail(t *testing.T) {
	f := newFixture(t)
	register(t, f, "ana", "ana@tienda.co", "pw")

	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "otra@tienda.co", Username: "ana", Password: "pw", FullName: "Ana 2",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "ana@tienda.co", Username: "ana2", Password: "pw", FullName: "Ana 2",
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegister_Validacion(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Register(context.Background(), dto.RegisterRequest{
		Email: "no-es-email", Username: "  ", Password: "", FullName: "", Role: "root",
	})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	for _, field := range []string{"email", "username", "password", "full_name", "role"} {
		assert.Contains(t, verr.Violations, field)
	}
}

func TestLogin_OK_YResolve(t *testing.T) {
	f := newFixture(t)
	u := register(t, f, "admin", "admin@tienda.co", "admin123")

	tok, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", tok.TokenType)

	resolved, err := f.uc.Resolve(context.Background(), tok.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, resolved.ID)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	f := newFixture(t)
	register(t, f, "admin", "admin@tienda.co", "admin123")

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "mal"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Username: "nadie", Password: "admin123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivoDespuesDePassword(t *testing.T) {
	f := newFixture(t)
	u := register(t, f, "viejo", "viejo@tienda.co", "pw")
	f.store.Users().SetActive(u.ID, false)

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "viejo", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Username: "viejo", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrInactiveUser)
}

func TestLogin_PasswordTruncadoA72Bytes(t *testing.T) {
	f := newFixture(t)
	base := strings.Repeat("a", 72)
	register(t, f, "largo", "largo@tienda.co", base+"EXTRA")

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "largo", Password: base + "OTRO"})
	assert.NoError(t, err)
}

func TestResolve_ExpiraALos30Minutos(t *testing.T) {
	f := newFixture(t)
	register(t, f, "cajero", "cajero@tienda.co", "pw")
	issued := f.clock.Now()

	tok, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "cajero", Password: "pw"})
	require.NoError(t, err)

	f.clock.Set(issued.Add(29*time.Minute + 59*time.Second))
	_, err = f.uc.Resolve(context.Background(), tok.AccessToken)
	assert.NoError(t, err)

	f.clock.Set(issued.Add(30*time.Minute + time.Second))
	_, err = f.uc.Resolve(context.Background(), tok.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_UsuarioEliminadoOInactivo(t *testing.T) {
	f := newFixture(t)
	u := register(t, f, "temporal", "temporal@tienda.co", "pw")
	tok, err := f.uc.Login(context.Background(), dto.LoginRequest{Username: "temporal", Password: "pw"})
	require.NoError(t, err)

	f.store.Users().SetActive(u.ID, false)
	_, err = f.uc.Resolve(context.Background(), tok.AccessToken)
	assert.ErrorIs(t, err, domain.ErrInactiveUser)

	f.store.Users().Delete(u.ID)
	_, err = f.uc.Resolve(context.Background(), tok.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestResolve_TokenBasura(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Resolve(context.Background(), "abc.def.ghi")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
