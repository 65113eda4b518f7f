package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/paws-pos/internal/domain"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	apphttp "github.com/jhoicas/paws-pos/internal/interfaces/http"
)

// fakeResolver resuelve tokens de la forma "tok-<username>" contra un mapa de usuarios.
type fakeResolver struct {
	users map[string]*entity.User
}

func (f fakeResolver) Resolve(_ context.Context, token string) (*entity.User, error) {
	u, ok := f.users[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !u.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return u, nil
}

func newResolver() fakeResolver {
	return fakeResolver{users: map[string]*entity.User{
		"tok-admin":    {ID: "u-admin", Username: "admin", Role: entity.RoleAdmin, IsActive: true},
		"tok-manager":  {ID: "u-manager", Username: "gerente", Role: entity.RoleManager, IsActive: true},
		"tok-cashier":  {ID: "u-cashier", Username: "cajero", Role: entity.RoleCashier, IsActive: true},
		"tok-inactive": {ID: "u-off", Username: "baja", Role: entity.RoleAdmin, IsActive: false},
	}}
}

// buildTestApp aplicación mínima con AuthMiddleware + RequireRole y un handler que responde 200.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop())})
	app.Get("/protected",
		apphttp.AuthMiddleware(newResolver()),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c), "user_id": apphttp.GetUserID(c)})
		},
	)
	return app
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	code, _ := body["code"].(string)
	return code
}

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer tok-admin")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
	assert.Equal(t, "u-admin", body["user_id"])
}

func TestRequireRole_ManagerAccedeRutaAdminOManager(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin, entity.RoleManager), "Bearer tok-manager")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_CajeroBloqueadoEnRutaAdmin(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer tok-cashier")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apphttp.CodeForbidden, errorCode(t, resp))
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, apphttp.CodeUnauthorized, errorCode(t, resp))
}

func TestAuthMiddleware_EsquemaInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Basic dXNlcjpwYXNz")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenDesconocido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_UsuarioInactivo_Retorna400(t *testing.T) {
	resp := doRequest(t, buildTestApp(entity.RoleAdmin), "Bearer tok-inactive")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), apphttp.CodeInactiveUser)
}

func TestRequireRole_SinAuthMiddleware_Retorna401(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop())})
	app.Get("/protected", apphttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	resp := doRequest(t, app, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
