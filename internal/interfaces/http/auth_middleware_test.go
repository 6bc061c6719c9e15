package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
	apphttp "github.com/jhoicas/Vendas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Vendas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "vendas-api-test"
	testExpMin    = 60
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequireMinRole para el pre-filtro de rango
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(min role.Role) *fiber.App {
	return buildTestAppWithRoles(min, nil)
}

func buildTestAppWithRoles(min role.Role, roles apphttp.RoleSource) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret),
		apphttp.RequireMinRole(min, roles),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true, "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func tokenFor(t *testing.T, id pkgjwt.Identity) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, id, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func tokenForRole(t *testing.T, r string) string {
	return tokenFor(t, pkgjwt.Identity{UserID: testUserID, Role: r})
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireMinRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireMinRole_RangoSuficiente(t *testing.T) {
	app := buildTestApp(role.Admin)
	for _, r := range []string{"admin", "sub-lider", "gerente", "dono"} {
		resp := doGet(t, app, "/protected", tokenForRole(t, r))
		assert.Equal(t, http.StatusOK, resp.StatusCode, "%s debe pasar el pre-filtro admin", r)
		resp.Body.Close()
	}
}

func TestRequireMinRole_RangoInsuficiente(t *testing.T) {
	app := buildTestApp(role.Gerente)
	resp := doGet(t, app, "/protected", tokenForRole(t, "sub-lider"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireMinRole_AliasDeRol(t *testing.T) {
	app := buildTestApp(role.Membro)
	resp := doGet(t, app, "/protected", tokenForRole(t, "Member"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireMinRole_TokenSinRol_Retorna403(t *testing.T) {
	app := buildTestApp(role.Membro)
	resp := doGet(t, app, "/protected", tokenForRole(t, ""))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// rolesFijos rol persistido por usuario.
type rolesFijos map[string]role.Role

func (r rolesFijos) CurrentRole(_ context.Context, userID string) (role.Role, error) {
	cur, ok := r[userID]
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return cur, nil
}

func TestRequireMinRole_AscensoPosteriorAlLogin(t *testing.T) {
	app := buildTestAppWithRoles(role.Gerente, rolesFijos{testUserID: role.Gerente})
	resp := doGet(t, app, "/protected", tokenForRole(t, "sub-lider"))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "gerente", out["role"])
}

func TestRequireMinRole_RolPersistidoTambienInsuficiente(t *testing.T) {
	app := buildTestAppWithRoles(role.Gerente, rolesFijos{testUserID: role.Admin})
	resp := doGet(t, app, "/protected", tokenForRole(t, "sub-lider"))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp2 := doGet(t, buildTestAppWithRoles(role.Gerente, rolesFijos{}), "/protected", tokenForRole(t, "sub-lider"))
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	resp := doGet(t, buildTestApp(role.Membro), "/protected", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doGet(t, buildTestApp(role.Membro), "/protected", "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	resp := doGet(t, buildTestApp(role.Membro), "/protected", "Token abc")
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"role":    apphttp.GetRole(c),
			"mcp":     apphttp.MustChangePassword(c),
		})
	})

	resp := doGet(t, app, "/me", tokenFor(t, pkgjwt.Identity{UserID: testUserID, Role: "gerente", MustChangePassword: true}))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "gerente", body["role"])
	assert.Equal(t, true, body["mcp"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePasswordRotated
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePasswordRotated(t *testing.T) {
	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	grp := app.Group("/api", apphttp.AuthMiddleware(testJWTSecret), apphttp.RequirePasswordRotated("/api/me", "/api/me/password"))
	grp.Get("/me", ok)
	grp.Post("/me/password", ok)
	grp.Get("/items", ok)

	temp := tokenFor(t, pkgjwt.Identity{UserID: testUserID, Role: "membro", MustChangePassword: true})
	rotated := tokenFor(t, pkgjwt.Identity{UserID: testUserID, Role: "membro"})

	resp := doGet(t, app, "/api/items", temp)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, string(body), "MUST_CHANGE_PASSWORD")

	resp = doGet(t, app, "/api/me", temp)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/me/password", nil)
	req.Header.Set("Authorization", temp)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doGet(t, app, "/api/items", rotated)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests JWT pkg
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse(t *testing.T) {
	in := pkgjwt.Identity{UserID: testUserID, Role: "dono", MustChangePassword: true}
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, in, testExpMin)
	require.NoError(t, err)

	out, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.Identity{UserID: testUserID, Role: "admin"}, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestJWT_SecretIncorrecto_RetornaError(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, pkgjwt.Identity{UserID: testUserID, Role: "admin"}, testExpMin)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}
