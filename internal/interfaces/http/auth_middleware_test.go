package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/tienda-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/tienda-api/pkg/jwt"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildMeApp construye una aplicación Fiber mínima con AuthMiddleware y un
// handler que devuelve el usuario cargado en Locals.
func buildMeApp(t *testing.T) (*fiber.App, *auth.AuthUseCase) {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath, true)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	uc := auth.NewAuthUseCase(sqlite.NewUserRepository(db), auth.JWTConfig{
		Secret:     testJWTSecret,
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		Issuer:     testIssuer,
		BcryptCost: 4,
	})
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(logger.Nop())})
	app.Get("/me", apphttp.AuthMiddleware(uc), func(c *fiber.Ctx) error {
		u := apphttp.GetUser(c)
		return c.JSON(fiber.Map{"id": u.ID, "email": u.Email, "user_id": apphttp.GetUserID(c)})
	})
	return app, uc
}

func getMe(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CargaUsuario(t *testing.T) {
	app, uc := buildMeApp(t)
	ctx := t.Context()
	user, err := uc.RegisterUser(ctx, registerReq("alice@example.com"))
	require.NoError(t, err)
	pair, err := uc.ObtainToken(ctx, tokenReq("alice@example.com"))
	require.NoError(t, err)

	resp := getMe(t, app, "Bearer "+pair.Access)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, float64(user.ID), body["id"])
	assert.Equal(t, float64(user.ID), body["user_id"])
	assert.Equal(t, "alice@example.com", body["email"])
}

func TestAuthMiddleware_Rechazos(t *testing.T) {
	app, uc := buildMeApp(t)
	ctx := t.Context()
	user, err := uc.RegisterUser(ctx, registerReq("alice@example.com"))
	require.NoError(t, err)
	pair, err := uc.ObtainToken(ctx, tokenReq("alice@example.com"))
	require.NoError(t, err)

	expired, err := pkgjwt.Generate(testJWTSecret, user.ID, pkgjwt.TypeAccess, testIssuer, -time.Minute)
	require.NoError(t, err)
	otherSecret, err := pkgjwt.Generate("otro-secret-completamente-distinto", user.ID, pkgjwt.TypeAccess, testIssuer, time.Minute)
	require.NoError(t, err)
	unknownUser, err := pkgjwt.Generate(testJWTSecret, 999, pkgjwt.TypeAccess, testIssuer, time.Minute)
	require.NoError(t, err)

	cases := map[string]string{
		"sin header":          "",
		"sin esquema bearer":  pair.Access,
		"token malformado":    "Bearer token.invalido.aqui",
		"bearer vacío":        "Bearer ",
		"token expirado":      "Bearer " + expired,
		"secret incorrecto":   "Bearer " + otherSecret,
		"refresh como access": "Bearer " + pair.Refresh,
		"usuario inexistente": "Bearer " + unknownUser,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp := getMe(t, app, header)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

			var body map[string][]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body["detail"])
		})
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de endpoints de auth
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthEndpoints_RegistroTokenYRefresh(t *testing.T) {
	s := newTestServer(t, false)

	resp, body := s.do(t, http.MethodPost, "/users/", map[string]string{
		"email": "alice@Example.COM", "password": testPassword, "name": "Alice",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	created := decode[map[string]any](t, body)
	assert.Equal(t, "alice@example.com", created["email"])
	assert.NotContains(t, created, "password")

	resp, body = s.do(t, http.MethodPost, "/users/", map[string]string{
		"email": "alice@example.com", "password": testPassword,
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string][]string](t, body)["email"])

	resp, body = s.do(t, http.MethodPost, "/users/", map[string]string{
		"email": "bob@example.com", "password": "corta",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string][]string](t, body)["password"])

	resp, _ = s.do(t, http.MethodPost, "/token/", map[string]string{
		"email": "alice@example.com", "password": "incorrecta",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = s.do(t, http.MethodPost, "/token/", map[string]string{"email": "alice@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string][]string](t, body)["password"])

	resp, body = s.do(t, http.MethodPost, "/token/", map[string]string{
		"email": "alice@example.com", "password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	pair := decode[map[string]string](t, body)
	require.NotEmpty(t, pair["access"])
	require.NotEmpty(t, pair["refresh"])

	resp, body = s.do(t, http.MethodPost, "/token/refresh/", map[string]string{"refresh": pair["refresh"]}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	access := decode[map[string]string](t, body)["access"]
	require.NotEmpty(t, access)

	resp, _ = s.do(t, http.MethodGet, "/products/", nil, access)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/token/refresh/", map[string]string{"refresh": pair["access"]}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = s.do(t, http.MethodPost, "/token/refresh/", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ErrorHandler
// ──────────────────────────────────────────────────────────────────────────────

func TestErrorHandler_RutaInexistenteYErrorInterno(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(logger.Nop())})
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("fallo de base de datos") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var body map[string][]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, []string{"error interno del servidor"}, body["detail"])

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/no-existe", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
