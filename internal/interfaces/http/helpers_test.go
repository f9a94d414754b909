package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/tienda-api/internal/application/auth"
	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/listing"
	"github.com/jhoicas/tienda-api/internal/application/usecase"
	"github.com/jhoicas/tienda-api/internal/infrastructure/sqlite"
	apphttp "github.com/jhoicas/tienda-api/internal/interfaces/http"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "tienda-api-test"
	testPassword  = "s3creta-larga"
)

type testServer struct {
	app   *fiber.App
	repos usecase.Repositories
}

// newTestServer levanta el router completo sobre una base SQLite en memoria.
func newTestServer(t *testing.T, ownerScope bool) *testServer {
	t.Helper()
	db, err := sqlite.Open(sqlite.MemoryPath, true)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	repos := sqlite.NewRepositories(db)
	tx := sqlite.NewTxRunner(db)

	authUC := auth.NewAuthUseCase(repos.Users, auth.JWTConfig{
		Secret:     testJWTSecret,
		AccessTTL:  5 * time.Minute,
		RefreshTTL: 24 * time.Hour,
		Issuer:     testIssuer,
		BcryptCost: bcrypt.MinCost,
	})

	log := logger.Nop()
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.NewErrorHandler(log)})
	app.Use(apphttp.RequestID())
	app.Use(apphttp.Metrics())
	app.Use(apphttp.AccessLog(log))
	apphttp.Router(app, apphttp.RouterDeps{
		CategoryUC: usecase.NewCategoryUseCase(repos.Categories),
		ProductUC:  usecase.NewProductUseCase(tx, repos.Products),
		OrderUC:    usecase.NewOrderUseCase(tx, repos.Orders, ownerScope),
		AuthUC:     authUC,
		Pagination: listing.Pagination{PageSize: 10, MaxPageSize: 100},
		AppName:    "tienda-api-test",
	})
	return &testServer{app: app, repos: repos}
}

// do envía una petición; body nil no envía cuerpo, string se envía tal cual.
func (s *testServer) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

// register crea un usuario y devuelve su ID y un access token.
func (s *testServer) register(t *testing.T, email string) (int64, string) {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/users/", map[string]string{
		"email": email, "password": testPassword, "name": "Test",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var user struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &user))

	resp, body = s.do(t, http.MethodPost, "/token/", map[string]string{
		"email": email, "password": testPassword,
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var pair struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.NoError(t, json.Unmarshal(body, &pair))
	return user.ID, pair.Access
}

type productJSON struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Category    struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"category"`
}

type pageJSON[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

func (s *testServer) createProduct(t *testing.T, token, name string, category any, price string) productJSON {
	t.Helper()
	resp, body := s.do(t, http.MethodPost, "/products/", map[string]any{
		"name":        name,
		"description": name + " de prueba",
		"price":       price,
		"stock":       10,
		"category":    category,
	}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var p productJSON
	require.NoError(t, json.Unmarshal(body, &p))
	return p
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), string(body))
	return v
}

func registerReq(email string) dto.RegisterRequest {
	return dto.RegisterRequest{Email: email, Password: testPassword, Name: "Test"}
}

func tokenReq(email string) dto.TokenObtainRequest {
	return dto.TokenObtainRequest{Email: email, Password: testPassword}
}
