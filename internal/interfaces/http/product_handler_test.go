package http_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gadgets() map[string]string { return map[string]string{"name": "Gadgets"} }

func TestProducts_NombreDuplicadoRetorna400(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	s.createProduct(t, token, "Laptop", gadgets(), "1500.00")

	resp, body := s.do(t, http.MethodPost, "/products/", map[string]any{
		"name": "Laptop", "description": "otra", "price": "10.00", "stock": 1, "category": gadgets(),
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := decode[map[string][]string](t, body)
	assert.NotEmpty(t, errs["name"])

	_, body = s.do(t, http.MethodGet, "/products/", nil, token)
	assert.Equal(t, 1, decode[pageJSON[productJSON]](t, body).Count)
}

func TestProducts_ListSinFiltrosOrdenadoPorID(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	names := []string{"Zeta", "Alfa", "Media"}
	for _, n := range names {
		s.createProduct(t, token, n, gadgets(), "1.00")
	}

	resp, body := s.do(t, http.MethodGet, "/products/", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[pageJSON[productJSON]](t, body)
	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Results, 3)
	for i := 1; i < len(page.Results); i++ {
		assert.Less(t, page.Results[i-1].ID, page.Results[i].ID)
	}
	assert.Equal(t, names[0], page.Results[0].Name)
	assert.Nil(t, page.Next)
	assert.Nil(t, page.Previous)
}

func TestProducts_Busqueda(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	s.createProduct(t, token, "Laptop", gadgets(), "1500.00")
	s.createProduct(t, token, "Phone", gadgets(), "800.00")
	s.createProduct(t, token, "Desk", map[string]string{"name": "Furniture"}, "200.00")

	_, body := s.do(t, http.MethodGet, "/products/?search=Laptop", nil, token)
	page := decode[pageJSON[productJSON]](t, body)
	assert.Equal(t, 1, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Laptop", page.Results[0].Name)

	// Búsqueda sobre el nombre de la categoría, sin distinguir mayúsculas.
	_, body = s.do(t, http.MethodGet, "/products/?search=furni", nil, token)
	assert.Equal(t, 1, decode[pageJSON[productJSON]](t, body).Count)
}

func TestProducts_FiltrosYOrden(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	laptop := s.createProduct(t, token, "Laptop", gadgets(), "1500.00")
	s.createProduct(t, token, "Phone", gadgets(), "800.00")
	s.createProduct(t, token, "Desk", map[string]string{"name": "Furniture"}, "200.00")

	_, body := s.do(t, http.MethodGet, "/products/?category="+strconv.FormatInt(laptop.Category.ID, 10)+"&ordering=-price", nil, token)
	page := decode[pageJSON[productJSON]](t, body)
	require.Equal(t, 2, page.Count)
	assert.Equal(t, "Laptop", page.Results[0].Name)
	assert.Equal(t, "Phone", page.Results[1].Name)

	_, body = s.do(t, http.MethodGet, "/products/?category__name=Furniture", nil, token)
	page = decode[pageJSON[productJSON]](t, body)
	require.Equal(t, 1, page.Count)
	assert.Equal(t, "Desk", page.Results[0].Name)

	// Campos y parámetros desconocidos se ignoran.
	_, body = s.do(t, http.MethodGet, "/products/?ordering=password&color=rojo", nil, token)
	page = decode[pageJSON[productJSON]](t, body)
	assert.Equal(t, 3, page.Count)
	assert.Equal(t, "Laptop", page.Results[0].Name)
}

func TestProducts_Paginacion(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	s.createProduct(t, token, "Laptop", gadgets(), "1500.00")
	s.createProduct(t, token, "Phone", gadgets(), "800.00")

	resp, body := s.do(t, http.MethodGet, "/products/?page=1&page_size=1", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page := decode[pageJSON[productJSON]](t, body)
	assert.Equal(t, 2, page.Count)
	assert.Len(t, page.Results, 1)
	require.NotNil(t, page.Next)
	assert.Contains(t, *page.Next, "page=2")
	assert.Contains(t, *page.Next, "page_size=1")
	assert.Nil(t, page.Previous)

	_, body = s.do(t, http.MethodGet, "/products/?page=2&page_size=1", nil, token)
	page = decode[pageJSON[productJSON]](t, body)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.NotContains(t, *page.Previous, "page=")
	assert.Contains(t, *page.Previous, "page_size=1")

	resp, body = s.do(t, http.MethodGet, "/products/?page=3&page_size=1", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "página inválida.")

	resp, _ = s.do(t, http.MethodGet, "/products/?page=abc", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = s.do(t, http.MethodGet, "/products/?page=922337203685477582&page_size=10", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, string(body), "página inválida.")
}

func TestProducts_PaginaLast(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	s.createProduct(t, token, "Laptop", gadgets(), "1500.00")
	s.createProduct(t, token, "Phone", gadgets(), "800.00")
	s.createProduct(t, token, "Tablet", gadgets(), "400.00")

	resp, body := s.do(t, http.MethodGet, "/products/?page=last&page_size=2", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	page := decode[pageJSON[productJSON]](t, body)
	assert.Equal(t, 3, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Tablet", page.Results[0].Name)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.NotContains(t, *page.Previous, "page=")

	// Sin resultados la última página es la 1.
	resp, body = s.do(t, http.MethodGet, "/products/?page=last&search=nada", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	page = decode[pageJSON[productJSON]](t, body)
	assert.Equal(t, 0, page.Count)
	assert.Empty(t, page.Results)
}

func TestProducts_SinAutenticacionRetorna401(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")

	resp, body := s.do(t, http.MethodPost, "/products/", map[string]any{
		"name": "Laptop", "description": "x", "price": "1.00", "stock": 1, "category": gadgets(),
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string][]string](t, body)["detail"])

	resp, _ = s.do(t, http.MethodGet, "/products/", nil, "token.invalido.aqui")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, body = s.do(t, http.MethodGet, "/products/", nil, token)
	assert.Equal(t, 0, decode[pageJSON[productJSON]](t, body).Count)
}

func TestProducts_CategoriaAnidadaGetOrCreate(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")

	first := s.createProduct(t, token, "Laptop", gadgets(), "1500.00")
	assert.Equal(t, "Gadgets", first.Category.Name)
	_, body := s.do(t, http.MethodGet, "/categories/", nil, "")
	assert.Equal(t, 1, decode[pageJSON[map[string]any]](t, body).Count)

	second := s.createProduct(t, token, "Phone", gadgets(), "800.00")
	assert.Equal(t, first.Category.ID, second.Category.ID)
	_, body = s.do(t, http.MethodGet, "/categories/", nil, "")
	assert.Equal(t, 1, decode[pageJSON[map[string]any]](t, body).Count)

	// Referencia por ID, como número o string numérico.
	third := s.createProduct(t, token, "Tablet", first.Category.ID, "300.00")
	assert.Equal(t, first.Category.ID, third.Category.ID)
	fourth := s.createProduct(t, token, "Watch", strconv.FormatInt(first.Category.ID, 10), "99.90")
	assert.Equal(t, "Gadgets", fourth.Category.Name)
	assert.Equal(t, "99.90", fourth.Price)
}

func TestProducts_ValidacionDeCampos(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")

	resp, body := s.do(t, http.MethodPost, "/products/", map[string]any{}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs := decode[map[string][]string](t, body)
	for _, f := range []string{"name", "description", "price", "stock", "category"} {
		assert.NotEmpty(t, errs[f], f)
	}

	resp, body = s.do(t, http.MethodPost, "/products/", map[string]any{
		"name": "Laptop", "description": "x", "price": "-1", "stock": -5, "category": 999,
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	errs = decode[map[string][]string](t, body)
	assert.NotEmpty(t, errs["price"])
	assert.NotEmpty(t, errs["stock"])

	resp, body = s.do(t, http.MethodPost, "/products/", map[string]any{
		"name": "Laptop", "description": "x", "price": "1.00", "stock": 1, "category": 999,
	}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string][]string](t, body)["category"])

	resp, body = s.do(t, http.MethodPost, "/products/", `{"name": "Laptop", "price": "caro"}`, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string][]string](t, body)["detail"])
}

func TestProducts_DeleteLuego404(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	p := s.createProduct(t, token, "Laptop", gadgets(), "1500.00")
	path := "/products/" + strconv.FormatInt(p.ID, 10) + "/"

	resp, body := s.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, body)

	resp, _ = s.do(t, http.MethodGet, path, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodDelete, path, nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(t, http.MethodGet, "/products/abc/", nil, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_UpdateCompletoYParcial(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	p := s.createProduct(t, token, "Laptop", gadgets(), "1500.00")
	path := "/products/" + strconv.FormatInt(p.ID, 10) + "/"

	resp, body := s.do(t, http.MethodPut, path, map[string]any{
		"name": "Laptop Pro", "description": "nueva", "price": 1999.99, "stock": 3, "category": p.Category.ID,
	}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	_, body = s.do(t, http.MethodGet, path, nil, token)
	got := decode[productJSON](t, body)
	assert.Equal(t, "Laptop Pro", got.Name)
	assert.Equal(t, "1999.99", got.Price)
	assert.Equal(t, "Gadgets", got.Category.Name)

	// PUT exige todos los campos.
	resp, body = s.do(t, http.MethodPut, path, map[string]any{"name": "Solo nombre"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string][]string](t, body)["price"])

	// PATCH solo toca lo enviado.
	resp, body = s.do(t, http.MethodPatch, path, map[string]any{"stock": 0, "category": map[string]string{"name": "Ofertas"}}, token)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	got = decode[productJSON](t, body)
	assert.Equal(t, "Laptop Pro", got.Name)
	assert.Equal(t, 0, got.Stock)
	assert.Equal(t, "Ofertas", got.Category.Name)

	resp, _ = s.do(t, http.MethodPut, "/products/999/", map[string]any{
		"name": "X", "description": "x", "price": "1.00", "stock": 1, "category": p.Category.ID,
	}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProducts_UpdateConservaNombrePropio(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	p := s.createProduct(t, token, "Laptop", gadgets(), "1500.00")
	s.createProduct(t, token, "Phone", gadgets(), "800.00")
	path := "/products/" + strconv.FormatInt(p.ID, 10) + "/"

	resp, _ := s.do(t, http.MethodPatch, path, map[string]any{"name": "Laptop"}, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := s.do(t, http.MethodPatch, path, map[string]any{"name": "Phone"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, decode[map[string][]string](t, body)["name"])
}

func TestProducts_SinBarraFinal(t *testing.T) {
	s := newTestServer(t, false)
	_, token := s.register(t, "alice@example.com")
	p := s.createProduct(t, token, "Laptop", gadgets(), "1500.00")

	resp, _ := s.do(t, http.MethodGet, "/products", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, http.MethodGet, "/products/"+strconv.FormatInt(p.ID, 10), nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
