package listing_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-api/internal/application/listing"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

var testPagination = listing.Pagination{PageSize: 10, MaxPageSize: 100}

func mustQuery(t *testing.T, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

func TestParse_PorDefecto(t *testing.T) {
	p, err := listing.Parse(url.Values{}, listing.ProductRules, testPagination)
	require.NoError(t, err)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 10, p.Query.Limit)
	assert.Equal(t, 0, p.Query.Offset)
	assert.Equal(t, []repository.OrderBy{{Field: "id"}}, p.Query.Ordering)
	assert.Empty(t, p.Query.Search)
	assert.Empty(t, p.Query.Filters)
}

func TestParse_SearchFiltrosYOrden(t *testing.T) {
	v := mustQuery(t, "search=Laptop&category=3&category__name=Ropa&ordering=-price,name,bogus&page=2&page_size=5&foo=bar")
	p, err := listing.Parse(v, listing.ProductRules, testPagination)
	require.NoError(t, err)

	assert.Equal(t, "Laptop", p.Query.Search)
	assert.Equal(t, []string{"name", "description", "category__name"}, p.Query.SearchFields)
	assert.Equal(t, map[string]any{"category": int64(3), "category__name": "Ropa"}, p.Query.Filters)
	assert.Equal(t, []repository.OrderBy{
		{Field: "price", Desc: true},
		{Field: "name"},
		{Field: "id"},
	}, p.Query.Ordering)
	assert.Equal(t, 5, p.Query.Limit)
	assert.Equal(t, 5, p.Query.Offset)
}

func TestParse_FiltroEnteroInvalidoSeIgnora(t *testing.T) {
	p, err := listing.Parse(mustQuery(t, "category=abc"), listing.ProductRules, testPagination)
	require.NoError(t, err)
	assert.Empty(t, p.Query.Filters)
}

func TestParse_OrdenDescendentePorID(t *testing.T) {
	p, err := listing.Parse(mustQuery(t, "ordering=-id"), listing.ProductRules, testPagination)
	require.NoError(t, err)
	assert.Equal(t, []repository.OrderBy{{Field: "id", Desc: true}}, p.Query.Ordering)
}

func TestParse_PageSizeTopeado(t *testing.T) {
	p, err := listing.Parse(mustQuery(t, "page_size=1000"), listing.ProductRules, testPagination)
	require.NoError(t, err)
	assert.Equal(t, 100, p.PageSize)

	p, err = listing.Parse(mustQuery(t, "page_size=-3"), listing.ProductRules, testPagination)
	require.NoError(t, err)
	assert.Equal(t, 10, p.PageSize)
}

func TestParse_PaginaInvalida(t *testing.T) {
	for _, raw := range []string{"page=0", "page=abc", "page=-1"} {
		_, err := listing.Parse(mustQuery(t, raw), listing.ProductRules, testPagination)
		assert.ErrorIs(t, err, domain.ErrInvalidPage, raw)
	}
}

func TestParse_SinCamposDeBusqueda(t *testing.T) {
	p, err := listing.Parse(mustQuery(t, "search=x"), listing.OrderRules, testPagination)
	require.NoError(t, err)
	assert.Empty(t, p.Query.Search)
}

func TestBuildPage_Enlaces(t *testing.T) {
	u, _ := url.Parse("http://example.com/products/?page=2&page_size=1&search=a")
	p := listing.Params{Page: 2, PageSize: 1}

	out, err := listing.BuildPage(u, p, 3, []string{"b"})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Count)
	require.NotNil(t, out.Next)
	assert.Equal(t, "http://example.com/products/?page=3&page_size=1&search=a", *out.Next)
	require.NotNil(t, out.Previous)
	assert.Equal(t, "http://example.com/products/?page_size=1&search=a", *out.Previous)
}

func TestBuildPage_UltimaYVacia(t *testing.T) {
	u, _ := url.Parse("http://example.com/categories/")

	out, err := listing.BuildPage[string](u, listing.Params{Page: 1, PageSize: 10}, 0, nil)
	require.NoError(t, err)
	assert.Nil(t, out.Next)
	assert.Nil(t, out.Previous)
	assert.NotNil(t, out.Results, "results se serializa como [] y no null")

	_, err = listing.BuildPage[string](u, listing.Params{Page: 2, PageSize: 10}, 10, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)
}

func TestParse_PaginaQueDesbordaOffset(t *testing.T) {
	_, err := listing.Parse(mustQuery(t, "page=922337203685477582&page_size=10"), listing.ProductRules, testPagination)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)

	_, err = listing.Parse(mustQuery(t, "page=99999999999999999999"), listing.ProductRules, testPagination)
	assert.ErrorIs(t, err, domain.ErrInvalidPage)
}

func TestParse_UltimaPagina(t *testing.T) {
	p, err := listing.Parse(mustQuery(t, "page=last&page_size=5"), listing.ProductRules, testPagination)
	require.NoError(t, err)
	assert.True(t, p.Last)
	assert.Equal(t, 0, p.Query.Offset)

	assert.True(t, p.ResolveLast(12))
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.Query.Offset)

	empty, err := listing.Parse(mustQuery(t, "page=last"), listing.ProductRules, testPagination)
	require.NoError(t, err)
	assert.False(t, empty.ResolveLast(0))
	assert.Equal(t, 1, empty.Page)

	first, err := listing.Parse(mustQuery(t, "page=2"), listing.ProductRules, testPagination)
	require.NoError(t, err)
	assert.False(t, first.ResolveLast(100))
	assert.Equal(t, 2, first.Page)
}
