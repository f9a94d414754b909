// Package listing traduce los query params de los listados (search, filtros,
// ordering, page, page_size) a un repository.ListQuery según reglas declaradas
// por recurso, y arma la respuesta paginada con enlaces next/previous.
// Los parámetros no reconocidos se ignoran.
package listing

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// Nombres de los parámetros reservados.
const (
	ParamSearch   = "search"
	ParamOrdering = "ordering"
	ParamPage     = "page"
	ParamPageSize = "page_size"

	// PageLast valor de page que pide la última página.
	PageLast = "last"
)

// FilterKind tipo de valor esperado por un filtro exacto.
type FilterKind int

const (
	FilterText FilterKind = iota
	FilterInt
)

// Rules declara qué se puede buscar, filtrar y ordenar en un recurso.
type Rules struct {
	SearchFields    []string
	Filters         map[string]FilterKind
	OrderingFields  []string
	DefaultOrdering []repository.OrderBy
}

// Pagination tamaño de página por defecto y tope para page_size.
type Pagination struct {
	PageSize    int
	MaxPageSize int
}

// Params resultado del parseo: la consulta para el repositorio y la página pedida.
// Con Last la página se conoce recién con el total (ver ResolveLast).
type Params struct {
	Query    repository.ListQuery
	Page     int
	PageSize int
	Last     bool
}

// ResolveLast fija Page y el offset en la última página según total. Devuelve
// true si el offset cambió y hay que repetir la consulta.
func (p *Params) ResolveLast(total int) bool {
	if !p.Last {
		return false
	}
	p.Page = lastPage(total, p.PageSize)
	offset := (p.Page - 1) * p.PageSize
	changed := offset != p.Query.Offset
	p.Query.Offset = offset
	return changed
}

// Reglas por recurso.
var (
	ProductRules = Rules{
		SearchFields: []string{"name", "description", "category__name"},
		Filters: map[string]FilterKind{
			"name":           FilterText,
			"category":       FilterInt,
			"category__name": FilterText,
		},
		OrderingFields:  []string{"id", "name", "price", "stock"},
		DefaultOrdering: []repository.OrderBy{{Field: "id"}},
	}
	CategoryRules = Rules{
		SearchFields:    []string{"name"},
		Filters:         map[string]FilterKind{"name": FilterText},
		OrderingFields:  []string{"id", "name"},
		DefaultOrdering: []repository.OrderBy{{Field: "id"}},
	}
	OrderRules = Rules{
		Filters:         map[string]FilterKind{"quantity": FilterInt},
		OrderingFields:  []string{"id", "date", "quantity"},
		DefaultOrdering: []repository.OrderBy{{Field: "id"}},
	}
)

// Parse construye Params a partir de los query params. Solo falla con
// domain.ErrInvalidPage cuando page no es un entero positivo (o "last") o su
// offset no entra en un int.
func Parse(values url.Values, rules Rules, pg Pagination) (Params, error) {
	size := pageSize(values.Get(ParamPageSize), pg)
	page, last := 1, false
	if raw := strings.TrimSpace(values.Get(ParamPage)); raw == PageLast {
		last = true
	} else if raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n-1 > math.MaxInt/size {
			return Params{}, domain.ErrInvalidPage
		}
		page = n
	}

	q := repository.ListQuery{
		Limit:    size,
		Offset:   (page - 1) * size,
		Ordering: ordering(values.Get(ParamOrdering), rules),
	}
	if len(rules.SearchFields) > 0 {
		if term := strings.TrimSpace(values.Get(ParamSearch)); term != "" {
			q.Search = term
			q.SearchFields = rules.SearchFields
		}
	}
	for name, kind := range rules.Filters {
		raw, ok := values[name]
		if !ok || len(raw) == 0 || raw[0] == "" {
			continue
		}
		switch kind {
		case FilterInt:
			n, err := strconv.ParseInt(strings.TrimSpace(raw[0]), 10, 64)
			if err != nil {
				continue
			}
			setFilter(&q, name, n)
		default:
			setFilter(&q, name, raw[0])
		}
	}
	return Params{Query: q, Page: page, PageSize: size, Last: last}, nil
}

func setFilter(q *repository.ListQuery, name string, value any) {
	if q.Filters == nil {
		q.Filters = make(map[string]any)
	}
	q.Filters[name] = value
}

func pageSize(raw string, pg Pagination) int {
	size := pg.PageSize
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
		size = n
	}
	if pg.MaxPageSize > 0 && size > pg.MaxPageSize {
		size = pg.MaxPageSize
	}
	if size < 1 {
		size = 1
	}
	return size
}

// ordering interpreta "price,-name". Campos desconocidos se ignoran; si no queda
// ninguno se usa el orden por defecto. Siempre termina en id como desempate.
func ordering(raw string, rules Rules) []repository.OrderBy {
	var out []repository.OrderBy
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		field := strings.TrimPrefix(part, "-")
		if field == "" || seen[field] || !slices.Contains(rules.OrderingFields, field) {
			continue
		}
		seen[field] = true
		out = append(out, repository.OrderBy{Field: field, Desc: desc})
	}
	if len(out) == 0 {
		out = append(out, rules.DefaultOrdering...)
		for _, o := range out {
			seen[o.Field] = true
		}
	}
	if !seen["id"] {
		out = append(out, repository.OrderBy{Field: "id"})
	}
	return out
}

// BuildPage arma la respuesta paginada. requestURL es la URL absoluta de la
// petición (con su query); se reutiliza para los enlaces next/previous.
// Devuelve domain.ErrInvalidPage si la página pedida excede la última.
func BuildPage[T any](requestURL *url.URL, p Params, total int, results []T) (*dto.Page[T], error) {
	last := lastPage(total, p.PageSize)
	if p.Page > last {
		return nil, domain.ErrInvalidPage
	}
	if results == nil {
		results = []T{}
	}
	out := &dto.Page[T]{Count: total, Results: results}
	if p.Page < last {
		next := pageURL(requestURL, p.Page+1)
		out.Next = &next
	}
	if p.Page > 1 {
		prev := pageURL(requestURL, p.Page-1)
		out.Previous = &prev
	}
	return out, nil
}

func lastPage(total, size int) int {
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

func pageURL(base *url.URL, page int) string {
	u := *base
	q := u.Query()
	if page == 1 {
		q.Del(ParamPage)
	} else {
		q.Set(ParamPage, strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	return u.String()
}
