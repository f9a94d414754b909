package postgres

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// listSQL traduce un repository.ListQuery a cláusulas SQL. columns mapea los
// campos lógicos a columnas calificadas; los campos ausentes se ignoran.
type listSQL struct {
	columns map[string]string
	args    []any
}

func newListSQL(columns map[string]string) *listSQL {
	return &listSQL{columns: columns}
}

func (b *listSQL) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// where devuelve "WHERE ..." (o "") con búsqueda, filtros exactos y dueño.
// ownerColumn vacío desactiva el filtro por OwnerID.
func (b *listSQL) where(q repository.ListQuery, ownerColumn string) string {
	var conds []string
	if q.Search != "" && len(q.SearchFields) > 0 {
		var ors []string
		for _, f := range q.SearchFields {
			col, ok := b.columns[f]
			if !ok {
				continue
			}
			ors = append(ors, col+" ILIKE "+b.arg(likePattern(q.Search)))
		}
		if len(ors) > 0 {
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}
	for _, f := range sortedKeys(q.Filters) {
		col, ok := b.columns[f]
		if !ok {
			continue
		}
		conds = append(conds, col+" = "+b.arg(q.Filters[f]))
	}
	if ownerColumn != "" && q.OwnerID > 0 {
		conds = append(conds, ownerColumn+" = "+b.arg(q.OwnerID))
	}
	if len(conds) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(conds, " AND ")
}

// orderBy devuelve "ORDER BY ..." usando fallback si ningún campo es conocido.
func (b *listSQL) orderBy(q repository.ListQuery, fallback string) string {
	var parts []string
	for _, o := range q.Ordering {
		col, ok := b.columns[o.Field]
		if !ok {
			continue
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	if len(parts) == 0 {
		parts = append(parts, fallback+" ASC")
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

// page devuelve "LIMIT $n OFFSET $m" (o "" si no hay límite).
func (b *listSQL) page(q repository.ListQuery) string {
	if q.Limit <= 0 {
		return ""
	}
	return "LIMIT " + b.arg(q.Limit) + " OFFSET " + b.arg(q.Offset)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
