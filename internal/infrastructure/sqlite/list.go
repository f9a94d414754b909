package sqlite

import (
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/jhoicas/tienda-api/internal/domain/repository"
)

// whereScope aplica búsqueda (LIKE, insensible a mayúsculas ASCII), filtros exactos
// y, si ownerColumn no es vacío, el filtro por OwnerID.
func whereScope(q repository.ListQuery, columns map[string]string, ownerColumn string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q.Search != "" {
			var ors []string
			var args []any
			for _, f := range q.SearchFields {
				col, ok := columns[f]
				if !ok {
					continue
				}
				ors = append(ors, col+` LIKE ? ESCAPE '\'`)
				args = append(args, likePattern(q.Search))
			}
			if len(ors) > 0 {
				db = db.Where("("+strings.Join(ors, " OR ")+")", args...)
			}
		}
		keys := make([]string, 0, len(q.Filters))
		for k := range q.Filters {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if col, ok := columns[k]; ok {
				db = db.Where(col+" = ?", q.Filters[k])
			}
		}
		if ownerColumn != "" && q.OwnerID > 0 {
			db = db.Where(ownerColumn+" = ?", q.OwnerID)
		}
		return db
	}
}

// pageScope aplica orden (fallback si ningún campo es conocido) y LIMIT/OFFSET.
func pageScope(q repository.ListQuery, columns map[string]string, fallback string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		ordered := false
		for _, o := range q.Ordering {
			col, ok := columns[o.Field]
			if !ok {
				continue
			}
			if o.Desc {
				db = db.Order(col + " DESC")
			} else {
				db = db.Order(col + " ASC")
			}
			ordered = true
		}
		if !ordered {
			db = db.Order(fallback + " ASC")
		}
		if q.Limit > 0 {
			db = db.Limit(q.Limit).Offset(q.Offset)
		}
		return db
	}
}

func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
