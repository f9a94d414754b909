package repository

// OrderBy columna de ordenamiento; Desc invierte el sentido.
type OrderBy struct {
	Field string
	Desc  bool
}

// ListQuery opciones de listado ya saneadas por la capa de aplicación.
// Los nombres de campo son lógicos (ej. "category__name"); cada adaptador
// los traduce a columnas y descarta los que no conoce.
type ListQuery struct {
	Search       string
	SearchFields []string
	Filters      map[string]any
	Ordering     []OrderBy
	Limit        int
	Offset       int
	// OwnerID > 0 restringe el listado a los registros de ese usuario (solo pedidos).
	OwnerID int64
}
