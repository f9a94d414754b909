package entity

// Category agrupa productos. El nombre no es único: el get-or-create usa el de menor ID.
type Category struct {
	ID   int64
	Name string
}
