package entity

import "time"

// Category categoría de producto. El nombre es único (sensible a mayúsculas)
// y la unicidad se valida antes de insertar.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}
