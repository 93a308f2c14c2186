// Package store implementa el StateStore: una caché normalizada en memoria del
// estado de dominio, gobernada por un reducer puro sobre acciones etiquetadas,
// más un executor de efectos que llama a los servicios y despacha los
// resultados confirmados.
package store

import (
	"github.com/tu-usuario/negocio-pro/internal/application/demo"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
)

// State snapshot plano del estado de la aplicación.
type State struct {
	Products       []entity.Product
	Sales          []entity.Sale
	Categories     []entity.Category
	Goals          []entity.Goal
	CashMovements  []entity.CashMovement
	WorkingCapital entity.WorkingCapital
	Loading        bool
	Error          string
}

// InitialState estado de arranque: colecciones vacías salvo la lista fija de
// categorías por defecto.
func InitialState() State {
	return State{
		Categories: demo.DefaultCategories(),
	}
}

// Reduce transición pura: nunca muta s ni sus slices; devuelve el estado
// siguiente. Sin efectos, sin I/O, sin reloj.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case SetLoading:
		s.Loading = act.Loading
	case SetError:
		s.Error = act.Message
	case ClearError:
		s.Error = ""
	case SetProducts:
		s.Products = act.Products
	case AddProduct:
		s.Products = appendCopy(s.Products, act.Product)
	case UpdateProduct:
		s.Products = replaceBy(s.Products, act.Product, func(p entity.Product) string { return p.ID })
	case SetSales:
		s.Sales = act.Sales
	case AddSale:
		s.Sales = appendCopy(s.Sales, act.Sale)
	case UpdateSale:
		s.Sales = replaceBy(s.Sales, act.Sale, func(v entity.Sale) string { return v.ID })
	case SetCategories:
		s.Categories = act.Categories
	case AddCategory:
		s.Categories = appendCopy(s.Categories, act.Category)
	case UpdateCategory:
		s.Categories = replaceBy(s.Categories, act.Category, func(c entity.Category) string { return c.ID })
	case SetGoals:
		s.Goals = act.Goals
	case UpsertGoal:
		s.Goals = upsertGoal(s.Goals, act.Goal)
	case SetCashMovements:
		s.CashMovements = act.Movements
	case AddCashMovement:
		s.CashMovements = appendCopy(s.CashMovements, act.Movement)
	case SetWorkingCapital:
		s.WorkingCapital = act.Capital
	}
	return s
}

// appendCopy agrega sin compartir el arreglo de respaldo con el estado previo.
func appendCopy[T any](xs []T, x T) []T {
	out := make([]T, len(xs), len(xs)+1)
	copy(out, xs)
	return append(out, x)
}

// replaceBy reemplaza el elemento con la misma clave; si no existe, lo agrega.
func replaceBy[T any](xs []T, x T, key func(T) string) []T {
	out := make([]T, len(xs))
	copy(out, xs)
	for i := range out {
		if key(out[i]) == key(x) {
			out[i] = x
			return out
		}
	}
	return append(out, x)
}

// upsertGoal reemplaza la meta del mismo (month, year) o la agrega.
func upsertGoal(goals []entity.Goal, g entity.Goal) []entity.Goal {
	out := make([]entity.Goal, len(goals))
	copy(out, goals)
	for i := range out {
		if out[i].Month == g.Month && out[i].Year == g.Year {
			out[i] = g
			return out
		}
	}
	return append(out, g)
}
