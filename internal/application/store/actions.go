package store

import "github.com/tu-usuario/negocio-pro/internal/domain/entity"

// Action transición etiquetada del reducer. Las acciones son datos puros: el
// executor de efectos las despacha con valores ya confirmados por el servicio,
// nunca con suposiciones optimistas.
type Action interface{ isAction() }

// SetLoading marca o desmarca la carga en curso.
type SetLoading struct{ Loading bool }

// SetError fija el mensaje de error visible para el usuario.
type SetError struct{ Message string }

// ClearError limpia el error.
type ClearError struct{}

// SetProducts reemplaza la colección de productos.
type SetProducts struct{ Products []entity.Product }

// AddProduct agrega un producto confirmado.
type AddProduct struct{ Product entity.Product }

// UpdateProduct reemplaza un producto por ID.
type UpdateProduct struct{ Product entity.Product }

// SetSales reemplaza la colección de ventas.
type SetSales struct{ Sales []entity.Sale }

// AddSale agrega una venta confirmada.
type AddSale struct{ Sale entity.Sale }

// UpdateSale reemplaza una venta por ID (cancelación).
type UpdateSale struct{ Sale entity.Sale }

// SetCategories reemplaza la colección de categorías.
type SetCategories struct{ Categories []entity.Category }

// AddCategory agrega una categoría confirmada.
type AddCategory struct{ Category entity.Category }

// UpdateCategory reemplaza una categoría por ID (soft-delete).
type UpdateCategory struct{ Category entity.Category }

// SetGoals reemplaza la colección de metas.
type SetGoals struct{ Goals []entity.Goal }

// UpsertGoal inserta o reemplaza la meta de su (month, year).
type UpsertGoal struct{ Goal entity.Goal }

// SetCashMovements reemplaza los movimientos de caja.
type SetCashMovements struct{ Movements []entity.CashMovement }

// AddCashMovement agrega un movimiento confirmado.
type AddCashMovement struct{ Movement entity.CashMovement }

// SetWorkingCapital reemplaza el capital de giro.
type SetWorkingCapital struct{ Capital entity.WorkingCapital }

func (SetLoading) isAction()        {}
func (SetError) isAction()          {}
func (ClearError) isAction()        {}
func (SetProducts) isAction()       {}
func (AddProduct) isAction()        {}
func (UpdateProduct) isAction()     {}
func (SetSales) isAction()          {}
func (AddSale) isAction()           {}
func (UpdateSale) isAction()        {}
func (SetCategories) isAction()     {}
func (AddCategory) isAction()       {}
func (UpdateCategory) isAction()    {}
func (SetGoals) isAction()          {}
func (UpsertGoal) isAction()        {}
func (SetCashMovements) isAction()  {}
func (AddCashMovement) isAction()   {}
func (SetWorkingCapital) isAction() {}
