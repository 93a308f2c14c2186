package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrCapacity          = errors.New("capacidad del almacén local excedida")

	// ErrConfiguration: credenciales remotas ausentes o malformadas. Fatal para
	// el uso del remoto en la sesión, no fatal para la app (cae a local/demo).
	ErrConfiguration = errors.New("configuración remota inválida")

	// ErrConnection: el remoto está configurado pero la petición falló
	// (red, cuelgue, 5xx). Dispara el paso a modo solo-local.
	ErrConnection = errors.New("error de conexión con el backend remoto")
)

// TableNotFoundError: el remoto respondió que la tabla no existe (esquema sin
// provisionar). Lleva el nombre de la tabla para deduplicar el diagnóstico.
type TableNotFoundError struct {
	Table string
}

func (e *TableNotFoundError) Error() string {
	return fmt.Sprintf("tabla remota %q no existe", e.Table)
}

// IsTableNotFound reporta si err es un TableNotFoundError y devuelve la tabla.
func IsTableNotFound(err error) (string, bool) {
	var tnf *TableNotFoundError
	if errors.As(err, &tnf) {
		return tnf.Table, true
	}
	return "", false
}

// ValidationError: error de dominio con mensaje apto para el usuario (nombre de
// categoría duplicado, meta con mes inválido, etc.). Nunca activa el modo demo:
// se re-lanza al StateStore para que lo muestre.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reporta si err pertenece a la clase de errores de validación
// (ValidationError tipado o alguno de los centinelas de dominio).
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrDuplicate) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrConflict)
}

// IsStorage reporta si err pertenece a la clase de fallos de almacenamiento que
// deben activar el modo demo (conexión o esquema ausente).
func IsStorage(err error) bool {
	if _, ok := IsTableNotFound(err); ok {
		return true
	}
	return errors.Is(err, ErrConnection) || errors.Is(err, ErrConfiguration)
}
