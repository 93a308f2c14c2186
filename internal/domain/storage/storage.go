// Package storage define el puerto de persistencia clave→JSON que comparten el
// almacén local, el remoto y el orquestador híbrido que los media.
package storage

import (
	"context"
	"encoding/json"
)

// Claves de colección. Una por colección de entidades; deben ser estables
// entre versiones porque son el esquema del almacén local.
const (
	KeyProducts       = "products"
	KeySales          = "sales"
	KeyCategories     = "categories"
	KeyGoals          = "goals"
	KeyCashMovements  = "cash_movements"
	KeyWorkingCapital = "working_capital"
	KeySession        = "session:auth"
)

// SessionKeyPrefix prefijo de las claves de sesión/credenciales. El cliente
// remoto purga las que pertenezcan a otro proyecto antes de construirse.
const SessionKeyPrefix = "session:"

// Backend almacén clave→JSON. Lo implementan el almacén local (SQLite), el
// remoto (PostgreSQL) y el orquestador híbrido.
//
// Get devuelve domain.ErrNotFound si la clave no existe.
type Backend interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Remove(ctx context.Context, key string) error
	GetMany(ctx context.Context, keys []string) (map[string]json.RawMessage, error)
	SetMany(ctx context.Context, entries map[string]json.RawMessage) error
}

// KeyLister lo implementa el almacén local: enumeración de claves por prefijo,
// necesaria para la purga de sesiones ajenas.
type KeyLister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// ConnectionState estado de conexión del orquestador. El paso Remote→LocalOnly
// es monótono dentro de la sesión: solo Reprobe puede revertirlo.
type ConnectionState int

const (
	// Remote: las lecturas/escrituras intentan primero el backend remoto.
	Remote ConnectionState = iota
	// LocalOnly: todo se sirve del almacén local durable.
	LocalOnly
)

func (s ConnectionState) String() string {
	if s == Remote {
		return "remote"
	}
	return "local_only"
}

// IntegrationStatus estado observable de la integración remota. Se obtiene
// siempre sin error.
type IntegrationStatus struct {
	Integrated  bool            `json:"integrated"`   // hay configuración remota
	Connected   bool            `json:"connected"`    // el último sondeo respondió
	UsingRemote bool            `json:"using_remote"` // estado actual de enrutamiento
	State       ConnectionState `json:"-"`
}
