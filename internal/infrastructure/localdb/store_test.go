package localdb_test

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/infrastructure/localdb"
)

func abrirStore(t *testing.T, maxKeys int) *localdb.Store {
	t.Helper()
	s, err := localdb.Open(filepath.Join(t.TempDir(), "test.db"), maxKeys)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	s := abrirStore(t, 0)
	ctx := context.Background()

	v := json.RawMessage(`[{"id":"p1","name":"Camiseta"}]`)
	require.NoError(t, s.Set(ctx, "products", v))

	got, err := s.Get(ctx, "products")
	require.NoError(t, err)
	assert.JSONEq(t, string(v), string(got))
}

func TestStore_GetInexistente(t *testing.T) {
	s := abrirStore(t, 0)
	_, err := s.Get(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_SetReemplaza(t *testing.T) {
	s := abrirStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`"v1"`)))
	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`"v2"`)))

	got, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `"v2"`, string(got))
}

func TestStore_SobreviveReapertura(t *testing.T) {
	path := filepath.Join(t.TempDir(), "durable.db")
	ctx := context.Background()

	s1, err := localdb.Open(path, 0)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "goals", json.RawMessage(`[]`)))
	require.NoError(t, s1.Close())

	s2, err := localdb.Open(path, 0)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, "goals")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got), "los datos deben sobrevivir al reinicio del proceso")
}

func TestStore_CapacidadAcotada(t *testing.T) {
	s := abrirStore(t, 2)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", json.RawMessage(`1`)))
	require.NoError(t, s.Set(ctx, "b", json.RawMessage(`2`)))

	err := s.Set(ctx, "c", json.RawMessage(`3`))
	assert.ErrorIs(t, err, domain.ErrCapacity, "la tercera clave excede la cota y se rechaza")

	// Reescribir una clave existente no consume capacidad
	assert.NoError(t, s.Set(ctx, "a", json.RawMessage(`10`)))
}

func TestStore_Remove(t *testing.T) {
	s := abrirStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", json.RawMessage(`1`)))
	require.NoError(t, s.Remove(ctx, "k"))

	_, err := s.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Borrar una clave inexistente no es error
	assert.NoError(t, s.Remove(ctx, "k"))
}

func TestStore_GetManyOmiteAusentes(t *testing.T) {
	s := abrirStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "products", json.RawMessage(`[]`)))

	got, err := s.GetMany(ctx, []string{"products", "sales"})
	require.NoError(t, err)
	assert.Contains(t, got, "products")
	assert.NotContains(t, got, "sales")
}

func TestStore_SetManyAtomico(t *testing.T) {
	s := abrirStore(t, 2)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "a", json.RawMessage(`1`)))

	// "b" cabe pero "c" no: la transacción completa debe revertirse
	err := s.SetMany(ctx, map[string]json.RawMessage{
		"b": json.RawMessage(`2`),
		"c": json.RawMessage(`3`),
	})
	require.Error(t, err)

	_, errB := s.Get(ctx, "b")
	_, errC := s.Get(ctx, "c")
	assert.ErrorIs(t, errB, domain.ErrNotFound, "SetMany fallido no debe dejar escrituras parciales")
	assert.ErrorIs(t, errC, domain.ErrNotFound)
}

func TestStore_KeysPorPrefijo(t *testing.T) {
	s := abrirStore(t, 0)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "session:proj-a", json.RawMessage(`{}`)))
	require.NoError(t, s.Set(ctx, "session:proj-b", json.RawMessage(`{}`)))
	require.NoError(t, s.Set(ctx, "products", json.RawMessage(`[]`)))

	keys, err := s.Keys(ctx, "session:")
	require.NoError(t, err)
	assert.Equal(t, []string{"session:proj-a", "session:proj-b"}, keys)
}
