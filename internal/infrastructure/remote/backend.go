package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
)

var _ storage.Backend = (*Backend)(nil)

// pgUndefinedTable SQLSTATE de "relation does not exist".
const pgUndefinedTable = "42P01"

// Backend almacén clave→JSON sobre el remoto. Cada clave de colección vive en
// su propia tabla documento de una fila (doc_products, doc_sales, ...), de modo
// que un esquema sin provisionar se manifiesta como "tabla no existe" por
// colección, deduplicable por nombre.
type Backend struct {
	handle *Handle
}

// NewBackend construye el adaptador sobre el handle del proceso.
func NewBackend(h *Handle) *Backend {
	return &Backend{handle: h}
}

// tableFor deriva el identificador de tabla para una clave de colección.
func tableFor(key string) string {
	sanitized := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '_'
		}
	}, key)
	return "doc_" + sanitized
}

// classify traduce un error de pgx a la taxonomía de dominio: tabla ausente,
// fila ausente o fallo de conexión (todo lo demás).
func classify(err error, table string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable {
		return &domain.TableNotFoundError{Table: table}
	}
	return fmt.Errorf("%w: %v", domain.ErrConnection, err)
}

// Get lee el documento de la colección key.
func (b *Backend) Get(ctx context.Context, key string) (json.RawMessage, error) {
	table := tableFor(key)
	var payload []byte
	err := b.handle.Pool().QueryRow(ctx,
		fmt.Sprintf(`SELECT payload FROM %s WHERE id = 1`, table),
	).Scan(&payload)
	if err != nil {
		return nil, classify(err, table)
	}
	return json.RawMessage(payload), nil
}

// Set inserta o reemplaza el documento de la colección key.
func (b *Backend) Set(ctx context.Context, key string, value json.RawMessage) error {
	table := tableFor(key)
	_, err := b.handle.Pool().Exec(ctx,
		fmt.Sprintf(`
			INSERT INTO %s (id, payload, updated_at) VALUES (1, $1, now())
			ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
			table),
		[]byte(value),
	)
	if err != nil {
		return classify(err, table)
	}
	return nil
}

// Remove vacía el documento de la colección key.
func (b *Backend) Remove(ctx context.Context, key string) error {
	table := tableFor(key)
	if _, err := b.handle.Pool().Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = 1`, table)); err != nil {
		return classify(err, table)
	}
	return nil
}

// GetMany lee varias colecciones; las ausentes (sin fila) no aparecen en el
// resultado. Una tabla inexistente sí es error: delata esquema sin provisionar.
func (b *Backend) GetMany(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		v, err := b.Get(ctx, k)
		if errors.Is(err, domain.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

// SetMany escribe varias colecciones en una transacción remota.
func (b *Backend) SetMany(ctx context.Context, entries map[string]json.RawMessage) error {
	tx, err := b.handle.Pool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for k, v := range entries {
		table := tableFor(k)
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`
				INSERT INTO %s (id, payload, updated_at) VALUES (1, $1, now())
				ON CONFLICT (id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
				table),
			[]byte(v),
		); err != nil {
			return classify(err, table)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrConnection, err)
	}
	return nil
}
