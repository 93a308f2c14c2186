// Package localdb implementa el almacén local durable clave→JSON sobre SQLite.
// Es el destino incondicional de toda escritura (local-first): sobrevive al
// reinicio del proceso y sirve todas las lecturas en modo solo-local.
package localdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
)

var _ storage.Backend = (*Store)(nil)
var _ storage.KeyLister = (*Store)(nil)

// schemaVersion versión del esquema local. No hay migraciones (ninguna ha sido
// necesaria); se verifica al abrir para que una futura migración tenga gancho.
const schemaVersion = 1

// Store almacén clave→JSON sobre SQLite en modo WAL.
type Store struct {
	db      *sql.DB
	mu      sync.RWMutex
	maxKeys int // cota de claves distintas; 0 = sin límite
}

// Open abre (o crea) la base en path. maxKeys acota la cantidad de claves
// distintas; al excederla la escritura se rechaza con domain.ErrCapacity en
// lugar de desalojar silenciosamente.
func Open(path string, maxKeys int) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS kv (
			k          TEXT PRIMARY KEY,
			v          TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS meta (
			name  TEXT PRIMARY KEY,
			value INTEGER NOT NULL
		);
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("crear esquema local: %w", err)
	}

	if err := checkSchemaVersion(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, maxKeys: maxKeys}, nil
}

func checkSchemaVersion(db *sql.DB) error {
	var v int
	err := db.QueryRow(`SELECT value FROM meta WHERE name = 'schema_version'`).Scan(&v)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = db.Exec(`INSERT INTO meta (name, value) VALUES ('schema_version', ?)`, schemaVersion)
		return err
	case err != nil:
		return fmt.Errorf("leer versión de esquema: %w", err)
	case v != schemaVersion:
		return fmt.Errorf("esquema local versión %d, se esperaba %d", v, schemaVersion)
	}
	return nil
}

// Close cierra la base.
func (s *Store) Close() error { return s.db.Close() }

// Get devuelve el valor de key o domain.ErrNotFound.
func (s *Store) Get(ctx context.Context, key string) (json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get local %q: %w", key, err)
	}
	return json.RawMessage(v), nil
}

// Set inserta o reemplaza el valor de key.
func (s *Store) Set(ctx context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set(ctx, s.db, key, value)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Store) set(ctx context.Context, ex execer, key string, value json.RawMessage) error {
	if s.maxKeys > 0 {
		var exists bool
		if err := ex.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM kv WHERE k = ?)`, key).Scan(&exists); err != nil {
			return fmt.Errorf("set local %q: %w", key, err)
		}
		if !exists {
			var count int
			if err := ex.QueryRowContext(ctx, `SELECT COUNT(*) FROM kv`).Scan(&count); err != nil {
				return fmt.Errorf("set local %q: %w", key, err)
			}
			if count >= s.maxKeys {
				return fmt.Errorf("set local %q: %w", key, domain.ErrCapacity)
			}
		}
	}
	_, err := ex.ExecContext(ctx, `
		INSERT INTO kv (k, v, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("set local %q: %w", key, err)
	}
	return nil
}

// Remove elimina key. Borrar una clave inexistente no es error.
func (s *Store) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE k = ?`, key); err != nil {
		return fmt.Errorf("remove local %q: %w", key, err)
	}
	return nil
}

// GetMany devuelve las claves presentes; las ausentes simplemente no aparecen.
func (s *Store) GetMany(ctx context.Context, keys []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		v, err := s.Get(ctx, k)
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

// SetMany escribe todas las entradas en una transacción: o todas o ninguna.
func (s *Store) SetMany(ctx context.Context, entries map[string]json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin local tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for k, v := range entries {
		if err := s.set(ctx, tx, k, v); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit local tx: %w", err)
	}
	return nil
}

// Keys enumera las claves con el prefijo dado (purga de sesiones ajenas).
func (s *Store) Keys(ctx context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT k FROM kv WHERE k LIKE ? || '%' ORDER BY k`, prefix)
	if err != nil {
		return nil, fmt.Errorf("listar claves locales: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan clave local: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
