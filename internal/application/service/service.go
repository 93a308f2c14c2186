// Package service implementa los servicios de dominio: el mapeo CRUD de cada
// colección de entidades sobre el orquestador de almacenamiento (lectura-
// modificación-escritura de arreglos JSON por clave de colección).
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
)

// validate instancia compartida del validador de requests.
var validate = validator.New()

// checkRequest valida un DTO de entrada y traduce el fallo a un error de
// dominio apto para mostrar al usuario.
func checkRequest(in any) error {
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return &domain.ValidationError{
				Field:  f.Field(),
				Reason: fmt.Sprintf("no cumple la regla %q", f.Tag()),
			}
		}
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// loadSlice lee la colección de key y la deserializa. Una clave ausente es una
// colección vacía, no un error.
func loadSlice[T any](ctx context.Context, b storage.Backend, key string) ([]T, error) {
	raw, err := b.Get(ctx, key)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("deserializar %s: %w", key, err)
	}
	return out, nil
}

// saveSlice serializa y escribe la colección en key.
func saveSlice[T any](ctx context.Context, b storage.Backend, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("serializar %s: %w", key, err)
	}
	return b.Set(ctx, key, raw)
}

// marshalSlice serializa una colección para un SetMany.
func marshalSlice[T any](key string, items []T) (string, json.RawMessage, error) {
	raw, err := json.Marshal(items)
	if err != nil {
		return "", nil, fmt.Errorf("serializar %s: %w", key, err)
	}
	return key, raw, nil
}
