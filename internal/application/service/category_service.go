package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/negocio-pro/internal/domain"
	"github.com/tu-usuario/negocio-pro/internal/domain/entity"
	"github.com/tu-usuario/negocio-pro/internal/domain/storage"
	"github.com/tu-usuario/negocio-pro/pkg/logger"
)

// CategoryService CRUD de categorías. El nombre es único (sensible a
// mayúsculas) y se valida antes de insertar.
type CategoryService struct {
	store storage.Backend
	log   *logger.Logger
}

// NewCategoryService construye el servicio.
func NewCategoryService(store storage.Backend, log *logger.Logger) *CategoryService {
	return &CategoryService{store: store, log: log}
}

// Create crea una categoría nueva. Un nombre repetido es domain.ErrDuplicate.
func (s *CategoryService) Create(ctx context.Context, name string) (*entity.Category, error) {
	if name == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "el nombre es requerido"}
	}

	categories, err := loadSlice[entity.Category](ctx, s.store, storage.KeyCategories)
	if err != nil {
		return nil, err
	}
	for _, c := range categories {
		if c.Name == name {
			return nil, domain.ErrDuplicate
		}
	}

	cat := entity.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Active:    true,
		CreatedAt: time.Now(),
	}
	categories = append(categories, cat)

	if err := saveSlice(ctx, s.store, storage.KeyCategories, categories); err != nil {
		return nil, err
	}
	return &cat, nil
}

// SoftDelete marca la categoría como inactiva.
func (s *CategoryService) SoftDelete(ctx context.Context, id string) error {
	categories, err := loadSlice[entity.Category](ctx, s.store, storage.KeyCategories)
	if err != nil {
		return err
	}
	for i := range categories {
		if categories[i].ID == id {
			categories[i].Active = false
			return saveSlice(ctx, s.store, storage.KeyCategories, categories)
		}
	}
	return domain.ErrNotFound
}

// List devuelve todas las categorías.
func (s *CategoryService) List(ctx context.Context) ([]entity.Category, error) {
	return loadSlice[entity.Category](ctx, s.store, storage.KeyCategories)
}
