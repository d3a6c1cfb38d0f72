// Package refs resolves free-form category/area references (a raw display
// name or an id) to canonical ids, creating the entity when permitted. A
// resolver is scoped to one reconciling pass and caches name->id mappings so
// many rows referencing the same new name never create duplicates.
package refs

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/openshelf/picklist-backend/pkg/names"
	"gorm.io/gorm"
)

// Resolver binds a pass-scoped cache to the transaction the pass runs in.
type Resolver struct {
	tx         *gorm.DB
	categories *entityCache
	areas      *entityCache
}

type entityCache struct {
	loaded bool
	ids    map[string]struct{}
	byName map[string]string // normalized name -> id
}

func newEntityCache() *entityCache {
	return &entityCache{
		ids:    map[string]struct{}{},
		byName: map[string]string{},
	}
}

func NewResolver(tx *gorm.DB) *Resolver {
	return &Resolver{
		tx:         tx,
		categories: newEntityCache(),
		areas:      newEntityCache(),
	}
}

// Category resolves ref to a category id. Stored names keep their original
// casing; comparison uses the normalized form.
func (r *Resolver) Category(ref string, createIfMissing bool) (string, error) {
	return r.resolve(r.categories, "category", ref, createIfMissing, func(id, name string) error {
		return r.tx.Create(&models.Category{ID: id, Name: name}).Error
	})
}

// Area resolves ref to an area id.
func (r *Resolver) Area(ref string, createIfMissing bool) (string, error) {
	return r.resolve(r.areas, "area", ref, createIfMissing, func(id, name string) error {
		return r.tx.Create(&models.Area{ID: id, Name: name}).Error
	})
}

// KnownCategoryID reports whether ref is an existing category id.
func (r *Resolver) KnownCategoryID(ref string) (bool, error) {
	if err := r.ensureLoaded(r.categories, "category"); err != nil {
		return false, err
	}
	_, ok := r.categories.ids[ref]
	return ok, nil
}

func (r *Resolver) resolve(cache *entityCache, kind, ref string, createIfMissing bool, create func(id, name string) error) (string, error) {
	trimmed := strings.TrimSpace(ref)
	if trimmed == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("empty %s reference", kind))
	}

	if err := r.ensureLoaded(cache, kind); err != nil {
		return "", err
	}

	if _, ok := cache.ids[ref]; ok {
		return ref, nil
	}

	normalized := names.Normalize(trimmed)
	if id, ok := cache.byName[normalized]; ok {
		return id, nil
	}

	if !createIfMissing {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s %q not found", kind, trimmed))
	}

	id := uuid.NewString()
	if err := create(id, trimmed); err != nil {
		return "", fmt.Errorf("creating %s %q: %w", kind, trimmed, err)
	}
	cache.ids[id] = struct{}{}
	cache.byName[normalized] = id
	return id, nil
}

func (r *Resolver) ensureLoaded(cache *entityCache, kind string) error {
	if cache.loaded {
		return nil
	}

	type row struct {
		ID   string
		Name string
	}
	var rows []row

	query := r.tx.Model(&models.Category{})
	if kind == "area" {
		query = r.tx.Model(&models.Area{})
	}
	if err := query.Select("id", "name").Find(&rows).Error; err != nil {
		return fmt.Errorf("loading %s references: %w", kind, err)
	}

	for _, rec := range rows {
		cache.ids[rec.ID] = struct{}{}
		normalized := names.Normalize(rec.Name)
		// first row wins so repeated loads stay deterministic
		if _, ok := cache.byName[normalized]; !ok && normalized != "" {
			cache.byName[normalized] = rec.ID
		}
	}
	cache.loaded = true
	return nil
}
