package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/openshelf/picklist-backend/internal/refs"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	"github.com/openshelf/picklist-backend/pkg/enums"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"github.com/openshelf/picklist-backend/pkg/names"
	"gorm.io/gorm"
)

// Service exposes area, category and product management operations.
type Service interface {
	CreateArea(ctx context.Context, input CreateAreaInput) (*AreaDTO, error)
	UpdateArea(ctx context.Context, areaID string, input UpdateAreaInput) (*AreaDTO, error)
	DeleteArea(ctx context.Context, areaID string) error
	GetArea(ctx context.Context, areaID string) (*AreaDTO, error)
	ListAreas(ctx context.Context) ([]AreaDTO, error)

	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	RenameCategory(ctx context.Context, categoryID, newName string) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, categoryID string) error
	GetCategory(ctx context.Context, categoryID string) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*ProductDTO, error)
	ArchiveProduct(ctx context.Context, productID string, archived bool) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID string) error
	GetProduct(ctx context.Context, productID string) (*ProductDTO, error)
	ListProducts(ctx context.Context, includeArchived bool) ([]ProductDTO, error)
}

// CreateAreaInput holds the validated payload to create an area.
type CreateAreaInput struct {
	Name string
}

// UpdateAreaInput holds optional mutation values for an area.
type UpdateAreaInput struct {
	Name *string
}

// CreateCategoryInput holds the validated payload to create a category.
type CreateCategoryInput struct {
	Name string
}

// CreateProductInput holds the validated payload to create a product.
// Category accepts a category id or a display name; unknown names are
// created on the fly so manual entry matches import behavior.
type CreateProductInput struct {
	Name         string
	Category     string
	UnitType     string
	BulkName     *string
	UnitsPerBulk *int
	Barcode      *string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name         *string
	Category     *string
	UnitType     *string
	BulkName     *string
	UnitsPerBulk *int
	Barcode      *string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// --- areas ---

func (s *service) CreateArea(ctx context.Context, input CreateAreaInput) (*AreaDTO, error) {
	name := strings.TrimSpace(input.Name)
	if names.IsEmpty(name) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "area name is required")
	}
	if err := s.ensureAreaNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	area := &models.Area{ID: uuid.NewString(), Name: name}
	if _, err := s.repo.CreateArea(ctx, area); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert area")
	}
	return NewAreaDTO(area), nil
}

func (s *service) UpdateArea(ctx context.Context, areaID string, input UpdateAreaInput) (*AreaDTO, error) {
	area, err := s.repo.FindAreaByID(ctx, areaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "area not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load area")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if names.IsEmpty(name) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "area name is required")
		}
		if err := s.ensureAreaNameFree(ctx, name, area.ID); err != nil {
			return nil, err
		}
		area.Name = name
	}

	if _, err := s.repo.UpdateArea(ctx, area); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update area")
	}
	return NewAreaDTO(area), nil
}

func (s *service) DeleteArea(ctx context.Context, areaID string) error {
	if _, err := s.repo.FindAreaByID(ctx, areaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "area not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load area")
	}

	count, err := s.repo.CountPickListsForArea(ctx, areaID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count area references")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeReferenceInUse, "area is referenced by pick lists").
			WithDetails(map[string]any{"pick_lists": count})
	}

	if err := s.repo.DeleteArea(ctx, areaID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete area")
	}
	return nil
}

func (s *service) GetArea(ctx context.Context, areaID string) (*AreaDTO, error) {
	area, err := s.repo.FindAreaByID(ctx, areaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "area not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load area")
	}
	return NewAreaDTO(area), nil
}

func (s *service) ListAreas(ctx context.Context) ([]AreaDTO, error) {
	rows, err := s.repo.ListAreas(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list areas")
	}
	return NewAreaDTOs(rows), nil
}

// --- categories ---

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	name := strings.TrimSpace(input.Name)
	if names.IsEmpty(name) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}
	if err := s.ensureCategoryNameFree(ctx, name, ""); err != nil {
		return nil, err
	}

	category := &models.Category{ID: uuid.NewString(), Name: name}
	if _, err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert category")
	}
	return NewCategoryDTO(category), nil
}

// RenameCategory updates the display name and, in the same transaction,
// rewrites any product or pick-list reference still holding the old raw name
// so a rename never orphans an un-normalized row.
func (s *service) RenameCategory(ctx context.Context, categoryID, newName string) (*CategoryDTO, error) {
	name := strings.TrimSpace(newName)
	if names.IsEmpty(name) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required")
	}

	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if err := s.ensureCategoryNameFree(ctx, name, category.ID); err != nil {
		return nil, err
	}

	oldName := category.Name
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		category.Name = name
		if _, err := txRepo.UpdateCategory(ctx, category); err != nil {
			return err
		}

		if err := tx.Model(&models.Product{}).
			Where("category = ?", oldName).
			Update("category", category.ID).Error; err != nil {
			return err
		}

		lists, err := txRepo.ListPickListsFilteringOn(ctx, oldName)
		if err != nil {
			return err
		}
		for i := range lists {
			rewritten := lists[i].Categories
			for j, entry := range rewritten {
				if entry == oldName {
					rewritten[j] = category.ID
				}
			}
			if err := tx.Model(&models.PickList{}).
				Where("id = ?", lists[i].ID).
				Update("categories", rewritten).Error; err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename category")
	}
	return NewCategoryDTO(category), nil
}

func (s *service) DeleteCategory(ctx context.Context, categoryID string) error {
	if _, err := s.repo.FindCategoryByID(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}

	productCount, err := s.repo.CountProductsForCategory(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category references")
	}
	lists, err := s.repo.ListPickListsFilteringOn(ctx, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "scan pick list filters")
	}
	if productCount > 0 || len(lists) > 0 {
		return pkgerrors.New(pkgerrors.CodeReferenceInUse, "category is still referenced").
			WithDetails(map[string]any{"products": productCount, "pick_lists": len(lists)})
	}

	if err := s.repo.DeleteCategory(ctx, categoryID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete category")
	}
	return nil
}

func (s *service) GetCategory(ctx context.Context, categoryID string) (*CategoryDTO, error) {
	category, err := s.repo.FindCategoryByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return NewCategoryDTO(category), nil
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return NewCategoryDTOs(rows), nil
}

// --- products ---

// CreateProduct inserts the product and fans a pending pick item out to every
// open list that auto-adds new products and whose category filter matches.
// The insert and the fanout commit together.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if names.IsEmpty(name) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.UnitsPerBulk != nil && *input.UnitsPerBulk < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "units_per_bulk must be at least 1")
	}

	if err := s.ensureProductNameFree(ctx, name, ""); err != nil {
		return nil, err
	}
	barcode := trimBarcode(input.Barcode)
	if barcode != nil {
		if err := s.ensureBarcodeFree(ctx, *barcode, ""); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		ID:           uuid.NewString(),
		Name:         name,
		UnitType:     unitTypeOrDefault(input.UnitType),
		BulkName:     input.BulkName,
		UnitsPerBulk: input.UnitsPerBulk,
		Barcode:      barcode,
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if strings.TrimSpace(input.Category) != "" {
			resolver := refs.NewResolver(tx)
			categoryID, err := resolver.Category(input.Category, true)
			if err != nil {
				return err
			}
			product.Category = categoryID
		}

		if _, err := txRepo.CreateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		return s.fanOutNewProduct(ctx, txRepo, product)
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return NewProductDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID string, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if names.IsEmpty(name) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
		}
		if err := s.ensureProductNameFree(ctx, name, product.ID); err != nil {
			return nil, err
		}
		product.Name = name
	}
	if input.Barcode != nil {
		barcode := trimBarcode(input.Barcode)
		if barcode != nil {
			if err := s.ensureBarcodeFree(ctx, *barcode, product.ID); err != nil {
				return nil, err
			}
		}
		product.Barcode = barcode
	}
	if input.UnitsPerBulk != nil {
		if *input.UnitsPerBulk < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "units_per_bulk must be at least 1")
		}
		product.UnitsPerBulk = input.UnitsPerBulk
	}
	if input.UnitType != nil {
		product.UnitType = unitTypeOrDefault(*input.UnitType)
	}
	if input.BulkName != nil {
		product.BulkName = input.BulkName
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if input.Category != nil {
			if strings.TrimSpace(*input.Category) == "" {
				product.Category = ""
			} else {
				resolver := refs.NewResolver(tx)
				categoryID, err := resolver.Category(*input.Category, true)
				if err != nil {
					return err
				}
				product.Category = categoryID
			}
		}

		_, err := txRepo.UpdateProduct(ctx, product)
		return err
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return NewProductDTO(product), nil
}

func (s *service) ArchiveProduct(ctx context.Context, productID string, archived bool) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	product.Archived = archived
	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(product), nil
}

// DeleteProduct refuses while pick items reference the product; archiving is
// the supported way to retire a product that has history.
func (s *service) DeleteProduct(ctx context.Context, productID string) error {
	if _, err := s.repo.FindProductByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	count, err := s.repo.CountPickItemsForProduct(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count product references")
	}
	if count > 0 {
		return pkgerrors.New(pkgerrors.CodeReferenceInUse, "product is referenced by pick items").
			WithDetails(map[string]any{"pick_items": count})
	}

	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, productID string) (*ProductDTO, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, includeArchived bool) ([]ProductDTO, error) {
	rows, err := s.repo.ListProducts(ctx, includeArchived)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return NewProductDTOs(rows), nil
}

func (s *service) fanOutNewProduct(ctx context.Context, txRepo *Repository, product *models.Product) error {
	lists, err := txRepo.ListOpenAutoAddLists(ctx)
	if err != nil {
		return err
	}
	for _, list := range lists {
		if len(list.Categories) > 0 && !list.Categories.Contains(product.Category) {
			continue
		}
		item := &models.PickItem{
			ID:         uuid.NewString(),
			PickListID: list.ID,
			ProductID:  product.ID,
			Quantity:   1,
			IsCarton:   false,
			Status:     enums.PickItemStatusPending,
		}
		if err := txRepo.CreatePickItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func (s *service) ensureAreaNameFree(ctx context.Context, name, excludeID string) error {
	existing, err := s.repo.FindAreaByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check area name")
	}
	if existing.ID != excludeID {
		return pkgerrors.New(pkgerrors.CodeDuplicateName, "area name already in use").
			WithDetails(map[string]any{"field": "name", "existing_id": existing.ID})
	}
	return nil
}

func (s *service) ensureCategoryNameFree(ctx context.Context, name, excludeID string) error {
	existing, err := s.repo.FindCategoryByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category name")
	}
	if existing.ID != excludeID {
		return pkgerrors.New(pkgerrors.CodeDuplicateName, "category name already in use").
			WithDetails(map[string]any{"field": "name", "existing_id": existing.ID})
	}
	return nil
}

func (s *service) ensureProductNameFree(ctx context.Context, name, excludeID string) error {
	existingID, err := s.repo.FindProductIDByName(ctx, name, excludeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product name")
	}
	return pkgerrors.New(pkgerrors.CodeDuplicateName, "product name already in use").
		WithDetails(map[string]any{"field": "name", "existing_id": existingID})
}

func (s *service) ensureBarcodeFree(ctx context.Context, barcode, excludeID string) error {
	existingID, err := s.repo.FindProductIDByBarcode(ctx, barcode, excludeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check barcode")
	}
	return pkgerrors.New(pkgerrors.CodeDuplicateBarcode, "barcode already in use").
		WithDetails(map[string]any{"field": "barcode", "existing_id": existingID})
}

func unitTypeOrDefault(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return enums.DefaultUnitType
	}
	return trimmed
}

func trimBarcode(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
