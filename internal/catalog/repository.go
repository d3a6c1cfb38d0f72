package catalog

import (
	"context"

	"github.com/openshelf/picklist-backend/pkg/db/models"
	"github.com/openshelf/picklist-backend/pkg/names"
	"gorm.io/gorm"
)

// Repository wires together area, category and product persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// --- areas ---

func (r *Repository) CreateArea(ctx context.Context, area *models.Area) (*models.Area, error) {
	if err := r.db.WithContext(ctx).Create(area).Error; err != nil {
		return nil, err
	}
	return area, nil
}

func (r *Repository) UpdateArea(ctx context.Context, area *models.Area) (*models.Area, error) {
	if err := r.db.WithContext(ctx).Save(area).Error; err != nil {
		return nil, err
	}
	return area, nil
}

func (r *Repository) DeleteArea(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Area{}).Error
}

func (r *Repository) FindAreaByID(ctx context.Context, id string) (*models.Area, error) {
	var area models.Area
	if err := r.db.WithContext(ctx).First(&area, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &area, nil
}

func (r *Repository) ListAreas(ctx context.Context) ([]models.Area, error) {
	var rows []models.Area
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindAreaByName matches case/whitespace-insensitively. The dataset is an
// offline single-user store, so the scan stays in Go where the normalization
// rule lives.
func (r *Repository) FindAreaByName(ctx context.Context, name string) (*models.Area, error) {
	rows, err := r.ListAreas(ctx)
	if err != nil {
		return nil, err
	}
	normalized := names.Normalize(name)
	for i := range rows {
		if names.Normalize(rows[i].Name) == normalized {
			return &rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// CountPickListsForArea reports how many pick lists still reference the area.
func (r *Repository) CountPickListsForArea(ctx context.Context, areaID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PickList{}).
		Where("area_id = ?", areaID).
		Count(&count).Error
	return count, err
}

// --- categories ---

func (r *Repository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *Repository) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

func (r *Repository) FindCategoryByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	rows, err := r.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	normalized := names.Normalize(name)
	for i := range rows {
		if names.Normalize(rows[i].Name) == normalized {
			return &rows[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

// CountProductsForCategory reports how many products reference the category id.
func (r *Repository) CountProductsForCategory(ctx context.Context, categoryID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("category = ?", categoryID).
		Count(&count).Error
	return count, err
}

// ListPickListsFilteringOn returns every pick list whose category filter
// contains the given category id.
func (r *Repository) ListPickListsFilteringOn(ctx context.Context, categoryID string) ([]models.PickList, error) {
	var lists []models.PickList
	if err := r.db.WithContext(ctx).
		Where("categories IS NOT NULL").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	matched := lists[:0]
	for _, list := range lists {
		if list.Categories.Contains(categoryID) {
			matched = append(matched, list)
		}
	}
	return matched, nil
}

// --- products ---

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

func (r *Repository) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) ListProducts(ctx context.Context, includeArchived bool) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Order("name ASC")
	if !includeArchived {
		query = query.Where("archived = ?", false)
	}
	var rows []models.Product
	err := query.Find(&rows).Error
	return rows, err
}

// FindProductIDByName returns the id of the product whose name matches under
// normalization, excluding excludeID. Used by the duplicate-name guard.
func (r *Repository) FindProductIDByName(ctx context.Context, name, excludeID string) (string, error) {
	type row struct {
		ID   string
		Name string
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id", "name").
		Find(&rows).Error; err != nil {
		return "", err
	}
	normalized := names.Normalize(name)
	for _, rec := range rows {
		if rec.ID == excludeID {
			continue
		}
		if names.Normalize(rec.Name) == normalized {
			return rec.ID, nil
		}
	}
	return "", gorm.ErrRecordNotFound
}

// FindProductIDByBarcode returns the id of the product holding the barcode,
// excluding excludeID. Barcodes compare byte-exact.
func (r *Repository) FindProductIDByBarcode(ctx context.Context, barcode, excludeID string) (string, error) {
	type row struct {
		ID string
	}
	var rec row
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("id").
		Where("barcode = ? AND id <> ?", barcode, excludeID).
		First(&rec).Error
	if err != nil {
		return "", err
	}
	return rec.ID, nil
}

// CountPickItemsForProduct reports how many pick items reference the product.
func (r *Repository) CountPickItemsForProduct(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PickItem{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

// ListOpenAutoAddLists returns open pick lists flagged to receive new
// products automatically.
func (r *Repository) ListOpenAutoAddLists(ctx context.Context) ([]models.PickList, error) {
	var lists []models.PickList
	err := r.db.WithContext(ctx).
		Where("completed_at IS NULL AND auto_add_new_products = ?", true).
		Find(&lists).Error
	return lists, err
}

func (r *Repository) CreatePickItem(ctx context.Context, item *models.PickItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}
