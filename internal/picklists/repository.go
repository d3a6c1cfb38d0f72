package picklists

import (
	"context"

	"github.com/openshelf/picklist-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository wires together pick list and pick item persistence.
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

func (r *Repository) CreatePickList(ctx context.Context, list *models.PickList) (*models.PickList, error) {
	if err := r.db.WithContext(ctx).Create(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) UpdatePickList(ctx context.Context, list *models.PickList) (*models.PickList, error) {
	if err := r.db.WithContext(ctx).Save(list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *Repository) FindPickListByID(ctx context.Context, id string) (*models.PickList, error) {
	var list models.PickList
	if err := r.db.WithContext(ctx).First(&list, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &list, nil
}

// ListPickLists returns lists newest-first, optionally only the open ones.
func (r *Repository) ListPickLists(ctx context.Context, openOnly bool) ([]models.PickList, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if openOnly {
		query = query.Where("completed_at IS NULL")
	}
	var rows []models.PickList
	err := query.Find(&rows).Error
	return rows, err
}

// DeletePickListCascade removes the list and every item on it.
func (r *Repository) DeletePickListCascade(ctx context.Context, id string) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("pick_list_id = ?", id).Delete(&models.PickItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&models.PickList{}).Error
}

func (r *Repository) CreatePickItem(ctx context.Context, item *models.PickItem) (*models.PickItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) UpdatePickItem(ctx context.Context, item *models.PickItem) (*models.PickItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *Repository) DeletePickItem(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PickItem{}).Error
}

func (r *Repository) FindPickItemByID(ctx context.Context, id string) (*models.PickItem, error) {
	var item models.PickItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ListItemsForList returns the items of one pick list in creation order.
func (r *Repository) ListItemsForList(ctx context.Context, listID string) ([]models.PickItem, error) {
	var rows []models.PickItem
	err := r.db.WithContext(ctx).
		Where("pick_list_id = ?", listID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

// FindOpenItem locates the item on the list for the product/carton pair, used
// to merge repeated adds instead of stacking duplicate lines.
func (r *Repository) FindOpenItem(ctx context.Context, listID, productID string, isCarton bool) (*models.PickItem, error) {
	var item models.PickItem
	err := r.db.WithContext(ctx).
		Where("pick_list_id = ? AND product_id = ? AND is_carton = ?", listID, productID, isCarton).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *Repository) FindProductByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindAreaByID(ctx context.Context, id string) (*models.Area, error) {
	var area models.Area
	if err := r.db.WithContext(ctx).First(&area, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &area, nil
}
