package picklists

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/openshelf/picklist-backend/internal/refs"
	"github.com/openshelf/picklist-backend/pkg/db"
	"github.com/openshelf/picklist-backend/pkg/db/models"
	dbtypes "github.com/openshelf/picklist-backend/pkg/db/types"
	"github.com/openshelf/picklist-backend/pkg/enums"
	pkgerrors "github.com/openshelf/picklist-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service exposes pick list and pick item operations.
type Service interface {
	CreatePickList(ctx context.Context, input CreatePickListInput) (*PickListDTO, error)
	UpdatePickList(ctx context.Context, listID string, input UpdatePickListInput) (*PickListDTO, error)
	CompletePickList(ctx context.Context, listID string) (*PickListDTO, error)
	DeletePickList(ctx context.Context, listID string) error
	GetPickList(ctx context.Context, listID string) (*PickListDTO, error)
	ListPickLists(ctx context.Context, openOnly bool) ([]PickListDTO, error)

	AddItem(ctx context.Context, listID string, input AddItemInput) (*PickItemDTO, error)
	AdjustQuantity(ctx context.Context, itemID string, quantity int) (*PickItemDTO, error)
	SetItemStatus(ctx context.Context, itemID string, status string) (*PickItemDTO, error)
	RemoveItem(ctx context.Context, itemID string) error
}

// CreatePickListInput holds the validated payload to create a pick list.
// Categories entries accept ids or display names of existing categories.
type CreatePickListInput struct {
	AreaID             string
	Categories         []string
	AutoAddNewProducts bool
	Notes              *string
}

// UpdatePickListInput holds optional mutation values for a pick list.
type UpdatePickListInput struct {
	Categories         *[]string
	AutoAddNewProducts *bool
	Notes              *string
}

// AddItemInput holds the validated payload to add a pick item.
type AddItemInput struct {
	ProductID string
	Quantity  int
	IsCarton  bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
}

// NewService constructs a pick list service instance.
func NewService(repo *Repository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("picklists repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

func (s *service) CreatePickList(ctx context.Context, input CreatePickListInput) (*PickListDTO, error) {
	if strings.TrimSpace(input.AreaID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "area is required")
	}

	list := &models.PickList{
		ID:                 uuid.NewString(),
		AutoAddNewProducts: input.AutoAddNewProducts,
		Notes:              input.Notes,
		Categories:         dbtypes.StringList{},
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		resolver := refs.NewResolver(tx)

		areaID, err := resolver.Area(input.AreaID, false)
		if err != nil {
			return err
		}
		list.AreaID = areaID

		for _, ref := range input.Categories {
			categoryID, err := resolver.Category(ref, false)
			if err != nil {
				return err
			}
			if !list.Categories.Contains(categoryID) {
				list.Categories = append(list.Categories, categoryID)
			}
		}

		_, err = s.repo.WithTx(tx).CreatePickList(ctx, list)
		return err
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pick list")
	}
	return NewPickListDTO(list, nil), nil
}

func (s *service) UpdatePickList(ctx context.Context, listID string, input UpdatePickListInput) (*PickListDTO, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if input.Categories != nil {
			resolver := refs.NewResolver(tx)
			rewritten := dbtypes.StringList{}
			for _, ref := range *input.Categories {
				categoryID, err := resolver.Category(ref, false)
				if err != nil {
					return err
				}
				if !rewritten.Contains(categoryID) {
					rewritten = append(rewritten, categoryID)
				}
			}
			list.Categories = rewritten
		}
		if input.AutoAddNewProducts != nil {
			list.AutoAddNewProducts = *input.AutoAddNewProducts
		}
		if input.Notes != nil {
			list.Notes = input.Notes
		}

		_, err := s.repo.WithTx(tx).UpdatePickList(ctx, list)
		return err
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update pick list")
	}
	return NewPickListDTO(list, nil), nil
}

// CompletePickList stamps completed_at. Completing twice is a state conflict
// so a stale client cannot silently move the completion time.
func (s *service) CompletePickList(ctx context.Context, listID string) (*PickListDTO, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.Open() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pick list already completed")
	}

	now := time.Now().UnixMilli()
	list.CompletedAt = &now
	if _, err := s.repo.UpdatePickList(ctx, list); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update pick list")
	}
	return NewPickListDTO(list, nil), nil
}

func (s *service) DeletePickList(ctx context.Context, listID string) error {
	if _, err := s.loadList(ctx, listID); err != nil {
		return err
	}
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).DeletePickListCascade(ctx, listID)
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete pick list")
	}
	return nil
}

func (s *service) GetPickList(ctx context.Context, listID string) (*PickListDTO, error) {
	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}
	items, err := s.repo.ListItemsForList(ctx, listID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pick items")
	}
	return NewPickListDTO(list, items), nil
}

func (s *service) ListPickLists(ctx context.Context, openOnly bool) ([]PickListDTO, error) {
	rows, err := s.repo.ListPickLists(ctx, openOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pick lists")
	}
	return NewPickListDTOs(rows), nil
}

// AddItem puts a product on an open list. Adding a product/carton pair that
// is already on the list bumps the existing line instead of duplicating it.
func (s *service) AddItem(ctx context.Context, listID string, input AddItemInput) (*PickItemDTO, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	list, err := s.loadList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.Open() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pick list is completed")
	}

	if _, err := s.repo.FindProductByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	var result *models.PickItem
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindOpenItem(ctx, listID, input.ProductID, input.IsCarton)
		if err == nil {
			existing.Quantity += input.Quantity
			result, err = txRepo.UpdatePickItem(ctx, existing)
			return err
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		item := &models.PickItem{
			ID:         uuid.NewString(),
			PickListID: listID,
			ProductID:  input.ProductID,
			Quantity:   input.Quantity,
			IsCarton:   input.IsCarton,
			Status:     enums.PickItemStatusPending,
		}
		result, err = txRepo.CreatePickItem(ctx, item)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add pick item")
	}
	return NewPickItemDTO(result), nil
}

func (s *service) AdjustQuantity(ctx context.Context, itemID string, quantity int) (*PickItemDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	item, err := s.loadOpenItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Quantity = quantity
	if _, err := s.repo.UpdatePickItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update pick item")
	}
	return NewPickItemDTO(item), nil
}

func (s *service) SetItemStatus(ctx context.Context, itemID string, status string) (*PickItemDTO, error) {
	parsed, err := enums.ParsePickItemStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	item, err := s.loadOpenItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Status = parsed
	if _, err := s.repo.UpdatePickItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update pick item")
	}
	return NewPickItemDTO(item), nil
}

func (s *service) RemoveItem(ctx context.Context, itemID string) error {
	if _, err := s.loadOpenItem(ctx, itemID); err != nil {
		return err
	}
	if err := s.repo.DeletePickItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete pick item")
	}
	return nil
}

func (s *service) loadList(ctx context.Context, listID string) (*models.PickList, error) {
	list, err := s.repo.FindPickListByID(ctx, listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pick list not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pick list")
	}
	return list, nil
}

// loadOpenItem loads the item and rejects mutation when its parent list is
// already completed.
func (s *service) loadOpenItem(ctx context.Context, itemID string) (*models.PickItem, error) {
	item, err := s.repo.FindPickItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pick item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pick item")
	}

	list, err := s.loadList(ctx, item.PickListID)
	if err != nil {
		return nil, err
	}
	if !list.Open() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "pick list is completed")
	}
	return item, nil
}
