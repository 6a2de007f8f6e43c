package catalog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/pkg/common"
)

type ItemCreate struct {
	Title        string  `json:"title" form:"title"`
	Description  string  `json:"description" form:"description"`
	Price        float64 `json:"price" form:"price"`
	IsActive     *bool   `json:"is_active" form:"is_active"`
	EncodedPhoto string  `json:"encoded_photo" form:"encoded_photo"`
	Extension    string  `json:"extension" form:"extension"`
}

type ItemUpdate struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	IsActive     *bool    `json:"is_active"`
	EncodedPhoto *string  `json:"encoded_photo"`
	Extension    *string  `json:"extension"`
}

type ItemRepo struct {
	media Attacher
}

func NewItemRepo(media Attacher) *ItemRepo {
	return &ItemRepo{media: media}
}

// Create inserts an item under menuID. OwnerID is denormalized from the store
// owner at creation time, the resolver still authorizes by traversal.
// ErrConflict when the menu already has an item of the same title.
func (r *ItemRepo) Create(ctx context.Context, db *gorm.DB, menuID, ownerID int64, in ItemCreate) (*domain.Item, error) {
	var imageURL string
	if in.EncodedPhoto != "" {
		url, err := r.media.AttachPhoto(ctx, in.EncodedPhoto, common.IfEmptyStr(in.Extension, "png"))
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	item := domain.Item{
		ID:          common.UUIDint64(),
		Title:       capitalize(in.Title),
		Description: in.Description,
		Price:       in.Price,
		ImageURL:    imageURL,
		IsActive:    in.IsActive == nil || *in.IsActive,
		MenuID:      menuID,
		OwnerID:     ownerID,
	}
	if err := db.Create(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *ItemRepo) Get(db *gorm.DB, id int64) (*domain.Item, error) {
	var item domain.Item
	if err := db.Where("id = ?", id).First(&item).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *ItemRepo) ListByMenu(db *gorm.DB, menuID int64, offset, limit int) ([]domain.Item, error) {
	var items []domain.Item
	err := db.Where("menu_id = ?", menuID).
		Order("id").Offset(offset).Limit(limit).
		Find(&items).Error
	return items, translate(err)
}

// ListByStore pages through every item of a store across all of its menus,
// used by the anonymous public-key listing.
func (r *ItemRepo) ListByStore(db *gorm.DB, storeID int64, offset, limit int) ([]domain.Item, error) {
	var items []domain.Item
	err := db.Joins("JOIN menus ON menus.id = items.menu_id").
		Where("menus.store_id = ?", storeID).
		Order("items.id").Offset(offset).Limit(limit).
		Find(&items).Error
	return items, translate(err)
}

func (r *ItemRepo) Update(ctx context.Context, db *gorm.DB, item *domain.Item, in ItemUpdate) (*domain.Item, error) {
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = capitalize(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.IsActive != nil {
		updates["is_active"] = *in.IsActive
	}
	if in.EncodedPhoto != nil && *in.EncodedPhoto != "" {
		ext := "png"
		if in.Extension != nil && *in.Extension != "" {
			ext = *in.Extension
		}
		url, err := r.media.AttachPhoto(ctx, *in.EncodedPhoto, ext)
		if err != nil {
			return nil, err
		}
		updates["image_url"] = url
	}
	updates["updated_at"] = time.Now()
	if err := db.Model(item).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	return r.Get(db, item.ID)
}

// Delete removes the item and returns its prior state.
func (r *ItemRepo) Delete(db *gorm.DB, item *domain.Item) (*domain.Item, error) {
	prior := *item
	if err := db.Where("id = ?", item.ID).Delete(&domain.Item{}).Error; err != nil {
		return nil, translate(err)
	}
	return &prior, nil
}
