package catalog

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/pkg/common"
)

type MenuCreate struct {
	Title        string `json:"title" form:"title"`
	IsActive     *bool  `json:"is_active" form:"is_active"`
	EncodedPhoto string `json:"encoded_photo" form:"encoded_photo"`
	Extension    string `json:"extension" form:"extension"`
}

type MenuUpdate struct {
	Title        *string `json:"title"`
	IsActive     *bool   `json:"is_active"`
	EncodedPhoto *string `json:"encoded_photo"`
	Extension    *string `json:"extension"`
}

type MenuRepo struct {
	media Attacher
}

func NewMenuRepo(media Attacher) *MenuRepo {
	return &MenuRepo{media: media}
}

// Create attaches the menu image and inserts the row under storeID.
// ErrConflict when the store already has a menu of the same title.
func (r *MenuRepo) Create(ctx context.Context, db *gorm.DB, storeID int64, in MenuCreate) (*domain.Menu, error) {
	var imageURL string
	if in.EncodedPhoto != "" {
		url, err := r.media.AttachPhoto(ctx, in.EncodedPhoto, common.IfEmptyStr(in.Extension, "png"))
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	menu := domain.Menu{
		ID:       common.UUIDint64(),
		Title:    strings.TrimSpace(in.Title),
		ImageURL: imageURL,
		IsActive: in.IsActive == nil || *in.IsActive,
		StoreID:  storeID,
	}
	if err := db.Create(&menu).Error; err != nil {
		return nil, translate(err)
	}
	return &menu, nil
}

func (r *MenuRepo) Get(db *gorm.DB, id int64) (*domain.Menu, error) {
	var menu domain.Menu
	if err := db.Where("id = ?", id).First(&menu).Error; err != nil {
		return nil, translate(err)
	}
	return &menu, nil
}

func (r *MenuRepo) ListByStore(db *gorm.DB, storeID int64, offset, limit int) ([]domain.Menu, error) {
	var menus []domain.Menu
	err := db.Where("store_id = ?", storeID).
		Order("id").Offset(offset).Limit(limit).
		Find(&menus).Error
	return menus, translate(err)
}

func (r *MenuRepo) Update(ctx context.Context, db *gorm.DB, menu *domain.Menu, in MenuUpdate) (*domain.Menu, error) {
	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = strings.TrimSpace(*in.Title)
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
	if err := db.Model(menu).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	return r.Get(db, menu.ID)
}

// Delete removes the menu and its items in one transaction, returning the
// menu's prior state.
func (r *MenuRepo) Delete(db *gorm.DB, menu *domain.Menu) (*domain.Menu, error) {
	prior := *menu
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("menu_id = ?", menu.ID).Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", menu.ID).Delete(&domain.Menu{}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &prior, nil
}
