package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/pkg/common"
)

// StoreCreate is the creation payload for a store.
type StoreCreate struct {
	Name         string `json:"name" form:"name"`
	ContactNo    string `json:"contact_no" form:"contact_no"`
	Address      string `json:"address" form:"address"`
	IsActive     *bool  `json:"is_active" form:"is_active"`
	EncodedPhoto string `json:"encoded_photo" form:"encoded_photo"`
	Extension    string `json:"extension" form:"extension"`
}

// StoreUpdate carries only the fields present in a partial update, nil fields
// never overwrite stored state.
type StoreUpdate struct {
	Name         *string `json:"name"`
	ContactNo    *string `json:"contact_no"`
	Address      *string `json:"address"`
	IsActive     *bool   `json:"is_active"`
	EncodedPhoto *string `json:"encoded_photo"`
	Extension    *string `json:"extension"`
}

type StoreRepo struct {
	media Attacher
}

func NewStoreRepo(media Attacher) *StoreRepo {
	return &StoreRepo{media: media}
}

// Create registers a store under ownerID, mints its public key, uploads the
// logo and the QR code for the canonical public URL. ErrConflict when the
// owner already has a store of the same name.
func (r *StoreRepo) Create(ctx context.Context, db *gorm.DB, ownerID int64, in StoreCreate) (*domain.Store, error) {
	var logoURL string
	if in.EncodedPhoto != "" {
		url, err := r.media.AttachPhoto(ctx, in.EncodedPhoto, common.IfEmptyStr(in.Extension, "png"))
		if err != nil {
			return nil, err
		}
		logoURL = url
	}

	publicKey := uuid.NewString()
	qrCodeURL, err := r.media.AttachStoreQR(ctx, publicKey)
	if err != nil {
		return nil, err
	}

	store := domain.Store{
		ID:        common.UUIDint64(),
		Name:      strings.TrimSpace(in.Name),
		ContactNo: in.ContactNo,
		Address:   in.Address,
		LogoURL:   logoURL,
		QrCodeURL: qrCodeURL,
		PublicKey: publicKey,
		IsActive:  in.IsActive == nil || *in.IsActive,
		OwnerID:   ownerID,
	}
	if err := db.Create(&store).Error; err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

func (r *StoreRepo) Get(db *gorm.DB, id int64) (*domain.Store, error) {
	var store domain.Store
	if err := db.Where("id = ?", id).First(&store).Error; err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

// ListByOwner pages through an owner's stores in primary key order.
func (r *StoreRepo) ListByOwner(db *gorm.DB, ownerID int64, offset, limit int) ([]domain.Store, error) {
	var stores []domain.Store
	err := db.Where("owner_id = ?", ownerID).
		Order("id").Offset(offset).Limit(limit).
		Find(&stores).Error
	return stores, translate(err)
}

// Update merges the non-nil fields of in over store. A new encoded photo is
// attached first so the fresh logo URL lands in the same UPDATE as the rest
// of the merge.
func (r *StoreRepo) Update(ctx context.Context, db *gorm.DB, store *domain.Store, in StoreUpdate) (*domain.Store, error) {
	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = strings.TrimSpace(*in.Name)
	}
	if in.ContactNo != nil {
		updates["contact_no"] = *in.ContactNo
	}
	if in.Address != nil {
		updates["address"] = *in.Address
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
		updates["logo_url"] = url
	}
	updates["updated_at"] = time.Now()
	if err := db.Model(store).Updates(updates).Error; err != nil {
		return nil, translate(err)
	}
	return r.Get(db, store.ID)
}

// Delete removes the store together with its menus and items in one
// transaction and returns the store's prior state.
func (r *StoreRepo) Delete(db *gorm.DB, store *domain.Store) (*domain.Store, error) {
	prior := *store
	err := db.Transaction(func(tx *gorm.DB) error {
		menuIDs := tx.Model(&domain.Menu{}).Select("id").Where("store_id = ?", store.ID)
		if err := tx.Where("menu_id IN (?)", menuIDs).Delete(&domain.Item{}).Error; err != nil {
			return err
		}
		if err := tx.Where("store_id = ?", store.ID).Delete(&domain.Menu{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", store.ID).Delete(&domain.Store{}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &prior, nil
}
