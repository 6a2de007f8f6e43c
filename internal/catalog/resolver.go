package catalog

import (
	"gorm.io/gorm"

	"github.com/menulink/menulink/internal/domain"
)

// Ownership resolution. A leaf resource resolves only when every ancestor in
// the request path belongs to the caller and every id nests under its parent.
// Any break in the chain yields ErrNotFound, the API never distinguishes
// "exists but not yours" from "does not exist".

// ResolveOwnerStore returns the store only if it belongs to ownerID.
func ResolveOwnerStore(db *gorm.DB, ownerID, storeID int64) (*domain.Store, error) {
	var store domain.Store
	err := db.Where("id = ? AND owner_id = ?", storeID, ownerID).First(&store).Error
	if err != nil {
		return nil, translate(err)
	}
	return &store, nil
}

// ResolveOwnerMenu walks owner -> store -> menu, checking that the menu
// actually nests under storeID.
func ResolveOwnerMenu(db *gorm.DB, ownerID, storeID, menuID int64) (*domain.Menu, error) {
	if _, err := ResolveOwnerStore(db, ownerID, storeID); err != nil {
		return nil, err
	}
	var menu domain.Menu
	err := db.Where("id = ? AND store_id = ?", menuID, storeID).First(&menu).Error
	if err != nil {
		return nil, translate(err)
	}
	return &menu, nil
}

// ResolveOwnerItem walks the full chain owner -> store -> menu -> item.
func ResolveOwnerItem(db *gorm.DB, ownerID, storeID, menuID, itemID int64) (*domain.Item, error) {
	if _, err := ResolveOwnerMenu(db, ownerID, storeID, menuID); err != nil {
		return nil, err
	}
	var item domain.Item
	err := db.Where("id = ? AND menu_id = ?", itemID, menuID).First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// ResolvePublicStore is the anonymous resolution path keyed by the store's
// public key.
func ResolvePublicStore(db *gorm.DB, publicKey string) (*domain.Store, error) {
	var store domain.Store
	err := db.Where("public_key = ?", publicKey).First(&store).Error
	if err != nil {
		return nil, translate(err)
	}
	return &store, nil
}
