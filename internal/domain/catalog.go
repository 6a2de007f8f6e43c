package domain

import "time"

// User is the root of the ownership chain. Deletion is not exposed.
type User struct {
	ID        int64     `json:"id,string" form:"id"`
	Email     string    `gorm:"uniqueIndex;size:200" json:"email" form:"email"`
	Password  string    `json:"-" form:"-"`
	IsActive  bool      `gorm:"default:true" json:"is_active" form:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Store belongs to one owner. PublicKey is the opaque identifier used for
// anonymous browsing; (name, owner_id) is unique per owner.
type Store struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"size:200;uniqueIndex:idx_store_name_owner" json:"name" form:"name"`
	ContactNo string    `gorm:"size:64" json:"contact_no" form:"contact_no"`
	Address   string    `gorm:"size:500" json:"address" form:"address"`
	LogoURL   string    `gorm:"size:1024" json:"logo_url"`
	QrCodeURL string    `gorm:"size:1024" json:"qr_code_url"`
	PublicKey string    `gorm:"uniqueIndex;size:64" json:"public_key"`
	IsActive  bool      `gorm:"default:true" json:"is_active" form:"is_active"`
	OwnerID   int64     `gorm:"index;uniqueIndex:idx_store_name_owner" json:"owner_id,string"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}

// Menu belongs to one store; (title, store_id) is unique per store.
type Menu struct {
	ID        int64     `json:"id,string" form:"id"`
	Title     string    `gorm:"size:200;uniqueIndex:idx_menu_title_store" json:"title" form:"title"`
	ImageURL  string    `gorm:"size:1024" json:"image_url"`
	IsActive  bool      `gorm:"default:true" json:"is_active" form:"is_active"`
	StoreID   int64     `gorm:"index;uniqueIndex:idx_menu_title_store" json:"store_id,string"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Menu) TableName() string {
	return "menus"
}

// Item belongs to one menu; (title, menu_id) is unique per menu. OwnerID is a
// denormalized copy of the store owner written at creation time, the invariant
// Item.OwnerID == store.OwnerID holds for the item's menu.store.
type Item struct {
	ID          int64     `json:"id,string" form:"id"`
	Title       string    `gorm:"size:200;uniqueIndex:idx_item_title_menu" json:"title" form:"title"`
	Description string    `gorm:"size:1000" json:"description" form:"description"`
	Price       float64   `json:"price" form:"price"`
	ImageURL    string    `gorm:"size:1024" json:"image_url"`
	IsActive    bool      `gorm:"default:true" json:"is_active" form:"is_active"`
	MenuID      int64     `gorm:"index;uniqueIndex:idx_item_title_menu" json:"menu_id,string"`
	OwnerID     int64     `gorm:"index" json:"owner_id,string"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Item) TableName() string {
	return "items"
}

// PublicStore is the anonymous view of a store, owner-restricted fields are
// never serialized on public paths.
type PublicStore struct {
	Name      string `json:"name"`
	ContactNo string `json:"contact_no"`
	Address   string `json:"address"`
	LogoURL   string `json:"logo_url"`
	QrCodeURL string `json:"qr_code_url"`
	PublicKey string `json:"public_key"`
	IsActive  bool   `json:"is_active"`
}

// PublicView strips owner-restricted fields from a store row.
func (s *Store) PublicView() PublicStore {
	return PublicStore{
		Name:      s.Name,
		ContactNo: s.ContactNo,
		Address:   s.Address,
		LogoURL:   s.LogoURL,
		QrCodeURL: s.QrCodeURL,
		PublicKey: s.PublicKey,
		IsActive:  s.IsActive,
	}
}
