package apiserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/menulink/menulink/internal/catalog"
	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/internal/webserver"
)

// Anonymous browsing keyed by a store's public key. These paths never expose
// owner-restricted fields.

func registerPublicRoutes() {
	webserver.PubGET("/public/stores/:key", publicGetStore)
	webserver.PubGET("/public/stores/:key/menus", publicListMenus)
	webserver.PubGET("/public/stores/:key/items", publicListItems)
	webserver.PubGET("/public/stores/:key/menus/:menu_id/items", publicListMenuItems)
}

func publicGetStore(c echo.Context) error {
	store, err := catalog.ResolvePublicStore(GetDB(c), c.Param("key"))
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, store.PublicView())
}

func publicListMenus(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c)

	store, err := catalog.ResolvePublicStore(db, c.Param("key"))
	if err != nil {
		return failFromErr(c, err)
	}

	var total int64
	if err := db.Model(&domain.Menu{}).Where("store_id = ?", store.ID).Count(&total).Error; err != nil {
		return failFromErr(c, err)
	}
	menus, err := GetApp(c).Menus().ListByStore(db, store.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		return failFromErr(c, err)
	}
	return paged(c, menus, total, page, pageSize)
}

func publicListItems(c echo.Context) error {
	page, pageSize := parsePagination(c)
	db := GetDB(c)

	store, err := catalog.ResolvePublicStore(db, c.Param("key"))
	if err != nil {
		return failFromErr(c, err)
	}

	var total int64
	err = db.Model(&domain.Item{}).
		Joins("JOIN menus ON menus.id = items.menu_id").
		Where("menus.store_id = ?", store.ID).
		Count(&total).Error
	if err != nil {
		return failFromErr(c, err)
	}
	items, err := GetApp(c).Items().ListByStore(db, store.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		return failFromErr(c, err)
	}
	return paged(c, items, total, page, pageSize)
}

func publicListMenuItems(c echo.Context) error {
	menuID, err := parseIDParam(c, "menu_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu ID", nil)
	}
	page, pageSize := parsePagination(c)
	db := GetDB(c)

	store, err := catalog.ResolvePublicStore(db, c.Param("key"))
	if err != nil {
		return failFromErr(c, err)
	}

	// the menu must nest under the addressed store
	var menu domain.Menu
	if err := db.Where("id = ? AND store_id = ?", menuID, store.ID).First(&menu).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	}

	var total int64
	if err := db.Model(&domain.Item{}).Where("menu_id = ?", menu.ID).Count(&total).Error; err != nil {
		return failFromErr(c, err)
	}
	items, err := GetApp(c).Items().ListByMenu(db, menu.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		return failFromErr(c, err)
	}
	return paged(c, items, total, page, pageSize)
}
