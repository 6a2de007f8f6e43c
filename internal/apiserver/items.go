package apiserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/menulink/menulink/internal/catalog"
	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/internal/webserver"
)

func registerItemRoutes() {
	webserver.ApiPOST("/stores/:store_id/menus/:menu_id/items", createItem)
	webserver.ApiGET("/stores/:store_id/menus/:menu_id/items", listItems)
	webserver.ApiGET("/stores/:store_id/menus/:menu_id/items/:item_id", getItem)
	webserver.ApiPUT("/stores/:store_id/menus/:menu_id/items/:item_id", updateItem)
	webserver.ApiDELETE("/stores/:store_id/menus/:menu_id/items/:item_id", deleteItem)
}

// itemPath parses the nested ids of an item route.
func itemPath(c echo.Context) (storeID, menuID int64, err error) {
	storeID, err = parseIDParam(c, "store_id")
	if err != nil {
		return 0, 0, err
	}
	menuID, err = parseIDParam(c, "menu_id")
	return storeID, menuID, err
}

func createItem(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, menuID, err := itemPath(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid resource ID", nil)
	}
	var payload catalog.ItemCreate
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item parameters", nil)
	}
	if strings.TrimSpace(payload.Title) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_TITLE", "Item title is required", nil)
	}

	db := GetDB(c)
	menu, err := catalog.ResolveOwnerMenu(db, ident.ID, storeID, menuID)
	if err != nil {
		return failFromErr(c, err)
	}
	// owner id is denormalized from the verified chain, never from input
	item, err := GetApp(c).Items().Create(c.Request().Context(), db, menu.ID, ident.ID, payload)
	if err != nil {
		return failFromErr(c, err)
	}
	return created(c, item)
}

func listItems(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, menuID, err := itemPath(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid resource ID", nil)
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c)
	menu, err := catalog.ResolveOwnerMenu(db, ident.ID, storeID, menuID)
	if err != nil {
		return failFromErr(c, err)
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

func getItem(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, menuID, err := itemPath(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid resource ID", nil)
	}
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	item, err := catalog.ResolveOwnerItem(GetDB(c), ident.ID, storeID, menuID, itemID)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, item)
}

func updateItem(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, menuID, err := itemPath(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid resource ID", nil)
	}
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}
	var payload catalog.ItemUpdate
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse item parameters", nil)
	}

	db := GetDB(c)
	item, err := catalog.ResolveOwnerItem(db, ident.ID, storeID, menuID, itemID)
	if err != nil {
		return failFromErr(c, err)
	}
	item, err = GetApp(c).Items().Update(c.Request().Context(), db, item, payload)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, item)
}

func deleteItem(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, menuID, err := itemPath(c)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid resource ID", nil)
	}
	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid item ID", nil)
	}

	db := GetDB(c)
	item, err := catalog.ResolveOwnerItem(db, ident.ID, storeID, menuID, itemID)
	if err != nil {
		return failFromErr(c, err)
	}
	prior, err := GetApp(c).Items().Delete(db, item)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, prior)
}
