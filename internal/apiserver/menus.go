package apiserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/menulink/menulink/internal/catalog"
	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/internal/webserver"
)

func registerMenuRoutes() {
	webserver.ApiPOST("/stores/:store_id/menus", createMenu)
	webserver.ApiGET("/stores/:store_id/menus", listMenus)
	webserver.ApiGET("/stores/:store_id/menus/:menu_id", getMenu)
	webserver.ApiPUT("/stores/:store_id/menus/:menu_id", updateMenu)
	webserver.ApiDELETE("/stores/:store_id/menus/:menu_id", deleteMenu)
}

func createMenu(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store ID", nil)
	}
	var payload catalog.MenuCreate
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse menu parameters", nil)
	}
	if strings.TrimSpace(payload.Title) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_TITLE", "Menu title is required", nil)
	}

	db := GetDB(c)
	store, err := catalog.ResolveOwnerStore(db, ident.ID, storeID)
	if err != nil {
		return failFromErr(c, err)
	}
	menu, err := GetApp(c).Menus().Create(c.Request().Context(), db, store.ID, payload)
	if err != nil {
		return failFromErr(c, err)
	}
	return created(c, menu)
}

func listMenus(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store ID", nil)
	}
	page, pageSize := parsePagination(c)

	db := GetDB(c)
	store, err := catalog.ResolveOwnerStore(db, ident.ID, storeID)
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

func getMenu(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store ID", nil)
	}
	menuID, err := parseIDParam(c, "menu_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu ID", nil)
	}
	menu, err := catalog.ResolveOwnerMenu(GetDB(c), ident.ID, storeID, menuID)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, menu)
}

func updateMenu(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store ID", nil)
	}
	menuID, err := parseIDParam(c, "menu_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu ID", nil)
	}
	var payload catalog.MenuUpdate
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse menu parameters", nil)
	}

	db := GetDB(c)
	menu, err := catalog.ResolveOwnerMenu(db, ident.ID, storeID, menuID)
	if err != nil {
		return failFromErr(c, err)
	}
	menu, err = GetApp(c).Menus().Update(c.Request().Context(), db, menu, payload)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, menu)
}

func deleteMenu(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store ID", nil)
	}
	menuID, err := parseIDParam(c, "menu_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid menu ID", nil)
	}

	db := GetDB(c)
	menu, err := catalog.ResolveOwnerMenu(db, ident.ID, storeID, menuID)
	if err != nil {
		return failFromErr(c, err)
	}
	prior, err := GetApp(c).Menus().Delete(db, menu)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, prior)
}
