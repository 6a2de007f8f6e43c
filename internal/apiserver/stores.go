package apiserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/menulink/menulink/internal/catalog"
	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/internal/webserver"
)

func registerStoreRoutes() {
	webserver.ApiPOST("/stores", createStore)
	webserver.ApiGET("/stores", listStores)
	webserver.ApiGET("/stores/:store_id", getStore)
	webserver.ApiPUT("/stores/:store_id", updateStore)
	webserver.ApiDELETE("/stores/:store_id", deleteStore)
}

func createStore(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	var payload catalog.StoreCreate
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse store parameters", nil)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Store name is required", nil)
	}

	store, err := GetApp(c).Stores().Create(c.Request().Context(), GetDB(c), ident.ID, payload)
	if err != nil {
		return failFromErr(c, err)
	}
	return created(c, store)
}

func listStores(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	page, pageSize := parsePagination(c)
	db := GetDB(c)

	var total int64
	if err := db.Model(&domain.Store{}).Where("owner_id = ?", ident.ID).Count(&total).Error; err != nil {
		return failFromErr(c, err)
	}
	stores, err := GetApp(c).Stores().ListByOwner(db, ident.ID, (page-1)*pageSize, pageSize)
	if err != nil {
		return failFromErr(c, err)
	}
	return paged(c, stores, total, page, pageSize)
}

func getStore(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store ID", nil)
	}
	store, err := catalog.ResolveOwnerStore(GetDB(c), ident.ID, storeID)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, store)
}

func updateStore(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store ID", nil)
	}
	var payload catalog.StoreUpdate
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse store parameters", nil)
	}

	db := GetDB(c)
	store, err := catalog.ResolveOwnerStore(db, ident.ID, storeID)
	if err != nil {
		return failFromErr(c, err)
	}
	store, err = GetApp(c).Stores().Update(c.Request().Context(), db, store, payload)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, store)
}

func deleteStore(c echo.Context) error {
	ident, err := currentIdentity(c)
	if err != nil {
		return failFromErr(c, err)
	}
	storeID, err := parseIDParam(c, "store_id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid store ID", nil)
	}

	db := GetDB(c)
	store, err := catalog.ResolveOwnerStore(db, ident.ID, storeID)
	if err != nil {
		return failFromErr(c, err)
	}
	prior, err := GetApp(c).Stores().Delete(db, store)
	if err != nil {
		return failFromErr(c, err)
	}
	return ok(c, prior)
}
