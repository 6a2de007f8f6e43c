package apiserver

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/menulink/menulink/internal/app"
	"github.com/menulink/menulink/internal/auth"
	"github.com/menulink/menulink/internal/catalog"
	"github.com/menulink/menulink/internal/media"
	"github.com/menulink/menulink/internal/webserver"
)

// Init registers every API route on the current webserver instance.
func Init() {
	registerUserRoutes()
	registerStoreRoutes()
	registerMenuRoutes()
	registerItemRoutes()
	registerPublicRoutes()
}

// GetDB returns the request-scoped database session.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.ContextDBKey).(*gorm.DB)
}

// GetApp returns the application container.
func GetApp(c echo.Context) *app.Application {
	return c.Get(webserver.ContextAppKey).(*app.Application)
}

// currentIdentity extracts the verified caller identity from the bearer
// token. Fails closed, a token without full identity claims is rejected.
func currentIdentity(c echo.Context) (auth.Identity, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.Purpose != "" || claims.Email == "" || claims.UserID == 0 {
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	return auth.Identity{ID: claims.UserID, Email: claims.Email}, nil
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// parsePagination reads page/page_size query params, defaults and caps come
// from system settings.
func parsePagination(c echo.Context) (page, pageSize int) {
	application := GetApp(c)
	defSize := int(application.GetSettingsInt64Value("system", "page_size_default"))
	if defSize <= 0 {
		defSize = 100
	}
	maxSize := int(application.GetSettingsInt64Value("system", "page_size_max"))
	if maxSize <= 0 {
		maxSize = 500
	}

	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = defSize
	}
	if pageSize > maxSize {
		pageSize = maxSize
	}
	return page, pageSize
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"data":      data,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, echo.Map{
		"code":    code,
		"message": message,
		"detail":  detail,
	})
}

// failFromErr maps the component error taxonomy onto HTTP responses.
func failFromErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		return fail(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Could not validate credentials", nil)
	case errors.Is(err, catalog.ErrNotFound):
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case errors.Is(err, catalog.ErrConflict):
		return fail(c, http.StatusConflict, "ALREADY_EXISTS", "Resource already exists", nil)
	case errors.Is(err, media.ErrBadEncoding):
		return fail(c, http.StatusBadRequest, "INVALID_PHOTO", "Invalid photo encoding", nil)
	case errors.Is(err, media.ErrStorageUnavailable):
		return fail(c, http.StatusBadGateway, "STORAGE_UNAVAILABLE", "Object storage is not available at the moment", nil)
	default:
		zap.L().Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
	}
}
