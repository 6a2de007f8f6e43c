package webserver

import (
	"fmt"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/menulink/menulink/internal/app"
	"github.com/menulink/menulink/internal/auth"
)

const (
	// ContextAppKey carries the application container in the echo context.
	ContextAppKey = "menulink_app"
	// ContextDBKey carries the request-scoped database session.
	ContextDBKey = "menulink_db"
)

type WebServer struct {
	root   *echo.Echo
	appctx *app.Application
	pubG   *echo.Group
	apiG   *echo.Group
}

var server *WebServer

// Init builds the package server instance route registration helpers attach
// to.
func Init(application *app.Application) *WebServer {
	server = NewWebServer(application)
	return server
}

func NewWebServer(application *app.Application) *WebServer {
	s := &WebServer{appctx: application, root: echo.New()}
	s.root.HideBanner = true
	s.root.HidePort = true
	s.root.JSONSerializer = &JsoniterJSONSerializer{}
	s.root.Use(middleware.Recover())

	// Every request gets the app container plus a request-scoped database
	// session, released with the request on every exit path.
	s.root.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextAppKey, application)
			c.Set(ContextDBKey, application.DB().
				Session(&gorm.Session{NewDB: true}).
				WithContext(c.Request().Context()))
			return next(c)
		}
	})

	s.pubG = s.root.Group("")
	s.apiG = s.root.Group("/api", echojwt.WithConfig(echojwt.Config{
		SigningKey: application.Credentials().Secret(),
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"code":    "UNAUTHENTICATED",
				"message": "could not validate credentials",
			})
		},
	}))
	return s
}

// Echo exposes the underlying router (used in tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func (s *WebServer) Start() error {
	cfg := s.appctx.Config().Web
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	zap.S().Infof("starting web server on %s", addr)
	return s.root.Start(addr)
}

// Owner-scoped routes, bearer token required.

func ApiGET(path string, h echo.HandlerFunc) {
	server.apiG.GET(path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.apiG.POST(path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.apiG.PUT(path, h)
}

func ApiPATCH(path string, h echo.HandlerFunc) {
	server.apiG.PATCH(path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.apiG.DELETE(path, h)
}

// Public routes, no authentication.

func PubGET(path string, h echo.HandlerFunc) {
	server.pubG.GET(path, h)
}

func PubPOST(path string, h echo.HandlerFunc) {
	server.pubG.POST(path, h)
}

func PubPATCH(path string, h echo.HandlerFunc) {
	server.pubG.PATCH(path, h)
}
