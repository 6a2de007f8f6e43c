package apiserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/menulink/menulink/config"
	"github.com/menulink/menulink/internal/app"
	"github.com/menulink/menulink/internal/auth"
	"github.com/menulink/menulink/internal/domain"
	"github.com/menulink/menulink/internal/media"
	"github.com/menulink/menulink/internal/webserver"
)

// memUploader keeps uploaded objects in memory so the full media pipeline
// (base64 validation included) runs during API tests.
type memUploader struct {
	objects map[string][]byte
	fail    bool
}

func (u *memUploader) Upload(_ context.Context, path, key, _ string) (string, error) {
	if u.fail {
		return "", media.ErrStorageUnavailable
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	u.objects[key] = data
	return "https://cdn.test/" + key, nil
}

type testServer struct {
	echo     *echo.Echo
	app      *app.Application
	uploader *memUploader
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))

	cfg := config.LoadConfig("")
	cfg.Mail.Enabled = false
	cfg.Web.Secret = "test-secret"

	uploader := &memUploader{objects: map[string][]byte{}}
	pipeline := media.NewPipeline(t.TempDir(), cfg.Web.BaseURL, uploader)

	application := app.NewApplication(cfg)
	application.InitComponents(db, pipeline)

	ws := webserver.Init(application)
	Init()
	return &testServer{echo: ws.Echo(), app: application, uploader: uploader}
}

func (s *testServer) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, email, password string) {
	t.Helper()
	rec := s.do(http.MethodPost, "/user/register", "", echo.Map{"email": email, "password": password})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := s.do(http.MethodPost, "/user/login", "", echo.Map{"email": email, "password": password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestEndToEndCatalogFlow(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "passw0rd")
	tokenA := s.login(t, "a@x.com", "passw0rd")

	// owner A builds a full chain
	rec := s.do(http.MethodPost, "/api/stores", tokenA,
		echo.Map{"name": "Cafe", "contact_no": "555", "address": "Main st"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var store domain.Store
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &store))
	require.NotEmpty(t, store.PublicKey)
	require.NotEmpty(t, store.QrCodeURL)

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/stores/%d/menus", store.ID), tokenA,
		echo.Map{"title": "Lunch"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var menu domain.Menu
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &menu))

	rec = s.do(http.MethodPost, fmt.Sprintf("/api/stores/%d/menus/%d/items", store.ID, menu.ID), tokenA,
		echo.Map{"title": "soup", "description": "hot", "price": 4.5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var item domain.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "Soup", item.Title)

	// anonymous listing by public key sees exactly one item
	rec = s.do(http.MethodGet, "/public/stores/"+store.PublicKey+"/items", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var listing struct {
		Data  []domain.Item `json:"data"`
		Total int64         `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Data, 1)
	assert.Equal(t, "Soup", listing.Data[0].Title)
	assert.Equal(t, 4.5, listing.Data[0].Price)

	// user B guessing A's ids gets a uniform not-found
	s.register(t, "b@x.com", "passw0rd")
	tokenB := s.login(t, "b@x.com", "passw0rd")

	path := fmt.Sprintf("/api/stores/%d/menus/%d/items/%d", store.ID, menu.ID, item.ID)
	rec = s.do(http.MethodPut, path, tokenB, echo.Map{"price": 0.01})
	assert.Equal(t, http.StatusNotFound, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, fmt.Sprintf("/api/stores/%d", store.ID), tokenB, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A's price is untouched by B's attempt
	rec = s.do(http.MethodGet, path, tokenA, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, 4.5, item.Price)
}

func TestDuplicateRegistrationConflicts(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "passw0rd")
	rec := s.do(http.MethodPost, "/user/register", "", echo.Map{"email": "a@x.com", "password": "other"})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestDuplicateStoreNameConflicts(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "passw0rd")
	token := s.login(t, "a@x.com", "passw0rd")

	rec := s.do(http.MethodPost, "/api/stores", token, echo.Map{"name": "Cafe"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(http.MethodPost, "/api/stores", token, echo.Map{"name": "Cafe"})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
}

func TestOwnerRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/api/stores", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/api/user/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestExpiredTokenRejected(t *testing.T) {
	s := newTestServer(t)
	s.register(t, "a@x.com", "passw0rd")

	// well-signed but already expired
	claims := auth.Claims{
		Email:  "a@x.com",
		UserID: 1,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	rec := s.do(http.MethodGet, "/api/stores", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPublicStoreHidesOwner(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "passw0rd")
	token := s.login(t, "a@x.com", "passw0rd")

	rec := s.do(http.MethodPost, "/api/stores", token, echo.Map{"name": "Cafe"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var store domain.Store
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &store))

	rec = s.do(http.MethodGet, "/public/stores/"+store.PublicKey, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "owner_id")

	rec = s.do(http.MethodGet, "/public/stores/unknown-key", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPartialUpdateThroughAPI(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "passw0rd")
	token := s.login(t, "a@x.com", "passw0rd")

	rec := s.do(http.MethodPost, "/api/stores", token,
		echo.Map{"name": "Cafe", "contact_no": "555", "address": "Main st"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var store domain.Store
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &store))

	rec = s.do(http.MethodPut, fmt.Sprintf("/api/stores/%d", store.ID), token,
		echo.Map{"address": "Side st"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated domain.Store
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))

	assert.Equal(t, "Side st", updated.Address)
	assert.Equal(t, "Cafe", updated.Name)
	assert.Equal(t, "555", updated.ContactNo)
	assert.Equal(t, store.PublicKey, updated.PublicKey)
}

func TestBadPhotoEncodingRejected(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "passw0rd")
	token := s.login(t, "a@x.com", "passw0rd")

	rec := s.do(http.MethodPost, "/api/stores", token,
		echo.Map{"name": "Cafe", "encoded_photo": "%%% not base64 %%%", "extension": "png"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	// nothing was persisted
	rec = s.do(http.MethodGet, "/api/stores", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Total int64 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Zero(t, listing.Total)
}

func TestStorageOutageSurfacesUpstreamError(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "passw0rd")
	token := s.login(t, "a@x.com", "passw0rd")

	s.uploader.fail = true
	rec := s.do(http.MethodPost, "/api/stores", token, echo.Map{"name": "Cafe"})
	assert.Equal(t, http.StatusBadGateway, rec.Code, rec.Body.String())
}

func TestPasswordResetFlow(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "oldpass")

	// forgot-password responds uniformly whether or not the email exists
	rec := s.do(http.MethodPost, "/user/password/forgot", "", echo.Map{"email": "a@x.com"})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(http.MethodPost, "/user/password/forgot", "", echo.Map{"email": "ghost@x.com"})
	assert.Equal(t, http.StatusOK, rec.Code)

	resetToken, err := s.app.Credentials().IssueResetToken("a@x.com")
	require.NoError(t, err)

	rec = s.do(http.MethodPatch, "/user/password/reset", "",
		echo.Map{"token": resetToken, "password": "newpass"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// old password no longer works, new one does
	rec = s.do(http.MethodPost, "/user/login", "", echo.Map{"email": "a@x.com", "password": "oldpass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	s.login(t, "a@x.com", "newpass")

	// an access token is not accepted as a reset token
	access := s.login(t, "a@x.com", "newpass")
	rec = s.do(http.MethodPatch, "/user/password/reset", "",
		echo.Map{"token": access, "password": "another"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestQrCodeUploadedAtStoreCreation(t *testing.T) {
	s := newTestServer(t)

	s.register(t, "a@x.com", "passw0rd")
	token := s.login(t, "a@x.com", "passw0rd")

	rec := s.do(http.MethodPost, "/api/stores", token, echo.Map{"name": "Cafe"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var store domain.Store
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &store))

	assert.Equal(t, "https://cdn.test/"+store.PublicKey+".png", store.QrCodeURL)
	data, okUpload := s.uploader.objects[store.PublicKey+".png"]
	require.True(t, okUpload)
	// the stored artifact is a PNG image
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}
