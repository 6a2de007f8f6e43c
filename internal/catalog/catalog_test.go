package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/menulink/menulink/internal/domain"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

// fakeAttacher hands out deterministic URLs without touching object storage.
type fakeAttacher struct {
	photos int
}

func (f *fakeAttacher) AttachPhoto(_ context.Context, _, ext string) (string, error) {
	f.photos++
	return fmt.Sprintf("https://cdn.test/photo-%d.%s", f.photos, ext), nil
}

func (f *fakeAttacher) AttachStoreQR(_ context.Context, publicKey string) (string, error) {
	return "https://cdn.test/qr-" + publicKey + ".png", nil
}

type testRepos struct {
	users  *UserRepo
	stores *StoreRepo
	menus  *MenuRepo
	items  *ItemRepo
}

func newTestRepos() testRepos {
	att := &fakeAttacher{}
	return testRepos{
		users:  NewUserRepo(),
		stores: NewStoreRepo(att),
		menus:  NewMenuRepo(att),
		items:  NewItemRepo(att),
	}
}

// seedChain creates owner -> store -> menu -> item and returns the rows.
func seedChain(t *testing.T, db *gorm.DB, r testRepos, email, storeName string) (*domain.User, *domain.Store, *domain.Menu, *domain.Item) {
	t.Helper()
	ctx := context.Background()

	user, err := r.users.Create(db, email, "hash")
	require.NoError(t, err)
	store, err := r.stores.Create(ctx, db, user.ID, StoreCreate{Name: storeName, ContactNo: "123", Address: "Main st"})
	require.NoError(t, err)
	menu, err := r.menus.Create(ctx, db, store.ID, MenuCreate{Title: "Lunch"})
	require.NoError(t, err)
	item, err := r.items.Create(ctx, db, menu.ID, user.ID, ItemCreate{Title: "soup", Description: "of the day", Price: 4.5})
	require.NoError(t, err)
	return user, store, menu, item
}
