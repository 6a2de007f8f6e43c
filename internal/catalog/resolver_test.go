package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOwnChain(t *testing.T) {
	db := testDB(t)
	r := newTestRepos()

	user, store, menu, item := seedChain(t, db, r, "o1@x.com", "Cafe")

	got, err := ResolveOwnerStore(db, user.ID, store.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ID, got.ID)

	gotMenu, err := ResolveOwnerMenu(db, user.ID, store.ID, menu.ID)
	require.NoError(t, err)
	assert.Equal(t, menu.ID, gotMenu.ID)

	gotItem, err := ResolveOwnerItem(db, user.ID, store.ID, menu.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.ID, gotItem.ID)
}

func TestCrossOwnerAccessIsNotFound(t *testing.T) {
	db := testDB(t)
	r := newTestRepos()

	_, store1, menu1, item1 := seedChain(t, db, r, "o1@x.com", "Cafe")
	user2, _, _, _ := seedChain(t, db, r, "o2@x.com", "Diner")

	// every level of o1's chain is invisible to o2
	_, err := ResolveOwnerStore(db, user2.ID, store1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ResolveOwnerMenu(db, user2.ID, store1.ID, menu1.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = ResolveOwnerItem(db, user2.ID, store1.ID, menu1.ID, item1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNonNestingIDsAreNotFound(t *testing.T) {
	db := testDB(t)
	r := newTestRepos()
	ctx := context.Background()

	user, store, menu, item := seedChain(t, db, r, "o1@x.com", "Cafe")

	// a second store of the same owner, with its own menu
	other, err := r.stores.Create(ctx, db, user.ID, StoreCreate{Name: "Bistro"})
	require.NoError(t, err)
	otherMenu, err := r.menus.Create(ctx, db, other.ID, MenuCreate{Title: "Dinner"})
	require.NoError(t, err)

	// menu addressed through the wrong store does not resolve, even though
	// both belong to the same owner
	_, err = ResolveOwnerMenu(db, user.ID, other.ID, menu.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// item addressed through a menu it does not nest under
	_, err = ResolveOwnerItem(db, user.ID, other.ID, otherMenu.ID, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// correct nesting still resolves
	_, err = ResolveOwnerItem(db, user.ID, store.ID, menu.ID, item.ID)
	assert.NoError(t, err)
}

func TestUnknownIDsAreNotFound(t *testing.T) {
	db := testDB(t)
	r := newTestRepos()

	user, store, menu, _ := seedChain(t, db, r, "o1@x.com", "Cafe")

	_, err := ResolveOwnerStore(db, user.ID, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ResolveOwnerMenu(db, user.ID, store.ID, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = ResolveOwnerItem(db, user.ID, store.ID, menu.ID, 424242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolvePublicStore(t *testing.T) {
	db := testDB(t)
	r := newTestRepos()

	_, store, _, _ := seedChain(t, db, r, "o1@x.com", "Cafe")

	got, err := ResolvePublicStore(db, store.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, store.ID, got.ID)

	_, err = ResolvePublicStore(db, "no-such-key")
	assert.ErrorIs(t, err, ErrNotFound)
}
