package services_test

import (
	"testing"

	"curio/internal/services"

	"github.com/stretchr/testify/assert"
)

func setupShareFixture(t *testing.T) (*services.ShareService, *services.CollectionService, *services.ItemService, string, string) {
	t.Helper()
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	shareSvc := services.NewShareService(store)
	user := mustCreateUser(t, store, "alice")
	collection := mustCreateCollection(t, collectionSvc, user.ID, "Coins")
	return shareSvc, collectionSvc, itemSvc, user.ID, collection.ID
}

func TestShareLifecycle(t *testing.T) {
	shareSvc, _, _, userID, collectionID := setupShareFixture(t)

	// Enable mints a token.
	share, err := shareSvc.CreateOrEnable(userID, collectionID, false)
	assert.NoError(t, err)
	assert.True(t, share.IsEnabled)
	assert.NotEmpty(t, share.Token)
	token := share.Token

	resolved, err := shareSvc.Resolve(token)
	assert.NoError(t, err)
	assert.Equal(t, collectionID, resolved.ID)

	// Disable: the token stops resolving but survives.
	assert.NoError(t, shareSvc.Disable(userID, collectionID))
	_, err = shareSvc.Resolve(token)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Disabling again is idempotent.
	assert.NoError(t, shareSvc.Disable(userID, collectionID))

	// Re-enable without rotation restores the same link.
	share, err = shareSvc.CreateOrEnable(userID, collectionID, false)
	assert.NoError(t, err)
	assert.Equal(t, token, share.Token)
	_, err = shareSvc.Resolve(token)
	assert.NoError(t, err)
}

func TestShareRotateInvalidatesOldToken(t *testing.T) {
	shareSvc, _, _, userID, collectionID := setupShareFixture(t)

	share, err := shareSvc.CreateOrEnable(userID, collectionID, false)
	assert.NoError(t, err)
	oldToken := share.Token

	rotated, err := shareSvc.CreateOrEnable(userID, collectionID, true)
	assert.NoError(t, err)
	assert.True(t, rotated.IsEnabled)
	assert.NotEqual(t, oldToken, rotated.Token)

	_, err = shareSvc.Resolve(oldToken)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = shareSvc.Resolve(rotated.Token)
	assert.NoError(t, err)
}

func TestShareEnableWhileEnabledKeepsToken(t *testing.T) {
	shareSvc, _, _, userID, collectionID := setupShareFixture(t)

	first, err := shareSvc.CreateOrEnable(userID, collectionID, false)
	assert.NoError(t, err)
	second, err := shareSvc.CreateOrEnable(userID, collectionID, false)
	assert.NoError(t, err)
	assert.Equal(t, first.Token, second.Token)
}

func TestShareDisableWithoutShareIsNotFound(t *testing.T) {
	shareSvc, _, _, userID, collectionID := setupShareFixture(t)

	assert.ErrorIs(t, shareSvc.Disable(userID, collectionID), services.ErrNotFound)
}

func TestShareManagementRequiresOwnership(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	shareSvc := services.NewShareService(store)
	alice := mustCreateUser(t, store, "alice")
	mallory := mustCreateUser(t, store, "mallory")
	collection := mustCreateCollection(t, collectionSvc, alice.ID, "Coins")

	_, err := shareSvc.CreateOrEnable(mallory.ID, collection.ID, false)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, shareSvc.Disable(mallory.ID, collection.ID), services.ErrNotFound)
}

func TestShareResolveItemScopedToSharedCollection(t *testing.T) {
	shareSvc, collectionSvc, itemSvc, userID, collectionID := setupShareFixture(t)

	shared := mustCreateItem(t, itemSvc, userID, collectionID, "Shared")
	other := mustCreateCollection(t, collectionSvc, userID, "Other")
	outside := mustCreateItem(t, itemSvc, userID, other.ID, "Outside")

	share, err := shareSvc.CreateOrEnable(userID, collectionID, false)
	assert.NoError(t, err)

	item, err := shareSvc.ResolveItem(share.Token, shared.ID)
	assert.NoError(t, err)
	assert.Equal(t, shared.ID, item.ID)

	// An item that exists but lives outside the shared collection does not
	// resolve through the token.
	_, err = shareSvc.ResolveItem(share.Token, outside.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestShareResolveUnknownToken(t *testing.T) {
	shareSvc, _, _, _, _ := setupShareFixture(t)

	_, err := shareSvc.Resolve("no-such-token")
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = shareSvc.ResolveItem("no-such-token", "whatever")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
