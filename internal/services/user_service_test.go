package services_test

import (
	"testing"

	"curio/internal/services"
	"curio/pkg/imaging"

	"github.com/stretchr/testify/assert"
)

func TestUpdateUsername(t *testing.T) {
	store := setupStore(t)
	svc := services.NewUserService(store, setupFiles(t))
	user := mustCreateUser(t, store, "alice")

	updated, err := svc.UpdateUsername(user.ID, "alice2", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "alice2", updated.Username)

	reloaded, err := store.Users().GetByID(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, "alice2", reloaded.Username)
}

func TestUpdateUsernameWrongPassword(t *testing.T) {
	store := setupStore(t)
	svc := services.NewUserService(store, setupFiles(t))
	user := mustCreateUser(t, store, "alice")

	_, err := svc.UpdateUsername(user.ID, "alice2", "wrong")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)
}

func TestUpdateUsernameTaken(t *testing.T) {
	store := setupStore(t)
	svc := services.NewUserService(store, setupFiles(t))
	alice := mustCreateUser(t, store, "alice")
	mustCreateUser(t, store, "bob")

	_, err := svc.UpdateUsername(alice.ID, "bob", "password123")
	assert.ErrorIs(t, err, services.ErrConflict)

	// Keeping your own name is not a conflict.
	updated, err := svc.UpdateUsername(alice.ID, "alice", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "alice", updated.Username)
}

func TestDeleteAccountCascades(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	userSvc := services.NewUserService(store, files)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	imageSvc := services.NewImageService(store, files, imaging.NewProcessor(1<<20))
	shareSvc := services.NewShareService(store)

	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")

	collection := mustCreateCollection(t, collectionSvc, alice.ID, "Coins")
	item := mustCreateItem(t, itemSvc, alice.ID, collection.ID, "Denarius")
	_, err := itemSvc.AddTags(alice.ID, item.ID, []string{"roman"})
	assert.NoError(t, err)
	_, err = imageSvc.Upload(alice.ID, item.ID, []imaging.File{pngFile(t, "a.png")})
	assert.NoError(t, err)
	share, err := shareSvc.CreateOrEnable(alice.ID, collection.ID, false)
	assert.NoError(t, err)

	// Bob's data must survive Alice's deletion.
	bobCollection := mustCreateCollection(t, collectionSvc, bob.ID, "Stamps")

	assert.NoError(t, userSvc.DeleteAccount(alice.ID, "password123"))

	_, err = store.Users().GetByID(alice.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	collections, err := collectionSvc.List(alice.ID)
	assert.NoError(t, err)
	assert.Empty(t, collections)
	_, err = shareSvc.Resolve(share.Token)
	assert.ErrorIs(t, err, services.ErrNotFound)

	survivors, err := collectionSvc.List(bob.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{bobCollection.ID}, collectionIDs(survivors))
}

func TestDeleteAccountWrongPassword(t *testing.T) {
	store := setupStore(t)
	svc := services.NewUserService(store, setupFiles(t))
	user := mustCreateUser(t, store, "alice")

	assert.ErrorIs(t, svc.DeleteAccount(user.ID, "wrong"), services.ErrInvalidCredentials)

	_, err := store.Users().GetByID(user.ID)
	assert.NoError(t, err)
}
