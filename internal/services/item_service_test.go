package services_test

import (
	"testing"

	"curio/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestItemReorderScenario(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	user := mustCreateUser(t, store, "alice")
	collection := mustCreateCollection(t, collectionSvc, user.ID, "Coins")

	i1 := mustCreateItem(t, itemSvc, user.ID, collection.ID, "I1")
	i2 := mustCreateItem(t, itemSvc, user.ID, collection.ID, "I2")
	i3 := mustCreateItem(t, itemSvc, user.ID, collection.ID, "I3")

	before, err := collectionSvc.Get(user.ID, collection.ID)
	assert.NoError(t, err)

	reordered, err := itemSvc.Reorder(user.ID, collection.ID, services.ReorderRequest{
		IDs: []string{i3.ID, i1.ID, i2.ID},
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{i3.ID, i1.ID, i2.ID}, itemIDs(reordered))
	orders := make([]int, len(reordered))
	for i, it := range reordered {
		orders[i] = it.ItemOrder
	}
	assertDenseOrders(t, orders)

	// Reordering items advances the parent collection's timestamp.
	after, err := collectionSvc.Get(user.ID, collection.ID)
	assert.NoError(t, err)
	assert.True(t, after.UpdatedDate.After(before.UpdatedDate))
}

func TestItemReorderMismatchLeavesOrdersUntouched(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	user := mustCreateUser(t, store, "alice")
	collection := mustCreateCollection(t, collectionSvc, user.ID, "Coins")

	i1 := mustCreateItem(t, itemSvc, user.ID, collection.ID, "I1")
	i2 := mustCreateItem(t, itemSvc, user.ID, collection.ID, "I2")

	_, err := itemSvc.Reorder(user.ID, collection.ID, services.ReorderRequest{
		IDs: []string{i1.ID, "stranger"},
	})
	assert.ErrorIs(t, err, services.ErrValidation)

	items, err := itemSvc.List(user.ID, collection.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{i1.ID, i2.ID}, itemIDs(items))
	assert.Equal(t, 0, items[0].ItemOrder)
	assert.Equal(t, 1, items[1].ItemOrder)
}

func TestItemOwnershipTransitive(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	alice := mustCreateUser(t, store, "alice")
	mallory := mustCreateUser(t, store, "mallory")

	collection := mustCreateCollection(t, collectionSvc, alice.ID, "Coins")
	item := mustCreateItem(t, itemSvc, alice.ID, collection.ID, "Denarius")

	// The item exists, but not for mallory.
	_, err := itemSvc.Get(mallory.ID, item.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = itemSvc.Create(mallory.ID, collection.ID, "Forged", "")
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = itemSvc.Reorder(mallory.ID, collection.ID, services.ReorderRequest{IDs: []string{item.ID}})
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, itemSvc.Delete(mallory.ID, item.ID), services.ErrNotFound)
}

func TestItemDeleteCompactsOrders(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	user := mustCreateUser(t, store, "alice")
	collection := mustCreateCollection(t, collectionSvc, user.ID, "Coins")

	i1 := mustCreateItem(t, itemSvc, user.ID, collection.ID, "I1")
	i2 := mustCreateItem(t, itemSvc, user.ID, collection.ID, "I2")
	i3 := mustCreateItem(t, itemSvc, user.ID, collection.ID, "I3")

	assert.NoError(t, itemSvc.Delete(user.ID, i1.ID))

	items, err := itemSvc.List(user.ID, collection.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{i2.ID, i3.ID}, itemIDs(items))
	assert.Equal(t, 0, items[0].ItemOrder)
	assert.Equal(t, 1, items[1].ItemOrder)
}

func TestAddTagsIsIdempotent(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	user := mustCreateUser(t, store, "alice")
	collection := mustCreateCollection(t, collectionSvc, user.ID, "Coins")
	item := mustCreateItem(t, itemSvc, user.ID, collection.ID, "Denarius")

	tags, err := itemSvc.AddTags(user.ID, item.ID, []string{"roman", "silver"})
	assert.NoError(t, err)
	assert.Len(t, tags, 2)

	// Re-adding the same names changes nothing, tag ids included.
	again, err := itemSvc.AddTags(user.ID, item.ID, []string{"roman", "silver"})
	assert.NoError(t, err)
	assert.Len(t, again, 2)
	assert.ElementsMatch(t, tagNames(tags), tagNames(again))
	assert.ElementsMatch(t, tagIDs(tags), tagIDs(again))
}

func TestTagsAreSharedGlobally(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	alice := mustCreateUser(t, store, "alice")
	bob := mustCreateUser(t, store, "bob")

	aliceCollection := mustCreateCollection(t, collectionSvc, alice.ID, "Coins")
	bobCollection := mustCreateCollection(t, collectionSvc, bob.ID, "Stamps")
	aliceItem := mustCreateItem(t, itemSvc, alice.ID, aliceCollection.ID, "Denarius")
	bobItem := mustCreateItem(t, itemSvc, bob.ID, bobCollection.ID, "Penny Black")

	aliceTags, err := itemSvc.AddTags(alice.ID, aliceItem.ID, []string{"rare"})
	assert.NoError(t, err)
	bobTags, err := itemSvc.AddTags(bob.ID, bobItem.ID, []string{"rare"})
	assert.NoError(t, err)

	// Two users tagging "rare" share one tag row.
	assert.Equal(t, aliceTags[0].ID, bobTags[0].ID)
}

func TestCleanupUnusedTags(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	user := mustCreateUser(t, store, "alice")
	collection := mustCreateCollection(t, collectionSvc, user.ID, "Coins")
	keeper := mustCreateItem(t, itemSvc, user.ID, collection.ID, "Keeper")
	doomed := mustCreateItem(t, itemSvc, user.ID, collection.ID, "Doomed")

	_, err := itemSvc.AddTags(user.ID, keeper.ID, []string{"shared", "kept"})
	assert.NoError(t, err)
	_, err = itemSvc.AddTags(user.ID, doomed.ID, []string{"shared", "orphan"})
	assert.NoError(t, err)

	assert.NoError(t, itemSvc.ClearTags(user.ID, doomed.ID))

	// Only "orphan" lost its last association; "shared" is still in use.
	removed, err := itemSvc.CleanupUnusedTags()
	assert.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	tags, err := itemSvc.Tags(user.ID, keeper.ID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"shared", "kept"}, tagNames(tags))
}

func TestClearTagsRequiresOwnership(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	alice := mustCreateUser(t, store, "alice")
	mallory := mustCreateUser(t, store, "mallory")
	collection := mustCreateCollection(t, collectionSvc, alice.ID, "Coins")
	item := mustCreateItem(t, itemSvc, alice.ID, collection.ID, "Denarius")

	_, err := itemSvc.AddTags(alice.ID, item.ID, []string{"roman"})
	assert.NoError(t, err)

	assert.ErrorIs(t, itemSvc.ClearTags(mallory.ID, item.ID), services.ErrNotFound)
	_, err = itemSvc.AddTags(mallory.ID, item.ID, []string{"stolen"})
	assert.ErrorIs(t, err, services.ErrNotFound)

	tags, err := itemSvc.Tags(alice.ID, item.ID)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []string{"roman"}, tagNames(tags))
}
