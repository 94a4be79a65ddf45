package services_test

import (
	"testing"

	"curio/internal/ordering"
	"curio/internal/services"

	"github.com/stretchr/testify/assert"
)

func TestCollectionCreateAssignsDenseOrders(t *testing.T) {
	store := setupStore(t)
	svc := services.NewCollectionService(store, setupFiles(t))
	user := mustCreateUser(t, store, "alice")

	for _, name := range []string{"Coins", "Stamps", "Records"} {
		mustCreateCollection(t, svc, user.ID, name)
	}

	collections, err := svc.List(user.ID)
	assert.NoError(t, err)
	assert.Len(t, collections, 3)
	orders := make([]int, len(collections))
	for i, c := range collections {
		orders[i] = c.CollectionOrder
	}
	assertDenseOrders(t, orders)
	assert.Equal(t, "Coins", collections[0].Name)
	assert.Equal(t, "Records", collections[2].Name)
}

func TestCollectionReorderFullSequence(t *testing.T) {
	store := setupStore(t)
	svc := services.NewCollectionService(store, setupFiles(t))
	user := mustCreateUser(t, store, "alice")

	a := mustCreateCollection(t, svc, user.ID, "A")
	b := mustCreateCollection(t, svc, user.ID, "B")
	c := mustCreateCollection(t, svc, user.ID, "C")

	// [C, A, B]: C takes order 0, A order 1, B order 2.
	reordered, err := svc.Reorder(user.ID, services.ReorderRequest{IDs: []string{c.ID, a.ID, b.ID}})
	assert.NoError(t, err)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, collectionIDs(reordered))
	orders := make([]int, len(reordered))
	for i, col := range reordered {
		orders[i] = col.CollectionOrder
	}
	assertDenseOrders(t, orders)
}

func TestCollectionReorderSparsePairs(t *testing.T) {
	store := setupStore(t)
	svc := services.NewCollectionService(store, setupFiles(t))
	user := mustCreateUser(t, store, "alice")

	a := mustCreateCollection(t, svc, user.ID, "A")
	b := mustCreateCollection(t, svc, user.ID, "B")
	c := mustCreateCollection(t, svc, user.ID, "C")

	reordered, err := svc.Reorder(user.ID, services.ReorderRequest{Orders: []ordering.Pair{
		{ID: b.ID, Order: 0},
		{ID: c.ID, Order: 1},
		{ID: a.ID, Order: 2},
	}})
	assert.NoError(t, err)
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, collectionIDs(reordered))
}

func TestCollectionReorderMismatchLeavesOrdersUntouched(t *testing.T) {
	store := setupStore(t)
	svc := services.NewCollectionService(store, setupFiles(t))
	user := mustCreateUser(t, store, "alice")

	a := mustCreateCollection(t, svc, user.ID, "A")
	b := mustCreateCollection(t, svc, user.ID, "B")

	cases := []services.ReorderRequest{
		{IDs: []string{a.ID}},                                        // missing b
		{IDs: []string{a.ID, b.ID, "not-an-id"}},                     // extra id
		{IDs: []string{a.ID, a.ID}},                                  // duplicate
		{IDs: []string{}},                                            // empty over non-empty
		{Orders: []ordering.Pair{{ID: a.ID, Order: 0}}},              // sparse missing b
		{Orders: []ordering.Pair{{ID: a.ID, Order: 0}, {ID: b.ID, Order: 2}}}, // gap
		{IDs: []string{a.ID, b.ID}, Orders: []ordering.Pair{{ID: a.ID, Order: 0}}}, // both shapes
	}
	for _, req := range cases {
		_, err := svc.Reorder(user.ID, req)
		assert.ErrorIs(t, err, services.ErrValidation)
	}

	// Every stored order is exactly as created.
	collections, err := svc.List(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, collectionIDs(collections))
	assert.Equal(t, 0, collections[0].CollectionOrder)
	assert.Equal(t, 1, collections[1].CollectionOrder)
}

func TestCollectionOwnershipIndistinguishable(t *testing.T) {
	store := setupStore(t)
	svc := services.NewCollectionService(store, setupFiles(t))
	alice := mustCreateUser(t, store, "alice")
	mallory := mustCreateUser(t, store, "mallory")

	owned := mustCreateCollection(t, svc, alice.ID, "Private")

	_, foreignErr := svc.Get(mallory.ID, owned.ID)
	_, absentErr := svc.Get(mallory.ID, "00000000-0000-0000-0000-000000000000")

	assert.ErrorIs(t, foreignErr, services.ErrNotFound)
	assert.ErrorIs(t, absentErr, services.ErrNotFound)
	// A foreign id and a nonexistent id must be indistinguishable.
	assert.Equal(t, absentErr, foreignErr)

	// Update and delete resolve the same way.
	_, err := svc.Update(mallory.ID, owned.ID, "Stolen", "")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(mallory.ID, owned.ID), services.ErrNotFound)

	unchanged, err := svc.Get(alice.ID, owned.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Private", unchanged.Name)
}

func TestCollectionDeleteCompactsOrders(t *testing.T) {
	store := setupStore(t)
	svc := services.NewCollectionService(store, setupFiles(t))
	user := mustCreateUser(t, store, "alice")

	a := mustCreateCollection(t, svc, user.ID, "A")
	b := mustCreateCollection(t, svc, user.ID, "B")
	c := mustCreateCollection(t, svc, user.ID, "C")
	_ = b

	assert.NoError(t, svc.Delete(user.ID, b.ID))

	collections, err := svc.List(user.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{a.ID, c.ID}, collectionIDs(collections))
	assert.Equal(t, 0, collections[0].CollectionOrder)
	assert.Equal(t, 1, collections[1].CollectionOrder)
}

func TestCollectionDeleteCascades(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	shareSvc := services.NewShareService(store)
	user := mustCreateUser(t, store, "alice")

	collection := mustCreateCollection(t, collectionSvc, user.ID, "Coins")
	item := mustCreateItem(t, itemSvc, user.ID, collection.ID, "Denarius")
	_, err := itemSvc.AddTags(user.ID, item.ID, []string{"roman", "silver"})
	assert.NoError(t, err)
	_, err = shareSvc.CreateOrEnable(user.ID, collection.ID, false)
	assert.NoError(t, err)

	assert.NoError(t, collectionSvc.Delete(user.ID, collection.ID))

	_, err = collectionSvc.Get(user.ID, collection.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = itemSvc.Get(user.ID, item.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = store.Shares().GetByCollection(collection.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)

	// Tag rows survive the cascade until the maintenance sweep.
	removed, err := itemSvc.CleanupUnusedTags()
	assert.NoError(t, err)
	assert.EqualValues(t, 2, removed)
}

func TestCollectionGetPreloadsItemsInOrder(t *testing.T) {
	store := setupStore(t)
	files := setupFiles(t)
	collectionSvc := services.NewCollectionService(store, files)
	itemSvc := services.NewItemService(store, files)
	user := mustCreateUser(t, store, "alice")

	collection := mustCreateCollection(t, collectionSvc, user.ID, "Coins")
	first := mustCreateItem(t, itemSvc, user.ID, collection.ID, "First")
	second := mustCreateItem(t, itemSvc, user.ID, collection.ID, "Second")

	loaded, err := collectionSvc.Get(user.ID, collection.ID)
	assert.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, itemIDs(loaded.Items))
}
