package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalog(t *testing.T, store *CatalogStore) map[string]uint {
	t.Helper()

	seed := []ProductInput{
		{Name: "Laptop", Description: strPtr("16GB RAM workhorse"), Categories: []string{"Electronics", "Computers"}, ImagePaths: []string{"uploads/laptop.png"}},
		{Name: "Phone", Description: strPtr("Pocket computer"), Categories: []string{"Electronics"}},
		{Name: "Desk", Description: strPtr("Solid oak"), Categories: []string{"Furniture"}, ImagePaths: []string{"uploads/desk-1.png", "uploads/desk-2.png"}},
		{Name: "100% Cotton Shirt", Categories: []string{"Clothing"}},
		{Name: "Monitor", Description: strPtr("27 inch display"), Categories: []string{"Electronics", "Computers"}},
	}

	ids := make(map[string]uint, len(seed))
	for _, in := range seed {
		in.RegDate = "2024-09-12"
		in.Price = "10.50"
		in.Quantity = "3"
		id, err := store.CreateProduct(context.Background(), in)
		require.NoError(t, err)
		ids[in.Name] = id
	}
	return ids
}

func names(products []ProductDetail) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestListProductsUnfiltered(t *testing.T) {
	store := NewCatalogStore(setupTestDB(t), discardLogger())
	ids := seedCatalog(t, store)

	products, err := store.ListProducts(context.Background(), ListParams{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Laptop", "Phone", "Desk", "100% Cotton Shirt", "Monitor"}, names(products))
	for i := 1; i < len(products); i++ {
		assert.Less(t, products[i-1].ID, products[i].ID)
	}

	desk := products[2]
	assert.Equal(t, ids["Desk"], desk.ID)
	assert.Equal(t, []string{"uploads/desk-1.png", "uploads/desk-2.png"}, desk.Images)
	assert.Equal(t, []string{"Furniture"}, desk.Categories)

	laptop := products[0]
	assert.Equal(t, []string{"Computers", "Electronics"}, laptop.Categories)
	assert.Equal(t, []string{}, products[1].Images)
}

func TestListProductsByCategory(t *testing.T) {
	store := NewCatalogStore(setupTestDB(t), discardLogger())
	seedCatalog(t, store)

	products, err := store.ListProducts(context.Background(), ListParams{Category: "Computers"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Monitor"}, names(products))

	// Children are complete, not only the category that matched.
	assert.Equal(t, []string{"Computers", "Electronics"}, products[0].Categories)
	assert.Equal(t, []string{"uploads/laptop.png"}, products[0].Images)
}

func TestListProductsBySearch(t *testing.T) {
	store := NewCatalogStore(setupTestDB(t), discardLogger())
	seedCatalog(t, store)

	products, err := store.ListProducts(context.Background(), ListParams{Search: "computer"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Phone"}, names(products))

	products, err = store.ListProducts(context.Background(), ListParams{Search: "o"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Phone", "Desk", "100% Cotton Shirt", "Monitor"}, names(products))
}

func TestListProductsByCategoryAndSearch(t *testing.T) {
	store := NewCatalogStore(setupTestDB(t), discardLogger())
	seedCatalog(t, store)

	products, err := store.ListProducts(context.Background(), ListParams{Category: "Electronics", Search: "display"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Monitor"}, names(products))
}

func TestListProductsEmptyResults(t *testing.T) {
	store := NewCatalogStore(setupTestDB(t), discardLogger())
	seedCatalog(t, store)

	products, err := store.ListProducts(context.Background(), ListParams{Category: "NoSuchCategory"})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)

	products, err = store.ListProducts(context.Background(), ListParams{Search: "zzz"})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListProductsOnEmptyCatalog(t *testing.T) {
	store := NewCatalogStore(setupTestDB(t), discardLogger())

	products, err := store.ListProducts(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestListProductsPaginatesAfterFiltering(t *testing.T) {
	store := NewCatalogStore(setupTestDB(t), discardLogger())
	seedCatalog(t, store)

	page, err := store.ListProducts(context.Background(), ListParams{Category: "Electronics", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Laptop", "Phone"}, names(page))

	page, err = store.ListProducts(context.Background(), ListParams{Category: "Electronics", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Monitor"}, names(page))

	page, err = store.ListProducts(context.Background(), ListParams{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestListProductsTreatsWildcardsLiterally(t *testing.T) {
	store := NewCatalogStore(setupTestDB(t), discardLogger())
	seedCatalog(t, store)

	products, err := store.ListProducts(context.Background(), ListParams{Search: "100%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"100% Cotton Shirt"}, names(products))

	products, err = store.ListProducts(context.Background(), ListParams{Search: "_"})
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestListProductsIgnoresBlankFilters(t *testing.T) {
	store := NewCatalogStore(setupTestDB(t), discardLogger())
	seedCatalog(t, store)

	products, err := store.ListProducts(context.Background(), ListParams{Category: "  ", Search: ""})
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "50!% off!_now!!", escapeLike("50% off_now!"))
}
