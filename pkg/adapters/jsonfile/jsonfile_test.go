package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStore_Products(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, CatalogFile, `[
		{"id": "MP001", "name": "Smartphone Avanzado XZ100", "price": 799.99,
		 "currency": "USD", "category": "Electrónica", "brand": "TechGlobal",
		 "stock": 10, "ratings": {"average_rating": 4.8, "count": 150},
		 "description": "Un smartphone genial.", "tags": ["móvil", "smartphone"]},
		{"id": "MP002", "name": "Vale regalo", "stock": 1}
	]`)

	products, err := New(dir).Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	assert.Equal(t, "MP001", first.ID)
	require.NotNil(t, first.Price)
	assert.Equal(t, 799.99, *first.Price)
	require.NotNil(t, first.Rating)
	assert.Equal(t, 4.8, *first.Rating)
	assert.Equal(t, []string{"móvil", "smartphone"}, first.Tags)
	assert.True(t, first.InStock())

	second := products[1]
	assert.Nil(t, second.Price)
	assert.Nil(t, second.Rating)
}

func TestStore_ProductsMissingFileFails(t *testing.T) {
	_, err := New(t.TempDir()).Products(context.Background())
	require.Error(t, err)
}

func TestStore_ProductsMalformedJSONFails(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, CatalogFile, `{not json`)

	_, err := New(dir).Products(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "parsing")
}

func TestStore_SocialSavesMergesInstagramAndPinterest(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, InstagramFile, `{
		"user_id": "insta_user",
		"saved_items": [
			{"post_id": "IG001", "caption": "Amo esta laptop", "image_url": "u1"},
			{"post_id": "IG002", "caption": "Zapatillas para correr", "image_url": "u2"}
		]
	}`)
	writeFixture(t, dir, PinterestFile, `{
		"user_id": "pin_user",
		"boards": [{
			"board_id": "B01", "board_name": "Gadgets",
			"pins": [{"pin_id": "P001", "description": "El mejor smartwatch", "link": "l1"}]
		}]
	}`)

	saves, err := New(dir).SocialSaves(context.Background())
	require.NoError(t, err)
	require.Len(t, saves, 3)

	assert.Equal(t, "Amo esta laptop", saves[0].Caption)
	assert.Equal(t, "instagram", saves[0].Details["platform"])
	assert.Equal(t, "El mejor smartwatch", saves[2].Caption)
	assert.Equal(t, "Gadgets", saves[2].Details["board_name"])
}

func TestStore_SocialSavesMissingFilesAreEmpty(t *testing.T) {
	saves, err := New(t.TempDir()).SocialSaves(context.Background())
	require.NoError(t, err)
	assert.Empty(t, saves)
}

func TestStore_AbandonedCartItemsFlattensCarts(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, AbandonedCartsFile, `[
		{"cart_id": "C001", "items": [
			{"product_id": "MP002", "quantity": 1, "added_at": "2024-05-01"},
			{"product_id": "MP003", "quantity": 2, "added_at": "2024-05-02"}
		]},
		{"cart_id": "C002", "items": [
			{"product_id": "MP001", "quantity": 1, "added_at": "2024-05-03"}
		]}
	]`)

	items, err := New(dir).AbandonedCartItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "MP002", items[0].ProductID)
	assert.Equal(t, "C001", items[0].Details["cart_id"])
	assert.Equal(t, "MP001", items[2].ProductID)
	assert.Equal(t, "C002", items[2].Details["cart_id"])
}
