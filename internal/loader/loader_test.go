package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-report/internal/loader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "dataset.json", `{
		"sellers": [{"id": "s1", "first_name": "Ana", "last_name": "Putri"}],
		"products": [{"sku": "A", "purchase_price": 5}],
		"purchase_records": [{"seller_id": "s1", "items": [{"sku": "A", "quantity": 1, "sale_price": 10, "discount": 0}]}]
	}`)

	ds, err := loader.FromFile(path)
	require.NoError(t, err)
	require.Len(t, ds.Sellers, 1)
	require.Len(t, ds.Products, 1)
	require.Len(t, ds.PurchaseRecords, 1)
	require.Equal(t, "A", ds.PurchaseRecords[0].Items[0].SKU)
}

func TestFromDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sellers.json", `[{"id": "s1", "first_name": "Ana", "last_name": "Putri"}]`)
	writeFile(t, dir, "products.json", `[{"sku": "A", "purchase_price": 5}]`)
	writeFile(t, dir, "purchase_records.json", `[{"seller_id": "s1", "items": []}]`)

	ds, err := loader.FromDir(dir)
	require.NoError(t, err)
	require.Len(t, ds.Sellers, 1)
	require.Equal(t, "A", ds.Products[0].SKU)
	require.Len(t, ds.PurchaseRecords, 1)
}

func TestFromDirMissingFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sellers.json", `[]`)

	_, err := loader.FromDir(dir)
	require.Error(t, err)
	require.Contains(t, err.Error(), "products.json")
}

func TestFromFileBadJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.json", `{"sellers": [`)

	_, err := loader.FromFile(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken.json")
}

func TestFromPathDispatch(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sellers.json", `[]`)
	writeFile(t, dir, "products.json", `[]`)
	writeFile(t, dir, "purchase_records.json", `[]`)

	_, err := loader.FromPath(dir)
	require.NoError(t, err)

	file := writeFile(t, dir, "dataset.json", `{}`)
	_, err = loader.FromPath(file)
	require.NoError(t, err)

	_, err = loader.FromPath(filepath.Join(dir, "nope.json"))
	require.Error(t, err)
}
