// Package loader reads report datasets from JSON files on disk. It only
// parses shape; semantic validation belongs to the report engine.
package loader

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/noah-isme/sales-report/internal/report"
)

// FromFile reads one JSON document containing sellers, products and
// purchase_records.
func FromFile(path string) (report.Dataset, error) {
	var ds report.Dataset
	if err := readJSON(path, &ds); err != nil {
		return report.Dataset{}, err
	}
	return ds, nil
}

// FromDir reads sellers.json, products.json and purchase_records.json from
// the given directory.
func FromDir(dir string) (report.Dataset, error) {
	var ds report.Dataset
	if err := readJSON(filepath.Join(dir, "sellers.json"), &ds.Sellers); err != nil {
		return report.Dataset{}, err
	}
	if err := readJSON(filepath.Join(dir, "products.json"), &ds.Products); err != nil {
		return report.Dataset{}, err
	}
	if err := readJSON(filepath.Join(dir, "purchase_records.json"), &ds.PurchaseRecords); err != nil {
		return report.Dataset{}, err
	}
	return ds, nil
}

// FromPath dispatches on whether path is a directory or a single file.
func FromPath(path string) (report.Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return report.Dataset{}, fmt.Errorf("stat dataset: %w", err)
	}
	if info.IsDir() {
		return FromDir(path)
	}
	return FromFile(path)
}

func readJSON(path string, dst any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
