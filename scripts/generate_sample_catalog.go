package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"brewpos/internal/catalog"
	"brewpos/internal/model"

	"github.com/shopspring/decimal"
)

// generateSampleCatalog writes two catalogue files for local development.
// menu.jsonl.gz carries the drinks; bakery.jsonl.gz adds pastries and
// re-lists the latte at a new price, so importing both shows that the later
// file wins.
func main() {
	dataDir := "data/catalog"

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	files := map[string][]catalog.Entry{
		"menu.jsonl.gz": {
			category("coffee", "Coffee", 1),
			category("tea", "Tea", 2),
			product("espresso", "Espresso", "3.00", "coffee", "4006381333931", sizes()...),
			product("latte", "Latte", "4.50", "coffee", "4006381333948", append(sizes(), oatMilk())...),
			product("cappuccino", "Cappuccino", "4.25", "coffee", "4006381333955", append(sizes(), oatMilk())...),
			product("chai", "Chai Latte", "4.00", "tea", "4006381333962", oatMilk()),
		},
		"bakery.jsonl.gz": {
			category("bakery", "Bakery", 3),
			product("croissant", "Butter Croissant", "3.25", "bakery", "4006381333979"),
			product("muffin", "Blueberry Muffin", "2.95", "bakery", "4006381333986"),
			product("latte", "Latte", "4.75", "coffee", "4006381333948", append(sizes(), oatMilk())...),
		},
	}

	for filename, entries := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := createCatalogFile(filePath, entries); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d entries\n", filePath, len(entries))
	}

	fmt.Println("\nSample catalogue files created successfully!")
	fmt.Println("\nImport them with:")
	fmt.Println("  CATALOG_FILES=data/catalog/menu.jsonl.gz,data/catalog/bakery.jsonl.gz")
}

func category(id, name string, order int) catalog.Entry {
	return catalog.Entry{Category: &model.Category{ID: id, Name: name, SortOrder: order, IsActive: true}}
}

func product(id, name, price, categoryID, barcode string, variants ...model.Variant) catalog.Entry {
	return catalog.Entry{Product: &model.Product{
		ID:       id,
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Category: categoryID,
		Variants: variants,
		IsActive: true,
		Barcode:  &barcode,
	}}
}

func sizes() []model.Variant {
	return []model.Variant{
		{ID: "small", Name: "Small", PriceModifier: decimal.RequireFromString("-0.50"), Type: model.VariantSize},
		{ID: "large", Name: "Large", PriceModifier: decimal.RequireFromString("0.75"), Type: model.VariantSize},
	}
}

func oatMilk() model.Variant {
	return model.Variant{ID: "oat", Name: "Oat Milk", PriceModifier: decimal.RequireFromString("0.60"), Type: model.VariantExtra}
}

func createCatalogFile(filePath string, entries []catalog.Entry) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzWriter := gzip.NewWriter(file)
	defer gzWriter.Close()

	encoder := json.NewEncoder(gzWriter)
	for _, entry := range entries {
		if err := encoder.Encode(entry); err != nil {
			return fmt.Errorf("failed to write entry: %w", err)
		}
	}

	return nil
}
