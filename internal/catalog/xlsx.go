package catalog

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/xuri/excelize/v2"

	"catalog-crawler-go/internal/store"
)

var xlsxHeader = []string{
	"product_id", "retailer", "country", "title", "brand",
	"currency", "price", "list_price", "available", "variants", "url",
}

// EmitXLSX writes an optional spreadsheet rendition of the catalog, one
// product per row with the variant count in place of the nested records.
func EmitXLSX(dir string, products []store.Product) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Catalog"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A1", &xlsxHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, p := range products {
		row := []any{
			p.ProductID, p.Retailer, p.Country, p.Title, p.Brand,
			p.Currency, p.Price, p.ListPrice, strconv.FormatBool(p.Available),
			len(p.Variants), p.URL,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	return f.SaveAs(filepath.Join(dir, "catalog.xlsx"))
}
