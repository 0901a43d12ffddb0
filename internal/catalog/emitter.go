// Package catalog writes the normalized product dataset as the stable
// artifacts other systems consume: a pretty-printed catalog.json with a
// store_info header, a compact catalog.jsonl, and a gzip copy of the JSONL.
// Emission happens only after a crawl run resolves, never mid-retry, so a
// failed run cannot corrupt previously written catalogs.
package catalog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"catalog-crawler-go/internal/store"
)

type Document struct {
	StoreInfo store.StoreInfo `json:"store_info"`
	Products  []store.Product `json:"products"`
}

// Emit writes all three artifacts into dir, creating it as needed.
func Emit(dir string, si store.StoreInfo, products []store.Product) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create catalog dir %s: %w", dir, err)
	}
	si.ProductCount = len(products)

	if err := writeJSON(filepath.Join(dir, "catalog.json"), Document{StoreInfo: si, Products: products}); err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(dir, "catalog.jsonl"), products); err != nil {
		return err
	}
	return gzipCopy(filepath.Join(dir, "catalog.jsonl"), filepath.Join(dir, "catalog.jsonl.gz"))
}

func writeJSON(path string, doc Document) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeJSONL(path string, products []store.Product) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, p := range products {
		if err := enc.Encode(p); err != nil {
			return fmt.Errorf("encode product %s: %w", p.ProductID, err)
		}
	}
	return nil
}

func gzipCopy(src, dst string) error {
	in, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()

	gz := gzip.NewWriter(f)
	if _, err := gz.Write(in); err != nil {
		_ = gz.Close()
		return fmt.Errorf("gzip %s: %w", dst, err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("close gzip %s: %w", dst, err)
	}
	return nil
}
