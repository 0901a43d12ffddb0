package store

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"catalog-crawler-go/internal/config"
)

func TestJsonStoreAppends(t *testing.T) {
	dir := t.TempDir()
	s := NewJsonStore(dir)

	for _, id := range []string{"1", "2", "3"} {
		if err := s.Save(Product{ProductID: id, Retailer: "shopify", Title: "x"}, "products.jsonl"); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	f, err := os.Open(filepath.Join(dir, "products.jsonl"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var ids []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var p Product
		if err := json.Unmarshal(sc.Bytes(), &p); err != nil {
			t.Fatalf("decode line: %v", err)
		}
		ids = append(ids, p.ProductID)
	}
	if strings.Join(ids, ",") != "1,2,3" {
		t.Fatalf("ids=%v", ids)
	}
}

func TestRetailerDir(t *testing.T) {
	old := config.AppConfig
	defer func() { config.AppConfig = old }()

	config.AppConfig.DataDir = "data"
	config.AppConfig.Retailer = "adidas"
	config.AppConfig.Country = "US"
	want := filepath.Join("data", "us", "adidas-us")
	if got := RetailerDir(); got != want {
		t.Fatalf("dir=%s want %s", got, want)
	}
}

func TestSaveProductValidates(t *testing.T) {
	if err := SaveProduct(Product{Retailer: "shopify"}); err == nil {
		t.Fatalf("empty product id accepted")
	}
}

func TestSaveProductFileBackend(t *testing.T) {
	old := config.AppConfig
	defer func() { config.AppConfig = old }()

	config.AppConfig.DataDir = t.TempDir()
	config.AppConfig.Retailer = "shopify"
	config.AppConfig.Country = "US"
	config.AppConfig.StoreBackend = "file"

	p := Product{ProductID: "42", Retailer: "shopify", Title: "Tee"}
	if err := SaveProduct(p); err != nil {
		t.Fatalf("save: %v", err)
	}
	entries, err := os.ReadDir(RetailerDir())
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	var found bool
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "products_") && strings.HasSuffix(e.Name(), ".jsonl") {
			found = true
		}
	}
	if !found {
		t.Fatalf("no products file written, entries=%v", entries)
	}
}
