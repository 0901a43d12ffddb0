package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"catalog-crawler-go/internal/config"
)

// Store appends one record to a named file. The file backend implements it
// directly; the SQL and Mongo backends are reached through SaveProduct /
// SaveStoreInfo, which also mirror into the file layout for catalog emission.
type Store interface {
	Save(data interface{}, filename string) error
}

type JsonStore struct {
	Dir string
}

func NewJsonStore(dir string) *JsonStore {
	return &JsonStore{Dir: dir}
}

func (s *JsonStore) Save(data interface{}, filename string) error {
	if err := os.MkdirAll(s.Dir, 0755); err != nil {
		return err
	}

	path := filepath.Join(s.Dir, filename)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	return encoder.Encode(data)
}

// RetailerDir is <DATA_DIR>/<country>/<retailer>-<country>, the directory the
// emitted catalog artifacts live in.
func RetailerDir() string {
	dataDir := strings.TrimSpace(config.AppConfig.DataDir)
	if dataDir == "" {
		dataDir = "data"
	}
	retailer := strings.TrimSpace(config.AppConfig.Retailer)
	if retailer == "" {
		retailer = "shopify"
	}
	country := strings.ToLower(config.GetCountry())
	return filepath.Join(dataDir, country, fmt.Sprintf("%s-%s", retailer, country))
}

// SaveProduct upserts one normalized product into the configured backend.
func SaveProduct(p Product) error {
	if strings.TrimSpace(p.ProductID) == "" {
		return errors.New("product_id is empty")
	}
	if p.FetchedAt == 0 {
		p.FetchedAt = time.Now().Unix()
	}
	if sqlEnabled() {
		return sqlUpsertProduct(p.ProductID, p)
	}
	s := NewJsonStore(RetailerDir())
	return s.Save(p, fmt.Sprintf("products_%s.jsonl", time.Now().Format("2006-01-02")))
}

// SaveStoreInfo records the run-level store header.
func SaveStoreInfo(si StoreInfo) error {
	if si.CrawledAt == 0 {
		si.CrawledAt = time.Now().Unix()
	}
	if sqlEnabled() {
		return sqlUpsertStoreInfo(si)
	}
	s := NewJsonStore(RetailerDir())
	return s.Save(si, "store_info.jsonl")
}
