package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"catalog-crawler-go/internal/config"
)

var (
	sqliteOnce sync.Once
	sqliteInst *sql.DB
	sqliteErr  error
)

func sqlitePath() string {
	p := strings.TrimSpace(config.AppConfig.SQLitePath)
	if p == "" {
		p = "data/catalog_crawler.db"
	}
	return p
}

func sqliteDB() (*sql.DB, error) {
	if backendKind() != backendSQLite {
		return nil, errors.New("sqlite backend disabled")
	}
	sqliteOnce.Do(func() {
		p := sqlitePath()
		if dir := filepath.Dir(p); dir != "" && dir != "." {
			_ = os.MkdirAll(dir, 0755)
		}
		db, err := sql.Open("sqlite", p)
		if err != nil {
			sqliteErr = err
			return
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)

		if _, err := db.Exec(`PRAGMA busy_timeout = 5000;`); err != nil {
			_ = db.Close()
			sqliteErr = err
			return
		}
		if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
			_ = db.Close()
			sqliteErr = err
			return
		}
		if err := initSQLiteSchema(db); err != nil {
			_ = db.Close()
			sqliteErr = err
			return
		}
		sqliteInst = db
	})
	return sqliteInst, sqliteErr
}

func initSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			retailer TEXT NOT NULL,
			product_id TEXT NOT NULL,
			data_json TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (retailer, product_id)
		);`,
		`CREATE TABLE IF NOT EXISTS stores (
			retailer TEXT NOT NULL,
			country TEXT NOT NULL,
			data_json TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (retailer, country)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite init schema: %w", err)
		}
	}
	return nil
}

func sqliteUpsertProduct(productID string, p any) error {
	db, err := sqliteDB()
	if err != nil {
		return err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return errors.New("product_id is empty")
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	_, err = db.Exec(
		`INSERT INTO products(retailer, product_id, data_json, updated_at) VALUES(?, ?, ?, ?)
		 ON CONFLICT(retailer, product_id) DO UPDATE SET data_json=excluded.data_json, updated_at=excluded.updated_at;`,
		retailerKey(), productID, string(b), now,
	)
	return err
}

func sqliteUpsertStoreInfo(si StoreInfo) error {
	db, err := sqliteDB()
	if err != nil {
		return err
	}
	b, err := json.Marshal(si)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	_, err = db.Exec(
		`INSERT INTO stores(retailer, country, data_json, updated_at) VALUES(?, ?, ?, ?)
		 ON CONFLICT(retailer, country) DO UPDATE SET data_json=excluded.data_json, updated_at=excluded.updated_at;`,
		si.Retailer, si.Country, string(b), now,
	)
	return err
}
