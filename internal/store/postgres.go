package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"catalog-crawler-go/internal/config"
)

var (
	pgOnce sync.Once
	pgInst *sql.DB
	pgErr  error
)

func postgresDB() (*sql.DB, error) {
	if backendKind() != backendPostgres {
		return nil, errors.New("postgres backend disabled")
	}
	pgOnce.Do(func() {
		dsn := strings.TrimSpace(config.AppConfig.PostgresDSN)
		if dsn == "" {
			pgErr = errors.New("POSTGRES_DSN is empty")
			return
		}
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			pgErr = err
			return
		}
		setDBPoolDefaults(db, 8)
		db.SetConnMaxIdleTime(2 * time.Minute)

		if err := initPostgresSchema(db); err != nil {
			_ = db.Close()
			pgErr = err
			return
		}
		pgInst = db
	})
	return pgInst, pgErr
}

func initPostgresSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			retailer TEXT NOT NULL,
			product_id TEXT NOT NULL,
			data_json JSONB NOT NULL,
			updated_at BIGINT NOT NULL,
			PRIMARY KEY (retailer, product_id)
		);`,
		`CREATE TABLE IF NOT EXISTS stores (
			retailer TEXT NOT NULL,
			country TEXT NOT NULL,
			data_json JSONB NOT NULL,
			updated_at BIGINT NOT NULL,
			PRIMARY KEY (retailer, country)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("postgres init schema: %w", err)
		}
	}
	return nil
}

func postgresUpsertProduct(productID string, p any) error {
	db, err := postgresDB()
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
		`INSERT INTO products(retailer, product_id, data_json, updated_at) VALUES($1, $2, $3, $4)
		 ON CONFLICT (retailer, product_id) DO UPDATE SET data_json=EXCLUDED.data_json, updated_at=EXCLUDED.updated_at;`,
		retailerKey(), productID, string(b), now,
	)
	return err
}

func postgresUpsertStoreInfo(si StoreInfo) error {
	db, err := postgresDB()
	if err != nil {
		return err
	}
	b, err := json.Marshal(si)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	_, err = db.Exec(
		`INSERT INTO stores(retailer, country, data_json, updated_at) VALUES($1, $2, $3, $4)
		 ON CONFLICT (retailer, country) DO UPDATE SET data_json=EXCLUDED.data_json, updated_at=EXCLUDED.updated_at;`,
		si.Retailer, si.Country, string(b), now,
	)
	return err
}
