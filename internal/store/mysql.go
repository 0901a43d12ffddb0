package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"catalog-crawler-go/internal/config"
)

var (
	mysqlOnce sync.Once
	mysqlInst *sql.DB
	mysqlErr  error
)

func mysqlDB() (*sql.DB, error) {
	if backendKind() != backendMySQL {
		return nil, errors.New("mysql backend disabled")
	}
	mysqlOnce.Do(func() {
		dsn := strings.TrimSpace(config.AppConfig.MySQLDSN)
		if dsn == "" {
			mysqlErr = errors.New("MYSQL_DSN is empty")
			return
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			mysqlErr = err
			return
		}
		setDBPoolDefaults(db, 8)
		db.SetConnMaxIdleTime(2 * time.Minute)

		if err := initMySQLSchema(db); err != nil {
			_ = db.Close()
			mysqlErr = err
			return
		}
		mysqlInst = db
	})
	return mysqlInst, mysqlErr
}

func initMySQLSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS products (
			retailer VARCHAR(32) NOT NULL,
			product_id VARCHAR(191) NOT NULL,
			data_json LONGTEXT NOT NULL,
			updated_at BIGINT NOT NULL,
			PRIMARY KEY (retailer, product_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
		`CREATE TABLE IF NOT EXISTS stores (
			retailer VARCHAR(32) NOT NULL,
			country VARCHAR(8) NOT NULL,
			data_json LONGTEXT NOT NULL,
			updated_at BIGINT NOT NULL,
			PRIMARY KEY (retailer, country)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("mysql init schema: %w", err)
		}
	}
	return nil
}

func mysqlUpsertProduct(productID string, p any) error {
	db, err := mysqlDB()
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
		 ON DUPLICATE KEY UPDATE data_json=VALUES(data_json), updated_at=VALUES(updated_at);`,
		retailerKey(), productID, string(b), now,
	)
	return err
}

func mysqlUpsertStoreInfo(si StoreInfo) error {
	db, err := mysqlDB()
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
		 ON DUPLICATE KEY UPDATE data_json=VALUES(data_json), updated_at=VALUES(updated_at);`,
		si.Retailer, si.Country, string(b), now,
	)
	return err
}
