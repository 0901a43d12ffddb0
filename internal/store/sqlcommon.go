package store

import (
	"database/sql"
	"strings"

	"catalog-crawler-go/internal/config"
)

type backendKindName string

const (
	backendFile     backendKindName = "file"
	backendSQLite   backendKindName = "sqlite"
	backendMySQL    backendKindName = "mysql"
	backendPostgres backendKindName = "postgres"
	backendMongoDB  backendKindName = "mongodb"
)

func backendKind() backendKindName {
	v := strings.ToLower(strings.TrimSpace(config.AppConfig.StoreBackend))
	switch v {
	case "sqlite":
		return backendSQLite
	case "mysql":
		return backendMySQL
	case "postgres", "postgresql":
		return backendPostgres
	case "mongodb", "mongo":
		return backendMongoDB
	default:
		return backendFile
	}
}

func sqlEnabled() bool {
	k := backendKind()
	return k == backendSQLite || k == backendMySQL || k == backendPostgres || k == backendMongoDB
}

func retailerKey() string {
	v := strings.TrimSpace(config.AppConfig.Retailer)
	if v == "" {
		v = "shopify"
	}
	return v
}

func setDBPoolDefaults(db *sql.DB, maxOpen int) {
	if db == nil {
		return
	}
	if maxOpen <= 0 {
		maxOpen = 4
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxOpen)
	db.SetConnMaxLifetime(0)
}
