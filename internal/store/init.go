package store

import (
	"context"
	"database/sql"
	"time"
)

// Init opens and pings the configured backend so a bad DSN fails the run
// before any crawling happens. The file backend needs no warmup; Mongo pings
// inside its client constructor.
func Init(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var open func() (*sql.DB, error)
	switch backendKind() {
	case backendMongoDB:
		_, err := mongoClient()
		return err
	case backendSQLite:
		open = sqliteDB
	case backendMySQL:
		open = mysqlDB
	case backendPostgres:
		open = postgresDB
	default:
		return nil
	}

	db, err := open()
	if err != nil {
		return err
	}
	return db.PingContext(ctx)
}
