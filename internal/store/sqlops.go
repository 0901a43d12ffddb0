package store

func sqlUpsertProduct(productID string, p any) error {
	switch backendKind() {
	case backendSQLite:
		return sqliteUpsertProduct(productID, p)
	case backendMySQL:
		return mysqlUpsertProduct(productID, p)
	case backendPostgres:
		return postgresUpsertProduct(productID, p)
	case backendMongoDB:
		return mongoUpsertProduct(productID, p)
	default:
		return nil
	}
}

func sqlUpsertStoreInfo(si StoreInfo) error {
	switch backendKind() {
	case backendSQLite:
		return sqliteUpsertStoreInfo(si)
	case backendMySQL:
		return mysqlUpsertStoreInfo(si)
	case backendPostgres:
		return postgresUpsertStoreInfo(si)
	case backendMongoDB:
		return mongoUpsertStoreInfo(si)
	default:
		return nil
	}
}
