// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces defined in the internal/store package.
// It handles the details of database connections, query execution, schema
// migrations and data mapping between domain entities and database records.
//
// Connections go through the pgx database/sql driver, so every store accepts
// a store.DBTX and works unchanged inside a transaction.
package postgres
