// Package adapters provide database adapter implementations for the PostgreSQL source.
//
// The adapters support pgxpool.Pool, sql.DB, and sqlx.DB behind a common DBAdapter interface,
// so the source runs its select statement the same way on any supported connection type.
package adapters
