// Package postgres contains the PostgreSQL implementations of the store
// interfaces. Each store accepts a store.DBTX so the same implementation can
// run against the shared *sql.DB or against a transaction obtained from
// store.RunInTransaction.
package postgres
