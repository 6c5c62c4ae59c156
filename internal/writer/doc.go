// Package writer mirrors merged store batches into PostgreSQL.
//
// Each batch is upserted in a single pgx.Batch keyed on the store's key
// column, so the table follows the same last-write-wins rule as the file.
// Writes are idempotent: replaying a batch leaves the table unchanged.
package writer
