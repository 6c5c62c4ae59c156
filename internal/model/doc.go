// Package model defines the record types shared by fetchers and stores.
//
// Conventions:
//   - A Schema is an ordered column list plus one deduplication key column.
//   - Values are typed scalars: string, int, decimal float, or time; any of them may be null.
//   - Times are stored at second precision in the configured location.
//   - Floats use shopspring/decimal so persisted text round-trips exactly.
package model
