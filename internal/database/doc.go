// Package database opens the PostgreSQL pool used by the optional store mirror.
//
// The CSV files stay the source of truth; the mirror only holds a queryable
// copy of what was merged into them.
package database
