// Package store persists record batches to append-only CSV files that are
// deduplicated on every write.
//
// File convention (shared by every store):
//   - ';' field separator, '.' decimal point, UTF-8, one header row
//   - time cells are "2006-01-02" at midnight, else "2006-01-02 15:04:05"
//   - null is an empty cell
//
// Merge is the only write path. It loads the whole file, appends the batch,
// keeps the last occurrence of each key and rewrites the file through a
// temporary file and rename. A "<path>.lock" file guards against a second
// writer on the same store.
package store
