package store

import "github.com/rickgao/findat/internal/model"

// Table is a loaded store file.
type Table struct {
	Schema model.Schema
	Rows   []model.Record
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []model.Value {
	out := make([]model.Value, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Get(name)
	}
	return out
}

// Keys returns the key column rendered as strings, in row order.
func (t *Table) Keys() []string {
	out := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.Get(t.Schema.Key).String()
	}
	return out
}
