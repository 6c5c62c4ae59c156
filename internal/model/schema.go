package model

import (
	"errors"
	"fmt"
)

// ColumnType is the declared type of a store column.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeInt    ColumnType = "int"
	TypeFloat  ColumnType = "float"
	TypeTime   ColumnType = "time"
)

// Column is a named, typed column.
type Column struct {
	Name string
	Type ColumnType
}

// Schema is the fixed column layout of a store.
type Schema struct {
	Columns []Column
	Key     string // Deduplication key column
}

// NewSchema builds a schema keyed on key.
func NewSchema(key string, columns ...Column) Schema {
	return Schema{Columns: columns, Key: key}
}

// Validate checks the schema is usable for a store.
func (s Schema) Validate() error {
	if len(s.Columns) == 0 {
		return errors.New("schema has no columns")
	}
	seen := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if c.Name == "" {
			return errors.New("schema has an unnamed column")
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("schema column %q is duplicated", c.Name)
		}
		switch c.Type {
		case TypeString, TypeInt, TypeFloat, TypeTime:
		default:
			return fmt.Errorf("schema column %q has unknown type %q", c.Name, c.Type)
		}
		seen[c.Name] = struct{}{}
	}
	if _, ok := seen[s.Key]; !ok {
		return fmt.Errorf("schema key %q is not a column", s.Key)
	}
	return nil
}

// Names returns the column names in order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the named column, or -1.
func (s Schema) Index(name string) int {
	for i, c := range s.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Column looks up a column by name.
func (s Schema) Column(name string) (Column, bool) {
	if i := s.Index(name); i >= 0 {
		return s.Columns[i], true
	}
	return Column{}, false
}

// Equal reports whether two schemas have the same columns, order, and key.
func (s Schema) Equal(o Schema) bool {
	if s.Key != o.Key || len(s.Columns) != len(o.Columns) {
		return false
	}
	for i := range s.Columns {
		if s.Columns[i] != o.Columns[i] {
			return false
		}
	}
	return true
}

// Record is one observation, keyed by column name. Absent columns are null.
type Record map[string]Value

// Get returns the value of a column, or null if absent.
func (r Record) Get(name string) Value {
	if v, ok := r[name]; ok {
		return v
	}
	return Null()
}

// Batch is an ordered set of records produced by one fetch.
type Batch struct {
	Schema  Schema
	Records []Record
}

// NewBatch returns an empty batch for schema.
func NewBatch(schema Schema) Batch {
	return Batch{Schema: schema}
}

// Add appends a record.
func (b *Batch) Add(r Record) {
	b.Records = append(b.Records, r)
}

// Len returns the number of records.
func (b Batch) Len() int {
	return len(b.Records)
}
