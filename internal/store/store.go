package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rickgao/findat/internal/model"
)

const separator = ';'

// CSVStore is a deduplicated CSV file with a fixed schema.
type CSVStore struct {
	path    string
	schema  model.Schema
	logger  *slog.Logger
	lockTTL time.Duration
	loc     *time.Location
}

// Option configures a CSVStore.
type Option func(*CSVStore)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *CSVStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLockTTL sets the age after which a leftover lock file is broken.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *CSVStore) {
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithLocation sets the zone that time cells are read in.
func WithLocation(loc *time.Location) Option {
	return func(s *CSVStore) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Open returns a store for path. The file is not touched until the first
// Merge or Load.
func Open(path string, schema model.Schema, opts ...Option) (*CSVStore, error) {
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("store %s: %w", path, err)
	}

	s := &CSVStore{
		path:    path,
		schema:  schema,
		logger:  slog.Default(),
		lockTTL: DefaultLockTTL,
		loc:     time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Path returns the file path.
func (s *CSVStore) Path() string { return s.path }

// Schema returns the store schema.
func (s *CSVStore) Schema() model.Schema { return s.schema }

// Merge appends batch to the persisted rows, keeps the last occurrence of each
// key and rewrites the file. An empty batch still creates the file.
func (s *CSVStore) Merge(batch model.Batch) error {
	if err := s.checkBatch(batch); err != nil {
		return err
	}

	lockPath := s.path + ".lock"
	if err := acquireLock(lockPath, s.lockTTL); err != nil {
		return &IOError{Op: "lock", Path: s.path, Err: err}
	}
	defer releaseLock(lockPath)

	if err := s.ensureFile(); err != nil {
		return err
	}

	table, err := s.read()
	if err != nil {
		return err
	}

	existing := table.Len()
	rows := append(table.Rows, batch.Records...)
	rows = dedupLast(rows, s.schema.Key)

	if err := writeAtomic(s.path, func(f *os.File) error {
		return s.encode(f, rows)
	}); err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}

	s.logger.Debug("store merged",
		"path", s.path,
		"existing", existing,
		"batch", batch.Len(),
		"rows", len(rows),
	)
	return nil
}

// Load reads the whole table. A missing file is an empty table.
func (s *CSVStore) Load() (*Table, error) {
	if _, err := os.Stat(s.path); errors.Is(err, os.ErrNotExist) {
		return &Table{Schema: s.schema}, nil
	}
	return s.read()
}

// MergeRecords merges records into the store at path in one call.
func MergeRecords(path string, schema model.Schema, records ...model.Record) error {
	s, err := Open(path, schema)
	if err != nil {
		return err
	}
	return s.Merge(model.Batch{Schema: schema, Records: records})
}

// checkBatch rejects records that cannot be written under the schema.
func (s *CSVStore) checkBatch(batch model.Batch) error {
	if len(batch.Schema.Columns) > 0 && !batch.Schema.Equal(s.schema) {
		return &SchemaMismatchError{
			Path: s.path,
			Want: s.schema.Names(),
			Got:  batch.Schema.Names(),
		}
	}

	for i, rec := range batch.Records {
		for name, v := range rec {
			col, ok := s.schema.Column(name)
			if !ok {
				return &SchemaMismatchError{
					Path:   s.path,
					Reason: fmt.Sprintf("record %d has unknown column %q", i, name),
				}
			}
			if !v.IsNull() && v.Type() != col.Type {
				return &SchemaMismatchError{
					Path:   s.path,
					Reason: fmt.Sprintf("record %d column %q is %s, want %s", i, name, v.Type(), col.Type),
				}
			}
		}
		if rec.Get(s.schema.Key).IsNull() {
			return &SchemaMismatchError{
				Path:   s.path,
				Reason: fmt.Sprintf("record %d has no value for key %q", i, s.schema.Key),
			}
		}
	}
	return nil
}

// ensureFile writes a header-only file if none exists.
func (s *CSVStore) ensureFile() error {
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return &IOError{Op: "stat", Path: s.path, Err: err}
	}

	if err := writeAtomic(s.path, func(f *os.File) error {
		return s.encode(f, nil)
	}); err != nil {
		return &IOError{Op: "create", Path: s.path, Err: err}
	}
	s.logger.Info("created store", "path", s.path, "columns", len(s.schema.Columns))
	return nil
}

func (s *CSVStore) read() (*Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: s.path, Err: err}
	}
	defer f.Close()

	return s.decode(f)
}

func (s *CSVStore) decode(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = separator
	cr.FieldsPerRecord = len(s.schema.Columns)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &SchemaMismatchError{Path: s.path, Reason: "file has no header"}
		}
		if errors.Is(err, csv.ErrFieldCount) {
			return nil, &SchemaMismatchError{Path: s.path, Want: s.schema.Names(), Got: header}
		}
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}
	if !equalNames(header, s.schema.Names()) {
		return nil, &SchemaMismatchError{Path: s.path, Want: s.schema.Names(), Got: header}
	}

	table := &Table{Schema: s.schema}
	for line := 2; ; line++ {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, csv.ErrFieldCount) {
				return nil, &SchemaMismatchError{
					Path:   s.path,
					Reason: fmt.Sprintf("line %d has %d fields, want %d", line, len(cells), len(s.schema.Columns)),
				}
			}
			return nil, &IOError{Op: "read", Path: s.path, Err: err}
		}

		rec := make(model.Record, len(cells))
		for i, col := range s.schema.Columns {
			v, err := model.ParseValue(col.Type, cells[i], s.loc)
			if err != nil {
				return nil, &SchemaMismatchError{
					Path:   s.path,
					Reason: fmt.Sprintf("line %d column %q: %v", line, col.Name, err),
				}
			}
			rec[col.Name] = v
		}
		table.Rows = append(table.Rows, rec)
	}
	return table, nil
}

func (s *CSVStore) encode(w io.Writer, rows []model.Record) error {
	cw := csv.NewWriter(w)
	cw.Comma = separator

	if err := cw.Write(s.schema.Names()); err != nil {
		return err
	}
	cells := make([]string, len(s.schema.Columns))
	for _, rec := range rows {
		for i, col := range s.schema.Columns {
			cells[i] = rec.Get(col.Name).String()
		}
		if err := cw.Write(cells); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// dedupLast keeps the last occurrence of each key, at that occurrence's
// position.
func dedupLast(rows []model.Record, key string) []model.Record {
	last := make(map[string]int, len(rows))
	for i, rec := range rows {
		last[dedupKey(rec.Get(key))] = i
	}
	if len(last) == len(rows) {
		return rows
	}

	out := make([]model.Record, 0, len(last))
	for i, rec := range rows {
		if last[dedupKey(rec.Get(key))] == i {
			out = append(out, rec)
		}
	}
	return out
}

// dedupKey compares keys in their persisted form, so a time key matches
// regardless of the zone it was built in.
func dedupKey(v model.Value) string {
	return v.String()
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func trimBOM(s string) string {
	const bom = "\uFEFF"
	if len(s) >= len(bom) && s[:len(bom)] == bom {
		return s[len(bom):]
	}
	return s
}
