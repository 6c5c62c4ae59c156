package writer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/findat/internal/model"
)

// DB is the subset of *pgxpool.Pool the mirror uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// MirrorMetrics counts mirror activity.
type MirrorMetrics struct {
	Upserts int64
	Errors  int64
	Flushes int64
}

// Mirror upserts batches into one table.
type Mirror struct {
	db     DB
	table  pgx.Identifier
	logger *slog.Logger

	mu      sync.Mutex
	created bool
	metrics MirrorMetrics
}

// NewMirror creates a Mirror writing to dbSchema.table.
func NewMirror(db DB, dbSchema, table string, logger *slog.Logger) *Mirror {
	if logger == nil {
		logger = slog.Default()
	}
	id := pgx.Identifier{table}
	if dbSchema != "" {
		id = pgx.Identifier{dbSchema, table}
	}
	return &Mirror{
		db:     db,
		table:  id,
		logger: logger.With("table", id.Sanitize()),
	}
}

// Stats returns current metrics.
func (m *Mirror) Stats() MirrorMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.metrics
}

// Write creates the table on first use and upserts every record of batch.
func (m *Mirror) Write(ctx context.Context, batch model.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	if err := batch.Schema.Validate(); err != nil {
		return fmt.Errorf("mirror schema: %w", err)
	}

	if err := m.ensureTable(ctx, batch.Schema); err != nil {
		m.recordError()
		return err
	}

	start := time.Now()
	n, err := m.upsert(ctx, batch)
	if err != nil {
		m.recordError()
		m.logger.Error("mirror upsert failed", "error", err, "count", batch.Len())
		return err
	}

	m.mu.Lock()
	m.metrics.Upserts += int64(n)
	m.metrics.Flushes++
	m.mu.Unlock()

	m.logger.Debug("mirrored batch",
		"count", n,
		"duration", time.Since(start),
	)
	return nil
}

func (m *Mirror) ensureTable(ctx context.Context, schema model.Schema) error {
	m.mu.Lock()
	created := m.created
	m.mu.Unlock()
	if created {
		return nil
	}

	if _, err := m.db.Exec(ctx, CreateTableSQL(m.table, schema)); err != nil {
		return fmt.Errorf("create table %s: %w", m.table.Sanitize(), err)
	}

	m.mu.Lock()
	m.created = true
	m.mu.Unlock()
	return nil
}

func (m *Mirror) upsert(ctx context.Context, batch model.Batch) (int, error) {
	query := UpsertSQL(m.table, batch.Schema)

	b := &pgx.Batch{}
	for _, r := range batch.Records {
		b.Queue(query, Args(batch.Schema, r)...)
	}

	results := m.db.SendBatch(ctx, b)
	defer results.Close()

	for i := range batch.Records {
		if _, err := results.Exec(); err != nil {
			return i, fmt.Errorf("upsert record %d: %w", i, err)
		}
	}
	return len(batch.Records), nil
}

func (m *Mirror) recordError() {
	m.mu.Lock()
	m.metrics.Errors++
	m.mu.Unlock()
}

// CreateTableSQL returns an idempotent CREATE TABLE statement for schema.
func CreateTableSQL(table pgx.Identifier, schema model.Schema) string {
	cols := make([]string, 0, len(schema.Columns)+1)
	for _, c := range schema.Columns {
		cols = append(cols, pgx.Identifier{c.Name}.Sanitize()+" "+sqlType(c.Type))
	}
	cols = append(cols, "PRIMARY KEY ("+pgx.Identifier{schema.Key}.Sanitize()+")")
	return "CREATE TABLE IF NOT EXISTS " + table.Sanitize() + " (" + strings.Join(cols, ", ") + ")"
}

// UpsertSQL returns the INSERT ... ON CONFLICT DO UPDATE statement for schema.
// Parameters follow the column order.
func UpsertSQL(table pgx.Identifier, schema model.Schema) string {
	names := make([]string, len(schema.Columns))
	params := make([]string, len(schema.Columns))
	var updates []string
	for i, c := range schema.Columns {
		names[i] = pgx.Identifier{c.Name}.Sanitize()
		params[i] = fmt.Sprintf("$%d", i+1)
		if c.Name != schema.Key {
			updates = append(updates, names[i]+" = EXCLUDED."+names[i])
		}
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table.Sanitize())
	sb.WriteString(" (" + strings.Join(names, ", ") + ")")
	sb.WriteString(" VALUES (" + strings.Join(params, ", ") + ")")
	sb.WriteString(" ON CONFLICT (" + pgx.Identifier{schema.Key}.Sanitize() + ")")
	if len(updates) == 0 {
		sb.WriteString(" DO NOTHING")
	} else {
		sb.WriteString(" DO UPDATE SET " + strings.Join(updates, ", "))
	}
	return sb.String()
}

// Args converts r to query arguments in column order. Nulls become nil.
func Args(schema model.Schema, r model.Record) []any {
	args := make([]any, len(schema.Columns))
	for i, c := range schema.Columns {
		v := r.Get(c.Name)
		if v.IsNull() {
			continue
		}
		switch v.Type() {
		case model.TypeString:
			args[i] = v.Str()
		case model.TypeInt:
			args[i] = v.Int()
		case model.TypeFloat:
			args[i] = v.Decimal()
		case model.TypeTime:
			args[i] = v.Time()
		}
	}
	return args
}

func sqlType(t model.ColumnType) string {
	switch t {
	case model.TypeInt:
		return "BIGINT"
	case model.TypeFloat:
		return "NUMERIC"
	case model.TypeTime:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}
