package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/findat/internal/model"
)

var dailySchema = model.NewSchema("date",
	model.Column{Name: "date", Type: model.TypeTime},
	model.Column{Name: "v", Type: model.TypeInt},
)

func day(d int) model.Value {
	return model.TimeValue(time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC))
}

func dailyBatch(pairs ...[2]int) model.Batch {
	b := model.NewBatch(dailySchema)
	for _, p := range pairs {
		b.Add(model.Record{"date": day(p[0]), "v": model.IntValue(int64(p[1]))})
	}
	return b
}

func openDaily(t *testing.T) *CSVStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data", "daily.csv"), dailySchema)
	require.NoError(t, err)
	return s
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestMergeScenario(t *testing.T) {
	s := openDaily(t)

	require.NoError(t, s.Merge(dailyBatch([2]int{1, 1})))
	assert.Equal(t, "date;v\n2024-01-01;1\n", readFile(t, s.Path()))

	require.NoError(t, s.Merge(dailyBatch([2]int{1, 2})))
	assert.Equal(t, "date;v\n2024-01-01;2\n", readFile(t, s.Path()))

	require.NoError(t, s.Merge(dailyBatch([2]int{2, 3})))
	assert.Equal(t, "date;v\n2024-01-01;2\n2024-01-02;3\n", readFile(t, s.Path()))
}

func TestMergeIdempotent(t *testing.T) {
	s := openDaily(t)
	batch := dailyBatch([2]int{1, 10}, [2]int{2, 20}, [2]int{3, 30})

	require.NoError(t, s.Merge(batch))
	once := readFile(t, s.Path())

	require.NoError(t, s.Merge(batch))
	assert.Equal(t, once, readFile(t, s.Path()))
}

func TestMergeLastWriteWinsWithinBatch(t *testing.T) {
	s := openDaily(t)
	require.NoError(t, s.Merge(dailyBatch([2]int{1, 1}, [2]int{2, 2}, [2]int{1, 9})))

	table, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	// the surviving 01-01 row sits where its last occurrence was
	assert.Equal(t, []string{"2024-01-02", "2024-01-01"}, table.Keys())
	assert.Equal(t, int64(9), table.Rows[1].Get("v").Int())
}

func TestMergeEmptyBatchCreatesHeader(t *testing.T) {
	s := openDaily(t)
	require.NoError(t, s.Merge(model.NewBatch(dailySchema)))
	assert.Equal(t, "date;v\n", readFile(t, s.Path()))

	table, err := s.Load()
	require.NoError(t, err)
	assert.Zero(t, table.Len())
}

func TestLoadMissingFile(t *testing.T) {
	s := openDaily(t)
	table, err := s.Load()
	require.NoError(t, err)
	assert.Zero(t, table.Len())

	_, err = os.Stat(s.Path())
	assert.True(t, errors.Is(err, os.ErrNotExist), "Load must not create the file")
}

func TestMergeRoundTripsValues(t *testing.T) {
	schema := model.NewSchema("id",
		model.Column{Name: "Date", Type: model.TypeTime},
		model.Column{Name: "Title", Type: model.TypeString},
		model.Column{Name: "Score", Type: model.TypeFloat},
		model.Column{Name: "id", Type: model.TypeString},
	)
	path := filepath.Join(t.TempDir(), "subs.csv")

	rec := model.Record{
		"Date":  model.TimeValue(time.Date(2024, 1, 2, 13, 4, 5, 0, time.UTC)),
		"Title": model.StringValue(`semi;colon "quoted"`),
		"id":    model.StringValue("abc"),
	}
	require.NoError(t, MergeRecords(path, schema, rec))

	s, err := Open(path, schema)
	require.NoError(t, err)
	table, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	got := table.Rows[0]
	assert.True(t, got.Get("Date").Equal(rec["Date"]))
	assert.Equal(t, `semi;colon "quoted"`, got.Get("Title").Str())
	assert.True(t, got.Get("Score").IsNull(), "missing column persists as null")
}

func TestMergeSchemaMismatch(t *testing.T) {
	t.Run("header differs", func(t *testing.T) {
		s := openDaily(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
		require.NoError(t, os.WriteFile(s.Path(), []byte("date;value\n2024-01-01;1\n"), 0o644))

		err := s.Merge(dailyBatch([2]int{2, 2}))
		var mismatch *SchemaMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, []string{"date", "value"}, mismatch.Got)

		// untouched
		assert.Equal(t, "date;value\n2024-01-01;1\n", readFile(t, s.Path()))
	})

	t.Run("extra header column", func(t *testing.T) {
		s := openDaily(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
		require.NoError(t, os.WriteFile(s.Path(), []byte("date;v;w\n"), 0o644))

		var mismatch *SchemaMismatchError
		require.ErrorAs(t, s.Merge(dailyBatch()), &mismatch)
	})

	t.Run("unparseable cell", func(t *testing.T) {
		s := openDaily(t)
		require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
		require.NoError(t, os.WriteFile(s.Path(), []byte("date;v\n2024-01-01;abc\n"), 0o644))

		var mismatch *SchemaMismatchError
		require.ErrorAs(t, s.Merge(dailyBatch()), &mismatch)
	})

	tests := []struct {
		name string
		rec  model.Record
		want string
	}{
		{"unknown column", model.Record{"date": day(1), "w": model.IntValue(1)}, `unknown column "w"`},
		{"wrong kind", model.Record{"date": day(1), "v": model.StringValue("1")}, `column "v" is string, want int`},
		{"null key", model.Record{"v": model.IntValue(1)}, `no value for key "date"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openDaily(t)
			err := s.Merge(model.Batch{Schema: dailySchema, Records: []model.Record{tt.rec}})

			var mismatch *SchemaMismatchError
			require.ErrorAs(t, err, &mismatch)
			assert.Contains(t, mismatch.Error(), tt.want)

			_, statErr := os.Stat(s.Path())
			assert.True(t, errors.Is(statErr, os.ErrNotExist), "nothing is written on mismatch")
		})
	}

	t.Run("batch schema differs", func(t *testing.T) {
		s := openDaily(t)
		other := model.NewSchema("date", model.Column{Name: "date", Type: model.TypeTime})
		var mismatch *SchemaMismatchError
		require.ErrorAs(t, s.Merge(model.NewBatch(other)), &mismatch)
	})
}

func TestMergeLocked(t *testing.T) {
	s := openDaily(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))
	require.NoError(t, os.WriteFile(s.Path()+".lock", []byte("{}"), 0o644))

	err := s.Merge(dailyBatch([2]int{1, 1}))
	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.ErrorIs(t, err, ErrLocked)
	assert.Equal(t, "lock", ioErr.Op)
}

func TestMergeBreaksStaleLock(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "daily.csv"), dailySchema, WithLockTTL(time.Minute))
	require.NoError(t, err)

	lock := s.Path() + ".lock"
	require.NoError(t, os.WriteFile(lock, []byte("{}"), 0o644))
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(lock, old, old))

	require.NoError(t, s.Merge(dailyBatch([2]int{1, 1})))
	_, err = os.Stat(lock)
	assert.True(t, errors.Is(err, os.ErrNotExist), "lock released after merge")
}

func TestMergeSequentialWriters(t *testing.T) {
	s := openDaily(t)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var failures []error
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(d int) {
			defer wg.Done()
			if err := s.Merge(dailyBatch([2]int{d, d})); err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	// A writer either merged or was turned away by the lock; no merge is lost
	// or half-written.
	for _, err := range failures {
		assert.ErrorIs(t, err, ErrLocked)
	}
	table, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 8-len(failures), table.Len())
	assert.True(t, strings.HasPrefix(readFile(t, s.Path()), "date;v\n"))
}

func TestOpenValidation(t *testing.T) {
	_, err := Open("", dailySchema)
	assert.Error(t, err)

	_, err = Open("x.csv", model.Schema{})
	assert.Error(t, err)
}
