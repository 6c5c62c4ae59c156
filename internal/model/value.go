package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Time layouts used in persisted cells.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

// Value is a nullable typed scalar. The zero Value is null.
type Value struct {
	typ ColumnType
	s   string
	i   int64
	d   decimal.Decimal
	t   time.Time
}

// Null returns the null value.
func Null() Value { return Value{} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{typ: TypeString, s: s} }

// IntValue wraps an integer.
func IntValue(i int64) Value { return Value{typ: TypeInt, i: i} }

// FloatValue wraps a decimal.
func FloatValue(d decimal.Decimal) Value { return Value{typ: TypeFloat, d: d} }

// FloatFromFloat64 wraps a float64.
func FloatFromFloat64(f float64) Value { return FloatValue(decimal.NewFromFloat(f)) }

// TimeValue wraps a time truncated to seconds.
func TimeValue(t time.Time) Value { return Value{typ: TypeTime, t: t.Truncate(time.Second)} }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.typ == "" }

// Type returns the value's type, or "" for null.
func (v Value) Type() ColumnType { return v.typ }

// Str returns the string payload.
func (v Value) Str() string { return v.s }

// Int returns the integer payload.
func (v Value) Int() int64 { return v.i }

// Decimal returns the float payload.
func (v Value) Decimal() decimal.Decimal { return v.d }

// Float64 returns the float payload as float64.
func (v Value) Float64() float64 {
	f, _ := v.d.Float64()
	return f
}

// Time returns the time payload.
func (v Value) Time() time.Time { return v.t }

// Equal compares two values by type and payload.
func (v Value) Equal(o Value) bool {
	if v.typ != o.typ {
		return false
	}
	switch v.typ {
	case "":
		return true
	case TypeString:
		return v.s == o.s
	case TypeInt:
		return v.i == o.i
	case TypeFloat:
		return v.d.Equal(o.d)
	case TypeTime:
		return v.t.Equal(o.t)
	}
	return false
}

// String renders the value in its persisted form.
func (v Value) String() string {
	switch v.typ {
	case TypeString:
		return v.s
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat:
		return v.d.String()
	case TypeTime:
		return FormatTime(v.t)
	}
	return ""
}

// FormatTime writes a date-only layout for midnight times, else date and time.
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

// ParseValue decodes a persisted cell for a column type. Empty cells are null,
// except for string columns, where an empty cell is the empty string.
func ParseValue(typ ColumnType, cell string, loc *time.Location) (Value, error) {
	if typ == TypeString {
		return StringValue(cell), nil
	}
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "nan") {
		return Null(), nil
	}
	if loc == nil {
		loc = time.UTC
	}

	switch typ {
	case TypeInt:
		i, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			// Integer columns written by other tools sometimes carry a ".0" suffix.
			d, derr := decimal.NewFromString(cell)
			if derr != nil || !d.Equal(d.Truncate(0)) {
				return Null(), fmt.Errorf("parse int %q: %w", cell, err)
			}
			return IntValue(d.IntPart()), nil
		}
		return IntValue(i), nil
	case TypeFloat:
		d, err := decimal.NewFromString(cell)
		if err != nil {
			return Null(), fmt.Errorf("parse float %q: %w", cell, err)
		}
		return FloatValue(d), nil
	case TypeTime:
		for _, layout := range []string{DateLayout, DateTimeLayout, time.RFC3339} {
			if t, err := time.ParseInLocation(layout, cell, loc); err == nil {
				return TimeValue(t), nil
			}
		}
		return Null(), fmt.Errorf("parse time %q: unrecognized layout", cell)
	}
	return Null(), fmt.Errorf("unknown column type %q", typ)
}
