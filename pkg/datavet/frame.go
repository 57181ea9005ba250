package datavet

import (
	"fmt"
	"time"
)

// Schema describes the logical shape of a dataset.
type Schema struct {
	Columns []ColumnSchema
}

type ColumnSchema struct {
	Name     string
	Type     Kind
	Nullable bool
}

// Kind enumerates supported logical types.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTime:
		return "time"
	default:
		return "invalid"
	}
}

// Numeric reports whether the kind supports arithmetic comparisons.
func (k Kind) Numeric() bool { return k == KindInt || k == KindFloat }

// Column is a typed, nullable column abstraction. Value returns the cell as
// an untyped scalar with ok=false for nulls, which is what rules report in
// violations.
type Column interface {
	Name() string
	Kind() Kind
	Len() int
	IsNull(i int) bool
	SetNull(i int)
	AppendNull()
	Value(i int) (any, bool)
}

// Col is the single generic column implementation behind every Kind.
type Col[T any] struct {
	name  string
	kind  Kind
	data  []T
	nulls []bool
}

func newCol[T any](name string, kind Kind) *Col[T] {
	return &Col[T]{name: name, kind: kind}
}

func (c *Col[T]) Name() string      { return c.name }
func (c *Col[T]) Kind() Kind        { return c.kind }
func (c *Col[T]) Len() int          { return len(c.data) }
func (c *Col[T]) IsNull(i int) bool { return c.nulls[i] }
func (c *Col[T]) SetNull(i int)     { c.nulls[i] = true }

func (c *Col[T]) Get(i int) (T, bool) { return c.data[i], !c.nulls[i] }
func (c *Col[T]) Set(i int, v T)      { c.data[i] = v; c.nulls[i] = false }

func (c *Col[T]) Value(i int) (any, bool) {
	if c.nulls[i] {
		return nil, false
	}
	return c.data[i], true
}

func (c *Col[T]) Append(v T) {
	c.data = append(c.data, v)
	c.nulls = append(c.nulls, false)
}

func (c *Col[T]) AppendNull() {
	var zero T
	c.data = append(c.data, zero)
	c.nulls = append(c.nulls, true)
}

// Concrete column names kept for readable type assertions at call sites.
type (
	BoolColumn   = Col[bool]
	IntColumn    = Col[int64]
	FloatColumn  = Col[float64]
	StringColumn = Col[string]
	TimeColumn   = Col[time.Time]
)

// Frame is a columnar container for tabular data. Validation rules treat a
// Frame as read-only; only loaders and callers mutate it.
type Frame struct {
	schema Schema
	cols   []Column
	index  map[string]int // name -> col index
	nrows  int
}

func NewFrame(s Schema) *Frame {
	f := &Frame{schema: s, cols: make([]Column, len(s.Columns)), index: make(map[string]int)}
	for i, cs := range s.Columns {
		switch cs.Type {
		case KindBool:
			f.cols[i] = newCol[bool](cs.Name, KindBool)
		case KindInt:
			f.cols[i] = newCol[int64](cs.Name, KindInt)
		case KindFloat:
			f.cols[i] = newCol[float64](cs.Name, KindFloat)
		case KindString:
			f.cols[i] = newCol[string](cs.Name, KindString)
		case KindTime:
			f.cols[i] = newCol[time.Time](cs.Name, KindTime)
		default:
			panic("invalid column kind")
		}
		f.index[cs.Name] = i
	}
	return f
}

func (f *Frame) Schema() Schema { return f.schema }
func (f *Frame) Rows() int      { return f.nrows }
func (f *Frame) Cols() int      { return len(f.cols) }

func (f *Frame) ColumnByName(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// AppendNullRow appends a row with all-null values.
func (f *Frame) AppendNullRow() {
	for _, c := range f.cols {
		c.AppendNull()
	}
	f.nrows++
}

// SetCell sets a single cell value by name (row must exist). A nil value
// marks the cell null.
func (f *Frame) SetCell(row int, name string, v any) error {
	i, ok := f.index[name]
	if !ok {
		return fmt.Errorf("unknown column: %s", name)
	}
	c := f.cols[i]
	if v == nil {
		c.SetNull(row)
		return nil
	}
	switch col := c.(type) {
	case *BoolColumn:
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("column %s expects bool", name)
		}
		col.Set(row, b)
	case *IntColumn:
		switch t := v.(type) {
		case int:
			col.Set(row, int64(t))
		case int64:
			col.Set(row, t)
		case float64:
			col.Set(row, int64(t))
		default:
			return fmt.Errorf("column %s expects int/int64", name)
		}
	case *FloatColumn:
		switch t := v.(type) {
		case float32:
			col.Set(row, float64(t))
		case float64:
			col.Set(row, t)
		case int:
			col.Set(row, float64(t))
		case int64:
			col.Set(row, float64(t))
		default:
			return fmt.Errorf("column %s expects float64", name)
		}
	case *StringColumn:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("column %s expects string", name)
		}
		col.Set(row, s)
	case *TimeColumn:
		t, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("column %s expects time.Time", name)
		}
		col.Set(row, t)
	default:
		return fmt.Errorf("unknown column kind")
	}
	return nil
}

// Number reads a cell from an int or float column as float64.
// ok is false for nulls and non-numeric kinds.
func Number(c Column, i int) (float64, bool) {
	switch col := c.(type) {
	case *FloatColumn:
		return col.Get(i)
	case *IntColumn:
		v, ok := col.Get(i)
		return float64(v), ok
	default:
		return 0, false
	}
}

// Row is a read-only view of a single frame row, handed to row predicates
// and reductions. Accessors return ok=false for nulls, absent columns, and
// kind mismatches; predicates should treat !ok as a failed check.
type Row struct {
	f *Frame
	i int
}

func (f *Frame) Row(i int) Row { return Row{f: f, i: i} }

func (r Row) Index() int { return r.i }

func (r Row) IsNull(name string) bool {
	c, ok := r.f.ColumnByName(name)
	if !ok {
		return true
	}
	return c.IsNull(r.i)
}

func (r Row) Value(name string) (any, bool) {
	c, ok := r.f.ColumnByName(name)
	if !ok {
		return nil, false
	}
	return c.Value(r.i)
}

func (r Row) Float(name string) (float64, bool) {
	c, ok := r.f.ColumnByName(name)
	if !ok {
		return 0, false
	}
	return Number(c, r.i)
}

func (r Row) Int(name string) (int64, bool) {
	c, ok := r.f.ColumnByName(name)
	if !ok {
		return 0, false
	}
	col, ok := c.(*IntColumn)
	if !ok {
		return 0, false
	}
	return col.Get(r.i)
}

func (r Row) String(name string) (string, bool) {
	c, ok := r.f.ColumnByName(name)
	if !ok {
		return "", false
	}
	col, ok := c.(*StringColumn)
	if !ok {
		return "", false
	}
	return col.Get(r.i)
}

func (r Row) Bool(name string) (bool, bool) {
	c, ok := r.f.ColumnByName(name)
	if !ok {
		return false, false
	}
	col, ok := c.(*BoolColumn)
	if !ok {
		return false, false
	}
	return col.Get(r.i)
}
