package schema

import (
	"fmt"

	"tuneup/lib/ftypes"
)

// Schema is the ordered list of feature columns a model was trained on.
// Column order fixes the position of every value in an assembled vector, so
// it is preserved exactly as given.
type Schema struct {
	columns []ftypes.ColumnName
	index   map[ftypes.ColumnName]int
}

func New(columns []ftypes.ColumnName) (Schema, error) {
	if len(columns) == 0 {
		return Schema{}, fmt.Errorf("schema has no columns")
	}
	index := make(map[ftypes.ColumnName]int, len(columns))
	for i, col := range columns {
		if _, ok := index[col]; ok {
			return Schema{}, fmt.Errorf("schema repeats column '%s'", col)
		}
		index[col] = i
	}
	return Schema{columns: columns, index: index}, nil
}

func (s Schema) Len() int {
	return len(s.columns)
}

func (s Schema) Columns() []ftypes.ColumnName {
	return s.columns
}

// Index returns the vector position of a column and whether it exists.
func (s Schema) Index(col ftypes.ColumnName) (int, bool) {
	i, ok := s.index[col]
	return i, ok
}

func (s Schema) Has(col ftypes.ColumnName) bool {
	_, ok := s.index[col]
	return ok
}
