package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tuneup/lib/ftypes"
)

func TestSchema(t *testing.T) {
	s, err := New([]ftypes.ColumnName{"make", "mileage", "service_year"})
	assert.NoError(t, err)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []ftypes.ColumnName{"make", "mileage", "service_year"}, s.Columns())

	i, ok := s.Index("mileage")
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.True(t, s.Has("service_year"))

	_, ok = s.Index("engine_cc")
	assert.False(t, ok)
	assert.False(t, s.Has("engine_cc"))
}

func TestSchemaInvalid(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
	_, err = New([]ftypes.ColumnName{"make", "make"})
	assert.Error(t, err)
}
