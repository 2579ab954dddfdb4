package feature

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tuneup/lib/encoder"
	"tuneup/lib/ftypes"
	"tuneup/lib/schema"
)

func testSchema(t *testing.T) (schema.Schema, map[ftypes.ColumnName]encoder.LabelEncoder) {
	sch, err := schema.New([]ftypes.ColumnName{
		"make", "fuel_type", "service_year", "service_month", "mileage", "distance",
	})
	assert.NoError(t, err)
	makes, err := encoder.FromClasses("make", []string{"honda", "toyota"})
	assert.NoError(t, err)
	fuels, err := encoder.FromClasses("fuel_type", []string{"diesel", "petrol"})
	assert.NoError(t, err)
	encoders := map[ftypes.ColumnName]encoder.LabelEncoder{
		"make":      makes,
		"fuel_type": fuels,
	}
	return sch, encoders
}

func TestAssemble(t *testing.T) {
	sch, encoders := testSchema(t)
	last := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	vec, err := Assemble(
		last,
		map[ftypes.ColumnName]string{"make": "toyota", "fuel_type": "diesel"},
		map[ftypes.ColumnName]float64{"mileage": 50000, "distance": 10},
		sch, encoders,
	)
	assert.NoError(t, err)
	assert.Equal(t, sch.Len(), len(vec))
	assert.Equal(t, Vector{1, 0, 2024, 1, 50000, 10}, vec)
}

func TestAssembleNumericDefault(t *testing.T) {
	sch, encoders := testSchema(t)
	last := time.Date(2023, time.November, 2, 0, 0, 0, 0, time.UTC)
	vec, err := Assemble(
		last,
		map[ftypes.ColumnName]string{"make": "honda", "fuel_type": "petrol"},
		map[ftypes.ColumnName]float64{"mileage": 72000},
		sch, encoders,
	)
	assert.NoError(t, err)
	assert.Equal(t, Vector{0, 1, 2023, 11, 72000, 0}, vec)
}

func TestAssembleIgnoresUnknownKeys(t *testing.T) {
	sch, encoders := testSchema(t)
	last := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	vec, err := Assemble(
		last,
		map[ftypes.ColumnName]string{"make": "honda", "fuel_type": "petrol", "color": "red"},
		map[ftypes.ColumnName]float64{"mileage": 100, "doors": 4},
		sch, encoders,
	)
	assert.NoError(t, err)
	assert.Equal(t, Vector{0, 1, 2024, 6, 100, 0}, vec)
}

func TestAssembleUnknownLabel(t *testing.T) {
	sch, encoders := testSchema(t)
	last := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	_, err := Assemble(
		last,
		map[ftypes.ColumnName]string{"make": "yamaha", "fuel_type": "petrol"},
		nil,
		sch, encoders,
	)
	assert.Error(t, err)
	var unknown *encoder.UnknownLabelError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, "yamaha", unknown.Label)
}

func TestAssembleMissingSelection(t *testing.T) {
	sch, encoders := testSchema(t)
	last := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	_, err := Assemble(
		last,
		map[ftypes.ColumnName]string{"make": "honda"},
		nil,
		sch, encoders,
	)
	assert.Error(t, err)
}

func TestAssembleNoDateColumns(t *testing.T) {
	sch, err := schema.New([]ftypes.ColumnName{"mileage", "distance"})
	assert.NoError(t, err)
	last := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	vec, err := Assemble(last, nil, map[ftypes.ColumnName]float64{"mileage": 5, "distance": 7}, sch, nil)
	assert.NoError(t, err)
	assert.Equal(t, Vector{5, 7}, vec)
}

func TestFingerprint(t *testing.T) {
	a := Vector{1, 2024, 1, 50000}
	b := Vector{1, 2024, 1, 50000}
	c := Vector{1, 2024, 2, 50000}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
	assert.Equal(t, a.Fingerprint(), a.Fingerprint())
}
