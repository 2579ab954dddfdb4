package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tuneup/lib/ftypes"
	"tuneup/regressor"
)

const validJSON = `{
	"name": "service-interval",
	"version": "v3",
	"model": {"kind": "linear", "params": {"coefficients": [0.5, 1.0, -0.25, 0.0, 0.1], "intercept": 2.0}},
	"label_encoders": {
		"make": {"classes": ["honda", "toyota"]},
		"fuel_type": {"classes": ["diesel", "petrol"]}
	},
	"feature_columns": ["make", "fuel_type", "service_year", "service_month", "mileage"]
}`

func TestFromJSON(t *testing.T) {
	b, err := FromJSON([]byte(validJSON))
	assert.NoError(t, err)
	assert.Equal(t, ftypes.ModelName("service-interval"), b.Name)
	assert.Equal(t, ftypes.ModelVersion("v3"), b.Version)
	assert.Equal(t, regressor.Linear, b.Model.Kind())
	assert.Equal(t, 5, b.Columns.Len())
	assert.Equal(t,
		[]ftypes.ColumnName{"make", "fuel_type", "service_year", "service_month", "mileage"},
		b.Columns.Columns())

	code, err := b.Encoders["make"].Transform("toyota")
	assert.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Len(t, b.Encoders, 2)

	out, err := b.Model.Predict([]float64{1, 0, 2024, 1, 50000})
	assert.NoError(t, err)
	assert.InDelta(t, 2.0+0.5+(-0.25*2024)+0.1*50000, out, 1e-9)
}

func TestFromJSONCorrupt(t *testing.T) {
	tests := []string{
		`not json at all`,
		`{"name": "m", "model": {"kind": "linear", "params": {"coefficients": [1]}}}`,
		`{"model": {"kind": "linear", "params": {"coefficients": [1]}},
		  "feature_columns": ["mileage", "mileage"]}`,
		`{"model": {"kind": "linear", "params": {"coefficients": [1]}},
		  "label_encoders": {"color": {"classes": ["red"]}},
		  "feature_columns": ["mileage"]}`,
		`{"model": {"kind": "forest", "params": {}},
		  "feature_columns": ["mileage"]}`,
		`{"model": {"kind": "linear", "params": {"coefficients": [1, 2]}},
		  "label_encoders": {"make": {"classes": []}},
		  "feature_columns": ["make", "mileage"]}`,
	}
	for _, blob := range tests {
		_, err := FromJSON([]byte(blob))
		assert.Error(t, err, "blob: %s", blob)
		assert.ErrorIs(t, err, ErrCorrupt, "blob: %s", blob)
	}
}
