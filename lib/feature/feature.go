package feature

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/zeebo/xxh3"

	"tuneup/lib/encoder"
	"tuneup/lib/ftypes"
	"tuneup/lib/schema"
)

// The only columns derived from the last-service date. Everything else in a
// schema is either categorical (has an encoder) or numeric.
const (
	ServiceYear  ftypes.ColumnName = "service_year"
	ServiceMonth ftypes.ColumnName = "service_month"
)

// Vector is one assembled model input. Position i holds the value of column
// i of the schema the vector was assembled against.
type Vector []float64

// Fingerprint hashes the vector for the prediction log. Equal vectors hash
// equal across processes and restarts.
func (v Vector) Fingerprint() uint64 {
	buf := make([]byte, 8*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[i*8:], math.Float64bits(f))
	}
	return xxh3.Hash(buf)
}

// Assemble builds the model input for one request. The vector starts zero
// filled and every schema column is then written by exactly one rule:
// service_year and service_month come from the last-service date, columns
// with an encoder come from the categorical selections, and the rest are
// numeric with a soft default of 0.0 when absent. Keys in cats or nums that
// match no schema column are ignored.
func Assemble(
	lastService time.Time,
	cats map[ftypes.ColumnName]string,
	nums map[ftypes.ColumnName]float64,
	sch schema.Schema,
	encoders map[ftypes.ColumnName]encoder.LabelEncoder,
) (Vector, error) {
	vec := make(Vector, sch.Len())
	for i, col := range sch.Columns() {
		switch {
		case col == ServiceYear:
			vec[i] = float64(lastService.Year())
		case col == ServiceMonth:
			vec[i] = float64(lastService.Month())
		default:
			if enc, ok := encoders[col]; ok {
				label, ok := cats[col]
				if !ok {
					return nil, fmt.Errorf("no selection for categorical column '%s'", col)
				}
				code, err := enc.Transform(label)
				if err != nil {
					return nil, fmt.Errorf("failed to encode column '%s': %w", col, err)
				}
				vec[i] = float64(code)
			} else {
				vec[i] = nums[col]
			}
		}
	}
	return vec, nil
}
