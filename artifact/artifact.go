package artifact

import (
	"encoding/json"
	"errors"
	"fmt"

	"tuneup/lib/encoder"
	"tuneup/lib/ftypes"
	"tuneup/lib/schema"
	"tuneup/regressor"
)

var (
	// ErrNotFound means no artifact exists at the configured path.
	ErrNotFound = errors.New("model artifact not found")
	// ErrCorrupt means the artifact exists but cannot be used.
	ErrCorrupt = errors.New("model artifact corrupt")
)

// Bundle is one loaded model artifact: the trained model, the fitted label
// encoders and the exact column order the model was trained on. A bundle is
// immutable after load and shared by reference across requests.
type Bundle struct {
	Name     ftypes.ModelName
	Version  ftypes.ModelVersion
	Model    regressor.Model
	Columns  schema.Schema
	Encoders map[ftypes.ColumnName]encoder.LabelEncoder
}

// manifest is the serialized bundle layout. Model params stay raw here; the
// model kind decides how to read them.
type manifest struct {
	Name           string                     `json:"name"`
	Version        string                     `json:"version"`
	Model          manifestModel              `json:"model"`
	LabelEncoders  map[string]manifestLabels  `json:"label_encoders"`
	FeatureColumns []string                   `json:"feature_columns"`
}

type manifestModel struct {
	Kind   string          `json:"kind"`
	Params json.RawMessage `json:"params"`
}

type manifestLabels struct {
	Classes []string `json:"classes"`
}

// FromJSON parses and validates a serialized bundle. Any inconsistency makes
// the whole artifact unusable, so every failure wraps ErrCorrupt.
func FromJSON(data []byte) (*Bundle, error) {
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if len(m.FeatureColumns) == 0 {
		return nil, fmt.Errorf("%w: no feature columns", ErrCorrupt)
	}
	cols := make([]ftypes.ColumnName, len(m.FeatureColumns))
	for i, c := range m.FeatureColumns {
		cols[i] = ftypes.ColumnName(c)
	}
	sch, err := schema.New(cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	encoders := make(map[ftypes.ColumnName]encoder.LabelEncoder, len(m.LabelEncoders))
	for col, labels := range m.LabelEncoders {
		name := ftypes.ColumnName(col)
		if !sch.Has(name) {
			return nil, fmt.Errorf("%w: encoder column '%s' is not a feature column", ErrCorrupt, col)
		}
		enc, err := encoder.FromClasses(name, labels.Classes)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		encoders[name] = enc
	}
	model, err := regressor.New(ftypes.ModelKind(m.Model.Kind), m.Model.Params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &Bundle{
		Name:     ftypes.ModelName(m.Name),
		Version:  ftypes.ModelVersion(m.Version),
		Model:    model,
		Columns:  sch,
		Encoders: encoders,
	}, nil
}
