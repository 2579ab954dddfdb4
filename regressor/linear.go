package regressor

import (
	"encoding/json"
	"fmt"

	"tuneup/lib/ftypes"
)

type linearModel struct {
	Coefficients []float64 `json:"coefficients"`
	Intercept    float64   `json:"intercept"`
}

var _ Model = linearModel{}

func newLinear(params json.RawMessage) (Model, error) {
	var m linearModel
	if err := json.Unmarshal(params, &m); err != nil {
		return nil, fmt.Errorf("failed to parse linear model params: %v", err)
	}
	if len(m.Coefficients) == 0 {
		return nil, fmt.Errorf("linear model has no coefficients")
	}
	return m, nil
}

func (m linearModel) Kind() ftypes.ModelKind {
	return Linear
}

func (m linearModel) Predict(vector []float64) (float64, error) {
	if len(vector) != len(m.Coefficients) {
		return 0, &InferenceError{
			Kind: Linear,
			Err:  fmt.Errorf("expected %d features but got %d", len(m.Coefficients), len(vector)),
		}
	}
	out := m.Intercept
	for i, c := range m.Coefficients {
		out += c * vector[i]
	}
	return out, nil
}
