package regressor

import (
	"encoding/json"
	"fmt"

	"tuneup/lib/ftypes"
)

const (
	Linear ftypes.ModelKind = "linear"
	GBTree ftypes.ModelKind = "gbtree"
)

// Model scores one feature vector. Implementations are in-process and free
// of side effects: no I/O, no retries, safe for concurrent use.
type Model interface {
	Kind() ftypes.ModelKind
	Predict(vector []float64) (float64, error)
}

// InferenceError reports a scoring failure for a single request. The model
// itself stays valid for later requests.
type InferenceError struct {
	Kind ftypes.ModelKind
	Err  error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("%s inference failed: %v", e.Kind, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}

// New builds a model of the given kind from its serialized parameters.
func New(kind ftypes.ModelKind, params json.RawMessage) (Model, error) {
	switch kind {
	case Linear:
		return newLinear(params)
	case GBTree:
		return newGBTree(params)
	default:
		return nil, fmt.Errorf("unsupported model kind '%s'", kind)
	}
}
