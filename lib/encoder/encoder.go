package encoder

import (
	"fmt"

	"tuneup/lib/ftypes"
)

// UnknownLabelError reports a label absent from an encoder's vocabulary.
// The form bounds categorical inputs to the known classes, so seeing this
// error means a caller bypassed the schema.
type UnknownLabelError struct {
	Column ftypes.ColumnName
	Label  string
}

func (e *UnknownLabelError) Error() string {
	return fmt.Sprintf("label '%s' is not known to the encoder for column '%s'", e.Label, e.Column)
}

// LabelEncoder maps a categorical vocabulary to the integer codes the model
// was trained on. Implementations are immutable after construction.
type LabelEncoder interface {
	// Transform returns the code for a known label and an UnknownLabelError
	// otherwise. There is no fallback code.
	Transform(label string) (int, error)
	// Inverse returns the label for a code produced by Transform.
	Inverse(code int) (string, error)
	// Classes returns the known labels in code order.
	Classes() []string
}

type mapEncoder struct {
	column  ftypes.ColumnName
	classes []string
	codes   map[string]int
}

var _ LabelEncoder = mapEncoder{}

// FromClasses builds an encoder over the given labels, coding them in order.
func FromClasses(column ftypes.ColumnName, classes []string) (LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("encoder for column '%s' has no classes", column)
	}
	codes := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, ok := codes[c]; ok {
			return nil, fmt.Errorf("encoder for column '%s' repeats class '%s'", column, c)
		}
		codes[c] = i
	}
	return mapEncoder{column: column, classes: classes, codes: codes}, nil
}

func (e mapEncoder) Transform(label string) (int, error) {
	code, ok := e.codes[label]
	if !ok {
		return 0, &UnknownLabelError{Column: e.column, Label: label}
	}
	return code, nil
}

func (e mapEncoder) Inverse(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("code %d out of range for column '%s' with %d classes", code, e.column, len(e.classes))
	}
	return e.classes[code], nil
}

func (e mapEncoder) Classes() []string {
	return e.classes
}
