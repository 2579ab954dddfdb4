package encoder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundTrip(t *testing.T) {
	classes := []string{"diesel", "electric", "hybrid", "petrol"}
	enc, err := FromClasses("fuel_type", classes)
	assert.NoError(t, err)
	assert.Equal(t, classes, enc.Classes())
	for i, label := range classes {
		code, err := enc.Transform(label)
		assert.NoError(t, err)
		assert.Equal(t, i, code)
		back, err := enc.Inverse(code)
		assert.NoError(t, err)
		assert.Equal(t, label, back)
	}
}

func TestUnknownLabel(t *testing.T) {
	enc, err := FromClasses("make", []string{"honda", "toyota"})
	assert.NoError(t, err)
	_, err = enc.Transform("yamaha")
	assert.Error(t, err)
	var unknown *UnknownLabelError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, "yamaha", unknown.Label)
	assert.EqualValues(t, "make", unknown.Column)
}

func TestInverseOutOfRange(t *testing.T) {
	enc, err := FromClasses("make", []string{"honda", "toyota"})
	assert.NoError(t, err)
	_, err = enc.Inverse(-1)
	assert.Error(t, err)
	_, err = enc.Inverse(2)
	assert.Error(t, err)
}

func TestBadClasses(t *testing.T) {
	_, err := FromClasses("make", nil)
	assert.Error(t, err)
	_, err = FromClasses("make", []string{"honda", "honda"})
	assert.Error(t, err)
}
