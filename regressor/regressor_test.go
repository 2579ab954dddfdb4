package regressor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLinearPredict(t *testing.T) {
	m, err := New(Linear, json.RawMessage(`{"coefficients": [2.0, -1.0, 0.5], "intercept": 1.0}`))
	assert.NoError(t, err)
	assert.Equal(t, Linear, m.Kind())

	out, err := m.Predict([]float64{3, 2, 4})
	assert.NoError(t, err)
	assert.Equal(t, 7.0, out)

	_, err = m.Predict([]float64{3, 2})
	assert.Error(t, err)
	var inf *InferenceError
	assert.True(t, errors.As(err, &inf))
}

func TestLinearBadParams(t *testing.T) {
	_, err := New(Linear, json.RawMessage(`{"coefficients": []}`))
	assert.Error(t, err)
	_, err = New(Linear, json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestGBTreePredict(t *testing.T) {
	params := json.RawMessage(`{
		"base_score": 0.5,
		"trees": [
			{
				"left": [1, -1, -1],
				"right": [2, -1, -1],
				"feature": [0, 0, 0],
				"threshold": [5.0, 0, 0],
				"value": [0, 2.0, 8.0]
			},
			{
				"left": [1, -1, -1],
				"right": [2, -1, -1],
				"feature": [1, 0, 0],
				"threshold": [100.0, 0, 0],
				"value": [0, -1.0, 1.0]
			}
		]
	}`)
	m, err := New(GBTree, params)
	assert.NoError(t, err)
	assert.Equal(t, GBTree, m.Kind())

	// 3 < 5 and 50 < 100: leaves 2.0 and -1.0 plus base 0.5.
	out, err := m.Predict([]float64{3, 50})
	assert.NoError(t, err)
	assert.Equal(t, 1.5, out)

	// 7 >= 5 and 150 >= 100: leaves 8.0 and 1.0 plus base 0.5.
	out, err = m.Predict([]float64{7, 150})
	assert.NoError(t, err)
	assert.Equal(t, 9.5, out)
}

func TestGBTreeFeatureOutOfRange(t *testing.T) {
	params := json.RawMessage(`{
		"trees": [{
			"left": [1, -1, -1],
			"right": [2, -1, -1],
			"feature": [4, 0, 0],
			"threshold": [5.0, 0, 0],
			"value": [0, 2.0, 8.0]
		}]
	}`)
	m, err := New(GBTree, params)
	assert.NoError(t, err)
	_, err = m.Predict([]float64{1, 2})
	assert.Error(t, err)
	var inf *InferenceError
	assert.True(t, errors.As(err, &inf))
	assert.Equal(t, GBTree, inf.Kind)
}

func TestGBTreeBadParams(t *testing.T) {
	// No trees.
	_, err := New(GBTree, json.RawMessage(`{"trees": []}`))
	assert.Error(t, err)
	// Node with exactly one child.
	_, err = New(GBTree, json.RawMessage(`{
		"trees": [{
			"left": [1, -1],
			"right": [-1, -1],
			"feature": [0, 0],
			"threshold": [1.0, 0],
			"value": [0, 1.0]
		}]
	}`))
	assert.Error(t, err)
	// Mismatched node arrays.
	_, err = New(GBTree, json.RawMessage(`{
		"trees": [{
			"left": [-1],
			"right": [-1],
			"feature": [0],
			"threshold": [1.0],
			"value": []
		}]
	}`))
	assert.Error(t, err)
	// Child out of range.
	_, err = New(GBTree, json.RawMessage(`{
		"trees": [{
			"left": [1, -1],
			"right": [5, -1],
			"feature": [0, 0],
			"threshold": [1.0, 0],
			"value": [0, 1.0]
		}]
	}`))
	assert.Error(t, err)
}

func TestUnsupportedKind(t *testing.T) {
	_, err := New("forest", json.RawMessage(`{}`))
	assert.Error(t, err)
}
