package regressor

import (
	"encoding/json"
	"fmt"

	"tuneup/lib/ftypes"
)

// tree is one regression tree in parallel-array form: entry i of each array
// describes node i. Leaves have both children set to -1 and their output in
// Value; internal nodes route to Left when vector[Feature] < Threshold and
// to Right otherwise.
type tree struct {
	Left      []int     `json:"left"`
	Right     []int     `json:"right"`
	Feature   []int     `json:"feature"`
	Threshold []float64 `json:"threshold"`
	Value     []float64 `json:"value"`
}

type gbtreeModel struct {
	Trees     []tree  `json:"trees"`
	BaseScore float64 `json:"base_score"`
}

var _ Model = gbtreeModel{}

func newGBTree(params json.RawMessage) (Model, error) {
	var m gbtreeModel
	if err := json.Unmarshal(params, &m); err != nil {
		return nil, fmt.Errorf("failed to parse gbtree model params: %v", err)
	}
	if len(m.Trees) == 0 {
		return nil, fmt.Errorf("gbtree model has no trees")
	}
	for i, t := range m.Trees {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("tree %d: %v", i, err)
		}
	}
	return m, nil
}

func (t tree) validate() error {
	n := len(t.Left)
	if n == 0 {
		return fmt.Errorf("tree has no nodes")
	}
	if len(t.Right) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
		return fmt.Errorf("node arrays have mismatched lengths")
	}
	for i := 0; i < n; i++ {
		l, r := t.Left[i], t.Right[i]
		if (l < 0) != (r < 0) {
			return fmt.Errorf("node %d has exactly one child", i)
		}
		if l >= 0 && (l >= n || r >= n) {
			return fmt.Errorf("node %d has a child out of range", i)
		}
	}
	return nil
}

func (m gbtreeModel) Kind() ftypes.ModelKind {
	return GBTree
}

func (m gbtreeModel) Predict(vector []float64) (float64, error) {
	out := m.BaseScore
	for i := range m.Trees {
		leaf, err := m.Trees[i].score(vector)
		if err != nil {
			return 0, &InferenceError{Kind: GBTree, Err: fmt.Errorf("tree %d: %v", i, err)}
		}
		out += leaf
	}
	return out, nil
}

func (t tree) score(vector []float64) (float64, error) {
	node := 0
	// A well-formed tree reaches a leaf in at most len(t.Left) hops; more
	// means the child pointers form a cycle.
	for steps := 0; steps <= len(t.Left); steps++ {
		if t.Left[node] < 0 {
			return t.Value[node], nil
		}
		f := t.Feature[node]
		if f < 0 || f >= len(vector) {
			return 0, fmt.Errorf("split feature %d out of range for vector of length %d", f, len(vector))
		}
		if vector[f] < t.Threshold[node] {
			node = t.Left[node]
		} else {
			node = t.Right[node]
		}
	}
	return 0, fmt.Errorf("no leaf reached after %d hops", len(t.Left)+1)
}
