package prediction

import (
	"fmt"
	"time"

	"tuneup/lib/ftypes"
)

// Note is the advisory shown with every prediction.
const Note = "This prediction is based on historical service patterns for " +
	"similar vehicles. Use it together with manufacturer recommendations " +
	"and dealer advice."

// Request is one form submission: the last service date plus the categorical
// selections and numeric readings for the model's feature columns.
type Request struct {
	LastService  time.Time                        `json:"last_service"`
	Categoricals map[ftypes.ColumnName]string     `json:"categoricals"`
	Numerics     map[ftypes.ColumnName]float64    `json:"numerics"`
}

func (r Request) Validate() error {
	if r.LastService.IsZero() {
		return fmt.Errorf("last service date cannot be empty")
	}
	return nil
}

// Prediction is the outcome of one request. RawInterval is the unmodified
// model output in months; EffectiveMonths is the whole number of months that
// actually produced DueDate.
type Prediction struct {
	RequestID       ftypes.RequestID
	ModelName       ftypes.ModelName
	ModelVersion    ftypes.ModelVersion
	LastService     time.Time
	RawInterval     float64
	EffectiveMonths int
	DueDate         time.Time
	Fingerprint     uint64
	Timestamp       ftypes.Timestamp
}

// RawString renders the model output to two decimals, sign and fraction
// preserved.
func (p Prediction) RawString() string {
	return fmt.Sprintf("%.2f months", p.RawInterval)
}

// EffectiveString renders the whole months used for date projection.
func (p Prediction) EffectiveString() string {
	return fmt.Sprintf("%d month(s)", p.EffectiveMonths)
}

// DueDateString renders the due date as ISO-8601 (YYYY-MM-DD).
func (p Prediction) DueDateString() string {
	return p.DueDate.Format("2006-01-02")
}

// LogRow is the persisted record of one prediction. The fingerprint is the
// vector hash in fixed-width hex so it stores identically in mysql and
// sqlite.
type LogRow struct {
	RequestID    ftypes.RequestID    `db:"request_id"`
	Timestamp    int64               `db:"timestamp"`
	ModelName    ftypes.ModelName    `db:"model_name"`
	ModelVersion ftypes.ModelVersion `db:"model_version"`
	Inputs       []byte              `db:"inputs"`
	Fingerprint  string              `db:"fingerprint"`
	RawInterval  float64             `db:"raw_interval"`
	Months       int                 `db:"months"`
	DueDate      string              `db:"due_date"`
}

// Row converts the prediction into its persisted form; inputs is the request
// serialized as JSON.
func (p Prediction) Row(inputs []byte) LogRow {
	return LogRow{
		RequestID:    p.RequestID,
		Timestamp:    int64(p.Timestamp),
		ModelName:    p.ModelName,
		ModelVersion: p.ModelVersion,
		Inputs:       inputs,
		Fingerprint:  fmt.Sprintf("%016x", p.Fingerprint),
		RawInterval:  p.RawInterval,
		Months:       p.EffectiveMonths,
		DueDate:      p.DueDateString(),
	}
}
