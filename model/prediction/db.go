package prediction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tuneup/garage"
	lib "tuneup/lib/prediction"
	"tuneup/lib/timer"
)

// ErrLogDisabled is returned when the garage runs without a database, so
// callers can tell "nothing stored" apart from a real storage failure.
var ErrLogDisabled = errors.New("prediction log disabled")

func Insert(ctx context.Context, gar garage.Garage, row lib.LogRow) error {
	defer timer.Start(ctx, gar.ID, "model.prediction.db.insert").Stop()
	conn, ok := gar.DB.Get()
	if !ok {
		return ErrLogDisabled
	}
	stmt := `
		INSERT INTO prediction_log (
			request_id,
			timestamp,
			model_name,
			model_version,
			inputs,
			fingerprint,
			raw_interval,
			months,
			due_date
		) VALUES (
			:request_id,
			:timestamp,
			:model_name,
			:model_version,
			:inputs,
			:fingerprint,
			:raw_interval,
			:months,
			:due_date
		)
	`
	if _, err := conn.NamedExecContext(ctx, stmt, row); err != nil {
		return fmt.Errorf("failed to create prediction log entry in db: %v", err)
	}
	return nil
}

// Recent returns the newest entries first, at most limit of them.
func Recent(ctx context.Context, gar garage.Garage, limit uint32) ([]lib.LogRow, error) {
	defer timer.Start(ctx, gar.ID, "model.prediction.db.recent").Stop()
	conn, ok := gar.DB.Get()
	if !ok {
		return nil, ErrLogDisabled
	}
	var rows []lib.LogRow
	err := conn.SelectContext(ctx, &rows, `
		SELECT *
		FROM prediction_log
		ORDER BY timestamp DESC, request_id
		LIMIT ?
	`, limit)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction log entries: %v", err)
	}
	return rows, nil
}

func Count(ctx context.Context, gar garage.Garage) (uint64, error) {
	defer timer.Start(ctx, gar.ID, "model.prediction.db.count").Stop()
	conn, ok := gar.DB.Get()
	if !ok {
		return 0, ErrLogDisabled
	}
	var count uint64
	err := conn.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM prediction_log
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to count prediction log entries: %v", err)
	}
	return count, nil
}
