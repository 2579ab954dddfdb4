package prediction

import (
	"context"
	"testing"

	"tuneup/lib/ftypes"
	lib "tuneup/lib/prediction"
	"tuneup/test"

	"github.com/stretchr/testify/assert"
)

func testRow(id string, ts int64) lib.LogRow {
	return lib.LogRow{
		RequestID:    ftypes.RequestID(id),
		Timestamp:    ts,
		ModelName:    "service_interval",
		ModelVersion: "test",
		Inputs:       []byte(`{"categoricals":{"vehicle_type":"sedan"}}`),
		Fingerprint:  "00000000deadbeef",
		RawInterval:  6.2,
		Months:       6,
		DueDate:      "2026-03-01",
	}
}

func TestInsertAndRecent(t *testing.T) {
	tg := test.NewTestGarage(t)
	ctx := context.Background()

	rows, err := Recent(ctx, tg.Garage, 10)
	assert.NoError(t, err)
	assert.Empty(t, rows)

	assert.NoError(t, Insert(ctx, tg.Garage, testRow("req-1", 100)))
	assert.NoError(t, Insert(ctx, tg.Garage, testRow("req-2", 200)))
	assert.NoError(t, Insert(ctx, tg.Garage, testRow("req-3", 300)))

	rows, err = Recent(ctx, tg.Garage, 2)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(rows))
	assert.Equal(t, ftypes.RequestID("req-3"), rows[0].RequestID)
	assert.Equal(t, ftypes.RequestID("req-2"), rows[1].RequestID)

	rows, err = Recent(ctx, tg.Garage, 10)
	assert.NoError(t, err)
	assert.Equal(t, 3, len(rows))

	count, err := Count(ctx, tg.Garage)
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), count)
}

func TestRoundTrip(t *testing.T) {
	tg := test.NewTestGarage(t)
	ctx := context.Background()

	want := testRow("req-9", 900)
	assert.NoError(t, Insert(ctx, tg.Garage, want))

	rows, err := Recent(ctx, tg.Garage, 1)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(rows))
	assert.Equal(t, want, rows[0])
}

func TestLogDisabled(t *testing.T) {
	tg := test.NewTestGarageWithoutDB(t)
	ctx := context.Background()

	err := Insert(ctx, tg.Garage, testRow("req-1", 100))
	assert.ErrorIs(t, err, ErrLogDisabled)

	_, err = Recent(ctx, tg.Garage, 10)
	assert.ErrorIs(t, err, ErrLogDisabled)

	_, err = Count(ctx, tg.Garage)
	assert.ErrorIs(t, err, ErrLogDisabled)
}
