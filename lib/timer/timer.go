package timer

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"tuneup/lib/ftypes"
)

var fnDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
	Name: "fn_duration_seconds",
	Help: "Duration of individual go functions",
	Objectives: map[float64]float64{
		0.25: 0.05,
		0.50: 0.05,
		0.75: 0.05,
		0.90: 0.05,
		0.95: 0.02,
		0.99: 0.01,
	},
}, []string{"garage_id", "function_name"})

type Timer struct {
	timer *prometheus.Timer
	ctx   context.Context
	name  string
}

// Stop observes the duration and, when the context is armed for tracing,
// records the function as a finished stage.
func (t Timer) Stop() {
	t.timer.ObserveDuration()
	Record(t.ctx, t.name)
}

func Start(ctx context.Context, garageID ftypes.GarageID, funcName string) Timer {
	return Timer{
		timer: prometheus.NewTimer(fnDuration.WithLabelValues(
			fmt.Sprint(garageID.Value()), funcName)),
		ctx:  ctx,
		name: funcName,
	}
}
