package predict

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Unleash/unleash-client-go/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"tuneup/garage"
	"tuneup/lib/feature"
	"tuneup/lib/ftypes"
	libprediction "tuneup/lib/prediction"
	"tuneup/lib/schedule"
	"tuneup/lib/timer"
	"tuneup/lib/utils"
	modelprediction "tuneup/model/prediction"
)

const requestIDLength = 16

var predictions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "predictions_total",
	Help: "Number of prediction requests served, by outcome",
}, []string{"outcome"})

// Predict runs the whole pipeline for one submission: encode the form inputs
// into the model's feature vector, score it, round to whole months and
// project the due date from the last service. When the prediction_log flag
// allows it (the default), the outcome is also stored, best effort.
//
// Encoding and scoring failures come back unwrapped so callers can map them
// to the right user-facing response.
func Predict(ctx context.Context, gar garage.Garage, req libprediction.Request) (libprediction.Prediction, error) {
	defer timer.Start(ctx, gar.ID, "controller.predict.predict").Stop()
	var p libprediction.Prediction
	if err := req.Validate(); err != nil {
		predictions.WithLabelValues("invalid").Inc()
		return p, fmt.Errorf("invalid request: %v", err)
	}
	bundle := gar.Bundle
	vector, err := feature.Assemble(req.LastService, req.Categoricals, req.Numerics, bundle.Columns, bundle.Encoders)
	if err != nil {
		predictions.WithLabelValues("encoding_failed").Inc()
		return p, err
	}
	timer.Record(ctx, "predict.assembled")
	raw, err := bundle.Model.Predict(vector)
	if err != nil {
		predictions.WithLabelValues("inference_failed").Inc()
		return p, err
	}
	timer.Record(ctx, "predict.scored")
	months, due := schedule.Due(req.LastService, raw)
	p = libprediction.Prediction{
		RequestID:       ftypes.RequestID(utils.RandString(requestIDLength)),
		ModelName:       bundle.Name,
		ModelVersion:    bundle.Version,
		LastService:     req.LastService,
		RawInterval:     raw,
		EffectiveMonths: months,
		DueDate:         due,
		Fingerprint:     vector.Fingerprint(),
		Timestamp:       ftypes.Timestamp(gar.Clock.Now().Unix()),
	}
	predictions.WithLabelValues("ok").Inc()
	logPrediction(ctx, gar, req, p)
	timer.Record(ctx, "predict.logged")
	return p, nil
}

// Recent returns up to limit stored predictions, newest first.
func Recent(ctx context.Context, gar garage.Garage, limit uint32) ([]libprediction.LogRow, error) {
	defer timer.Start(ctx, gar.ID, "controller.predict.recent").Stop()
	return modelprediction.Recent(ctx, gar, limit)
}

// logPrediction stores the outcome unless the flag or the garage says not
// to. Storage failures are logged and swallowed: the caller already has the
// answer and a lost log row should never turn into a user-facing error.
func logPrediction(ctx context.Context, gar garage.Garage, req libprediction.Request, p libprediction.Prediction) {
	if !unleash.IsEnabled("prediction_log", unleash.WithFallback(true)) {
		return
	}
	inputs, err := json.Marshal(req)
	if err != nil {
		gar.Logger.Warn("failed to serialize prediction inputs", zap.Error(err))
		return
	}
	if err := modelprediction.Insert(ctx, gar, p.Row(inputs)); err != nil {
		if err == modelprediction.ErrLogDisabled {
			return
		}
		gar.Logger.Warn("failed to store prediction",
			zap.String("request_id", string(p.RequestID)), zap.Error(err))
	}
}
