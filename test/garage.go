package test

import (
	"context"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Unleash/unleash-client-go/v3"
	"github.com/raulk/clock"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"tuneup/artifact"
	"tuneup/db"
	"tuneup/garage"
	"tuneup/lib/ftypes"
	unleashlib "tuneup/lib/unleash"
	"tuneup/resource"
)

// artifactJSON is a small but fully valid bundle: a linear model over five
// columns where only the vehicle type and the mileage carry weight. A sedan
// with 50000 km scores exactly 6.0 months.
const artifactJSON = `{
	"name": "service_interval",
	"version": "test",
	"model": {
		"kind": "linear",
		"params": {
			"coefficients": [1.0, 0.0, 0.0, 0.0, 0.00002],
			"intercept": 5.0
		}
	},
	"label_encoders": {
		"vehicle_type": {"classes": ["sedan", "suv", "truck"]},
		"fuel_type": {"classes": ["diesel", "petrol"]}
	},
	"feature_columns": ["vehicle_type", "fuel_type", "service_year", "service_month", "mileage"]
}`

type TestGarage struct {
	garage.Garage
	Unleash *unleashlib.FakeUnleashServer
}

// NewTestGarage returns a garage backed by throwaway resources: a sqlite file
// in the test's temp dir, a bundle written to disk and loaded through the real
// loader, a mock clock parked at the current time and a fake unleash server
// whose flags the test controls. Everything is cleaned up with the test.
func NewTestGarage[TB testing.TB](t TB) TestGarage {
	rand.Seed(time.Now().UnixNano())
	garageID := ftypes.GarageID(rand.Uint32())
	scope := resource.NewGarageScope(garageID)

	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	assert.NoError(t, os.WriteFile(path, []byte(artifactJSON), 0644))
	loader := artifact.NewLoader(artifact.LoaderArgs{ArtifactPath: path})
	bundle, err := loader.Load(context.Background())
	assert.NoError(t, err)

	sqliteConfig := db.SQLiteConfig{
		Fname:  filepath.Join(dir, scope.PrefixedName("tuneup.db")),
		Schema: garage.Schema,
	}
	conn, err := sqliteConfig.Materialize(scope)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = conn.(db.Connection).Teardown() })

	logger, err := zap.NewDevelopment()
	assert.NoError(t, err)
	zap.ReplaceGlobals(logger)
	logger = logger.With(zap.Uint32("garage_id", garageID.Value()))

	faker := unleashlib.NewFakeUnleash()
	err = unleash.Initialize(unleash.WithListener(&unleash.DebugListener{}),
		unleash.WithAppName("local-garage"),
		unleash.WithUrl(faker.Url()))
	assert.NoError(t, err)

	ck := clock.NewMock()
	ck.Add(time.Since(time.Unix(0, 0)))

	return TestGarage{
		Garage: garage.Garage{
			ID:     garageID,
			DB:     mo.Some(conn.(db.Connection)),
			Clock:  ck,
			Logger: logger,
			Loader: loader,
			Bundle: bundle,
		},
		Unleash: faker,
	}
}

// NewTestGarageWithoutDB is NewTestGarage minus the sqlite connection, for
// exercising the paths that must keep working when storage is disabled.
func NewTestGarageWithoutDB[TB testing.TB](t TB) TestGarage {
	tg := NewTestGarage(t)
	if conn, ok := tg.Garage.DB.Get(); ok {
		assert.NoError(t, conn.Teardown())
	}
	tg.Garage.DB = mo.None[db.Connection]()
	return tg
}
