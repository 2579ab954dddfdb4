package garage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"tuneup/artifact"
	"tuneup/lib/ftypes"
)

const testArtifactJSON = `{
	"name": "service_interval",
	"version": "test",
	"model": {"kind": "linear", "params": {"coefficients": [1.0, 0.5], "intercept": 2.0}},
	"label_encoders": {"vehicle_type": {"classes": ["sedan", "suv"]}},
	"feature_columns": ["vehicle_type", "mileage"]
}`

func testArgs(t *testing.T) GarageArgs {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.json")
	assert.NoError(t, os.WriteFile(path, []byte(testArtifactJSON), 0o644))
	return GarageArgs{
		LoaderArgs: artifact.LoaderArgs{ArtifactPath: path},
		SqliteFile: filepath.Join(dir, "garage_test.db"),
		GarageID:   ftypes.GarageID(1),
		Dev:        true,
	}
}

func TestArgsValid(t *testing.T) {
	err := GarageArgs{}.Valid()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "GARAGE_ID")
	assert.Contains(t, err.Error(), "ARTIFACT_PATH")

	args := testArgs(t)
	assert.NoError(t, args.Valid())

	// a mysql host drags the rest of the mysql config in with it
	args.MysqlHost = "db.example.com"
	err = args.Valid()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "MYSQL_DATABASE_NAME")
	assert.Contains(t, err.Error(), "MYSQL_USERNAME")
	assert.Contains(t, err.Error(), "MYSQL_PASSWORD")
}

func TestCreateFromArgs(t *testing.T) {
	args := testArgs(t)
	gar, err := CreateFromArgs(&args)
	assert.NoError(t, err)
	assert.Equal(t, ftypes.GarageID(1), gar.ID)
	assert.Equal(t, ftypes.ModelName("service_interval"), gar.Bundle.Name)
	conn, ok := gar.DB.Get()
	assert.True(t, ok)
	t.Cleanup(func() { _ = conn.Teardown() })

	// the prediction log table exists on a fresh database
	var count int
	assert.NoError(t, conn.QueryRow("SELECT COUNT(*) FROM prediction_log").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestCreateFromArgsWithoutDB(t *testing.T) {
	args := testArgs(t)
	args.DisableDB = true
	gar, err := CreateFromArgs(&args)
	assert.NoError(t, err)
	assert.True(t, gar.DB.IsAbsent())
	assert.NotNil(t, gar.Bundle)
}

// A service that cannot score must fail before it ever serves the form.
func TestCreateFromArgsMissingArtifact(t *testing.T) {
	args := testArgs(t)
	args.ArtifactPath = filepath.Join(t.TempDir(), "absent.json")
	_, err := CreateFromArgs(&args)
	assert.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrNotFound)
}

func TestCreateFromArgsCorruptArtifact(t *testing.T) {
	args := testArgs(t)
	assert.NoError(t, os.WriteFile(args.ArtifactPath, []byte(`{"feature_columns": []}`), 0o644))
	_, err := CreateFromArgs(&args)
	assert.Error(t, err)
	assert.ErrorIs(t, err, artifact.ErrCorrupt)
}
