package garage

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Unleash/unleash-client-go/v3"
	"github.com/raulk/clock"
	"github.com/samber/mo"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tuneup/artifact"
	"tuneup/db"
	"tuneup/lib/ftypes"
	unleashlib "tuneup/lib/unleash"
	"tuneup/resource"
)

type GarageArgs struct {
	artifact.LoaderArgs

	MysqlHost     string `arg:"--mysql-host,env:MYSQL_SERVER_ADDRESS" json:"mysql_host,omitempty"`
	MysqlDB       string `arg:"--mysql-db,env:MYSQL_DATABASE_NAME" json:"mysql_db,omitempty"`
	MysqlUsername string `arg:"--mysql-user,env:MYSQL_USERNAME" json:"mysql_username,omitempty"`
	MysqlPassword string `arg:"--mysql-password,env:MYSQL_PASSWORD" json:"mysql_password,omitempty"`

	// SqliteFile is used when no mysql host is configured. Empty means a
	// scope-prefixed file in the working directory.
	SqliteFile string `arg:"--sqlite-file,env:SQLITE_FILE" json:"sqlite_file,omitempty"`
	// DisableDB runs the service without any prediction log storage.
	DisableDB bool `arg:"--disable-db,env:DISABLE_DB" default:"false" json:"disable_db,omitempty"`

	GarageID        ftypes.GarageID `arg:"--garage-id,env:GARAGE_ID" default:"1" json:"garage_id,omitempty"`
	Dev             bool            `arg:"--dev" default:"true" json:"dev,omitempty"`
	UnleashEndpoint string          `arg:"--unleash-endpoint,env:UNLEASH_ENDPOINT" json:"unleash_endpoint,omitempty"`
}

func (args GarageArgs) Valid() error {
	missingFields := make([]string, 0)
	if args.GarageID == 0 {
		missingFields = append(missingFields, "GARAGE_ID")
	}
	if args.ArtifactPath == "" {
		missingFields = append(missingFields, "ARTIFACT_PATH")
	}
	// mysql is optional, but once a host is given the rest must come with it
	if args.MysqlHost != "" {
		if args.MysqlDB == "" {
			missingFields = append(missingFields, "MYSQL_DATABASE_NAME")
		}
		if args.MysqlUsername == "" {
			missingFields = append(missingFields, "MYSQL_USERNAME")
		}
		if args.MysqlPassword == "" {
			missingFields = append(missingFields, "MYSQL_PASSWORD")
		}
	}
	if len(missingFields) > 0 {
		return fmt.Errorf("missing fields: %s", strings.Join(missingFields, ", "))
	}
	return nil
}

// Garage carries every process-wide dependency of the service: the loaded
// model bundle, an optional sql connection backing the prediction log, a
// clock and a logger. Controllers take a Garage instead of reaching for
// globals, which keeps them trivial to construct in tests.
type Garage struct {
	ID     ftypes.GarageID
	DB     mo.Option[db.Connection]
	Clock  clock.Clock
	Logger *zap.Logger
	Loader *artifact.Loader
	Bundle *artifact.Bundle
	Args   GarageArgs
}

func CreateFromArgs(args *GarageArgs) (garage Garage, err error) {
	garageID := args.GarageID
	scope := resource.NewGarageScope(garageID)

	// First, create a structured logger that we can then use in other places.
	log.Print("Creating logger")
	var logger *zap.Logger
	if args.Dev {
		logger, err = zap.NewDevelopment()
	} else {
		config := zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
		logger, err = config.Build(
			zap.AddCaller(),
			zap.AddStacktrace(zap.ErrorLevel),
		)
	}
	if err != nil {
		return garage, fmt.Errorf("failed to construct logger: %v", err)
	}
	_ = zap.ReplaceGlobals(logger)
	logger = logger.With(zap.Uint32("garage_id", garageID.Value()))

	// The bundle is loaded before anything else; a service that cannot score
	// should fail here instead of coming up and erroring on every request.
	logger.Info("Loading model artifact", zap.String("path", args.ArtifactPath))
	loader := artifact.NewLoader(args.LoaderArgs)
	bundle, err := loader.Load(context.Background())
	if err != nil {
		return garage, fmt.Errorf("failed to load model artifact: %w", err)
	}
	logger.Info("Loaded model artifact",
		zap.String("model_name", string(bundle.Name)),
		zap.String("model_version", string(bundle.Version)),
		zap.String("model_kind", string(bundle.Model.Kind())),
	)

	sqlConn := mo.None[db.Connection]()
	if args.DisableDB {
		logger.Info("Prediction log disabled, running without a database")
	} else if args.MysqlHost != "" {
		logger.Info("Connecting to mysql")
		mysqlConfig := db.MySQLConfig{
			Host:     args.MysqlHost,
			DBname:   scope.PrefixedName(args.MysqlDB),
			Username: args.MysqlUsername,
			Password: args.MysqlPassword,
			Schema:   Schema,
		}
		conn, err := mysqlConfig.Materialize(scope)
		if err != nil {
			return garage, fmt.Errorf("failed to connect with mysql: %v", err)
		}
		sqlConn = mo.Some(conn.(db.Connection))
	} else {
		// a garage-prefixed default keeps several local garages from sharing
		// one file; an explicit path is taken verbatim
		fname := args.SqliteFile
		if fname == "" {
			fname = scope.PrefixedName("tuneup.db")
		}
		logger.Info("Opening sqlite database", zap.String("file", fname))
		sqliteConfig := db.SQLiteConfig{
			Fname:  fname,
			Schema: Schema,
		}
		conn, err := sqliteConfig.Materialize(scope)
		if err != nil {
			return garage, fmt.Errorf("failed to open sqlite db: %v", err)
		}
		sqlConn = mo.Some(conn.(db.Connection))
	}

	// Start a goroutine to periodically record various resource level stats.
	if conn, ok := sqlConn.Get(); ok {
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for ; true; <-ticker.C {
				db.RecordConnectionStats(conn)
			}
		}()
	}

	// initialize unleash endpoint
	//
	// the endpoint is optional: local runs and tests get a fake server so
	// flag lookups fall back to their defaults instead of erroring.
	if len(args.UnleashEndpoint) > 0 {
		if err := unleash.Initialize(
			unleash.WithListener(&unleash.DebugListener{}),
			// project name for unpaid self-hosted instances is `default` by-default
			unleash.WithProjectName("default"),
			unleash.WithAppName("tuneup-servers"),
			// disable reporting metrics, they are currently of no use right now
			unleash.WithDisableMetrics(true),
			unleash.WithEnvironment("production"),
			unleash.WithUrl(args.UnleashEndpoint),
		); err != nil {
			return garage, fmt.Errorf("failed to initialize unleash client: %v", err)
		}
	} else {
		faker := unleashlib.NewFakeUnleash()
		if err := unleash.Initialize(unleash.WithListener(&unleash.DebugListener{}),
			unleash.WithAppName("local-garage"),
			unleash.WithUrl(faker.Url())); err != nil {
			return garage, fmt.Errorf("failed to create fake unleash: %v", err)
		}
	}

	return Garage{
		ID:     garageID,
		DB:     sqlConn,
		Clock:  clock.New(),
		Logger: logger,
		Loader: loader,
		Bundle: bundle,
		Args:   *args,
	}, nil
}
