package db

import (
	"fmt"
	"os"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"tuneup/resource"
)

type Connection struct {
	config resource.Config
	scope  resource.Scope
	*sqlx.DB
}

var _ resource.Resource = Connection{}

func (c Connection) Close() error {
	return c.DB.Close()
}

// Teardown closes the connection and, for sqlite, removes the backing file.
// Meant for tests; mysql databases are never dropped from here.
func (c Connection) Teardown() error {
	if err := c.DB.Close(); err != nil {
		return err
	}
	if config, ok := c.config.(SQLiteConfig); ok {
		return os.Remove(config.Fname)
	}
	return nil
}

func (c Connection) Type() resource.Type {
	return resource.DBConnection
}

func (c Connection) Scope() resource.Scope {
	return c.scope
}

//=================================
// SQLite config for db connection
//=================================

// SQLiteConfig opens a file-backed database, creating the file when absent.
// Used for local runs and tests; the file persists across restarts.
type SQLiteConfig struct {
	Fname  string
	Schema Schema
}

var _ resource.Config = SQLiteConfig{}

func (conf SQLiteConfig) Materialize(scope resource.Scope) (resource.Resource, error) {
	db, err := sqlx.Open("sqlite3", conf.Fname)
	if err != nil {
		return nil, err
	}
	// sqlite creates the file lazily; ping now so a bad path fails here
	// rather than on the first query.
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to open sqlite db '%s': %v", conf.Fname, err)
	}
	conn := Connection{config: conf, scope: scope, DB: db}
	if err = syncSchema(db, conf.Schema); err != nil {
		return nil, err
	}
	return conn, nil
}

//=================================
// MySQL config for db connection
//=================================

type MySQLConfig struct {
	DBname   string
	Username string
	Password string
	Host     string
	Schema   Schema
}

var _ resource.Config = MySQLConfig{}

func (conf MySQLConfig) Materialize(scope resource.Scope) (resource.Resource, error) {
	connectStr := fmt.Sprintf(
		"%s:%s@tcp(%s)/%s?tls=true",
		conf.Username, conf.Password, conf.Host, conf.DBname,
	)
	db, err := sqlx.Open("mysql", connectStr)
	if err != nil {
		return nil, err
	}
	conn := Connection{config: conf, scope: scope, DB: db}
	if err = syncSchema(db, conf.Schema); err != nil {
		return nil, err
	}
	return conn, nil
}
