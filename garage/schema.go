package garage

import "tuneup/db"

var Schema db.Schema

func init() {
	// if you want to make any change to Schema (create table, drop table, alter table etc.)
	// add a versioned query here. Numbers should be increasing with no gaps and no repetitions
	//
	// every query has to work on both mysql and sqlite, which rules out inline
	// INDEX clauses and auto_increment; indexes get their own version instead
	Schema = db.Schema{
		1: `CREATE TABLE IF NOT EXISTS prediction_log (
				request_id VARCHAR(255) NOT NULL,
				timestamp BIGINT NOT NULL,
				model_name VARCHAR(255) NOT NULL,
				model_version VARCHAR(255) NOT NULL,
				inputs BLOB NOT NULL,
				fingerprint VARCHAR(16) NOT NULL,
				raw_interval DOUBLE NOT NULL,
				months BIGINT NOT NULL,
				due_date VARCHAR(10) NOT NULL,
				PRIMARY KEY(request_id)
		);`,
		2: `CREATE INDEX prediction_log_timestamp ON prediction_log (timestamp);`,
	}
}
