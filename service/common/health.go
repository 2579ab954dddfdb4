package common

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/heptiolabs/healthcheck"

	"tuneup/garage"
)

type HealthCheckArgs struct {
	HealthPort uint `arg:"--health-port,env:HEALTH_PORT" default:"8082"`
}

// StartHealthCheckServer serves liveness on /live and readiness on /ready.
// The process is ready once the model bundle is loaded and, when a database
// is configured, the connection answers a ping; a garage without storage
// stays ready on the strength of the bundle alone.
func StartHealthCheckServer(gar garage.Garage, port uint) {
	health := healthcheck.NewHandler()
	health.AddReadinessCheck("model-artifact", func() error {
		if gar.Bundle == nil {
			return fmt.Errorf("model artifact not loaded")
		}
		return nil
	})
	if conn, ok := gar.DB.Get(); ok {
		health.AddReadinessCheck("database", healthcheck.DatabasePingCheck(conn.DB.DB, 1*time.Second))
	}

	go func() {
		err := http.ListenAndServe(fmt.Sprintf(":%d", port), health)
		if err != nil {
			log.Fatalf("health check server stopped unexpectedly: %v", err)
		}
	}()
}
