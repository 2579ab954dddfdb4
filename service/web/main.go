package main

import (
	"fmt"
	"log"
	"time"

	"tuneup/lib/utils/memory"
)

func main() {
	s, err := NewServer()
	if err != nil {
		log.Fatalf("Failed to set up server: %v", err)
	}

	// Run memory watchdog.
	memory.RunMemoryWatchdog(time.Minute)

	// Signal that server is open for business.
	// Note: don't delete this log line - e2e tests rely on this to be printed
	// to know that server has initialized and is ready to take traffic
	log.Println("server is ready...")

	addr := fmt.Sprintf(":%s", s.args.AppPort)
	if err := s.Run(addr); err != nil {
		log.Fatalf("Error running the server: %s", err)
	}
}
