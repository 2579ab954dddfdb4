package memory

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Unleash/unleash-client-go/v3"
	"github.com/raulk/go-watchdog"
	"go.uber.org/zap"
)

func init() {
	// Set 90% memory utilization as the threshold for capturing heap profiles.
	watchdog.HeapProfileThreshold = 0.90
}

type watchdogConfig struct {
	Limit  uint64  `json:"limit"`
	Factor float64 `json:"factor"`
}

func (config watchdogConfig) Validate() error {
	if config.Factor <= 0 || config.Factor >= 1.0 {
		return fmt.Errorf("'factor' should be in (0.0, 1.0)")
	} else if config.Limit == 0 {
		return fmt.Errorf("'limit' should be > 0")
	}
	return nil
}

// RunMemoryWatchdog polls the `memory_watchdog` unleash flag and keeps a
// system-driven gc watchdog running while the flag carries a valid config
// payload. Config changes restart the watchdog with the new limits.
func RunMemoryWatchdog(freq time.Duration) {
	go func() {
		ticker := time.NewTicker(freq)
		var currFactor float64 = 0
		var stopFn func()
		for ; true; <-ticker.C {
			variant := unleash.GetVariant("memory_watchdog")
			if !variant.Enabled {
				if stopFn != nil {
					zap.L().Info("Stopping memory watchdog")
					stopFn()
					stopFn = nil
					currFactor = 0
				}
				continue
			}
			var config watchdogConfig
			err := json.Unmarshal([]byte(variant.Payload.Value), &config)
			if err != nil {
				zap.L().Warn("Error parsing watchdog config", zap.Error(err))
				continue
			}
			if err := config.Validate(); err != nil {
				zap.L().Warn("Invalid watchdog config", zap.Any("config", config), zap.Error(err))
				continue
			} else if config.Factor != currFactor {
				zap.L().Info("Got new memory watchdog config", zap.Any("config", config))
				// Stop the current watchdog if previously enabled and start a new watchdog.
				if stopFn != nil {
					stopFn()
				}
				err, stopFn = watchdog.SystemDriven(config.Limit, freq, watchdog.NewAdaptivePolicy(config.Factor))
				if err != nil {
					zap.L().Error("Failed to start memory watchdog", zap.Error(err))
					continue
				}
				currFactor = config.Factor
			}
		}
	}()
}
