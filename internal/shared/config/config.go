package config

import (
	"os"
	"strconv"
)

// OverlapNotify gates the optional overlap notification emitted when a new
// leave request overlaps existing team leave. The gates only control
// notification events and never affect state transitions.
type OverlapNotify struct {
	Enabled  bool
	MinDays  int
	MinCount int
}

type Config struct {
	Overlap               OverlapNotify
	DefaultAnnualEntitled int
}

func Load() Config {
	return Config{
		Overlap: OverlapNotify{
			Enabled:  getBool("OVERLAP_NOTIFY_ENABLED", false),
			MinDays:  getIntMin("OVERLAP_MIN_DAYS", 1, 1),
			MinCount: getIntMin("OVERLAP_MIN_COUNT", 1, 1),
		},
		DefaultAnnualEntitled: getIntMin("DEFAULT_ANNUAL_ENTITLED_DAYS", 25, 0),
	}
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getIntMin(key string, fallback, min int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < min {
		return fallback
	}
	return n
}
