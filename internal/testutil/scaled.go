// Package testutil provides shared helpers for timing-sensitive tests.
package testutil

import (
	"os"
	"strconv"
	"time"
)

// TimeScaleEnv is the environment variable that scales test durations.
// Set it above 1 on slow or heavily loaded machines.
const TimeScaleEnv = "SETTLE_TEST_TIME_SCALE"

// Scaled returns d scaled by SETTLE_TEST_TIME_SCALE. If the environment
// variable does not exist or contains an invalid value, the scale
// defaults to 1.
func Scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * getTestTimeScale())
}

// ScaledMs returns ms milliseconds, scaled by SETTLE_TEST_TIME_SCALE.
func ScaledMs(ms int) time.Duration {
	return Scaled(time.Duration(ms) * time.Millisecond)
}

func getTestTimeScale() float64 {
	env := os.Getenv(TimeScaleEnv)
	if env == "" {
		return 1
	}
	scale, err := strconv.ParseFloat(env, 64)
	if err != nil || scale <= 0 {
		return 1
	}
	return scale
}
