package models

import (
	"math"
	"time"
)

const kelvinOffset = 273.15

func KelvinToCelsius(k float64) float64 {
	return k - kelvinOffset
}

// RoundHalfUp rounds to the nearest integer, halves towards positive infinity.
func RoundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// LocalClock renders an epoch instant as "HHmm" in a fixed UTC offset.
func LocalClock(epochSec int64, offsetSec int) string {
	zone := time.FixedZone("", offsetSec)
	return time.Unix(epochSec, 0).In(zone).Format("1504")
}

// Head returns at most the first n elements of s.
func Head[T any](s []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(s) <= n {
		return s
	}
	return s[:n]
}
