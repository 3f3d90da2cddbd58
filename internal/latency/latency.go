// Package latency simulates network round trips for the consuming UI. Every
// public operation sleeps once before touching store state; the sleep has no
// ordering effect on other in-flight calls and cannot be cancelled.
package latency

import (
	"math/rand"
	"time"
)

// Policy is an injectable delay range. The zero value sleeps not at all,
// which is what tests want.
type Policy struct {
	Min time.Duration
	Max time.Duration
}

// None performs no delay.
var None = Policy{}

// Default matches the round-trip range the mock emulates.
var Default = Range(100*time.Millisecond, 500*time.Millisecond)

func Range(min, max time.Duration) Policy {
	if max < min {
		max = min
	}
	return Policy{Min: min, Max: max}
}

// Wait blocks for a random duration within the range.
func (p Policy) Wait() {
	if p.Max <= 0 {
		return
	}
	d := p.Min
	if span := p.Max - p.Min; span > 0 {
		d += time.Duration(rand.Int63n(int64(span)))
	}
	time.Sleep(d)
}
