package main

import (
	"time"

	"voxtrace/internal/config"
)

// fpsLimiter paces the host loop to the configured frame rate.
type fpsLimiter struct {
	next time.Time
}

// Wait blocks until the next frame is due. Sleeps most of the interval and
// spins for the final few microseconds.
func (f *fpsLimiter) Wait() {
	limit := config.GetFPSLimit()
	if limit <= 0 {
		f.next = time.Time{}
		return
	}

	target := time.Second / time.Duration(limit)
	if f.next.IsZero() {
		f.next = time.Now().Add(target)
	} else {
		f.next = f.next.Add(target)
	}

	for {
		remaining := time.Until(f.next)
		if remaining <= 0 {
			break
		}
		if remaining > 200*time.Microsecond {
			time.Sleep(remaining - 200*time.Microsecond)
		}
	}

	// resync after a hitch
	if late := -time.Until(f.next); late > target {
		f.next = time.Now().Add(target)
	}
}
