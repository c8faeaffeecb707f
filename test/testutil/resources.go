package testutil

import (
	"fmt"
	"runtime"
	"testing"
	"time"
)

// ResourceReport summarizes the resources consumed by a measured function.
type ResourceReport struct {
	// Duration is the wall time of the function.
	Duration time.Duration

	// AllocatedMB is the memory allocated while it ran (cumulative, not live).
	AllocatedMB float64

	// Allocations is the number of heap allocations while it ran.
	Allocations uint64

	// GoroutineLeak is the goroutine count after settling minus the count before.
	GoroutineLeak int
}

// Measure runs fn and reports its duration, allocations and goroutine growth.
//
// Goroutine growth is measured after a short settling period, so worker
// pools that exit asynchronously are not reported as leaks.
//
// Parameters:
//   - t: testing handle
//   - fn: function to measure
//
// Returns:
//   - ResourceReport: resources used by fn
//
// Example:
//
//	report := testutil.Measure(t, func() {
//	    require.NoError(t, rt.Run(ctx))
//	})
//	require.Zero(t, report.GoroutineLeak)
func Measure(t testing.TB, fn func()) ResourceReport {
	t.Helper()

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	goroutines := runtime.NumGoroutine()

	start := time.Now()
	fn()
	duration := time.Since(start)

	runtime.ReadMemStats(&after)

	return ResourceReport{
		Duration:      duration,
		AllocatedMB:   float64(after.TotalAlloc-before.TotalAlloc) / 1024 / 1024,
		Allocations:   after.Mallocs - before.Mallocs,
		GoroutineLeak: settledGoroutines(goroutines) - goroutines,
	}
}

// settledGoroutines polls the goroutine count until it drops to baseline or
// a deadline passes, returning the last observed count.
func settledGoroutines(baseline int) int {
	deadline := time.Now().Add(time.Second)
	for {
		n := runtime.NumGoroutine()
		if n <= baseline || time.Now().After(deadline) {
			return n
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Summary returns a formatted summary of the resource report.
func (r ResourceReport) Summary() string {
	return fmt.Sprintf("Duration: %v, Allocated: %.2f MB (%d allocations), Goroutines: %+d",
		r.Duration, r.AllocatedMB, r.Allocations, r.GoroutineLeak)
}
