// Package memory configures the Go memory limit for container deployments
// and estimates the footprint of image batches.
//
// A decoded batch is N×H×W×3 float32 values, so a 300 frame 1080p video is
// roughly 7 GiB. The loader checks each planned batch against the budget and
// logs a warning before allocating something that will push the process past
// GOMEMLIMIT:
//
//	need := memory.BatchBytes(frames, height, width)
//	if !memory.CurrentBudget().Fits(need) { ... }
package memory
