package memory

import (
	"math"
	"runtime"
	"runtime/debug"
)

// bytesPerSample is the size of one float32 channel value in a batch.
const bytesPerSample = 4

// BatchBytes estimates the memory taken by an N×H×W×3 float32 batch.
func BatchBytes(frames, height, width int) int64 {
	if frames <= 0 || height <= 0 || width <= 0 {
		return 0
	}
	return int64(frames) * int64(height) * int64(width) * 3 * bytesPerSample
}

// Budget answers whether a planned batch fits under the Go memory limit.
type Budget struct {
	// Limit is the soft memory limit in bytes; 0 means unlimited.
	Limit int64
}

// CurrentBudget returns a Budget for the runtime's current GOMEMLIMIT.
func CurrentBudget() Budget {
	limit := debug.SetMemoryLimit(-1)
	if limit <= 0 || limit == math.MaxInt64 {
		return Budget{}
	}
	return Budget{Limit: limit}
}

// Headroom returns how many bytes are left under the limit given the current
// heap, or -1 when the budget is unlimited.
func (b Budget) Headroom() int64 {
	if b.Limit == 0 {
		return -1
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	free := b.Limit - int64(ms.HeapAlloc)
	if free < 0 {
		return 0
	}
	return free
}

// Fits reports whether need bytes fit into the remaining headroom.
func (b Budget) Fits(need int64) bool {
	room := b.Headroom()
	return room < 0 || need <= room
}
