package filesystem

// Observer records filesystem operation metrics. Implementations are provided
// by the metrics package to break the import cycle between filesystem and metrics.
type Observer interface {
	// ObserveOperation records duration and error status for a filesystem operation.
	// volume is the logical root label (e.g., "input", "temp", "unknown").
	// operation is the fs operation type: "stat", "open", "readdir".
	ObserveOperation(volume, operation string, durationSeconds float64, err error)

	// ObserveRetryAttempt records one retry after a stale file handle.
	ObserveRetryAttempt(operation, volume string)
	// ObserveStaleError records an ESTALE occurrence.
	ObserveStaleError(operation, volume string)
}

// defaultObserver is the package-level observer set at startup.
// If nil, metric recording is silently skipped (safe for tests).
var defaultObserver Observer

// SetObserver sets the package-level metrics observer.
// Call this once at startup after creating the observer implementation.
func SetObserver(o Observer) {
	defaultObserver = o
}

// defaultRoots labels metrics when a RetryConfig carries no resolver.
var defaultRoots *RootResolver

// SetDefaultRoots sets the package-level root resolver used for metric labels.
func SetDefaultRoots(rr *RootResolver) {
	defaultRoots = rr
}
