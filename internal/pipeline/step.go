package pipeline

// Step is one ordered unit of work in a per-analysis batch computation.
type Step interface {
	// Description is the human-readable name used in timing records.
	Description() string
	Execute(ctx Context) error
}

// Context is the shared execution context the executor hands to every step.
type Context interface {
	Statistics() Statistics
}

// Statistics attaches key/value pairs to the current step's timing record.
// Keys are scoped to one step; the executor resets them between steps.
type Statistics interface {
	// Add records one statistic. It fails on an empty key, a nil value,
	// the reserved key "time" (any letter case) and on a key already
	// recorded for the current step.
	Add(key string, value any) error
}

// Listener is notified exactly once per pipeline run, whether the run
// completed or a step failed partway through.
type Listener interface {
	Finished(allStepsExecuted bool)
}
