package pipeline

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Executor runs an ordered batch of steps strictly in sequence, measuring
// each one. A step failure aborts the remaining steps; the listener, when
// present, is still notified exactly once before the failure is returned.
type Executor struct {
	listener Listener
}

// NewExecutor creates an executor. listener may be nil when nobody needs
// the completion notification.
func NewExecutor(listener Listener) *Executor {
	return &Executor{listener: listener}
}

// Execute runs the steps in order and returns the first step failure
// unchanged, or nil when every step ran to completion.
func (e *Executor) Execute(steps []Step) error {
	// The notification is deferred so it fires even when a step panics
	// instead of returning an error; allStepsExecuted stays false until
	// executeSteps came back clean.
	allStepsExecuted := false
	if e.listener != nil {
		defer func() {
			notifyListener(e.listener, allStepsExecuted)
		}()
	}

	stepProfiler := newProfiler()
	err := executeSteps(steps, stepProfiler)
	allStepsExecuted = err == nil
	return err
}

func executeSteps(steps []Step, stepProfiler *profiler) error {
	ctx := &stepContext{statistics: &stepStatistics{profiler: stepProfiler}}
	start := time.Now()
	for _, step := range steps {
		stepProfiler.start()
		if err := step.Execute(ctx); err != nil {
			return err
		}
		stepProfiler.stopInfo(step.Description())
	}
	log.Printf("executed %d steps | time=%dms", len(steps), time.Since(start).Milliseconds())
	return nil
}

// notifyListener is its own error boundary: a failing listener must never
// hide or replace the failure raised by a step.
func notifyListener(listener Listener, allStepsExecuted bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("execution of listener failed: %v", r)
		}
	}()
	listener.Finished(allStepsExecuted)
}

type stepContext struct {
	statistics Statistics
}

func (c *stepContext) Statistics() Statistics {
	return c.statistics
}

type stepStatistics struct {
	profiler *profiler
}

func (s *stepStatistics) Add(key string, value any) error {
	if key == "" {
		return fmt.Errorf("statistic has empty key")
	}
	if value == nil {
		return fmt.Errorf("statistic with key [%s] has nil value", key)
	}
	if strings.EqualFold(key, "time") {
		return fmt.Errorf("statistic with key [time] is not accepted")
	}
	if s.profiler.hasKey(key) {
		return fmt.Errorf("statistic with key [%s] is already present", key)
	}
	s.profiler.addContext(key, value)
	return nil
}
