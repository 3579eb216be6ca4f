package coverage

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/covscan/covscan/internal/errors"
	"github.com/covscan/covscan/internal/logging"
	"github.com/covscan/covscan/internal/source"
)

// Result is the per-record outcome of a batch evaluation. Covered is true
// iff the normalized message full-matched at least one of its sender's
// templates. Err records an absorbed evaluation failure, in which case
// Covered is false.
type Result struct {
	Covered bool
	Err     error
}

// defaultWorkerCap bounds the default pool size on large machines.
const defaultWorkerCap = 8

// DefaultWorkers returns the default evaluation pool size.
func DefaultWorkers() int {
	workers := runtime.NumCPU()
	if workers > defaultWorkerCap {
		workers = defaultWorkerCap
	}
	if workers < 1 {
		workers = 1
	}
	return workers
}

// EvalOptions configures a batch evaluation.
type EvalOptions struct {
	// Workers is the fixed pool size. Defaults to DefaultWorkers().
	Workers int

	// OnProgress, if set, is called after each completed unit with the
	// completed and total counts. It may be called concurrently from
	// worker goroutines and has no effect on results or ordering.
	OnProgress func(done, total int)

	// Logger receives absorbed per-record failures.
	Logger logging.Logger

	// Collector, if set, accumulates absorbed per-record failures.
	Collector *errors.ErrorCollector
}

// EvaluateBatch checks every record against the coverer using a bounded
// worker pool and returns one Result per record, in input order.
//
// Each record is an independent unit of work writing only to its own
// index-addressed result slot, so output order equals input order no matter
// how units are scheduled. A unit that panics is absorbed at the unit
// boundary: its record defaults to uncovered and the failure is logged,
// never aborting sibling units or the batch.
func EvaluateBatch(ctx context.Context, records []source.MessageRecord, coverer Coverer, opts EvalOptions) []Result {
	results := make([]Result, len(records))
	if len(records) == 0 {
		return results
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers()
	}
	if workers > len(records) {
		workers = len(records)
	}

	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	log = log.WithComponent("evaluator")

	indexes := make(chan int)
	var wg sync.WaitGroup
	var done atomic.Int64
	total := len(records)

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = evaluateOne(ctx, records[i], coverer, log, opts.Collector)

				completed := int(done.Add(1))
				if opts.OnProgress != nil {
					opts.OnProgress(completed, total)
				}
			}
		}()
	}

	for i := range records {
		indexes <- i
	}
	close(indexes)

	wg.Wait()

	return results
}

// evaluateOne runs a single unit of work with panic isolation.
func evaluateOne(ctx context.Context, record source.MessageRecord, coverer Coverer, log logging.Logger, collector *errors.ErrorCollector) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.NewEvaluationError(errors.ErrCodeEvaluationPanic,
				fmt.Sprintf("evaluation failed for sender %q", record.Sender),
				fmt.Errorf("%v", r))
			log.Error(ctx, err, "record defaulted to uncovered", "sender", record.Sender)
			if collector != nil {
				collector.Add(err)
			}
			result = Result{Covered: false, Err: err}
		}
	}()

	return Result{Covered: coverer.IsCovered(record.Text, record.Sender)}
}
