package notify

import (
	"context"
	"runtime"
	"sync"

	"fjacquet/recurpay/internal/logging"
	"fjacquet/recurpay/internal/models"
)

// Alerts below this count are sent sequentially to avoid pool overhead.
const sequentialThreshold = 8

// SendFailure pairs an alert with the error its delivery produced.
type SendFailure struct {
	Alert models.Alert
	Err   error
}

// Dispatcher fans a batch of alerts out over a bounded worker pool.
type Dispatcher struct {
	sender      Sender
	logger      logging.Logger
	workerCount int
}

// NewDispatcher creates a dispatcher over the given sender.
func NewDispatcher(sender Sender, logger logging.Logger) *Dispatcher {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Dispatcher{
		sender:      sender,
		logger:      logger,
		workerCount: runtime.NumCPU(),
	}
}

// SetWorkerCount overrides the pool size. Values below one are ignored
// and the CPU-count default stays in place.
func (d *Dispatcher) SetWorkerCount(n int) {
	if n >= 1 {
		d.workerCount = n
	}
}

// Dispatch sends every alert and returns the failures in input order.
// A failed send never stops the rest of the batch.
func (d *Dispatcher) Dispatch(ctx context.Context, alerts []models.Alert) []SendFailure {
	if len(alerts) == 0 {
		return nil
	}

	var errs []error
	if len(alerts) < sequentialThreshold {
		errs = d.dispatchSequential(ctx, alerts)
	} else {
		errs = d.dispatchConcurrent(ctx, alerts)
	}

	var failures []SendFailure
	for i, err := range errs {
		if err != nil {
			failures = append(failures, SendFailure{Alert: alerts[i], Err: err})
		}
	}

	d.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(alerts)},
		logging.Field{Key: "failed", Value: len(failures)},
	).Debug("Alert dispatch completed")
	return failures
}

func (d *Dispatcher) dispatchSequential(ctx context.Context, alerts []models.Alert) []error {
	errs := make([]error, len(alerts))
	for i := range alerts {
		if ctx.Err() != nil {
			errs[i] = ctx.Err()
			continue
		}
		errs[i] = d.sender.Send(ctx, alerts[i])
	}
	return errs
}

func (d *Dispatcher) dispatchConcurrent(ctx context.Context, alerts []models.Alert) []error {
	workers := d.workerCount
	if workers > len(alerts) {
		workers = len(alerts)
	}

	// Each index is written by exactly one worker, so the slice needs no lock.
	errs := make([]error, len(alerts))
	indexChan := make(chan int, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexChan {
				if ctx.Err() != nil {
					errs[i] = ctx.Err()
					continue
				}
				errs[i] = d.sender.Send(ctx, alerts[i])
			}
		}()
	}

	for i := range alerts {
		indexChan <- i
	}
	close(indexChan)
	wg.Wait()

	return errs
}
