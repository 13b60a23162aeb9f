package workers

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hashicorp/go-multierror"
)

type Worker interface {
	Name() string
	Run(context.Context) error
}

// Group runs workers side by side. The first one to return, with or
// without an error, stops the others.
type Group []Worker

func (g Group) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	runCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var wg sync.WaitGroup
	errCh := make(chan error, len(g))
	wg.Add(len(g))
	for _, w := range g {
		go func(w Worker) {
			defer wg.Done()
			defer cancelFn()

			slog.Debug("Starting worker", "name", w.Name())
			if err := w.Run(runCtx); err != nil {
				errCh <- fmt.Errorf("%s: %w", w.Name(), err)
			}
			slog.Debug("Worker stopped", "name", w.Name())
		}(w)
	}

	wg.Wait()
	close(errCh)

	var result *multierror.Error
	for workerErr := range errCh {
		result = multierror.Append(result, workerErr)
	}
	if result != nil {
		result.ErrorFormat = joinErrors
	}
	return result.ErrorOrNil()
}

func joinErrors(errs []error) string {
	msgs := make([]string, 0, len(errs))
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}
