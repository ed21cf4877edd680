package examples

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/settle-reactive/settle-go/pkg/settle"
)

// ErrInjectedFailure marks failures produced by Flaky.
var ErrInjectedFailure = errors.New("injected failure")

// Flaky wraps a resolver with deterministic failure injection: every
// failEvery-th invocation fails with ErrInjectedFailure instead of
// calling the inner resolver. A failEvery of 0 disables injection.
func Flaky[T, R any](inner settle.Resolver[T, R], failEvery int) settle.Resolver[T, R] {
	var calls atomic.Uint64
	return func(ctx context.Context, input T) (R, error) {
		n := calls.Add(1)
		if failEvery > 0 && n%uint64(failEvery) == 0 {
			var zero R
			return zero, fmt.Errorf("%w: invocation %d", ErrInjectedFailure, n)
		}
		return inner(ctx, input)
	}
}
