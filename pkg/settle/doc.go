// Package settle implements debounced asynchronous value resolution.
//
// A Stabilizer watches a rapidly-changing input value and maintains a
// stable "latest resolved result": once the input has stayed unchanged
// for a configured quiet period, the resolver runs, and its result
// becomes the stabilized output unless a newer change started a newer
// attempt in the meantime.
//
// # Quiet Period
//
// Every observed input change cancels the pending quiet-period timer
// and arms a new one. The timer firing is the only trigger for a
// resolution attempt: inputs that change away before the quiet period
// elapses are never resolved. A quiet period of zero resolves
// immediately on every change, still applying only the latest result.
//
// Change detection is equality-based: setting a value equal to the
// previously observed one is not a change and does not restart the
// timer.
//
// # Sequence Numbers and Superseding
//
// Each resolution attempt receives a monotonically increasing sequence
// number when its timer fires. A completing attempt is applied only if
// it is still the highest-started attempt; otherwise it is superseded
// and discarded unconditionally, whether it succeeded or failed.
// Stabilized output transitions are therefore monotonic in sequence
// number, regardless of resolver completion order.
//
// Results are never de-duplicated by value: two attempts resolving to
// equal results are two independent applications.
//
// # Failures
//
// A resolver error for the still-latest attempt is surfaced through
// Observer.OnResolutionFailed and leaves the previous output untouched.
// Errors from superseded attempts are dropped silently. No attempt is
// retried; only a fresh input change creates a new attempt.
//
// # Lifecycle
//
// Close is idempotent. It stops any pending timer, cancels every
// in-flight attempt context, and turns late completions into no-ops:
// nothing is applied or surfaced after teardown, and later Set calls do
// nothing.
package settle
