package settle

// Observer receives stabilizer notifications.
//
// Callbacks are invoked outside the stabilizer's lock. Under
// overlapping resolution attempts two callbacks may be delivered out of
// order; the seq argument establishes the true order.
type Observer[T comparable, R any] interface {
	// OnOutputApplied is called after an attempt's result became the
	// stabilized output.
	OnOutputApplied(seq uint64, input T, result R)

	// OnResolutionFailed is called when the resolver failed for the
	// still-latest attempt. The previous output is retained.
	OnResolutionFailed(seq uint64, input T, err error)
}

// ObserverFuncs adapts plain functions to the Observer interface.
// Nil fields are skipped. Subscribe a pointer so Unsubscribe can match
// the same observer again.
type ObserverFuncs[T comparable, R any] struct {
	Applied func(seq uint64, input T, result R)
	Failed  func(seq uint64, input T, err error)
}

// OnOutputApplied calls the Applied func if set.
func (o *ObserverFuncs[T, R]) OnOutputApplied(seq uint64, input T, result R) {
	if o.Applied != nil {
		o.Applied(seq, input, result)
	}
}

// OnResolutionFailed calls the Failed func if set.
func (o *ObserverFuncs[T, R]) OnResolutionFailed(seq uint64, input T, err error) {
	if o.Failed != nil {
		o.Failed(seq, input, err)
	}
}
