package settle

import (
	"context"

	"github.com/settle-reactive/settle-go/pkg/cell"
	"github.com/settle-reactive/settle-go/pkg/scope"
)

// Bind feeds every change of sig into st.Set. The returned function
// detaches the binding; it does not close the stabilizer.
func Bind[T comparable, R any](sig *cell.Signal[T], st *Stabilizer[T, R]) func() {
	feed := &signalFeed[T, R]{st: st}
	sig.Watch(feed)
	return func() { sig.Unwatch(feed) }
}

// signalFeed adapts a cell.Watcher to Stabilizer.Set.
type signalFeed[T comparable, R any] struct {
	st *Stabilizer[T, R]
}

func (f *signalFeed[T, R]) OnValueChanged(_, value T, _ uint64) {
	f.st.Set(value)
}

// Observe attaches a new stabilizer to a signal: the signal's current
// value is observed immediately, and every subsequent change feeds the
// stabilizer.
//
// The context supplies configuration defaults: a zero cfg.QuietPeriod
// is replaced by the context's quiet period (scope.ContextWithQuietPeriod)
// when one is set, and an empty cfg.ObservationID by the context's
// observation ID. To force immediate resolution under a context that
// carries a quiet period, build the stabilizer directly and use Bind.
//
// Cancelling the context tears the observation down. The returned stop
// function unbinds and closes explicitly; it is idempotent.
func Observe[T comparable, R any](ctx context.Context, sig *cell.Signal[T], resolver Resolver[T, R], cfg Config) (*Stabilizer[T, R], func(), error) {
	if cfg.QuietPeriod == 0 {
		if d := scope.QuietPeriodFromContext(ctx); d > 0 {
			cfg.QuietPeriod = d
		}
	}
	if cfg.ObservationID == "" {
		cfg.ObservationID = scope.ObservationIDFromContext(ctx)
	}

	st, err := NewStabilizerWithConfig(resolver, cfg)
	if err != nil {
		return nil, nil, err
	}

	unbind := Bind(sig, st)
	stop := func() {
		unbind()
		st.Close()
	}
	context.AfterFunc(ctx, stop)

	st.Set(sig.Get())

	return st, stop, nil
}
