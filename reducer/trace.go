package reducer

import (
	"context"
	"fmt"
	"time"

	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/on-the-ground/reduct_ive_go/effect"
)

// Trace decorates r so every Reduce call logs the action, the state
// before and after, and the timespan the call took, at debug level.
//
// When logger does not enable debug, Trace returns r unchanged: the
// decorator costs nothing in release configurations.
func Trace[S, A any](r Reducer[S, A], logger *zap.Logger) Reducer[S, A] {
	if r == nil || logger == nil || !logger.Core().Enabled(zapcore.DebugLevel) {
		return r
	}
	return preserveSubstate(r, tracedReducer[S, A]{inner: r, logger: logger})
}

type tracedReducer[S, A any] struct {
	inner  Reducer[S, A]
	logger *zap.Logger
}

func (t tracedReducer[S, A]) Reduce(ctx context.Context, state *S, action A) effect.Effect[A] {
	before := fmt.Sprintf("%+v", *state)
	from := time.Now()

	eff := t.inner.Reduce(ctx, state, action)

	span := timespan.BetweenTimes(from, time.Now())
	t.logger.Debug("reduce",
		zap.Any("action", action),
		zap.String("before", before),
		zap.String("after", fmt.Sprintf("%+v", *state)),
		zap.String("span", span.String()),
		zap.Bool("effect", eff != nil),
	)
	return eff
}
