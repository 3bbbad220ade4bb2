package filters

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/pipyfix/pipy/event"
	"github.com/pipyfix/pipy/pipeline"
	"github.com/pipyfix/pipy/plumbing"
)

// RateLimited wraps any Filter and throttles how often its Process is
// invoked, generalizing the teacher's Callback.LimitRate
// (golang.org/x/time/rate, applied per-callback in pipe/options.go) from
// "BGP message callbacks" to "any filter".
type RateLimited struct {
	Inner   pipeline.Filter
	limiter *rate.Limiter
	limit   rate.Limit
	burst   int
}

func NewRateLimited(inner pipeline.Filter, limit rate.Limit, burst int) *RateLimited {
	return &RateLimited{Inner: inner, limiter: rate.NewLimiter(limit, burst), limit: limit, burst: burst}
}

func (r *RateLimited) Bind(layout *pipeline.Layout) error {
	return r.Inner.Bind(layout)
}

func (r *RateLimited) Clone() pipeline.Filter {
	return &RateLimited{Inner: r.Inner.Clone(), limiter: rate.NewLimiter(r.limit, r.burst), limit: r.limit, burst: r.burst}
}

func (r *RateLimited) Reset() { r.Inner.Reset() }

func (r *RateLimited) Process(ctx *pipeline.Context, ev event.Event, next plumbing.Input) {
	if err := r.limiter.Wait(context.Background()); err != nil {
		next.Input(event.StreamEnd{Kind: event.RuntimeError, Err: err})
		return
	}
	r.Inner.Process(ctx, ev, next)
}

func (r *RateLimited) Dump(d *pipeline.Dump) {
	d.Field("type", "rate_limited")
	r.Inner.Dump(d)
}
