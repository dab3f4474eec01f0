package weather

import "context"

type queueKey struct{}

// WithQueueContext attaches queue to ctx. Providers wait on queue, not ctx,
// while they are held back before sending a request (rate limiting), so a
// fetch that is no longer wanted can give up its place without canceling a
// request already on the wire.
func WithQueueContext(ctx, queue context.Context) context.Context {
	return context.WithValue(ctx, queueKey{}, queue)
}

// QueueContext returns the queue context attached to ctx, or ctx itself.
func QueueContext(ctx context.Context) context.Context {
	if q, ok := ctx.Value(queueKey{}).(context.Context); ok && q != nil {
		return q
	}
	return ctx
}
