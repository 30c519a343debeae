package limiter

import (
    "context"
)

// Limiter bounds how many documents are held open at once. A zero value or
// nil *Limiter never blocks.
type Limiter struct {
    sem chan struct{}
}

// New returns a limiter admitting maxInflight holders; <= 0 means unlimited.
func New(maxInflight int) *Limiter {
    if maxInflight <= 0 { return &Limiter{} }
    return &Limiter{sem: make(chan struct{}, maxInflight)}
}

// Acquire waits for a slot or for ctx to end. The returned release func must
// be called exactly once.
func (l *Limiter) Acquire(ctx context.Context) (func(), error) {
    if l == nil || l.sem == nil { return func() {}, nil }
    select {
    case l.sem <- struct{}{}:
        return func() { <-l.sem }, nil
    case <-ctx.Done():
        return nil, ctx.Err()
    }
}

// InFlight reports the number of held slots.
func (l *Limiter) InFlight() int {
    if l == nil { return 0 }
    return len(l.sem)
}
