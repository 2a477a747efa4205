package chat

import (
	"context"
	"sync"
)

// Gate hands a Client to consumers once the host has finished building it.
// Wait blocks until Ready is called or the context ends.
type Gate struct {
	once   sync.Once
	ready  chan struct{}
	client Client
}

func NewGate() *Gate {
	return &Gate{ready: make(chan struct{})}
}

// ReadyGate returns a gate that is already open.
func ReadyGate(c Client) *Gate {
	g := NewGate()
	g.Ready(c)
	return g
}

// Ready publishes the client. Only the first call has an effect.
func (g *Gate) Ready(c Client) {
	g.once.Do(func() {
		g.client = c
		close(g.ready)
	})
}

func (g *Gate) Wait(ctx context.Context) (Client, error) {
	select {
	case <-g.ready:
		return g.client, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
