package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct{ reply string }

func (s stubClient) Complete(context.Context, Request) (string, error) {
	return s.reply, nil
}

func TestGateWaitUnblocksOnReady(t *testing.T) {
	g := NewGate()
	got := make(chan Client, 1)
	go func() {
		c, err := g.Wait(context.Background())
		if err == nil {
			got <- c
		}
	}()

	g.Ready(stubClient{reply: "first"})

	select {
	case c := <-got:
		reply, err := c.Complete(context.Background(), Request{})
		require.NoError(t, err)
		assert.Equal(t, "first", reply)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after Ready")
	}
}

func TestGateFirstReadyWins(t *testing.T) {
	g := NewGate()
	g.Ready(stubClient{reply: "first"})
	g.Ready(stubClient{reply: "second"})

	c, err := g.Wait(context.Background())
	require.NoError(t, err)
	reply, _ := c.Complete(context.Background(), Request{})
	assert.Equal(t, "first", reply)
}

func TestGateWaitHonorsContext(t *testing.T) {
	g := NewGate()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	c, err := g.Wait(ctx)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestReadyGate(t *testing.T) {
	g := ReadyGate(stubClient{reply: "ok"})
	c, err := g.Wait(context.Background())
	require.NoError(t, err)
	reply, err := c.Complete(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
}
