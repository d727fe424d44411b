package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageBus_InboundRoundTrip(t *testing.T) {
	mb := NewMessageBus()
	defer mb.Close()
	ctx := context.Background()

	require.NoError(t, mb.PublishInbound(ctx, InboundMessage{Channel: "qq", ChatID: "group:G1", Content: "hi"}))

	msg, ok := mb.ConsumeInbound(ctx)
	require.True(t, ok)
	assert.Equal(t, "group:G1", msg.ChatID)
	assert.Equal(t, "hi", msg.Content)
}

func TestMessageBus_OutboundRoundTrip(t *testing.T) {
	mb := NewMessageBus()
	defer mb.Close()
	ctx := context.Background()

	require.NoError(t, mb.PublishOutbound(ctx, OutboundMessage{Channel: "qq", ChatID: "private:U1"}))

	msg, ok := mb.SubscribeOutbound(ctx)
	require.True(t, ok)
	assert.Equal(t, "private:U1", msg.ChatID)
}

func TestMessageBus_ConsumeHonorsContext(t *testing.T) {
	mb := NewMessageBus()
	defer mb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, ok := mb.ConsumeInbound(ctx)
	assert.False(t, ok)
}

func TestMessageBus_PublishBlockedByFullBuffer(t *testing.T) {
	mb := NewMessageBusWithSize(0)
	defer mb.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := mb.PublishInbound(ctx, InboundMessage{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMessageBus_Close(t *testing.T) {
	mb := NewMessageBusWithSize(0)

	errCh := make(chan error, 1)
	go func() {
		errCh <- mb.PublishOutbound(context.Background(), OutboundMessage{})
	}()

	time.Sleep(10 * time.Millisecond)
	mb.Close()
	mb.Close()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, ErrBusClosed)
	case <-time.After(time.Second):
		t.Fatal("publisher was not released by Close")
	}

	assert.ErrorIs(t, mb.PublishInbound(context.Background(), InboundMessage{}), ErrBusClosed)
	_, ok := mb.ConsumeInbound(context.Background())
	assert.False(t, ok)
}
