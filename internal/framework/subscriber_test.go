package framework

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"o2a/inctriage/pkg/logger"
)

func TestSubscriber_ForwardsMessages(t *testing.T) {
	src := &fakeSource{
		pending:  []*Message{{ID: "1", Queue: "q"}, {ID: "2", Queue: "q"}},
		failNext: 1,
	}
	sub := NewSubscriber(&SubscriberConfig{
		QueueName:    "q",
		Concurrency:  1,
		ErrorBackoff: time.Millisecond,
	}, src, logger.NewNop())

	out := make(chan *Message, 2)
	require.NoError(t, sub.Start(context.Background(), out))

	got := []string{(<-out).ID, (<-out).ID}
	sub.Stop()
	sub.Wait()

	assert.Equal(t, []string{"1", "2"}, got)
	assert.Equal(t, 0, src.remaining())
}

func TestSubscriber_StopWhileBlocked(t *testing.T) {
	src := &fakeSource{pending: []*Message{{ID: "1"}, {ID: "2"}}}
	sub := NewSubscriber(&SubscriberConfig{QueueName: "q", Concurrency: 1}, src, logger.NewNop())

	// 无缓冲且无人接收，第一条消息会阻塞在发送上
	out := make(chan *Message)
	require.NoError(t, sub.Start(context.Background(), out))

	done := make(chan struct{})
	go func() {
		sub.Stop()
		sub.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not exit after Stop")
	}
}
