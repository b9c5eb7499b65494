package framework

import (
	"context"
	"testing"
	"time"

	"github.com/bitleak/lmstfy/client"
	"github.com/stretchr/testify/assert"

	"o2a/inctriage/pkg/lmstfyx"
	"o2a/inctriage/pkg/logger"
)

func TestProcessor_SettlesByAction(t *testing.T) {
	src := &fakeSource{}
	actions := map[string]lmstfyx.JobRespStatus{
		"ok":      lmstfyx.JobRespStatusSuccess,
		"retry":   lmstfyx.JobRespStatusRelease,
		"invalid": lmstfyx.JobRespStatusBury,
	}
	proc := func(ctx context.Context, job *client.Job) *lmstfyx.JobResp {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return &lmstfyx.JobResp{Action: actions[job.ID]}
	}

	p := NewProcessor(&ProcessorConfig{Concurrency: 2, Timeout: time.Second}, proc, src, logger.NewNop())

	in := make(chan *Message, 3)
	in <- &Message{ID: "ok", Queue: "q"}
	in <- &Message{ID: "retry", Queue: "q"}
	in <- &Message{ID: "invalid", Queue: "q"}

	assert.NoError(t, p.Start(context.Background(), in))
	p.SignalShutdown()
	p.Wait()

	// Release 不 ACK
	assert.ElementsMatch(t, []string{"ok", "invalid"}, src.ackedIDs())
}

func TestProcessor_DrainsBufferedMessages(t *testing.T) {
	src := &fakeSource{}
	proc := func(ctx context.Context, job *client.Job) *lmstfyx.JobResp {
		return &lmstfyx.JobResp{Action: lmstfyx.JobRespStatusSuccess}
	}
	p := NewProcessor(&ProcessorConfig{Concurrency: 1, Timeout: time.Second}, proc, src, logger.NewNop())

	in := make(chan *Message, 5)
	for _, id := range []string{"1", "2", "3", "4", "5"} {
		in <- &Message{ID: id, Queue: "q"}
	}

	p.SignalShutdown()
	assert.NoError(t, p.Start(context.Background(), in))
	p.Wait()

	assert.Len(t, src.ackedIDs(), 5)
}
