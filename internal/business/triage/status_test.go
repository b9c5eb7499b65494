package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	assert.Equal(t, "IVO", InvalidOrder.String())
	assert.Equal(t, "NA", LookupFailed.String())
	assert.Equal(t, "DO", Known("DO").String())

	assert.True(t, Known("DO").IsCompleted())
	assert.True(t, Known("CA").IsCancelled())
	assert.False(t, Known("IP").IsCompleted())
	assert.False(t, LookupFailed.IsCompleted())

	code, ok := Known("IP").Code()
	assert.True(t, ok)
	assert.Equal(t, "IP", code)

	_, ok = InvalidOrder.Code()
	assert.False(t, ok)

	// 哨兵值不会和同名状态码混淆
	assert.False(t, Known("IVO").IsInvalidOrder())
	assert.False(t, Known("NA").IsLookupFailed())
}
