package framework

import (
	"errors"
	"sync"
	"time"
)

// fakeSource 内存消息源
type fakeSource struct {
	mu       sync.Mutex
	pending  []*Message
	acked    []string
	consumed int
	failNext int
}

func (s *fakeSource) Consume(queue string, ttr, timeout time.Duration) (*Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumed++
	if s.failNext > 0 {
		s.failNext--
		return nil, errors.New("connection reset")
	}
	if len(s.pending) == 0 {
		return nil, nil
	}
	msg := s.pending[0]
	s.pending = s.pending[1:]
	return msg, nil
}

func (s *fakeSource) Ack(queue, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acked = append(s.acked, jobID)
	return nil
}

func (s *fakeSource) ackedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.acked...)
}

func (s *fakeSource) remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
