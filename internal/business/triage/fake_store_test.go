package triage

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"
)

var errStoreDown = errors.New("store down")

type stuckPair struct {
	caseLabel string
	owner     string
}

// fakeStore 内存版 OrderStore
type fakeStore struct {
	statuses map[string]string
	stuck    map[string]stuckPair
	maxDates map[string]time.Time
	delays   map[string]time.Duration

	failStatus bool
	failStuck  bool
	failMax    bool
	block      bool // 阻塞直到 ctx 结束

	calls atomic.Int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		statuses: map[string]string{},
		stuck:    map[string]stuckPair{},
		maxDates: map[string]time.Time{},
		delays:   map[string]time.Duration{},
	}
}

func (s *fakeStore) wait(ctx context.Context, orderID string) error {
	s.calls.Inc()
	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if d := s.delays[orderID]; d > 0 {
		select {
		case <-time.After(d):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *fakeStore) StatusOf(ctx context.Context, orderID string) (string, bool, error) {
	if err := s.wait(ctx, orderID); err != nil {
		return "", false, err
	}
	if s.failStatus {
		return "", false, errStoreDown
	}
	code, ok := s.statuses[orderID]
	return code, ok, nil
}

func (s *fakeStore) StuckCaseOf(ctx context.Context, orderID string) (string, string, bool, error) {
	if err := s.wait(ctx, orderID); err != nil {
		return "", "", false, err
	}
	if s.failStuck {
		return "", "", false, errStoreDown
	}
	p, ok := s.stuck[orderID]
	return p.caseLabel, p.owner, ok, nil
}

func (s *fakeStore) MaxActionDateOf(ctx context.Context, orderID string) (time.Time, bool, error) {
	if err := s.wait(ctx, orderID); err != nil {
		return time.Time{}, false, err
	}
	if s.failMax {
		return time.Time{}, false, errStoreDown
	}
	at, ok := s.maxDates[orderID]
	return at, ok, nil
}

func mustParse(text string) time.Time {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}
