package publishlock

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-cms-editor/internal/eventloop"
	"github.com/goliatone/go-cms-editor/internal/shared"
)

type scriptedService struct {
	mu      sync.Mutex
	answers [][]shared.ClientID
	errs    []error
	calls   [][]shared.ClientID
}

func (s *scriptedService) GetElementsLockedForPublishing(_ context.Context, ids []shared.ClientID) ([]shared.ClientID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	call := len(s.calls)
	s.calls = append(s.calls, slices.Clone(ids))
	if call < len(s.errs) && s.errs[call] != nil {
		return nil, s.errs[call]
	}
	if call < len(s.answers) {
		return s.answers[call], nil
	}
	return nil, nil
}

func runLoop(t *testing.T, loop *eventloop.Loop) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := loop.RunUntilIdle(ctx); err != nil {
		t.Fatalf("loop did not settle: %v", err)
	}
}

func TestCheckerStopsWhenAllLocksReleased(t *testing.T) {
	loop := eventloop.New()
	service := &scriptedService{answers: [][]shared.ClientID{
		{"a", "b"},
		{"a"},
		{},
	}}
	var reloads [][]shared.ClientID
	checker := New(loop, service, func(ids []shared.ClientID) {
		reloads = append(reloads, ids)
	}, WithInterval(time.Millisecond))

	checker.Add("a", "b", "c")
	runLoop(t, loop)

	if len(service.calls) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(service.calls))
	}
	if len(reloads) > 3 {
		t.Fatalf("expected at most 3 reload batches, got %d", len(reloads))
	}
	want := [][]shared.ClientID{{"c"}, {"b"}, {"a"}}
	for i := range want {
		if !slices.Equal(reloads[i], want[i]) {
			t.Fatalf("reload %d: got %v want %v", i, reloads[i], want[i])
		}
	}
	if checker.Active() || len(checker.Pending()) != 0 {
		t.Fatal("expected checker to be idle")
	}
	if !slices.Equal(service.calls[1], []shared.ClientID{"a", "b"}) {
		t.Fatalf("expected second check on remaining ids, got %v", service.calls[1])
	}
}

func TestCheckerRetriesAfterError(t *testing.T) {
	loop := eventloop.New()
	service := &scriptedService{
		errs:    []error{errors.New("unavailable")},
		answers: [][]shared.ClientID{nil, {}},
	}
	reloaded := 0
	checker := New(loop, service, func(ids []shared.ClientID) { reloaded += len(ids) }, WithInterval(time.Millisecond))

	checker.Add("a")
	runLoop(t, loop)

	if len(service.calls) != 2 || reloaded != 1 {
		t.Fatalf("expected retry then release, calls=%d reloaded=%d", len(service.calls), reloaded)
	}
	if checker.Cycles() != 2 {
		t.Fatalf("expected 2 cycles, got %d", checker.Cycles())
	}
}

func TestCheckerAddWhileRunningSchedulesOnce(t *testing.T) {
	loop := eventloop.New()
	service := &scriptedService{}
	checker := New(loop, service, nil, WithInterval(time.Millisecond))

	checker.Add("a")
	checker.Add("b")
	runLoop(t, loop)

	if len(service.calls) != 1 || len(service.calls[0]) != 2 {
		t.Fatalf("expected a single batched check, got %v", service.calls)
	}
}

func TestCheckerStop(t *testing.T) {
	loop := eventloop.New()
	service := &scriptedService{}
	checker := New(loop, service, nil, WithInterval(time.Hour))

	checker.Add("a")
	checker.Stop()
	runLoop(t, loop)

	if len(service.calls) != 0 {
		t.Fatalf("expected no check after stop, got %d", len(service.calls))
	}
}
