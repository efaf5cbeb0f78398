package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeFetcher struct {
	mu      sync.Mutex
	results [][]Alert
	errs    []error
	calls   int
}

func (f *fakeFetcher) FetchAlerts(ctx context.Context, limit int) ([]Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		i = len(f.results) - 1
	}
	return f.results[i], f.errs[i]
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestPollerImmediateFirstPoll(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		results: [][]Alert{{{ID: 1, Client: "Acme"}}},
		errs:    []error{nil},
	}
	p := NewPoller(fetcher, zerolog.Nop(), time.Hour, 0)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Run(ctx)
		close(done)
	}()

	waitFor(t, func() bool { return len(p.Alerts()) == 1 })
	cancel()
	<-done

	if fetcher.callCount() != 1 {
		t.Fatalf("expected a single immediate poll, got %d", fetcher.callCount())
	}
}

func TestPollerKeepsSnapshotOnFailure(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		results: [][]Alert{
			{{ID: 1, Client: "Acme"}, {ID: 2, Client: "Acme"}},
			nil,
		},
		errs: []error{nil, errors.New("upstream 500")},
	}
	p := NewPoller(fetcher, zerolog.Nop(), time.Hour, 0)

	p.pollOnce(context.Background())
	if len(p.Alerts()) != 2 {
		t.Fatalf("expected initial snapshot of 2, got %d", len(p.Alerts()))
	}
	firstSuccess := p.LastSuccess()

	p.pollOnce(context.Background())
	if len(p.Alerts()) != 2 {
		t.Fatalf("failed poll must keep previous snapshot, got %d alerts", len(p.Alerts()))
	}
	if !p.LastSuccess().Equal(firstSuccess) {
		t.Fatalf("failed poll must not advance last success time")
	}
}

func TestPollerKeepsSnapshotOnEmptyList(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		results: [][]Alert{
			{{ID: 7, Client: "Acme"}},
			{},
		},
		errs: []error{nil, nil},
	}
	p := NewPoller(fetcher, zerolog.Nop(), time.Hour, 0)

	p.pollOnce(context.Background())
	p.pollOnce(context.Background())

	if got := p.Alerts(); len(got) != 1 || got[0].ID != 7 {
		t.Fatalf("empty fetch must keep stale snapshot, got %+v", got)
	}
}

func TestPollerReplacesSnapshotWholesale(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		results: [][]Alert{
			{{ID: 1}, {ID: 2}, {ID: 3}},
			{{ID: 9}},
		},
		errs: []error{nil, nil},
	}
	p := NewPoller(fetcher, zerolog.Nop(), time.Hour, 0)

	p.pollOnce(context.Background())
	p.pollOnce(context.Background())

	got := p.Alerts()
	if len(got) != 1 || got[0].ID != 9 {
		t.Fatalf("expected wholesale replacement, got %+v", got)
	}
}

func TestPollerDiscardsResultAfterCancellation(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{
		results: [][]Alert{{{ID: 1}}},
		errs:    []error{nil},
	}
	p := NewPoller(fetcher, zerolog.Nop(), time.Hour, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p.pollOnce(ctx)

	if len(p.Alerts()) != 0 {
		t.Fatalf("result resolved after cancellation must be discarded")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}
