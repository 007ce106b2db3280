package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNewManagerDefaultMax(t *testing.T) {
	mgr := NewManager(0)
	if got := mgr.Capacity(); got != DefaultMaxGoroutine {
		t.Fatalf("expected cap %d, got %d", DefaultMaxGoroutine, got)
	}
}

func TestManagerCollectsErrors(t *testing.T) {
	mgr := NewManager(2)
	errOne := errors.New("one")
	errTwo := errors.New("two")

	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errOne
	})
	mgr.Go(context.Background(), func(ctx context.Context) error {
		return errTwo
	})

	joined := mgr.Wait()
	if joined == nil {
		t.Fatalf("expected errors")
	}
	if !errors.Is(joined, errOne) {
		t.Fatalf("expected errOne to be present")
	}
	if !errors.Is(joined, errTwo) {
		t.Fatalf("expected errTwo to be present")
	}
}

func TestManagerRecoversPanics(t *testing.T) {
	mgr := NewManager(1)
	mgr.Go(context.Background(), func(ctx context.Context) error {
		panic("boom")
	})

	if err := mgr.Wait(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestTryGoRejectsWhenFull(t *testing.T) {
	mgr := NewManager(1)
	release := make(chan struct{})
	started := make(chan struct{})

	if !mgr.TryGo(context.Background(), func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}) {
		t.Fatalf("expected first job to be accepted")
	}
	<-started

	if got := mgr.Running(); got != 1 {
		t.Fatalf("expected 1 running job, got %d", got)
	}

	ran := false
	if mgr.TryGo(context.Background(), func(ctx context.Context) error {
		ran = true
		return nil
	}) {
		t.Fatalf("expected second job to be rejected")
	}

	close(release)
	if err := mgr.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ran {
		t.Fatalf("rejected job must not run")
	}
	if got := mgr.Running(); got != 0 {
		t.Fatalf("expected no running jobs, got %d", got)
	}
}

func TestTryGoCanceledContext(t *testing.T) {
	mgr := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if mgr.TryGo(ctx, func(ctx context.Context) error { return nil }) {
		t.Fatalf("expected canceled context to be rejected")
	}
}

func TestManagerBoundsKeptErrors(t *testing.T) {
	mgr := NewManager(4)

	const jobs = 10 * MaxKeptErrors
	for i := range jobs {
		mgr.Go(context.Background(), func(ctx context.Context) error {
			return fmt.Errorf("scan %d failed", i)
		})
	}

	err := mgr.Wait()
	if err == nil {
		t.Fatal("expected errors")
	}
	if got := mgr.Failed(); got != jobs {
		t.Fatalf("expected %d failures, got %d", jobs, got)
	}

	mgr.mu.Lock()
	kept := len(mgr.errs)
	mgr.mu.Unlock()
	if kept != MaxKeptErrors {
		t.Fatalf("expected %d kept errors, got %d", MaxKeptErrors, kept)
	}

	want := fmt.Sprintf("%d more job errors not kept", jobs-MaxKeptErrors)
	if !strings.Contains(err.Error(), want) {
		t.Fatalf("expected %q in %q", want, err.Error())
	}
}

func TestManagerRunsAdmittedJobAfterCancel(t *testing.T) {
	mgr := NewManager(1)
	ctx, cancel := context.WithCancel(context.Background())

	ran := make(chan bool, 1)
	if !mgr.TryGo(ctx, func(ctx context.Context) error {
		ran <- ctx.Err() != nil
		return nil
	}) {
		t.Fatal("expected job to be accepted")
	}
	cancel()

	if err := mgr.Wait(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	select {
	case <-ran:
	default:
		t.Fatal("admitted job must run")
	}
}
