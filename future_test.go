package squid

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFuture_HappyPath(t *testing.T) {
	e := New()
	defer e.Close()

	f, err := Submit(e, func(probe Probe) (int, error) {
		return 42, nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := f.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
	if f.Status() != Done {
		t.Errorf("expected Done, got %s", f.Status())
	}
}

func TestFuture_ErrorResult(t *testing.T) {
	e := New()
	defer e.Close()

	wantErr := errors.New("boom")
	f, err := Submit(e, func(probe Probe) (string, error) {
		return "", wantErr
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = f.Get()
	if !errors.Is(err, wantErr) {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
	if f.Status() != Done {
		t.Errorf("a task that returns an error is still Done, got %s", f.Status())
	}
}

func TestFuture_Cancel_Idempotent(t *testing.T) {
	e := New()
	defer e.Close()

	started := make(chan struct{})
	release := make(chan struct{})
	f, err := Submit(e, func(probe Probe) (int, error) {
		close(started)
		<-release
		return 1, nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-started

	prior, err := f.Cancel()
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if prior != Running {
		t.Errorf("expected prior status Running, got %s", prior)
	}

	prior2, err := f.Cancel()
	if err != nil {
		t.Errorf("second cancel should succeed idempotently: %v", err)
	}
	if prior2 != Cancelled {
		t.Errorf("expected prior status Cancelled on repeat cancel, got %s", prior2)
	}

	close(release)
	_, err = f.Get()
	if !errors.Is(err, ErrFutureIsCancelled) {
		t.Errorf("expected ErrFutureIsCancelled, got %v", err)
	}
}

func TestFuture_Cancel_AfterDone(t *testing.T) {
	e := New()
	defer e.Close()

	f, err := Submit(e, func(probe Probe) (int, error) {
		return 1, nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.Get(); err != nil {
		t.Fatalf("get: %v", err)
	}

	_, err = f.Cancel()
	if !errors.Is(err, ErrFutureIsDone) {
		t.Errorf("expected ErrFutureIsDone, got %v", err)
	}
}

func TestFuture_ProbeObservesCancellation(t *testing.T) {
	e := New()
	defer e.Close()

	f, err := Submit(e, func(probe Probe) (int, error) {
		n := 0
		for !probe.IsCancelled() {
			n++
			if n > 1_000_000 {
				break
			}
		}
		return n, nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, err := f.Cancel(); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	_, err = f.Get()
	if !errors.Is(err, ErrFutureIsCancelled) {
		t.Errorf("expected ErrFutureIsCancelled, got %v", err)
	}
}

func TestFuture_GetWithTimeout(t *testing.T) {
	e := New()
	defer e.Close()

	release := make(chan struct{})
	f, err := Submit(e, func(probe Probe) (int, error) {
		<-release
		return 1, nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer close(release)

	_, err = f.GetWithTimeout(10 * time.Millisecond)
	if !errors.Is(err, ErrTimedOut) {
		t.Errorf("expected ErrTimedOut, got %v", err)
	}
}

func TestFuture_GetWithContext(t *testing.T) {
	e := New()
	defer e.Close()

	release := make(chan struct{})
	f, err := Submit(e, func(probe Probe) (int, error) {
		<-release
		return 1, nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = f.GetWithContext(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected context.DeadlineExceeded, got %v", err)
	}
}

func TestFuture_ConcurrentGet(t *testing.T) {
	e := New()
	defer e.Close()

	f, err := Submit(e, func(probe Probe) (int, error) {
		time.Sleep(5 * time.Millisecond)
		return 7, nil
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	const n = 20
	results := make(chan int, n)
	for i := 0; i < n; i++ {
		go func() {
			v, err := f.Get()
			if err != nil {
				results <- -1
				return
			}
			results <- v
		}()
	}
	for i := 0; i < n; i++ {
		if v := <-results; v != 7 {
			t.Errorf("expected 7, got %d", v)
		}
	}
}

func TestFuture_PanicRecovered(t *testing.T) {
	e := New()
	defer e.Close()

	f, err := Submit(e, func(probe Probe) (int, error) {
		panic("task panic")
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	_, err = f.Get()
	if err == nil {
		t.Fatal("expected an error from a panicking task")
	}
	if f.Status() != Done {
		t.Errorf("a recovered panic still completes the future as Done, got %s", f.Status())
	}
	if e.Err() == nil {
		t.Error("expected the executor to record the recovered panic")
	}
}
