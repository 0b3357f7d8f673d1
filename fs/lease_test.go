package fs

import (
	"errors"
	"testing"
)

func TestLeaseExclusivity(t *testing.T) {
	var l Lease
	if l.Held() {
		t.Fatal("zero lease should not be held")
	}
	if err := l.Check(); err != nil {
		t.Fatalf("Check on free lease: %v", err)
	}

	token, err := l.Acquire()
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if !l.Held() {
		t.Error("lease should be held after Acquire")
	}
	if _, err := l.Acquire(); !errors.Is(err, ErrLeaseConflict) {
		t.Errorf("second Acquire = %v, want ErrLeaseConflict", err)
	}
	if err := l.Check(); !errors.Is(err, ErrLeaseConflict) {
		t.Errorf("Check while held = %v, want ErrLeaseConflict", err)
	}

	if err := l.Release(token); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if l.Held() {
		t.Error("lease should be free after Release")
	}

	// Tokens are single-use: a fresh acquisition issues a different one.
	token2, err := l.Acquire()
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	if err := l.Release(token); err == nil {
		t.Error("stale token should not release the lease")
	}
	if err := l.Release(token2); err != nil {
		t.Errorf("current token release: %v", err)
	}
}

func TestLeaseBypass(t *testing.T) {
	var l Lease
	if _, err := l.Acquire(); err != nil {
		t.Fatal(err)
	}
	l.BeginBypass()
	if err := l.Check(); err != nil {
		t.Errorf("Check under bypass = %v, want nil", err)
	}
	l.BeginBypass()
	l.EndBypass()
	if err := l.Check(); err != nil {
		t.Errorf("Check with one bypass left = %v, want nil", err)
	}
	l.EndBypass()
	if err := l.Check(); !errors.Is(err, ErrLeaseConflict) {
		t.Errorf("Check after bypass ends = %v, want ErrLeaseConflict", err)
	}
}
