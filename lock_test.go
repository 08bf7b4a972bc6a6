package main

import (
	"testing"
	"time"
)

func TestLockBasic(t *testing.T) {
	lm := newLockManager()

	if err := lm.Lock("t1", "caller-a", 5*time.Second); err != nil {
		t.Fatal(err)
	}

	// Same owner can re-lock (renew)
	if err := lm.Lock("t1", "caller-a", 5*time.Second); err != nil {
		t.Fatal(err)
	}

	// Different owner blocked
	if err := lm.Lock("t1", "caller-b", 5*time.Second); err == nil {
		t.Error("expected lock conflict")
	}

	// Other tables unaffected
	if err := lm.Lock("t2", "caller-b", 5*time.Second); err != nil {
		t.Fatal(err)
	}
}

func TestLockRequiresOwner(t *testing.T) {
	lm := newLockManager()
	if err := lm.Lock("t1", "", 0); err == nil {
		t.Error("empty owner should be rejected")
	}
	if _, err := lm.Acquire("t1", ""); err == nil {
		t.Error("empty owner should be rejected")
	}
}

func TestUnlock(t *testing.T) {
	lm := newLockManager()

	if err := lm.Lock("t1", "caller-a", 5*time.Second); err != nil {
		t.Fatal(err)
	}

	// Wrong owner can't unlock a live lock
	if err := lm.Unlock("t1", "caller-b"); err == nil {
		t.Error("expected unlock rejection")
	}

	if err := lm.Unlock("t1", "caller-a"); err != nil {
		t.Fatal(err)
	}

	// Unlocking an unlocked table is idempotent
	if err := lm.Unlock("t1", "caller-a"); err != nil {
		t.Fatal(err)
	}

	// Table is free again
	if err := lm.Lock("t1", "caller-b", 5*time.Second); err != nil {
		t.Fatal(err)
	}
}

func TestLockExpiry(t *testing.T) {
	lm := newLockManager()

	if err := lm.Lock("t1", "caller-a", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)

	if lock := lm.Get("t1"); lock != nil {
		t.Errorf("expired lock still reported: %+v", lock)
	}

	// Expired locks can be taken over
	if err := lm.Lock("t1", "caller-b", 5*time.Second); err != nil {
		t.Fatal(err)
	}
}

func TestAcquireTransient(t *testing.T) {
	lm := newLockManager()

	release, err := lm.Acquire("t1", "caller-a")
	if err != nil {
		t.Fatal(err)
	}

	// Held for the duration of the action
	if lock := lm.Get("t1"); lock == nil || lock.Owner != "caller-a" {
		t.Errorf("transient hold missing: %+v", lock)
	}
	if _, err := lm.Acquire("t1", "caller-b"); err == nil {
		t.Error("expected conflict against a transient hold")
	}

	release()
	if lock := lm.Get("t1"); lock != nil {
		t.Errorf("transient hold survived release: %+v", lock)
	}
}

func TestAcquireKeepsExplicitHold(t *testing.T) {
	lm := newLockManager()

	if err := lm.Lock("t1", "caller-a", maxLockTimeout); err != nil {
		t.Fatal(err)
	}
	before := lm.Get("t1").ExpiresAt

	release, err := lm.Acquire("t1", "caller-a")
	if err != nil {
		t.Fatal(err)
	}
	release()

	lock := lm.Get("t1")
	if lock == nil {
		t.Fatal("explicit hold deleted by acting under it")
	}
	if !lock.ExpiresAt.Equal(before) {
		t.Errorf("explicit hold expiry changed: %v → %v", before, lock.ExpiresAt)
	}

	// Still conflicts for everyone else
	if _, err := lm.Acquire("t1", "caller-b"); err == nil {
		t.Error("expected conflict while the explicit hold lives")
	}
}

func TestAcquireBlockedByForeignHold(t *testing.T) {
	lm := newLockManager()

	if err := lm.Lock("t1", "caller-a", 5*time.Second); err != nil {
		t.Fatal(err)
	}
	if _, err := lm.Acquire("t1", "caller-b"); err == nil {
		t.Error("expected conflict against another owner's hold")
	}
}

func TestLockTimeoutClamping(t *testing.T) {
	lm := newLockManager()

	if err := lm.Lock("t1", "caller-a", 24*time.Hour); err != nil {
		t.Fatal(err)
	}
	lock := lm.Get("t1")
	if lock == nil {
		t.Fatal("lock missing")
	}
	if time.Until(lock.ExpiresAt) > maxLockTimeout+time.Second {
		t.Errorf("timeout not clamped: expires %v", lock.ExpiresAt)
	}
}
