package main

import (
	"fmt"
	"sync"
	"time"
)

// ActionLock is an active hold an API caller has on a table's controls.
// Raise and fold are multi-step sequences; two callers interleaving them
// against the same table would click through each other's forms.
type ActionLock struct {
	Owner     string    `json:"owner"`
	LockedAt  time.Time `json:"lockedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// lockManager serializes action sequences per table, with expiry so a
// crashed caller can't wedge a table forever.
type lockManager struct {
	locks map[string]*ActionLock // tableID → lock
	mu    sync.Mutex
}

const (
	defaultLockTimeout = 30 * time.Second
	maxLockTimeout     = 5 * time.Minute
)

func newLockManager() *lockManager {
	return &lockManager{locks: make(map[string]*ActionLock)}
}

// live returns the unexpired hold on a table, reaping an expired one.
// Callers hold lm.mu.
func (lm *lockManager) live(tableID string) *ActionLock {
	lock, ok := lm.locks[tableID]
	if !ok {
		return nil
	}
	if !time.Now().Before(lock.ExpiresAt) {
		delete(lm.locks, tableID)
		return nil
	}
	return lock
}

// Lock acquires an explicit hold on a table's controls for owner, failing
// while another owner's hold is live. Re-locking by the same owner renews
// the hold with the new timeout.
func (lm *lockManager) Lock(tableID, owner string, timeout time.Duration) error {
	if owner == "" {
		return fmt.Errorf("owner required")
	}
	if timeout <= 0 {
		timeout = defaultLockTimeout
	}
	if timeout > maxLockTimeout {
		timeout = maxLockTimeout
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	if held := lm.live(tableID); held != nil && held.Owner != owner {
		return lockConflict(held)
	}

	now := time.Now()
	lm.locks[tableID] = &ActionLock{
		Owner:     owner,
		LockedAt:  now,
		ExpiresAt: now.Add(timeout),
	}
	return nil
}

// Acquire secures a table's controls for the duration of one action. A
// caller who already holds an explicit lock keeps it untouched and gets a
// no-op release; anyone else's live hold is a conflict. Without a prior
// hold a transient one is created, and release removes it only if it is
// still the same hold.
func (lm *lockManager) Acquire(tableID, owner string) (func(), error) {
	if owner == "" {
		return nil, fmt.Errorf("owner required")
	}

	lm.mu.Lock()
	defer lm.mu.Unlock()

	if held := lm.live(tableID); held != nil {
		if held.Owner != owner {
			return nil, lockConflict(held)
		}
		return func() {}, nil
	}

	now := time.Now()
	lock := &ActionLock{
		Owner:     owner,
		LockedAt:  now,
		ExpiresAt: now.Add(defaultLockTimeout),
	}
	lm.locks[tableID] = lock

	release := func() {
		lm.mu.Lock()
		defer lm.mu.Unlock()
		if lm.locks[tableID] == lock {
			delete(lm.locks, tableID)
		}
	}
	return release, nil
}

// Unlock releases a hold. Only the owner may release a live hold; an
// expired hold is reaped regardless, and unlocking an unlocked table is a
// no-op.
func (lm *lockManager) Unlock(tableID, owner string) error {
	lm.mu.Lock()
	defer lm.mu.Unlock()

	held := lm.live(tableID)
	if held == nil {
		return nil
	}
	if held.Owner != owner {
		return fmt.Errorf("table locked by %q, cannot unlock", held.Owner)
	}
	delete(lm.locks, tableID)
	return nil
}

// Get returns the live lock for a table, or nil. Expired locks are reaped.
func (lm *lockManager) Get(tableID string) *ActionLock {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return lm.live(tableID)
}

func lockConflict(held *ActionLock) error {
	return fmt.Errorf("table locked by %q until %s", held.Owner, held.ExpiresAt.Format(time.RFC3339))
}
