package keylock_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AlibekovAA/puppies-api/internal/common/keylock"
)

func TestKeyedMutex_SerializesSameKey(t *testing.T) {
	km := keylock.New()

	var inside atomic.Int32
	var maxSeen atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := km.Lock("u1/p1")
			defer unlock()

			n := inside.Add(1)
			if n > maxSeen.Load() {
				maxSeen.Store(n)
			}
			time.Sleep(time.Millisecond)
			inside.Add(-1)
		}()
	}
	wg.Wait()

	if maxSeen.Load() != 1 {
		t.Fatalf("expected at most one holder, saw %d", maxSeen.Load())
	}
	if km.Len() != 0 {
		t.Fatalf("expected empty table after release, got %d", km.Len())
	}
}

func TestKeyedMutex_DifferentKeysDoNotContend(t *testing.T) {
	km := keylock.New()

	unlockA := km.Lock(keylock.PairKey("u1", "p1"))
	defer unlockA()

	done := make(chan struct{})
	go func() {
		unlockB := km.Lock(keylock.PairKey("u1", "p2"))
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}

func TestKeyedMutex_UnlockIsIdempotent(t *testing.T) {
	km := keylock.New()
	unlock := km.Lock("k")
	unlock()
	unlock()

	if km.Len() != 0 {
		t.Fatalf("expected empty table, got %d", km.Len())
	}
}

func TestPairKey_NoCollisionOnConcatenation(t *testing.T) {
	if keylock.PairKey("ab", "c") == keylock.PairKey("a", "bc") {
		t.Fatal("pair keys must not collide")
	}
}
