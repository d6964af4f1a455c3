package parallel

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestForEach_CoversEveryIndex(t *testing.T) {
	n := 100
	hits := make([]int32, n)

	ForEach(4, n, nil, func(i int) {
		atomic.AddInt32(&hits[i], 1)
	})

	for i, h := range hits {
		if h != 1 {
			t.Errorf("Index %d ran %d times", i, h)
		}
	}
}

func TestForEach_ZeroTasks(t *testing.T) {
	ForEach(4, 0, nil, func(i int) {
		t.Errorf("Unexpected call with index %d", i)
	})
}

func TestForEach_SingleWorkerOnNegativeCount(t *testing.T) {
	var count int32
	ForEach(-1, 10, nil, func(i int) {
		atomic.AddInt32(&count, 1)
	})
	if count != 10 {
		t.Errorf("Expected 10 calls, got %d", count)
	}
}

func TestWorkerPool_RecoverFromPanic(t *testing.T) {
	pool := NewWorkerPool(2, nil)
	defer pool.Close()

	var wg sync.WaitGroup
	var done int32

	wg.Add(2)
	pool.Submit(func() {
		defer wg.Done()
		panic("boom")
	})
	pool.Submit(func() {
		defer wg.Done()
		atomic.AddInt32(&done, 1)
	})
	wg.Wait()

	if done != 1 {
		t.Error("Pool stopped processing after a panicking task")
	}
}

func TestWorkerPool_SubmitAfterClose(t *testing.T) {
	pool := NewWorkerPool(1, nil)
	pool.Close()

	if pool.Submit(func() {}) {
		t.Error("Submit should fail on a closed pool")
	}
}
