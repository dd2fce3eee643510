package compress

import (
	"runtime"
	"sync"
)

// defaultWorkers sizes a per-frame worker pool to the available cores,
// capped at the number of frames.
func defaultWorkers(frames int) int {
	n := runtime.GOMAXPROCS(0)
	if n > frames {
		n = frames
	}
	if n < 1 {
		n = 1
	}
	return n
}

// forEachFrame runs fn(i) for every frame index on a bounded worker
// pool. fn must only touch its own frame plus shared read-only state;
// forEachFrame returns once all workers have finished, so callers can
// measure the complete result immediately after.
func forEachFrame(n, workers int, fn func(i int)) {
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			fn(i)
		}
		return
	}

	work := make(chan int, n)
	for i := 0; i < n; i++ {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				fn(i)
			}
		}()
	}
	wg.Wait()
}
