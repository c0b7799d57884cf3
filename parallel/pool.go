package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	CancelFunc func()
)

type Pool struct {
	workers int
	Do      WorkerFunc
	Cancel  CancelFunc
}

func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		workers: numWorkers,
		Do: func(f func()) {
			f()
		},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			go func() {
				for f := range workChan {
					f()
				}
			}()
		}

		pool.Do = func(f func()) {
			workChan <- f
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// Rows splits [0, height) in contiguous bands, runs fn on each band and returns
// once every band is done. fn must only touch the rows it is given.
func (p *Pool) Rows(height int, fn func(minY, maxY int)) {
	if height <= 0 {
		return
	}

	bands := min(p.workers, height)
	if bands <= 1 {
		fn(0, height)
		return
	}

	step := (height + bands - 1) / bands
	var wg sync.WaitGroup
	for minY := 0; minY < height; minY += step {
		maxY := min(minY+step, height)
		wg.Add(1)
		p.Do(func() {
			defer wg.Done()
			fn(minY, maxY)
		})
	}
	wg.Wait()
}

var (
	defaultOnce sync.Once
	defaultPool *Pool
)

// SetDefault sizes the process wide pool. It has no effect once the pool is
// in use.
func SetDefault(numWorkers int) {
	defaultOnce.Do(func() {
		defaultPool = Start(numWorkers)
	})
}

// Default returns the process wide pool used by the raster packages.
func Default() *Pool {
	defaultOnce.Do(func() {
		defaultPool = Start(0)
	})
	return defaultPool
}

// Rows runs fn over the default pool.
func Rows(height int, fn func(minY, maxY int)) {
	Default().Rows(height, fn)
}
