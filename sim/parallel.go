package sim

import (
	"runtime"
	"sync"
)

// DefaultParallelThreshold is the minimum batch size to dispatch to the
// worker pool. Below this, single-threaded is faster than paying the
// goroutine handoff.
const DefaultParallelThreshold = 64

// workChunk is a contiguous index range for one worker to step.
type workChunk struct {
	start, end int
	tick       int64
}

// workerPool runs persistent stepping goroutines. Work is partitioned by
// pre-existing slot index, so no two workers ever write the same slot;
// a worker that wins a reservation owns the reserved slot too.
type workerPool struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// attachPool starts a persistent worker pool for this stepper. Calling
// it on a stepper that already has a pool is a no-op.
func (st *Stepper) attachPool() {
	if st.pool != nil {
		return
	}
	p := &workerPool{numWorkers: runtime.GOMAXPROCS(0)}
	p.start(st)
	st.pool = p
}

func (p *workerPool) start(st *Stepper) {
	if p.running {
		return
	}
	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(st)
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker processes chunks until stopped.
func (p *workerPool) worker(st *Stepper) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			st.stepRange(chunk.start, chunk.end, chunk.tick)
			p.doneChan <- struct{}{}
		}
	}
}

// run splits [0, n) across the workers and blocks until every chunk has
// completed. Chunk completion order is irrelevant: indices are disjoint
// and children always land in freshly reserved slots >= n.
func (p *workerPool) run(st *Stepper, n int, tick int64) {
	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChan <- workChunk{start: start, end: end, tick: tick}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
