package scriptrule

import (
	"sync"

	"go.starlark.net/starlark"
)

// threadPool recycles Starlark threads between check calls. A thread is
// used by one call at a time.
type threadPool struct {
	mu      sync.Mutex
	threads []*starlark.Thread
	maxSize int
}

func newThreadPool(maxSize int) *threadPool {
	if maxSize <= 0 {
		maxSize = 16
	}
	return &threadPool{
		threads: make([]*starlark.Thread, 0, maxSize),
		maxSize: maxSize,
	}
}

// Get retrieves a thread from the pool or creates a new one. The thread
// name is used for error reporting.
func (p *threadPool) Get(name string, l *loader) *starlark.Thread {
	p.mu.Lock()
	defer p.mu.Unlock()

	var thread *starlark.Thread
	if n := len(p.threads); n > 0 {
		thread = p.threads[n-1]
		p.threads = p.threads[:n-1]
	} else {
		thread = &starlark.Thread{}
		thread.SetMaxExecutionSteps(l.maxSteps)
	}
	thread.Name = name
	thread.Print = l.printer(name)
	thread.Steps = 0
	return thread
}

// Put returns a thread to the pool for reuse.
// If the pool is full, the thread is discarded.
func (p *threadPool) Put(thread *starlark.Thread) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.threads) < p.maxSize {
		thread.Name = ""
		thread.Print = nil
		p.threads = append(p.threads, thread)
	}
}

// Size returns the current number of threads in the pool.
func (p *threadPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.threads)
}
