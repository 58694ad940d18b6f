package engine

import "sync"

// pool is a fixed set of goroutines executing submitted tasks. It lives for
// the whole run and is closed exactly once.
type pool struct {
	tasks chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

func newPool(workers int) *pool {
	p := &pool{tasks: make(chan func())}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// submit hands a task to the next idle worker. It must not be called after close.
func (p *pool) submit(task func()) {
	p.tasks <- task
}

// close stops accepting tasks and waits for the workers to exit.
func (p *pool) close() {
	p.once.Do(func() {
		close(p.tasks)
		p.wg.Wait()
	})
}
