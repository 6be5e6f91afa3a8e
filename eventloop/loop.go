// Package eventloop runs editor work on a single goroutine.
//
// The block graph and the variable registry are single-threaded: every
// mutation and every query happens on one goroutine, one task at a time.
// Tasks may queue follow-up work with Defer, which runs after the current
// task and after everything already queued, in FIFO order.
package eventloop

import (
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
)

// ErrStopped is returned by Do once the loop has been stopped.
var ErrStopped = errors.New("event loop stopped")

var log = commonlog.GetLogger("blockvars.eventloop")

// task is a unit of work. done is nil for deferred tasks.
type task struct {
	fn   func() any
	done chan result
}

type result struct {
	value any
	err   error
}

// Loop serializes all editor access through a single goroutine.
type Loop struct {
	mu      sync.Mutex
	queue   []task
	stopped bool

	wake chan struct{}
	quit chan struct{}
	done chan struct{}
}

// New creates a Loop and starts the processing goroutine.
func New() *Loop {
	l := &Loop{
		wake: make(chan struct{}, 1),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.loop()
	return l
}

// loop processes tasks sequentially on the dedicated goroutine.
func (l *Loop) loop() {
	defer close(l.done)
	for {
		t, ok := l.next()
		if !ok {
			select {
			case <-l.wake:
				continue
			case <-l.quit:
				return
			}
		}
		r := l.execute(t.fn)
		if t.done != nil {
			t.done <- r
		} else if r.err != nil {
			log.Errorf("deferred task failed: %v", r.err)
		}
	}
}

func (l *Loop) next() (task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped || len(l.queue) == 0 {
		return task{}, false
	}
	t := l.queue[0]
	l.queue[0] = task{}
	l.queue = l.queue[1:]
	return t, true
}

// execute runs fn, recovering from panics.
func (l *Loop) execute(fn func() any) result {
	var r result
	func() {
		defer func() {
			if p := recover(); p != nil {
				r.err = fmt.Errorf("%v", p)
			}
		}()
		r.value = fn()
	}()
	return r
}

func (l *Loop) enqueue(t task) bool {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do submits fn for execution on the loop goroutine and blocks until it
// completes. Panics inside fn are returned as errors. Calling Do from inside
// a task deadlocks; use Defer there.
func (l *Loop) Do(fn func() any) (any, error) {
	t := task{fn: fn, done: make(chan result, 1)}
	if !l.enqueue(t) {
		return nil, ErrStopped
	}
	select {
	case r := <-t.done:
		return r.value, r.err
	case <-l.done:
		// Stopped with our task still queued.
		select {
		case r := <-t.done:
			return r.value, r.err
		default:
			return nil, ErrStopped
		}
	}
}

// Defer queues fn to run after the current task and everything already
// queued. It never blocks. Deferred tasks queued after Stop are dropped.
func (l *Loop) Defer(fn func()) {
	l.enqueue(task{fn: func() any {
		fn()
		return nil
	}})
}

// Sync blocks until every task queued before the call has run.
func (l *Loop) Sync() error {
	_, err := l.Do(func() any { return nil })
	return err
}

// Pending returns the number of queued tasks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queue)
}

// Stop shuts the loop down. Queued tasks never run. Stop waits for the task
// in progress, if any, to finish; it must not be called from inside a task.
func (l *Loop) Stop() {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.stopped = true
	dropped := len(l.queue)
	l.queue = nil
	l.mu.Unlock()

	close(l.quit)
	<-l.done
	if dropped > 0 {
		log.Debugf("stopped with %d queued tasks dropped", dropped)
	}
}
