package eventloop

// Manual is a FIFO of deferred tasks that only runs when asked to. It suits
// hosts that already own an event loop and tests that want to observe the
// state between a task and its deferred follow-ups.
//
// Manual is not safe for concurrent use.
type Manual struct {
	tasks []func()
}

// Defer queues fn.
func (m *Manual) Defer(fn func()) {
	m.tasks = append(m.tasks, fn)
}

// Len returns the number of queued tasks.
func (m *Manual) Len() int {
	return len(m.tasks)
}

// RunPending runs queued tasks in FIFO order until the queue is empty,
// including tasks queued by the tasks it runs. It returns how many ran.
func (m *Manual) RunPending() int {
	n := 0
	for len(m.tasks) > 0 {
		fn := m.tasks[0]
		m.tasks[0] = nil
		m.tasks = m.tasks[1:]
		fn()
		n++
	}
	return n
}

// Discard drops every queued task without running it.
func (m *Manual) Discard() int {
	n := len(m.tasks)
	m.tasks = nil
	return n
}
