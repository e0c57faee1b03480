// Package engine provides the single execution context that owns all mutable
// daemon state. Sections, the item cache, and the dispatcher table are only
// ever touched from the loop goroutine; background work posts closures in.
package engine

import "sync"

// Loop runs posted closures serially on one goroutine.
type Loop struct {
	ops  chan func()
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// Start spawns the loop goroutine.
func Start() *Loop {
	l := &Loop{
		ops:  make(chan func(), 64),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case <-l.quit:
			// Drain whatever was already posted so state lands consistent.
			for {
				select {
				case fn := <-l.ops:
					fn()
				default:
					return
				}
			}
		case fn := <-l.ops:
			fn()
		}
	}
}

// Perform posts fn for asynchronous execution. Posts after Stop are dropped.
func (l *Loop) Perform(fn func()) {
	select {
	case <-l.quit:
	case l.ops <- fn:
	}
}

// PerformSync posts fn and waits for it to finish. Safe to call from any
// goroutine except the loop itself.
func (l *Loop) PerformSync(fn func()) {
	doneCh := make(chan struct{})
	l.Perform(func() {
		defer close(doneCh)
		fn()
	})
	select {
	case <-doneCh:
	case <-l.done:
	}
}

// Stop shuts the loop down after draining pending work. Idempotent.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.quit) })
	<-l.done
}
