// Package effects runs side effects in response to dispatched actions.
//
// All reducers and side effects run on one logical loop (a mutex), so they never
// interleave. Handlers block on I/O outside the loop and re-enter it through Task.Do.
// A handler registered for a type follows takeLatest: dispatching that type again
// supersedes the running task, whose context is cancelled and whose later Do calls
// are refused.
package effects

import (
	"context"
	"sync"
)

type (
	// Action is a typed intent.
	Action struct {
		Type    string
		Payload interface{}
	}

	// Reducer observes every dispatched action on the loop. It must not dispatch.
	Reducer func(act Action)

	// Handler performs the side effects of one action. It runs in its own goroutine.
	Handler func(t *Task, act Action)

	// PutFunc emits an action from inside Task.Do.
	PutFunc func(act Action)
)

type Pipeline struct {
	loop sync.Mutex // guards everything below

	ctx    context.Context
	cancel context.CancelFunc

	reducers []Reducer
	handlers map[string]Handler
	latest   map[string]*Task
	gens     map[string]uint64

	tasks sync.WaitGroup
}

func New() *Pipeline {
	ctx, cancel := context.WithCancel(context.Background())
	return &Pipeline{
		ctx:      ctx,
		cancel:   cancel,
		handlers: make(map[string]Handler),
		latest:   make(map[string]*Task),
		gens:     make(map[string]uint64),
	}
}

// Subscribe adds a reducer. Reducers see actions in dispatch order, before handlers start.
func (p *Pipeline) Subscribe(r Reducer) {
	p.loop.Lock()
	p.reducers = append(p.reducers, r)
	p.loop.Unlock()
}

// Register sets the takeLatest handler of actType, replacing any previous one.
func (p *Pipeline) Register(actType string, h Handler) {
	p.loop.Lock()
	p.handlers[actType] = h
	p.loop.Unlock()
}

// Dispatch reduces act and starts its handler, superseding the previous task of the same type.
// It returns without waiting for the handler.
func (p *Pipeline) Dispatch(act Action) {
	p.loop.Lock()
	defer p.loop.Unlock()
	p.dispatch(act)
}

// dispatch requires the loop to be held.
func (p *Pipeline) dispatch(act Action) {
	for _, r := range p.reducers {
		r(act)
	}

	h, ok := p.handlers[act.Type]
	if !ok || p.ctx.Err() != nil {
		return
	}

	if prev, ok := p.latest[act.Type]; ok {
		prev.cancel()
	}
	p.gens[act.Type]++

	ctx, cancel := context.WithCancel(p.ctx)
	t := &Task{
		p:      p,
		kind:   act.Type,
		gen:    p.gens[act.Type],
		ctx:    ctx,
		cancel: cancel,
	}
	p.latest[act.Type] = t

	p.tasks.Add(1)
	go func() {
		defer p.tasks.Done()
		defer p.finish(t)
		h(t, act)
	}()
}

func (p *Pipeline) finish(t *Task) {
	p.loop.Lock()
	defer p.loop.Unlock()
	t.cancel()
	if p.latest[t.kind] == t {
		delete(p.latest, t.kind)
	}
}

// Running reports whether a task of actType is still in flight.
func (p *Pipeline) Running(actType string) bool {
	p.loop.Lock()
	defer p.loop.Unlock()
	_, ok := p.latest[actType]
	return ok
}

// Wait blocks until every started task has returned, including tasks started meanwhile.
func (p *Pipeline) Wait() {
	p.tasks.Wait()
}

// Close cancels all running tasks, refuses new ones, and waits for them to return.
func (p *Pipeline) Close() {
	p.loop.Lock()
	p.cancel()
	p.loop.Unlock()
	p.tasks.Wait()
}

// Task is one run of a handler.
type Task struct {
	p      *Pipeline
	kind   string
	gen    uint64
	ctx    context.Context
	cancel context.CancelFunc
}

// Context is cancelled once the task is superseded, finished, or the pipeline is closed.
func (t *Task) Context() context.Context {
	return t.ctx
}

// current requires the loop to be held.
func (t *Task) current() bool {
	return t.ctx.Err() == nil && t.p.gens[t.kind] == t.gen
}

// Live reports whether the task may still apply side effects.
func (t *Task) Live() bool {
	t.p.loop.Lock()
	defer t.p.loop.Unlock()
	return t.current()
}

// Do runs fn on the loop if the task has not been superseded, and reports whether it ran.
// Actions emitted through put are dispatched before Do returns.
// fn must not call Pipeline.Dispatch or other Task methods.
func (t *Task) Do(fn func(put PutFunc)) bool {
	t.p.loop.Lock()
	defer t.p.loop.Unlock()
	if !t.current() {
		return false
	}
	fn(t.p.dispatch)
	return true
}

// Put emits act if the task has not been superseded.
func (t *Task) Put(act Action) bool {
	return t.Do(func(put PutFunc) { put(act) })
}
