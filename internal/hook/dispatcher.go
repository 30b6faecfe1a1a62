package hook

import (
	"log"
	"sync"
)

// Result is the outcome of running one hook.
type Result struct {
	Hook     string
	Response *Response
	Err      error
}

// Dispatcher fans events out to subscribed hooks in the background so the
// paint loop never waits on an external program.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
	wg       sync.WaitGroup
	// OnResult, if set, is called once per hook run.
	OnResult func(Result)
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(m *Manager, e *Executor) *Dispatcher {
	return &Dispatcher{manager: m, executor: e}
}

// Notify starts every hook subscribed to ev.Event and returns immediately.
// It returns the number of hooks started.
func (d *Dispatcher) Notify(ev Event) int {
	hooks := d.manager.For(ev.Event)
	for _, h := range hooks {
		d.wg.Add(1)
		go func(h *Hook) {
			defer d.wg.Done()
			resp, err := d.executor.Execute(h, &ev)
			switch {
			case err != nil:
				log.Printf("Hook %s failed: %v", h.Manifest.Name, err)
			case !resp.Success:
				log.Printf("Hook %s reported failure: %s", h.Manifest.Name, resp.Error)
			}
			if d.OnResult != nil {
				d.OnResult(Result{Hook: h.Manifest.Name, Response: resp, Err: err})
			}
		}(h)
	}
	return len(hooks)
}

// Wait blocks until all started hooks have finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
