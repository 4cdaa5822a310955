package session

import "sync"

// CallState is the lifecycle state of a remote call.
type CallState int

const (
	Idle CallState = iota
	InFlight
	Succeeded
	Failed
)

func (s CallState) String() string {
	switch s {
	case Idle:
		return "idle"
	case InFlight:
		return "in_flight"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Call tracks one kind of remote call: Idle -> InFlight -> Succeeded|Failed.
// A terminal call may start again.
type Call struct {
	mu    sync.Mutex
	state CallState
	err   error
}

// Begin moves the call in flight and clears the previous error.
func (c *Call) Begin() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = InFlight
	c.err = nil
}

// Finish moves the call to Succeeded when err is nil, otherwise to Failed.
func (c *Call) Finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state = Failed
		c.err = err
		return
	}
	c.state = Succeeded
}

// State returns the current state.
func (c *Call) State() CallState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the error of a failed call, or nil.
func (c *Call) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}
