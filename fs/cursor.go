package fs

// Cursor carries the per-instance state every backend shares: the lifecycle
// state machine, the current working directory and the directory stack.
// Backends embed a Cursor and consult it at the top of each operation; the
// zero value is ready to use and starts Uninitialized.
type Cursor struct {
	state OpenState
	cwd   Path
	stack []Path
}

// State returns the current lifecycle state.
func (c *Cursor) State() OpenState {
	return c.state
}

// MarkOpen transitions the cursor to Open. It fails with ErrClosed when the
// store has already been closed; reopening is not allowed.
func (c *Cursor) MarkOpen() error {
	if c.state == Closed {
		return ErrClosed
	}
	if c.state == Uninitialized {
		c.cwd = Root()
	}
	c.state = Open
	return nil
}

// MarkClosed transitions the cursor to Closed. Closing twice fails with
// ErrClosed.
func (c *Cursor) MarkClosed() error {
	if c.state == Closed {
		return ErrClosed
	}
	c.state = Closed
	return nil
}

// Guard returns ErrNotOpen unless the cursor is Open. Every operation other
// than Open and Close calls this first.
func (c *Cursor) Guard() error {
	if c.state != Open {
		return ErrNotOpen
	}
	return nil
}

// WorkingDir returns the current working directory.
func (c *Cursor) WorkingDir() Path {
	return c.cwd
}

// Resolve resolves a path string against the current working directory.
// Relative operations always route through here; backends never concatenate
// raw strings.
func (c *Cursor) Resolve(path string) Path {
	return c.cwd.Resolve(path)
}

// PushDir pushes the current directory onto the stack and makes dir the new
// current directory.
func (c *Cursor) PushDir(dir Path) {
	c.stack = append(c.stack, c.cwd)
	c.cwd = dir
}

// PopDir restores the directory at the top of the stack, or resets to the
// root when the stack is empty.
func (c *Cursor) PopDir() {
	if n := len(c.stack); n > 0 {
		c.cwd = c.stack[n-1]
		c.stack = c.stack[:n-1]
		return
	}
	c.cwd = Root()
}
