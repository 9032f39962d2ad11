package commands

// SetNonInteractive makes rm behave as if stdin were not a terminal.
func (c *RmCmd) SetNonInteractive() {
	c.interactive = func() bool { return false }
}
